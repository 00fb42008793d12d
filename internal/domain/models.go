package domain

import (
	"fmt"
	"strings"
	"time"
)

type SiteID int64

type Status string

const (
	StatusOnline  Status = "ONLINE"
	StatusOffline Status = "OFFLINE"
)

// ParseStatus accepts "online"/"offline" in any case.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusOnline:
		return StatusOnline, nil
	case StatusOffline:
		return StatusOffline, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// MonitoredSite is one client site under availability checks.
// Notified is true only while Status is OFFLINE and the offline email for
// the current streak has gone out.
type MonitoredSite struct {
	ID             SiteID    `json:"id"`
	Name           string    `json:"clientName"`
	URL            string    `json:"clientUrl"`
	Status         Status    `json:"status"`
	ResponseTimeMS *int64    `json:"responseTime"` // nil until the first probe
	Keywords       []string  `json:"keywords"`
	Notified       bool      `json:"emailEnvied"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SiteUpdate carries the fields of a partial update; nil fields are left untouched.
type SiteUpdate struct {
	Name           *string   `json:"clientName,omitempty"`
	URL            *string   `json:"clientUrl,omitempty"`
	Status         *Status   `json:"status,omitempty"`
	ResponseTimeMS *int64    `json:"responseTime,omitempty"`
	Keywords       *[]string `json:"keywords,omitempty"`
	Notified       *bool     `json:"emailEnvied,omitempty"`
}

func (u SiteUpdate) Empty() bool {
	return u.Name == nil && u.URL == nil && u.Status == nil &&
		u.ResponseTimeMS == nil && u.Keywords == nil && u.Notified == nil
}

// Apply merges the non-nil fields into s.
func (u SiteUpdate) Apply(s *MonitoredSite) {
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.URL != nil {
		s.URL = *u.URL
	}
	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.ResponseTimeMS != nil {
		v := *u.ResponseTimeMS
		s.ResponseTimeMS = &v
	}
	if u.Keywords != nil {
		s.Keywords = append([]string(nil), (*u.Keywords)...)
	}
	if u.Notified != nil {
		s.Notified = *u.Notified
	}
}

// Clone returns a deep copy so stores never hand out shared slices or pointers.
func (s MonitoredSite) Clone() MonitoredSite {
	out := s
	if s.ResponseTimeMS != nil {
		v := *s.ResponseTimeMS
		out.ResponseTimeMS = &v
	}
	if s.Keywords != nil {
		out.Keywords = append([]string(nil), s.Keywords...)
	}
	return out
}

type AdminID int64

// AdministratorContact receives offline notifications. Only Email matters to the checker.
type AdministratorContact struct {
	ID    AdminID `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone string  `json:"phone,omitempty"`
}
