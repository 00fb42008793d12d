package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/domain"
	"github.com/hamed0406/sitewatch/internal/repo"
)

type createSitePayload struct {
	Name     string   `json:"clientName"`
	URL      string   `json:"clientUrl"`
	Keywords []string `json:"keywords"`
	Status   string   `json:"status"`
}

func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.Sites.ListSites(r.Context())
	if err != nil {
		s.Logger.Error("list_sites_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list error")
		return
	}
	if sites == nil {
		sites = []domain.MonitoredSite{}
	}
	writeJSON(w, http.StatusOK, sites)
}

func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	site, err := s.Sites.GetSite(r.Context(), domain.SiteID(id))
	if err != nil {
		s.storeError(w, "get_site_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (s *Server) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	var p createSitePayload
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "clientName is required")
		return
	}
	if !isValidHTTPURL(p.URL) {
		writeError(w, http.StatusBadRequest, "clientUrl must be an http(s) URL")
		return
	}
	status := domain.StatusOnline
	if p.Status != "" {
		st, err := domain.ParseStatus(p.Status)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		status = st
	}

	site := &domain.MonitoredSite{
		Name:     name,
		URL:      normalizeHTTPURL(p.URL),
		Status:   status,
		Keywords: cleanKeywords(p.Keywords),
	}
	if err := s.Sites.CreateSite(r.Context(), site); err != nil {
		s.Logger.Error("create_site_failed", zap.String("url", site.URL), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not add")
		return
	}
	s.Logger.Info("site_added", zap.Int64("site_id", int64(site.ID)), zap.String("url", site.URL))
	writeJSON(w, http.StatusCreated, site)
}

// handleUpdateSite edits the operator-owned fields. Response time and the
// notified flag belong to the checker and are ignored here.
func (s *Server) handleUpdateSite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var u domain.SiteUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	u.ResponseTimeMS, u.Notified = nil, nil

	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "clientName must not be empty")
			return
		}
		u.Name = &name
	}
	if u.URL != nil {
		if !isValidHTTPURL(*u.URL) {
			writeError(w, http.StatusBadRequest, "clientUrl must be an http(s) URL")
			return
		}
		norm := normalizeHTTPURL(*u.URL)
		u.URL = &norm
	}
	if u.Keywords != nil {
		kw := cleanKeywords(*u.Keywords)
		u.Keywords = &kw
	}
	if u.Status != nil {
		st, err := domain.ParseStatus(string(*u.Status))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		u.Status = &st
		if st == domain.StatusOnline {
			reset := false
			u.Notified = &reset
		}
	}

	site, err := s.Sites.UpdateSite(r.Context(), domain.SiteID(id), u)
	if err != nil {
		s.storeError(w, "update_site_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (s *Server) handleDeleteSite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Sites.DeleteSite(r.Context(), domain.SiteID(id)); err != nil {
		s.storeError(w, "delete_site_failed", err)
		return
	}
	s.Logger.Info("site_deleted", zap.Int64("site_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// storeError maps repo.ErrNotFound to 404 and logs anything else as a 500.
func (s *Server) storeError(w http.ResponseWriter, event string, err error) {
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.Logger.Error(event, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "store error")
}
