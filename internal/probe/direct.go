package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const userAgent = "sitewatch-probe/1.0"

// DirectProber issues a GET against the target itself.
type DirectProber struct {
	Timeout time.Duration
	// Transport is optional; tests swap it out.
	Transport http.RoundTripper
	// Diagnose classifies the host via DNS when the request fails at transport level.
	Diagnose bool
}

func NewDirectProber(timeout time.Duration) *DirectProber {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DirectProber{Timeout: timeout, Diagnose: true}
}

func (d *DirectProber) client() *http.Client {
	// one-shot jar so sites that bounce through a cookie-setting redirect still resolve
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return &http.Client{
		Jar:       jar,
		Timeout:   d.Timeout,
		Transport: d.Transport,
	}
}

func (d *DirectProber) Probe(ctx context.Context, target string) Result {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return offline(start, 0, "bad_request: "+err.Error())
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client().Do(req)
	if err != nil {
		res := offline(start, 0, "http_error: "+err.Error())
		if d.Diagnose {
			if class := classifyHost(ctx, hostOf(target)); class != "" {
				res.Reason = fmt.Sprintf("%s dns=%s", res.Reason, class)
			}
		}
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return Result{
		Status:         statusFor(resp.StatusCode),
		ResponseTimeMS: elapsedMS(start),
		HTTPStatus:     resp.StatusCode,
		Reason:         resp.Status,
	}
}

// hostOf pulls the hostname from a URL string
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return strings.TrimSpace(raw)
	}
	return u.Hostname()
}
