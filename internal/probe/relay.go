package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// RelayProber asks a third-party fetch relay (allorigins-style) to load the
// target on our behalf: GET <Endpoint>?url=<target>, answered with
// {"status":{"http_code":200}}. Useful when the checking host is firewalled.
type RelayProber struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

func NewRelayProber(endpoint, apiKey string, timeout time.Duration) *RelayProber {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RelayProber{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Client:   &http.Client{Timeout: timeout},
	}
}

type relayPayload struct {
	Status struct {
		HTTPCode int `json:"http_code"`
	} `json:"status"`
}

func (r *RelayProber) Probe(ctx context.Context, target string) Result {
	start := time.Now()
	u, err := url.Parse(r.Endpoint)
	if err != nil {
		return offline(start, 0, "relay_config: "+err.Error())
	}
	q := u.Query()
	q.Set("url", target)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return offline(start, 0, "relay_request: "+err.Error())
	}
	req.Header.Set("Accept", "application/json")
	if r.APIKey != "" {
		req.Header.Set("X-API-Key", r.APIKey)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return offline(start, 0, "relay_error: "+err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return offline(start, 0, "relay_status: "+resp.Status)
	}

	var p relayPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&p); err != nil {
		return offline(start, 0, "relay_decode: "+err.Error())
	}
	return Result{
		Status:         statusFor(p.Status.HTTPCode),
		ResponseTimeMS: elapsedMS(start),
		HTTPStatus:     p.Status.HTTPCode,
		Reason:         fmt.Sprintf("relay http_code=%d", p.Status.HTTPCode),
	}
}
