package probe

import (
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var errInvalidConfig = errors.New("invalid probe config")

const (
	ModeDirect = "direct"
	ModeRelay  = "relay"
	ModeTask   = "task"
)

type Options struct {
	Mode          string
	Timeout       time.Duration
	RelayURL      string
	TaskAPIURL    string
	APIKey        string
	RetryAttempts int
	RetryBackoff  time.Duration
}

// New builds the prober selected by opts.Mode, wrapped in a RetryProber when
// more than one attempt is configured.
func New(opts Options) (Prober, error) {
	var p Prober
	switch strings.ToLower(strings.TrimSpace(opts.Mode)) {
	case "", ModeDirect:
		p = NewDirectProber(opts.Timeout)
	case ModeRelay:
		if err := checkEndpoint(opts.RelayURL); err != nil {
			return nil, errors.Wrap(err, "RELAY_URL")
		}
		p = NewRelayProber(opts.RelayURL, opts.APIKey, opts.Timeout)
	case ModeTask:
		if err := checkEndpoint(opts.TaskAPIURL); err != nil {
			return nil, errors.Wrap(err, "TASK_API_URL")
		}
		p = NewTaskProber(opts.TaskAPIURL, opts.APIKey, opts.Timeout)
	default:
		return nil, errors.Wrapf(errInvalidConfig, "unknown probe mode %q", opts.Mode)
	}

	if opts.RetryAttempts > 1 {
		p = &RetryProber{Inner: p, Attempts: opts.RetryAttempts, Backoff: opts.RetryBackoff}
	}
	return p, nil
}

func checkEndpoint(raw string) error {
	if raw == "" {
		return errors.Wrap(errInvalidConfig, "endpoint must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Wrapf(errInvalidConfig, "endpoint %q is not an http(s) URL", raw)
	}
	return nil
}
