package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hamed0406/sitewatch/internal/domain"
)

const (
	taskCompleted = "COMPLETED"
	taskFailed    = "FAILED"
)

// TaskProber delegates the check to an asynchronous task runner:
// POST <BaseURL>/tasks {"url": target} -> {"id": "..."}, then
// GET <BaseURL>/tasks/<id> -> {"status": "PENDING"|"RUNNING"|"COMPLETED"|"FAILED"}
// until the task settles or ctx runs out.
type TaskProber struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	// Poll tuning; zero values get defaults.
	PollInitial time.Duration
	PollMax     time.Duration
	Timeout     time.Duration
}

func NewTaskProber(baseURL, apiKey string, timeout time.Duration) *TaskProber {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TaskProber{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		APIKey:      apiKey,
		Client:      &http.Client{Timeout: 10 * time.Second},
		PollInitial: 500 * time.Millisecond,
		PollMax:     5 * time.Second,
		Timeout:     timeout,
	}
}

type taskCreated struct {
	ID string `json:"id"`
}

type taskState struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

var errTaskPending = errors.New("task pending")

func (t *TaskProber) Probe(ctx context.Context, target string) Result {
	start := time.Now()
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	id, err := t.submit(ctx, target)
	if err != nil {
		return offline(start, 0, "task_submit: "+err.Error())
	}

	var state string
	poll := func() error {
		s, err := t.status(ctx, id)
		if err != nil {
			return err
		}
		switch strings.ToUpper(s) {
		case taskCompleted, taskFailed:
			state = strings.ToUpper(s)
			return nil
		}
		return errTaskPending
	}

	if err := backoff.Retry(poll, backoff.WithContext(t.policy(), ctx)); err != nil {
		return offline(start, 0, fmt.Sprintf("task_poll %s: %v", id, err))
	}
	if state != taskCompleted {
		return offline(start, 0, "task "+id+" "+state)
	}
	return Result{
		Status:         domain.StatusOnline,
		ResponseTimeMS: elapsedMS(start),
		Reason:         "task " + id + " " + state,
	}
}

func (t *TaskProber) policy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if t.PollInitial > 0 {
		b.InitialInterval = t.PollInitial
	}
	if t.PollMax > 0 {
		b.MaxInterval = t.PollMax
	}
	// the context deadline bounds the loop
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func (t *TaskProber) submit(ctx context.Context, target string) (string, error) {
	body, _ := json.Marshal(map[string]string{"url": target})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/tasks", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	t.authorize(req)

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("create task: %s", resp.Status)
	}
	var c taskCreated
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return "", fmt.Errorf("decode task: %w", err)
	}
	if c.ID == "" {
		return "", errors.New("create task: empty id")
	}
	return c.ID, nil
}

func (t *TaskProber) status(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.BaseURL+"/tasks/"+url.PathEscape(id), nil)
	if err != nil {
		return "", backoff.Permanent(err)
	}
	t.authorize(req)

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", err // transient, keep polling
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", backoff.Permanent(fmt.Errorf("task %s not found", id))
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("task status: %s", resp.Status)
	}
	var s taskState
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decode status: %w", err))
	}
	return s.Status, nil
}

func (t *TaskProber) authorize(req *http.Request) {
	if t.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.APIKey)
	}
}
