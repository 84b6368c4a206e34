package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"takemeto75/logger"
	"takemeto75/metrics"
)

const maxErrorBody = 512

// upstream is the HTTP plumbing shared by every provider client: a
// token-bucket limiter, request metrics and status checking.
type upstream struct {
	name       string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        logger.Logger
	metrics    *metrics.Metrics
}

func newUpstream(name string, perSecond float64, log logger.Logger, m *metrics.Metrics) upstream {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return upstream{
		name:       name,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(limit, burst),
		log:        log.With("provider", name),
		metrics:    m,
	}
}

// StatusError is a non-2xx upstream reply.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error (%d): %s", e.Provider, e.Status, e.Body)
}

// do sends req and returns the body of a 2xx response.
func (u upstream) do(ctx context.Context, req *http.Request) ([]byte, error) {
	if err := u.limiter.Wait(ctx); err != nil {
		u.metrics.Upstream(u.name, metrics.OutcomeError)
		return nil, fmt.Errorf("%s rate limit: %w", u.name, err)
	}

	resp, err := u.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		u.metrics.Upstream(u.name, metrics.OutcomeError)
		return nil, fmt.Errorf("%s request: %w", u.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		u.metrics.Upstream(u.name, metrics.OutcomeError)
		return nil, fmt.Errorf("%s read body: %w", u.name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		u.metrics.Upstream(u.name, metrics.OutcomeError)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &StatusError{Provider: u.name, Status: resp.StatusCode, Body: string(body)}
	}

	u.metrics.Upstream(u.name, metrics.OutcomeOK)
	return body, nil
}

// postJSON marshals payload, sends it with headers and decodes the reply into out.
func (u upstream) postJSON(ctx context.Context, url string, headers map[string]string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	respBody, err := u.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", u.name, err)
	}
	return nil
}
