package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultTimeout = 5 * time.Second
	maxBodyBytes   = 4 << 20
)

var ErrStatus = errors.New("unexpected http status")

type HTTPGetter struct {
	Client    *http.Client
	UserAgent string
}

func NewHTTPGetter(timeout time.Duration) *HTTPGetter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPGetter{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: "statuswatcher/1.0",
	}
}

// Get issues a GET with query merged into the endpoint's own query string.
// Non-2xx responses are returned together with ErrStatus.
func (h *HTTPGetter) Get(ctx context.Context, endpoint string, query url.Values) (Response, error) {
	start := time.Now()
	u, err := url.Parse(endpoint)
	if err != nil {
		return Response{}, fmt.Errorf("parse endpoint: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			q.Del(k)
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Accept", "application/json")
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return Response{LatencyMS: sinceMS(start)}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	out := Response{StatusCode: resp.StatusCode, Body: body, LatencyMS: sinceMS(start)}
	if err != nil {
		return out, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	return out, nil
}

func sinceMS(start time.Time) float64 {
	return time.Since(start).Seconds() * 1000
}
