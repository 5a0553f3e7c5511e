package probe

import (
	"context"
	"net/url"
)

// Response is the raw outcome of a single fetch.
//
// Fields:
// - StatusCode: HTTP status code; 0 when the request never completed.
// - LatencyMS: wall time of the request including reading the body.
type Response struct {
	StatusCode int
	Body       []byte
	LatencyMS  float64
}

// Getter fetches a status endpoint. Source adapters depend on this rather than
// on *http.Client so they can be tested without a network.
type Getter interface {
	Get(ctx context.Context, endpoint string, query url.Values) (Response, error)
}
