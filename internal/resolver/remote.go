package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/pkarls/schackbord/internal/game"
)

// Remote calls an external resolver over HTTP. The service is expected to
// accept POST /resolve with the current position and the two-label move
// request, and to answer with the resulting position text. A 422 means the
// move was refused; 5xx responses are retried with backoff.
type Remote struct {
	baseURL string
	http    *fasthttp.Client
	logger  *zap.Logger

	timeout  time.Duration
	retryMax int
}

type RemoteOption func(*Remote)

func WithTimeout(d time.Duration) RemoteOption {
	return func(r *Remote) { r.timeout = d }
}

func WithRetry(max int) RemoteOption {
	return func(r *Remote) { r.retryMax = max }
}

func NewRemote(baseURL string, logger *zap.Logger, opts ...RemoteOption) *Remote {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Remote{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:     &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 16},
		logger:   logger,
		timeout:  10 * time.Second,
		retryMax: 3,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type resolveRequest struct {
	Position string `json:"position"`
	Move     string `json:"move"`
}

type resolveResponse struct {
	Position string `json:"position"`
}

func (r *Remote) Resolve(ctx context.Context, positionText string, req game.MoveRequest) (string, error) {
	payload, err := json.Marshal(resolveRequest{Position: positionText, Move: req.String()})
	if err != nil {
		return "", fmt.Errorf("marshal resolve request: %w", err)
	}

	hreq := fasthttp.AcquireRequest()
	hresp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(hreq)
		fasthttp.ReleaseResponse(hresp)
	}()

	hreq.Header.SetMethod(fasthttp.MethodPost)
	hreq.SetRequestURI(r.baseURL + "/resolve")
	hreq.Header.SetContentType("application/json")
	hreq.SetBody(payload)

	attempts := r.retryMax
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := r.http.DoDeadline(hreq, hresp, r.computeDeadline(ctx)); err != nil {
			lastErr = fmt.Errorf("resolver request failed: %w", err)
			if attempt == attempts {
				return "", lastErr
			}
			if err := sleepWithContext(ctx, backoffDuration(attempt)); err != nil {
				return "", lastErr
			}
			continue
		}

		status := hresp.StatusCode()
		switch {
		case status == fasthttp.StatusUnprocessableEntity:
			return "", fmt.Errorf("%w: %q", game.ErrMoveRejected, req.String())
		case status >= 200 && status < 300:
			var out resolveResponse
			if err := json.Unmarshal(hresp.Body(), &out); err != nil {
				return "", fmt.Errorf("decode resolver response: %w", err)
			}
			return out.Position, nil
		default:
			lastErr = fmt.Errorf("resolver error: status=%d body=%s", status, truncate(string(hresp.Body()), 256))
			if attempt == attempts || !shouldRetryStatus(status) {
				return "", lastErr
			}
			r.logger.Warn("resolver retry", zap.Int("attempt", attempt), zap.Int("status", status))
			if err := sleepWithContext(ctx, backoffDuration(attempt)); err != nil {
				return "", lastErr
			}
		}
	}
	return "", lastErr
}

func (r *Remote) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(r.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
