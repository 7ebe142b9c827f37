package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-journal/internal/metrics"
	"github.com/i474232898/weather-journal/internal/weather"
)

// Policy controls how outbound provider calls are guarded. There are no retries:
// a failed call is reported to the caller as-is.
type Policy struct {
	// Timeout bounds a single call (0 = rely on the client/context).
	Timeout time.Duration
	// BreakerMaxFailures is the number of consecutive failures that opens the circuit (0 = no breaker).
	BreakerMaxFailures uint32
	// BreakerOpenTimeout is how long the circuit stays open before probing again.
	BreakerOpenTimeout time.Duration
}

// NewHTTPClient returns the client shared by all providers. It carries no timeout
// of its own; each call is bounded by Policy.Timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{}
}

var (
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// upstream is one external endpoint with its own breaker and metrics label.
type upstream struct {
	name    string
	client  *http.Client
	timeout time.Duration
	circuit *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
}

func newUpstream(name string, client *http.Client, policy Policy, m *metrics.Metrics) *upstream {
	u := &upstream{
		name:    name,
		client:  client,
		timeout: policy.Timeout,
		metrics: m,
	}
	if policy.BreakerMaxFailures > 0 {
		maxFailures := policy.BreakerMaxFailures
		u.circuit = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Interval:    1 * time.Minute,
			Timeout:     policy.BreakerOpenTimeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= maxFailures
			},
			// Client errors (bad key, bad params) and calls abandoned by the caller
			// say nothing about the provider's health.
			IsSuccessful: func(err error) bool {
				if errors.Is(err, context.Canceled) {
					return true
				}
				var upErr *weather.UpstreamError
				if errors.As(err, &upErr) {
					return upErr.StatusCode < 500
				}
				return err == nil
			},
		})
	}
	return u
}

// getJSON issues a GET to rawURL and decodes a 2xx JSON body into out.
// A non-2xx status becomes a *weather.UpstreamError carrying the status code.
func (u *upstream) getJSON(ctx context.Context, rawURL string, out any) error {
	if u.client == nil {
		return errNoHTTPClient
	}
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	call := func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := u.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, &weather.UpstreamError{Service: u.name, StatusCode: resp.StatusCode}
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("%s: decode response: %w", u.name, err)
		}
		return nil, nil
	}

	start := time.Now()
	var err error
	if u.circuit != nil {
		_, err = u.circuit.Execute(call)
	} else {
		_, err = call()
	}
	u.metrics.ObserveUpstream(u.name, outcome(err), time.Since(start))

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", u.name, errCircuitOpen)
	}
	return err
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var upErr *weather.UpstreamError
	switch {
	case errors.As(err, &upErr):
		return "status_" + strconv.Itoa(upErr.StatusCode/100) + "xx"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
