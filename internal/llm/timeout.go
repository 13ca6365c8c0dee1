package llm

import (
	"context"
	"time"
)

// TimeoutProvider is a decorator that bounds each call with a deadline.
// Calls are never retried.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider so every Generate call is bounded by d.
// A non-positive d disables the bound.
func WithTimeout(p Provider, d time.Duration) Provider {
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if t.timeout <= 0 {
		return t.inner.Generate(ctx, req)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type result struct {
		resp *Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := t.inner.Generate(ctx, req)
		done <- result{resp, err}
	}()

	select {
	case r := <-done:
		if r.err != nil && ctx.Err() != nil && KindOf(r.err) == "" {
			return nil, &ServiceError{Kind: KindNetwork, Err: ctx.Err()}
		}
		return r.resp, r.err
	case <-ctx.Done():
		return nil, &ServiceError{Kind: KindNetwork, Err: ctx.Err()}
	}
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
