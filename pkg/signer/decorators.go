package signer

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
)

// Circuit breaker defaults: the breaker opens once more than
// DefaultMaxFailingRequests requests were seen in the current window and at
// least DefaultFailingRatio of them failed.
const (
	DefaultMaxFailingRequests = 10
	DefaultFailingRatio       = 0.6
)

const operationSign = "sign"

// Observed records the outcome and latency of every Sign call.
type Observed struct {
	next    Signer
	metrics Metrics
}

// NewObserved wraps next with metrics.
func NewObserved(next Signer, metrics Metrics) *Observed {
	return &Observed{next: next, metrics: metrics}
}

func (o *Observed) Sign(ctx context.Context, req Request) (*Response, error) {
	started := time.Now()
	resp, err := o.next.Sign(ctx, req)
	o.metrics.Observe(operationSign, err, started)
	return resp, err
}

// RateLimited spaces Sign calls to at most rps per second.
type RateLimited struct {
	next Signer
	rl   ratelimit.Limiter
}

// NewRateLimited wraps next with a limiter allowing rps calls per second.
// A non-positive rps disables limiting.
func NewRateLimited(next Signer, rps int) *RateLimited {
	if rps <= 0 {
		return &RateLimited{next: next, rl: ratelimit.NewUnlimited()}
	}
	return &RateLimited{next: next, rl: ratelimit.New(rps)}
}

func (r *RateLimited) Sign(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.rl.Take()
	return r.next.Sign(ctx, req)
}

// CircuitBreaker fails fast with gobreaker.ErrOpenState while the wrapped
// signer keeps failing.
type CircuitBreaker struct {
	next Signer
	cb   *gobreaker.CircuitBreaker
}

// NewCircuitBreaker wraps next with a breaker named name. A zero
// maxFailingRequests or failingRatio selects the default.
func NewCircuitBreaker(next Signer, name string, maxFailingRequests uint32, failingRatio float64) *CircuitBreaker {
	if maxFailingRequests == 0 {
		maxFailingRequests = DefaultMaxFailingRequests
	}
	if failingRatio == 0 {
		failingRatio = DefaultFailingRatio
	}

	return &CircuitBreaker{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: name,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				ratio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests > maxFailingRequests && ratio >= failingRatio
			},
		}),
	}
}

func (c *CircuitBreaker) Sign(ctx context.Context, req Request) (*Response, error) {
	out, err := c.cb.Execute(func() (interface{}, error) {
		return c.next.Sign(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return out.(*Response), nil
}

// State reports the breaker state.
func (c *CircuitBreaker) State() gobreaker.State {
	return c.cb.State()
}
