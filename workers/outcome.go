package workers

import (
	"math/rand/v2"
	"time"

	"github.com/maharshi0143/Payment-Gateway/models"
)

// OutcomeProvider decides whether a settlement attempt succeeds. The
// implementation is chosen at startup: Bernoulli draws in production,
// a forced outcome in test mode.
type OutcomeProvider interface {
	Settle(method string) bool
}

// BernoulliOutcome simulates bank acceptance rates per payment method:
// 90% success for UPI, 95% for cards.
type BernoulliOutcome struct{}

func (BernoulliOutcome) Settle(method string) bool {
	if method == models.MethodUPI {
		return rand.Float64() < 0.90
	}
	return rand.Float64() < 0.95
}

// FixedOutcome forces every settlement to the configured result.
type FixedOutcome struct {
	Success bool
}

func (f FixedOutcome) Settle(string) bool { return f.Success }

// DelayFn yields the simulated settlement latency for one job.
type DelayFn func() time.Duration

// RandomDelay returns a DelayFn drawing uniformly from [min, max].
func RandomDelay(min, max time.Duration) DelayFn {
	return func() time.Duration {
		if max <= min {
			return min
		}
		return min + rand.N(max-min)
	}
}

// FixedDelay returns a DelayFn with a constant latency.
func FixedDelay(d time.Duration) DelayFn {
	return func() time.Duration { return d }
}
