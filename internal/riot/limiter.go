package riot

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Dev key allows 100 requests per 2 minutes; stay under it.
	requestsPer2Min = 90

	// spreadInterval paces requests evenly across the long window instead
	// of bursting and then starving.
	spreadInterval = 2 * time.Minute / requestsPer2Min
)

// pacer spreads outbound requests with a burst-1 token bucket. The clock and
// sleep functions are injectable so pacing is testable without real delays.
type pacer struct {
	limiter *rate.Limiter
	now     func() time.Time
	sleep   func(time.Duration)
}

func newPacer() *pacer {
	return &pacer{
		limiter: rate.NewLimiter(rate.Every(spreadInterval), 1),
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// wait blocks until the next request slot. Returns early if ctx is done.
func (p *pacer) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r := p.limiter.ReserveN(p.now(), 1)
	if delay := r.DelayFrom(p.now()); delay > 0 {
		p.sleep(delay)
	}
	return ctx.Err()
}
