package gamepad

import (
	"context"
	"time"
)

// PollInterval is the fixed polling period, matching the nominal simulation
// tick rate.
const PollInterval = 16 * time.Millisecond

// Poller drives a mapper from a fixed-interval timer. The timer goroutine is
// the only place mapper state is touched.
type Poller struct {
	mapper   *Mapper
	interval time.Duration
}

// NewPoller returns a poller at the default interval.
func NewPoller(m *Mapper) *Poller {
	return &Poller{mapper: m, interval: PollInterval}
}

// SetInterval overrides the polling period, for tests.
func (p *Poller) SetInterval(d time.Duration) {
	if d > 0 {
		p.interval = d
	}
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.mapper.Poll()
		}
	}
}
