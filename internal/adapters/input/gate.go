package input

import (
	"time"

	"golang.org/x/time/rate"
)

// DefaultCooldown is the minimum interval between accepted moves
const DefaultCooldown = 300 * time.Millisecond

// Gate drops moves that arrive sooner than the cooldown after the last
// accepted one. It never queues: a rejected move is simply discarded.
type Gate struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// NewGate builds a gate; a non-positive cooldown accepts every move
func NewGate(cooldown time.Duration) *Gate {
	limit := rate.Inf
	if cooldown > 0 {
		limit = rate.Every(cooldown)
	}
	return &Gate{
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}
}

// NewGateWithClock is NewGate with an injectable time source
func NewGateWithClock(cooldown time.Duration, now func() time.Time) *Gate {
	g := NewGate(cooldown)
	g.now = now
	return g
}

// Allow reports whether a move may be submitted now
func (g *Gate) Allow() bool {
	return g.limiter.AllowN(g.now(), 1)
}
