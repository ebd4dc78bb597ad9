package api

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

var ErrTooManyCalls = errors.New("too many calls")

type Cache interface {
	Get([48]byte) (*rate.Limiter, bool)
	Add([48]byte, *rate.Limiter) bool
	Purge()
}

// Limitter throttles getHeader per proposer public key. Each key gets its own
// token bucket, kept in a bounded cache.
type Limitter struct {
	c         Cache
	RateLimit rate.Limit
	Burst     int
}

func NewLimitter(ratel int, burst int, c Cache) *Limitter {
	return &Limitter{
		c:         c,
		RateLimit: rate.Limit(ratel),
		Burst:     burst,
	}
}

func (l *Limitter) Allow(ctx context.Context, pubkey [48]byte) error {
	lim, ok := l.c.Get(pubkey)
	if !ok {
		lim = rate.NewLimiter(l.RateLimit, l.Burst)
		l.c.Add(pubkey, lim)
	}

	if !lim.Allow() {
		return ErrTooManyCalls
	}

	return nil
}

// Reset drops all buckets.
func (l *Limitter) Reset() {
	l.c.Purge()
}
