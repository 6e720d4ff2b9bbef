/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package ratelimit throttles per-connection inbound event rates, generalizing
// the per-IP token bucket map shape used for HTTP requests elsewhere in the
// corpus (golang.org/x/time/rate, one bucket per key, guarded by a mutex) to
// one bucket per websocket connection.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter hands out one token-bucket per connection id, refilling at r
// events per second up to a burst of burst.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

// New builds a Limiter allowing burst events immediately and maxEvents
// more per window thereafter.
func New(maxEvents int, window float64) *Limiter {
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		r:       rate.Limit(float64(maxEvents) / window),
		burst:   maxEvents,
	}
}

func (l *Limiter) bucket(connID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[connID]
	if !ok {
		b = rate.NewLimiter(l.r, l.burst)
		l.buckets[connID] = b
	}
	return b
}

// Allow reports whether connID may send another event right now.
func (l *Limiter) Allow(connID string) bool {
	return l.bucket(connID).Allow()
}

// Drop removes connID's bucket once its connection closes, so the map
// doesn't grow unbounded across a long-running server (§6.5 cleanup).
func (l *Limiter) Drop(connID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, connID)
}
