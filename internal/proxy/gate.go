package proxy

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Gate bounds the number of concurrently active client connections. One
// unit is acquired before a connection starts work and released exactly
// once when its handler returns, on every exit path.
type Gate struct {
	sem *semaphore.Weighted
}

func NewGate(capacity int64) *Gate {
	return &Gate{sem: semaphore.NewWeighted(capacity)}
}

// Acquire blocks until a slot is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

func (g *Gate) Release() {
	g.sem.Release(1)
}
