// Package views maintains cosmetic per-article view counts for the life of
// the process.
package views

import (
	"math/rand/v2"
	"sync"
)

const (
	seedMin      = 100
	seedSpan     = 10000
	incrementMax = 3
)

// Counter tracks pseudo-random view counts keyed by article URL. Counts are
// monotonically non-decreasing per URL and reset only by process restart.
type Counter struct {
	mu     sync.Mutex
	counts map[string]int
	intN   func(n int) int
}

func NewCounter() *Counter {
	return &Counter{
		counts: make(map[string]int),
		intN:   rand.IntN,
	}
}

// Record registers a view of url and returns the current count. The first
// call seeds a random baseline in [100,10100]; every later call adds a
// random increment in [1,3].
func (c *Counter) Record(url string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count, ok := c.counts[url]
	if !ok {
		count = c.intN(seedSpan) + seedMin
	} else {
		count += c.intN(incrementMax) + 1
	}
	c.counts[url] = count
	return count
}
