// Package clean provides the lazy cleaned-source cache that sits above a
// raw document, invalidated whenever an edit is applied.
package clean

import "sync"

// Cleaner computes a cleaned representation of whatever source a concrete
// document type tracks. Implementations live in pkg/tsdoc.
type Cleaner interface {
	CleanSource() (string, error)
}

// CleanableDocument is an embeddable lazy cache: owns an optional
// cleaned-source cache invalidated whenever a change is applied. Guarded
// by a mutex rather than a single-flight group since the core runs under
// a single-threaded cooperative event loop — there is no concurrent
// caller to coalesce.
type CleanableDocument struct {
	mu      sync.Mutex
	cached  string
	valid   bool
	cleaner Cleaner
}

// Init wires the concrete cleaner. Must be called once before CleanedSource.
func (c *CleanableDocument) Init(cleaner Cleaner) {
	c.cleaner = cleaner
}

// Invalidate drops the cache; the next CleanedSource call recomputes it.
func (c *CleanableDocument) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.cached = ""
}

// Refresh overwrites the cache with a value the caller has already
// computed, without going through Cleaner.CleanSource. Used when an
// incremental update rebuilds the cleaned source more cheaply than a full
// CleanSource call would (e.g. splicing a mapping instead of rewalking the
// whole tree): Invalidate alone would let the next CleanedSource call throw
// that incremental work away and recompute from scratch.
func (c *CleanableDocument) Refresh(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = s
	c.valid = true
}

// CleanedSource returns the cached cleaned source, computing it on first
// access (or after the last Invalidate).
func (c *CleanableDocument) CleanedSource() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid {
		return c.cached, nil
	}
	s, err := c.cleaner.CleanSource()
	if err != nil {
		return "", err
	}
	c.cached = s
	c.valid = true
	return s, nil
}
