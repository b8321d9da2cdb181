package cache

import (
	"sync"
	"time"

	"flighttrack-service/internal/domain/entity"
)

// Outcome is the three-way result of a cache lookup.
type Outcome int

const (
	Miss Outcome = iota
	Hit
	HitNotFound
)

type entry struct {
	flight    *entity.ValidatedFlight // nil marks the not-found sentinel
	expiresAt time.Time
}

// ValidationCache caches flight validation results per (flight number, date)
// key. Entries are derived data, never authoritative: correctness does not
// depend on an entry being present, and last-write-wins races are acceptable.
type ValidationCache struct {
	mu            sync.Mutex
	entries       map[string]entry
	valueTTL      time.Duration
	notFoundTTL   time.Duration
	sweepInterval time.Duration
	clock         func() time.Time
	done          chan struct{}
	stopOnce      sync.Once
}

// NewValidationCache creates a cache with the given TTLs. Start launches the
// background sweep; Stop must be called on shutdown.
func NewValidationCache(valueTTL, notFoundTTL, sweepInterval time.Duration) *ValidationCache {
	return &ValidationCache{
		entries:       make(map[string]entry),
		valueTTL:      valueTTL,
		notFoundTTL:   notFoundTTL,
		sweepInterval: sweepInterval,
		clock:         time.Now,
		done:          make(chan struct{}),
	}
}

// Key builds the cache key for a normalized flight number and pickup date.
func Key(flightNumber, pickupDate string) string {
	return flightNumber + ":" + pickupDate
}

// Get looks up a key. Expired entries are evicted lazily and count as Miss.
func (c *ValidationCache) Get(key string) (*entity.ValidatedFlight, Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, Miss
	}
	if c.clock().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, Miss
	}
	if e.flight == nil {
		return nil, HitNotFound
	}
	return e.flight, Hit
}

// SetFlight caches a successful validation for the value TTL.
func (c *ValidationCache) SetFlight(key string, flight *entity.ValidatedFlight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{flight: flight, expiresAt: c.clock().Add(c.valueTTL)}
}

// SetNotFound caches a negative result for the shorter not-found TTL.
func (c *ValidationCache) SetNotFound(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{flight: nil, expiresAt: c.clock().Add(c.notFoundTTL)}
}

// Start launches the background sweep. The sweep is housekeeping only; no
// correctness property depends on it running.
func (c *ValidationCache) Start() {
	go func() {
		ticker := time.NewTicker(c.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-c.done:
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// Stop cancels the background sweep.
func (c *ValidationCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
}

func (c *ValidationCache) sweep() {
	now := c.clock()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Len reports the number of live entries, expired or not.
func (c *ValidationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
