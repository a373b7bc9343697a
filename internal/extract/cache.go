package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"github.com/Veraticus/tourquote/internal/model"
)

const sweepInterval = 5 * time.Minute

type cachedServices struct {
	expiry   time.Time
	services []model.DetectedService
}

// responseCache remembers extraction results so the same itinerary is not
// sent to the provider twice within ttl. Callers receive copies.
type responseCache struct {
	entries map[string]cachedServices
	done    chan struct{}
	now     func() time.Time
	ttl     time.Duration
	mu      sync.Mutex
	closing sync.Once
}

func newResponseCache(ttl time.Duration) *responseCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &responseCache{
		entries: make(map[string]cachedServices),
		done:    make(chan struct{}),
		now:     time.Now,
		ttl:     ttl,
	}
	go c.sweepLoop()
	return c
}

// cacheKey digests the request fields that shape the provider's reply.
func cacheKey(req Request) string {
	h := sha256.New()
	for _, part := range []string{req.Itinerary, strconv.Itoa(req.Days), strconv.Itoa(req.Travelers)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *responseCache) get(key string) ([]model.DetectedService, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hit, ok := c.entries[key]
	if !ok || !c.now().Before(hit.expiry) {
		return nil, false
	}
	return append([]model.DetectedService(nil), hit.services...), true
}

func (c *responseCache) set(key string, services []model.DetectedService) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cachedServices{
		services: append([]model.DetectedService(nil), services...),
		expiry:   c.now().Add(c.ttl),
	}
}

// sweep drops expired entries and reports how many were removed.
func (c *responseCache) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now, removed := c.now(), 0
	for key, hit := range c.entries {
		if !now.Before(hit.expiry) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *responseCache) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *responseCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops the background sweep. It is safe to call more than once.
func (c *responseCache) Close() {
	c.closing.Do(func() { close(c.done) })
}
