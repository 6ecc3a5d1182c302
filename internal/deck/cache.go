package deck

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/mtlprog/pricedeck/internal/domain"
)

type cacheKey struct {
	itemID        int64
	referenceYear int
}

type cacheEntry struct {
	deck      domain.Deck
	expiresAt time.Time
}

// cacheGen identifies the invalidation state an item's deck was computed under.
type cacheGen struct {
	purges uint64
	item   uint64
}

// Cache keeps recently computed decks keyed on item and reference year.
// Entries must be invalidated whenever the underlying series changes.
type Cache struct {
	entries *lru.Cache
	ttl     time.Duration
	now     func() time.Time

	// mu orders invalidations against generation-checked adds.
	mu       sync.Mutex
	purges   uint64
	itemGens map[int64]uint64
}

// NewCache creates a deck cache holding at most size decks, each for at most ttl.
func NewCache(size int, ttl time.Duration) (*Cache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating deck cache: %w", err)
	}
	return &Cache{entries: entries, ttl: ttl, now: time.Now, itemGens: make(map[int64]uint64)}, nil
}

// Get returns the cached deck for the item and reference year.
func (c *Cache) Get(itemID int64, referenceYear int) (domain.Deck, bool) {
	key := cacheKey{itemID: itemID, referenceYear: referenceYear}
	v, ok := c.entries.Get(key)
	if !ok {
		return domain.Deck{}, false
	}
	entry, ok := v.(cacheEntry)
	if !ok || c.now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return domain.Deck{}, false
	}
	return entry.deck, true
}

// Add stores a deck.
func (c *Cache) Add(itemID int64, referenceYear int, d domain.Deck) {
	c.entries.Add(cacheKey{itemID: itemID, referenceYear: referenceYear}, cacheEntry{
		deck:      d,
		expiresAt: c.now().Add(c.ttl),
	})
}

// generation returns the current invalidation state for the item.
func (c *Cache) generation(itemID int64) cacheGen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cacheGen{purges: c.purges, item: c.itemGens[itemID]}
}

// addIfCurrent stores a deck unless the item was invalidated since gen was taken.
func (c *Cache) addIfCurrent(itemID int64, referenceYear int, d domain.Deck, gen cacheGen) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != (cacheGen{purges: c.purges, item: c.itemGens[itemID]}) {
		return false
	}
	c.Add(itemID, referenceYear, d)
	return true
}

// InvalidateItem drops every cached deck of the item.
func (c *Cache) InvalidateItem(itemID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.itemGens[itemID]++
	for _, k := range c.entries.Keys() {
		if key, ok := k.(cacheKey); ok && key.itemID == itemID {
			c.entries.Remove(key)
		}
	}
}

// Purge drops all cached decks.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purges++
	c.entries.Purge()
}

// Len returns the number of cached decks.
func (c *Cache) Len() int {
	return c.entries.Len()
}
