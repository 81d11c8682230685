package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/sumanth428/market-basket-analysis/internal/basket"
)

// Cache memoizes the encoded matrix and frequent itemsets of previous runs.
// Both artifacts are read-only, so runs may share them.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	hits    int
	misses  int
}

type cacheEntry struct {
	matrix   *basket.Matrix
	frequent *basket.Frequent
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]cacheEntry{}}
}

func (c *Cache) get(key string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return e, ok
}

func (c *Cache) put(key string, e cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns lookup hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Fingerprint hashes the JSON encoding of the transactions.
func Fingerprint(transactions []basket.Transaction) (string, error) {
	b, err := json.Marshal(transactions)
	if err != nil {
		return "", eris.Wrap(err, "fingerprint transactions")
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func cacheKey(fingerprint string, p Params) string {
	return fingerprint + "|" + strconv.FormatFloat(p.MinSupport, 'g', -1, 64) + "|" + strconv.Itoa(p.MaxLen)
}
