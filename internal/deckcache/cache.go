// Package deckcache is the content-addressed cache of generated decks. A
// fingerprint of the normalized input maps to the last deck produced for it.
// The cache is strictly advisory: every failure here degrades to a miss or a
// skipped write, never to a pipeline error.
package deckcache

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/casedeck/casedeck/internal/kvstore"
	"github.com/casedeck/casedeck/internal/models"
)

const (
	// KeyPrefix namespaces cache records in the key-value store. Schema
	// changes are handled by bumping this prefix.
	KeyPrefix = "slide_gen_cache_"

	// TTL is how long a cached deck stays servable.
	TTL = 24 * time.Hour

	// MaxEntries bounds the persistent cache; the oldest records are
	// evicted beyond this.
	MaxEntries = 20
)

// Cache layers an in-memory LRU over the persistent key-value store so that
// repeat lookups within a session skip the store entirely. The store remains
// the source of truth across restarts.
type Cache struct {
	store kvstore.Store
	clock models.Clock
	mem   *expirable.LRU[string, *models.CacheRecord]
}

// New creates a deck cache over the given store.
func New(store kvstore.Store, clock models.Clock) *Cache {
	if clock == nil {
		clock = models.SystemClock{}
	}
	return &Cache{
		store: store,
		clock: clock,
		mem:   expirable.NewLRU[string, *models.CacheRecord](MaxEntries, nil, TTL),
	}
}

// Fingerprint computes the 32-bit FNV-1a hash of the lowercased trimmed
// input. Collisions are tolerable: the cache is advisory and callers treat a
// hit as just another deck.
func Fingerprint(text string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(text))))
	return h.Sum32()
}

func key(fp uint32) string {
	return fmt.Sprintf("%s%08x", KeyPrefix, fp)
}

// Lookup returns a deep copy of the cached deck for the input, marked
// fromCache, or nil on a miss. Expired records are dropped on read.
func (c *Cache) Lookup(ctx context.Context, text string) *models.SlideDeck {
	fp := Fingerprint(text)
	k := key(fp)

	rec, ok := c.mem.Get(k)
	if !ok {
		loaded, err := c.load(ctx, k)
		if err != nil {
			log.Warn().Err(err).Str("key", k).Msg("Cache read failed, treating as miss")
			return nil
		}
		rec = loaded
	}
	if rec == nil {
		return nil
	}

	age := c.clock.Now().UnixMilli() - rec.Timestamp
	if age > TTL.Milliseconds() {
		c.mem.Remove(k)
		if err := c.store.Delete(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("Failed to drop expired cache record")
		}
		return nil
	}

	deck := rec.Data.Clone()
	deck.FromCache = true
	return deck
}

// Store writes the deck for the input and evicts the oldest records past the
// entry bound. Errors are logged and swallowed.
func (c *Cache) Store(ctx context.Context, text string, deck *models.SlideDeck) {
	fp := Fingerprint(text)
	k := key(fp)

	rec := &models.CacheRecord{
		Fingerprint: fp,
		Data:        *deck.Clone(),
		Timestamp:   c.clock.Now().UnixMilli(),
		InputLength: len([]rune(strings.TrimSpace(text))),
	}
	rec.Data.FromCache = false

	raw, err := json.Marshal(rec)
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialize cache record")
		return
	}
	if err := c.store.Set(ctx, k, raw); err != nil {
		log.Warn().Err(err).Str("key", k).Msg("Cache write failed, continuing without it")
		return
	}
	c.mem.Add(k, rec)

	c.evict(ctx)
}

// Clear removes every cache record and reports how many were deleted.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	keys, err := c.store.ListKeys(ctx, KeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list cache keys: %w", err)
	}
	removed := 0
	for _, k := range keys {
		if err := c.store.Delete(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("Failed to delete cache record")
			continue
		}
		removed++
	}
	c.mem.Purge()
	return removed, nil
}

func (c *Cache) load(ctx context.Context, k string) (*models.CacheRecord, error) {
	raw, err := c.store.Get(ctx, k)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var rec models.CacheRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("corrupt cache record: %w", err)
	}
	c.mem.Add(k, &rec)
	return &rec, nil
}

// evict drops the oldest records by timestamp until the bound holds.
func (c *Cache) evict(ctx context.Context) {
	keys, err := c.store.ListKeys(ctx, KeyPrefix)
	if err != nil {
		log.Warn().Err(err).Msg("Cache eviction scan failed")
		return
	}
	if len(keys) <= MaxEntries {
		return
	}

	type aged struct {
		key string
		ts  int64
	}
	records := make([]aged, 0, len(keys))
	for _, k := range keys {
		raw, err := c.store.Get(ctx, k)
		if err != nil || raw == nil {
			continue
		}
		var rec models.CacheRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			// Unreadable records go first.
			records = append(records, aged{key: k, ts: 0})
			continue
		}
		records = append(records, aged{key: k, ts: rec.Timestamp})
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ts < records[j].ts })

	for i := 0; i < len(records)-MaxEntries; i++ {
		k := records[i].key
		if err := c.store.Delete(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("Cache eviction delete failed")
			continue
		}
		c.mem.Remove(k)
	}
}
