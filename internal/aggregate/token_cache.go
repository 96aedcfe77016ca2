package aggregate

import (
	"strings"
	"sync"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/chain"
	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

// TokenMetaCache holds metadata resolved during a single aggregation call.
// Ids that name the same address share one entry; the first spelling seen
// is the one reported by IDs.
type TokenMetaCache struct {
	mu    sync.RWMutex
	order []string
	ids   map[string]string
	data  map[string]*model.TokenMetadata
}

func NewTokenMetaCache() *TokenMetaCache {
	return &TokenMetaCache{
		ids:  make(map[string]string),
		data: make(map[string]*model.TokenMetadata),
	}
}

// tokenKey folds case and short/long address forms into one key.
func tokenKey(id string) string {
	addr, err := chain.ParseAddress(id)
	if err != nil {
		return strings.ToLower(id)
	}
	return addr.String()
}

// Add registers a token id and reports whether it was new.
func (c *TokenMetaCache) Add(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	key := tokenKey(id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.ids[key]; ok {
		return false
	}
	c.ids[key] = id
	c.order = append(c.order, key)
	return true
}

func (c *TokenMetaCache) Get(id string) (*model.TokenMetadata, bool) {
	key := tokenKey(strings.TrimSpace(id))
	c.mu.RLock()
	meta := c.data[key]
	c.mu.RUnlock()
	return meta, meta != nil
}

func (c *TokenMetaCache) Set(id string, meta *model.TokenMetadata) {
	id = strings.TrimSpace(id)
	key := tokenKey(id)
	c.mu.Lock()
	if _, ok := c.ids[key]; !ok {
		c.ids[key] = id
		c.order = append(c.order, key)
	}
	c.data[key] = meta
	c.mu.Unlock()
}

// IDs returns registered ids in first-seen order.
func (c *TokenMetaCache) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.ids[key])
	}
	return out
}

// Resolved returns the metadata that was found, in first-seen order.
func (c *TokenMetaCache) Resolved() []model.TokenMetadata {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.TokenMetadata, 0, len(c.order))
	for _, key := range c.order {
		if meta := c.data[key]; meta != nil {
			out = append(out, *meta)
		}
	}
	return out
}
