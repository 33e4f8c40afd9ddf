package ledger

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Large exports take a while to decode. Keep the decoded ledgers and only
// decode a file again once its modification time or size has changed.

type Cache struct {
	ledgers map[string]cachedLedger
	mu      sync.Mutex // Protects the cached data
}

type cachedLedger struct {
	ModTime time.Time
	Size    int64
	Ledger  *Ledger
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{ledgers: make(map[string]cachedLedger)}
}

// CachedLedger returns the ledger stored at path, decoding it only when the file changed.
func (c *Cache) CachedLedger(path string) (*Ledger, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.ledgers[path]
	if ok && cached.ModTime.Equal(info.ModTime()) && cached.Size == info.Size() {
		return cached.Ledger, nil
	}
	return c.refresh(path, info)
}

// refresh decodes path into the cache. The caller is responsible for locking the mutex.
func (c *Cache) refresh(path string, info os.FileInfo) (*Ledger, error) {
	l, err := DecodeFile(path)
	if err != nil {
		delete(c.ledgers, path)
		return nil, err
	}
	log.Debug().Str("path", path).Msg("Cache: updating Ledger")
	c.ledgers[path] = cachedLedger{
		ModTime: info.ModTime(),
		Size:    info.Size(),
		Ledger:  l,
	}
	return l, nil
}

// Invalidate drops path from the cache.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ledgers, path)
}
