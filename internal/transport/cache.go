package transport

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/beaconpay/beaconpay/pkg/constants"
	"github.com/beaconpay/beaconpay/pkg/errors"
)

// Cache is a flat-file response cache keyed by URL. Entries expire by
// file modification time.
type Cache struct {
	dir string
	ttl time.Duration
}

// NewCache creates a cache rooted under the XDG cache directory. An
// empty dir uses the default application cache path.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		dir = filepath.Join(xdg.CacheHome, constants.CacheAppName)
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}
	if ttl <= 0 {
		ttl = constants.CacheTTL
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string { return c.dir }

// Get returns the cached body for a URL, or false when absent or
// expired.
func (c *Cache) Get(url string) ([]byte, bool) {
	path := c.path(url)
	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return body, true
}

// Put stores a response body for a URL.
func (c *Cache) Put(url string, body []byte) error {
	return errors.WrapIO("write", c.path(url), os.WriteFile(c.path(url), body, constants.FilePermissions))
}

// Clear removes every cached entry.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return errors.WrapIO("read", c.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return errors.WrapIO("delete", entry.Name(), err)
		}
	}
	return nil
}

// Fetch returns the cached body for a URL when fresh, otherwise
// fetches through the client and stores the result.
func (c *Cache) Fetch(ctx context.Context, client *Client, source, url string) ([]byte, error) {
	if body, ok := c.Get(url); ok {
		return body, nil
	}
	body, err := client.Get(ctx, source, url)
	if err != nil {
		return nil, err
	}
	if err := c.Put(url, body); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Cache) path(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:16])+".cache")
}
