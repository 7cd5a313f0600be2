package pdftext

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedSource memoises page texts by file content, so identical documents
// stored under several names are decoded once per run.
type CachedSource struct {
	next  Source
	cache *gocache.Cache

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedSource wraps next. Entries expire after ttl.
func NewCachedSource(next Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// PageTexts returns cached pages when a document with the same content was
// read before. Failures are not cached.
func (c *CachedSource) PageTexts(ctx context.Context, path string) ([]string, error) {
	key, err := contentKey(path)
	if err != nil {
		return c.next.PageTexts(ctx, path)
	}

	if v, found := c.cache.Get(key); found {
		c.hits.Add(1)
		return clonePages(v.([]string)), nil
	}

	c.misses.Add(1)
	pages, err := c.next.PageTexts(ctx, path)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, clonePages(pages), gocache.DefaultExpiration)
	return pages, nil
}

// Stats returns the hit and miss counts.
func (c *CachedSource) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// contentKey is the hex SHA-256 of the file content.
func contentKey(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func clonePages(pages []string) []string {
	out := make([]string, len(pages))
	copy(out, pages)
	return out
}
