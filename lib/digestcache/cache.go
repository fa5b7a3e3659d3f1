// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package digestcache

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
)

// Filename is the cache filename in the target repository root. The
// leading dot keeps it out of casual directory listings; it lives
// outside the published files directory so the orphan sweep never
// touches it.
const Filename = ".digest-cache"

// encMode encodes with Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding. Same cache contents
// always produce identical bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("digestcache: CBOR encoder initialization failed: " + err.Error())
	}
}

// entry records the file identity a digest was computed against.
type entry struct {
	Size            int64  `cbor:"size"`
	ModTimeUnixNano int64  `cbor:"mtime_ns"`
	Digest          string `cbor:"digest"`
}

// Cache is an in-memory digest cache bound to its on-disk path. It
// tracks which keys the current run touched so [Cache.Sweep] can evict
// entries for assets that no longer exist in the source tree.
type Cache struct {
	path    string
	entries map[string]entry
	touched map[string]bool
}

// Load reads the cache at path. A missing or undecodable file yields
// an empty cache: stale or corrupt cache state must never block a
// publish run.
func Load(path string) *Cache {
	cache := &Cache{
		path:    path,
		entries: make(map[string]entry),
		touched: make(map[string]bool),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cache
	}
	if err := cbor.Unmarshal(data, &cache.entries); err != nil {
		cache.entries = make(map[string]entry)
	}
	return cache
}

// Get returns the cached digest for the asset at relPath when the
// file's size and mtime still match the values recorded at hash time.
func (c *Cache) Get(relPath string, info fs.FileInfo) (string, bool) {
	cached, ok := c.entries[relPath]
	if !ok {
		return "", false
	}
	if cached.Size != info.Size() || cached.ModTimeUnixNano != info.ModTime().UnixNano() {
		return "", false
	}
	c.touched[relPath] = true
	return cached.Digest, true
}

// Put records the digest for the asset at relPath together with the
// file identity it was computed against.
func (c *Cache) Put(relPath string, info fs.FileInfo, digest string) {
	c.entries[relPath] = entry{
		Size:            info.Size(),
		ModTimeUnixNano: info.ModTime().UnixNano(),
		Digest:          digest,
	}
	c.touched[relPath] = true
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Sweep evicts every entry not touched by a Get hit or Put since the
// cache was loaded, returning the number of evictions. Callers run it
// after a full source traversal, so the untouched keys are exactly the
// assets that left the source tree; without the sweep the cache would
// grow without bound across runs.
func (c *Cache) Sweep() int {
	evicted := 0
	for key := range c.entries {
		if !c.touched[key] {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}

// Save writes the cache atomically (temporary file plus rename). Save
// failures are worth logging but never worth failing a run over; the
// caller decides.
func (c *Cache) Save() error {
	data, err := encMode.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("encoding digest cache: %w", err)
	}

	temporary, err := os.CreateTemp(filepath.Dir(c.path), ".digest-cache-*")
	if err != nil {
		return fmt.Errorf("creating temporary cache file: %w", err)
	}
	temporaryPath := temporary.Name()

	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing digest cache: %w", err)
	}
	if err := temporary.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing digest cache: %w", err)
	}
	if err := os.Rename(temporaryPath, c.path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("replacing digest cache %s: %w", c.path, err)
	}
	return nil
}
