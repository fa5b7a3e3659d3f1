// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/racpast/snibpub/lib/digest"
	"github.com/racpast/snibpub/lib/digestcache"
	"github.com/racpast/snibpub/lib/manifest"
)

// syncAssets mirrors the source tree into the target files directory.
// Every file except the executable and the version marker is copied
// unconditionally (the skip-if-unchanged optimization applies only to
// the executable), digested, and recorded as an asset entry. Copied
// paths join the target file set.
func (p *Publisher) syncAssets(targetSet map[string]bool) ([]manifest.AssetEntry, error) {
	var cache *digestcache.Cache
	if p.cfg.DigestCache {
		cache = digestcache.Load(filepath.Join(p.cfg.TargetRepoDir, digestcache.Filename))
		p.logger.Info("digest cache loaded", "entries", cache.Len())
	}

	assets := []manifest.AssetEntry{}
	for record, err := range Walk(p.cfg.SourceDir) {
		if err != nil {
			return nil, fmt.Errorf("walking source tree: %w", err)
		}

		name := filepath.Base(record.Path)
		if name == p.cfg.ExecutableName || name == p.cfg.VersionFile {
			continue
		}

		destPath := filepath.Join(p.cfg.TargetFilesDir(), filepath.FromSlash(record.Rel))
		if err := copyFile(record.Path, destPath, record.Info); err != nil {
			return nil, err
		}

		sum, err := assetDigest(cache, record)
		if err != nil {
			return nil, err
		}

		targetSet[record.Rel] = true
		assets = append(assets, manifest.AssetEntry{
			Path: record.Rel,
			URL:  p.cfg.BaseURL + record.Rel,
			Hash: sum,
		})
	}

	if cache != nil {
		if evicted := cache.Sweep(); evicted > 0 {
			p.logger.Info("evicted stale digest cache entries", "evicted", evicted)
		}
		if err := cache.Save(); err != nil {
			// The cache is an optimization; losing it costs hashing
			// time on the next run, nothing more.
			p.logger.Warn("saving digest cache failed", "error", err)
		}
	}

	return assets, nil
}

// assetDigest returns the content digest for a walked source file,
// consulting the cache when one is active.
func assetDigest(cache *digestcache.Cache, record FileRecord) (string, error) {
	if cache != nil {
		if sum, ok := cache.Get(record.Rel, record.Info); ok {
			return sum, nil
		}
	}

	sum, exists, err := digest.HashFile(record.Path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("asset %s disappeared during sync", record.Path)
	}

	if cache != nil {
		cache.Put(record.Rel, record.Info, sum)
	}
	return sum, nil
}

// copyFile copies source to destPath, creating parent directories,
// truncating any existing target, and carrying over the source's file
// mode and modification time.
func copyFile(sourcePath, destPath string, info fs.FileInfo) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", destPath, err)
	}

	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("opening asset %s: %w", sourcePath, err)
	}
	defer source.Close()

	destination, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", destPath, err)
	}
	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return fmt.Errorf("copying %s: %w", sourcePath, err)
	}
	if err := destination.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", destPath, err)
	}

	modTime := info.ModTime()
	if err := os.Chtimes(destPath, modTime, modTime); err != nil {
		return fmt.Errorf("preserving mtime of %s: %w", destPath, err)
	}
	return nil
}
