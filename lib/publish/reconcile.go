// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// sweepOrphans removes every file under the target files directory
// whose slash-normalized relative path is not in the target file set,
// then removes directories left empty. This keeps the published tree
// minimal: after a successful run, each remaining file corresponds to
// exactly one manifest entry.
func (p *Publisher) sweepOrphans(targetSet map[string]bool) error {
	root := p.cfg.TargetFilesDir()

	var directories []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if path != root {
				directories = append(directories, path)
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !targetSet[rel] {
			p.logger.Info("removing orphan", "path", rel)
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("removing orphan %s: %w", path, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweeping target tree: %w", err)
	}

	// WalkDir visits parents before children, so the reversed slice
	// empties leaf directories before their parents.
	for i := len(directories) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(directories[i])
		if err != nil {
			return fmt.Errorf("reading directory %s: %w", directories[i], err)
		}
		if len(entries) == 0 {
			p.logger.Info("removing empty directory", "path", directories[i])
			if err := os.Remove(directories[i]); err != nil {
				return fmt.Errorf("removing empty directory %s: %w", directories[i], err)
			}
		}
	}
	return nil
}
