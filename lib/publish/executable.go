// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/racpast/snibpub/lib/archive"
	"github.com/racpast/snibpub/lib/chunk"
	"github.com/racpast/snibpub/lib/digest"
	"github.com/racpast/snibpub/lib/manifest"
)

// publishExecutable decides, once per run, between two states:
//
//   - Unchanged: the source executable's digest matches the previous
//     manifest's. The previous entry is reused verbatim — including
//     its update_required flag and part URLs — and the part filenames
//     (last URL segment) join the target file set so the sweep keeps
//     them.
//   - Republished: the digests differ. The executable is wrapped in a
//     compressed container, split into parts, and a fresh entry is
//     built with update_required set.
//
// A source tree without the executable skips both states and yields
// the empty entry.
func (p *Publisher) publishExecutable(previous *manifest.Manifest, targetSet map[string]bool) (manifest.ExecutableEntry, error) {
	sourcePath := filepath.Join(p.cfg.SourceDir, p.cfg.ExecutableName)

	current, exists, err := digest.HashFile(sourcePath)
	if err != nil {
		return manifest.ExecutableEntry{}, err
	}
	if !exists {
		p.logger.Info("no executable in source tree, skipping executable publish",
			"expected", sourcePath)
		return manifest.EmptyExecutable(), nil
	}

	if previous.Executable.Hash == current {
		p.logger.Info("executable unchanged, reusing published parts", "hash", current)
		entry := previous.Executable
		for _, partURL := range entry.Parts {
			targetSet[lastSegment(partURL)] = true
		}
		return entry, nil
	}

	p.logger.Info("executable changed, archiving and chunking",
		"previous_hash", previous.Executable.Hash, "hash", current)

	format := p.cfg.ArchiveFormat()
	containerPath := filepath.Join(p.cfg.TargetFilesDir(), format.ContainerName())
	if err := archive.Create(format, sourcePath, p.cfg.ExecutableName, containerPath); err != nil {
		return manifest.ExecutableEntry{}, err
	}

	parts, err := chunk.Split(containerPath, p.cfg.TargetFilesDir(), p.cfg.ChunkSize)
	if err != nil {
		return manifest.ExecutableEntry{}, err
	}
	if err := os.Remove(containerPath); err != nil {
		return manifest.ExecutableEntry{}, fmt.Errorf("removing container %s: %w", containerPath, err)
	}

	urls := make([]string, len(parts))
	for i, part := range parts {
		urls[i] = p.cfg.BaseURL + part
		targetSet[part] = true
	}

	return manifest.ExecutableEntry{
		UpdateRequired: true,
		Hash:           current,
		Parts:          urls,
	}, nil
}

// lastSegment returns the final slash-separated segment of a URL or
// slash path.
func lastSegment(url string) string {
	if index := strings.LastIndexByte(url, '/'); index >= 0 {
		return url[index+1:]
	}
	return url
}
