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
	"github.com/racpast/snibpub/lib/config"
	"github.com/racpast/snibpub/lib/digest"
	"github.com/racpast/snibpub/lib/manifest"
)

// Verify checks the published tree against the persisted manifest and
// returns a human-readable issue per violation of the publish
// invariant: every manifest-referenced file must exist (with a
// matching digest where one is stored), and every file in the tree
// must be referenced. The executable check goes further and rebuilds
// the binary from its parts: parts are concatenated, the container is
// extracted, and the result is compared against the stored digest.
//
// An empty issue list means the tree is exactly what the manifest
// promises. The error return is reserved for I/O failures that
// prevent checking at all.
func Verify(cfg *config.Config) ([]string, error) {
	var issues []string

	result := manifest.Load(cfg.ManifestPath())
	switch result.Status {
	case manifest.LoadAbsent:
		return []string{fmt.Sprintf("manifest %s does not exist", cfg.ManifestPath())}, nil
	case manifest.LoadCorrupt:
		return []string{fmt.Sprintf("manifest %s is unreadable: %v", cfg.ManifestPath(), result.Err)}, nil
	}
	m := result.Manifest

	root := cfg.TargetFilesDir()
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return append(issues, fmt.Sprintf("target files directory %s does not exist", root)), nil
	}

	// Referenced holds every relative path the manifest accounts for.
	referenced := make(map[string]bool)

	for _, asset := range m.Assets {
		referenced[asset.Path] = true

		if want := cfg.BaseURL + asset.Path; asset.URL != want {
			issues = append(issues, fmt.Sprintf("asset %s: URL %q does not match configured base (%q)", asset.Path, asset.URL, want))
		}

		sum, exists, err := digest.HashFile(filepath.Join(root, filepath.FromSlash(asset.Path)))
		if err != nil {
			return nil, err
		}
		if !exists {
			issues = append(issues, fmt.Sprintf("asset %s: file missing from target tree", asset.Path))
			continue
		}
		if sum != asset.Hash {
			issues = append(issues, fmt.Sprintf("asset %s: digest %s does not match manifest %s", asset.Path, sum, asset.Hash))
		}
	}

	partIssues, partNames := checkParts(m, root)
	issues = append(issues, partIssues...)
	for _, name := range partNames {
		referenced[name] = true
	}

	for record, err := range Walk(root) {
		if err != nil {
			return nil, fmt.Errorf("walking target tree: %w", err)
		}
		if !referenced[record.Rel] {
			issues = append(issues, fmt.Sprintf("file %s is not referenced by any manifest entry", record.Rel))
		}
	}

	return issues, nil
}

// checkParts verifies the executable parts: each must exist, and when
// all do, the reassembled and extracted binary must hash to the stored
// executable digest. Returns the issues plus the part filenames for
// the caller's referenced set.
func checkParts(m *manifest.Manifest, root string) ([]string, []string) {
	var issues []string

	names := make([]string, 0, len(m.Executable.Parts))
	partPaths := make([]string, 0, len(m.Executable.Parts))
	complete := true
	for _, partURL := range m.Executable.Parts {
		name := lastSegment(partURL)
		names = append(names, name)

		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			issues = append(issues, fmt.Sprintf("executable part %s: missing from target tree", name))
			complete = false
			continue
		}
		partPaths = append(partPaths, path)
	}

	if !complete || len(partPaths) == 0 || m.Executable.Hash == "" {
		return issues, names
	}

	format, ok := containerFormat(names[0])
	if !ok {
		issues = append(issues, fmt.Sprintf("executable part %s: unrecognized container naming", names[0]))
		return issues, names
	}

	scratch, err := os.MkdirTemp("", "snibpub-verify-*")
	if err != nil {
		issues = append(issues, fmt.Sprintf("executable: creating scratch directory: %v", err))
		return issues, names
	}
	defer os.RemoveAll(scratch)

	containerPath := filepath.Join(scratch, format.ContainerName())
	if err := chunk.Reassemble(containerPath, partPaths); err != nil {
		issues = append(issues, fmt.Sprintf("executable: reassembling parts: %v", err))
		return issues, names
	}
	extractedPath := filepath.Join(scratch, "executable")
	if err := archive.Extract(format, containerPath, extractedPath); err != nil {
		issues = append(issues, fmt.Sprintf("executable: extracting container: %v", err))
		return issues, names
	}

	sum, _, err := digest.HashFile(extractedPath)
	if err != nil {
		issues = append(issues, fmt.Sprintf("executable: hashing extracted binary: %v", err))
		return issues, names
	}
	if sum != m.Executable.Hash {
		issues = append(issues, fmt.Sprintf("executable: reconstructed digest %s does not match manifest %s", sum, m.Executable.Hash))
	}
	return issues, names
}

// containerFormat infers the archive format from a part filename like
// "update.zip.part000".
func containerFormat(partName string) (archive.Format, bool) {
	base := partName
	if index := strings.LastIndex(base, ".part"); index >= 0 {
		base = base[:index]
	}
	for _, format := range []archive.Format{archive.FormatZip, archive.FormatZstd, archive.FormatLZ4} {
		if format.ContainerName() == base {
			return format, true
		}
	}
	return 0, false
}
