// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/racpast/snibpub/lib/digest"
)

// Filename is the well-known manifest filename at the target
// repository root.
const Filename = "latest.json"

// Manifest is the published update descriptor.
type Manifest struct {
	// Version is the release version string, read from the source
	// tree's version marker file.
	Version string `json:"version"`

	// Timestamp is the unix time (seconds) of the publish run that
	// wrote this manifest.
	Timestamp int64 `json:"timestamp"`

	// Executable describes the packaged main binary.
	Executable ExecutableEntry `json:"executable"`

	// Assets lists every published asset file, in source-tree walk
	// order.
	Assets []AssetEntry `json:"assets"`
}

// ExecutableEntry describes the chunked executable container.
//
// Parts is empty exactly when no executable was found in the source
// tree; an empty Hash means "no prior state". When the executable is
// unchanged between runs the whole entry — including UpdateRequired —
// is carried over byte-for-byte from the previous manifest, so the
// flag reflects the run that last republished, not the current run.
type ExecutableEntry struct {
	UpdateRequired bool     `json:"update_required"`
	Hash           string   `json:"hash"`
	Parts          []string `json:"parts"`
}

// AssetEntry describes one published asset file.
type AssetEntry struct {
	// Path is the slash-normalized path relative to the source root.
	Path string `json:"path"`

	// URL is the download URL: base URL concatenated with Path.
	URL string `json:"url"`

	// Hash is the hex SHA256 digest of the file contents.
	Hash string `json:"hash"`
}

// EmptyExecutable returns the entry used when no executable exists in
// the source tree or no prior manifest is available.
func EmptyExecutable() ExecutableEntry {
	return ExecutableEntry{UpdateRequired: false, Hash: "", Parts: []string{}}
}

// New returns a manifest shell for the given version and timestamp
// with an empty executable entry and no assets.
func New(version string, timestamp int64) *Manifest {
	return &Manifest{
		Version:    version,
		Timestamp:  timestamp,
		Executable: EmptyExecutable(),
		Assets:     []AssetEntry{},
	}
}

// LoadStatus classifies the outcome of loading a previous manifest.
type LoadStatus int

const (
	// LoadOK means the manifest file existed and parsed.
	LoadOK LoadStatus = iota

	// LoadAbsent means no manifest file exists at the path. Normal
	// for a first publish run.
	LoadAbsent

	// LoadCorrupt means the file exists but is not valid manifest
	// JSON. Treated as empty prior state; the caller should log it.
	LoadCorrupt
)

// LoadResult is the outcome of [Load]. Manifest is never nil: absent
// and corrupt files yield an empty manifest so callers can use the
// result unconditionally as prior state.
type LoadResult struct {
	Manifest *Manifest
	Status   LoadStatus

	// Err holds the parse error when Status is LoadCorrupt, for
	// logging. Nil otherwise.
	Err error
}

// Load reads the manifest at path. I/O and parse problems never abort
// the caller's run: a missing file reports LoadAbsent and a malformed
// one LoadCorrupt, both with an empty manifest. Prior manifests are
// advisory state, not trusted input, so no field validation is applied
// on load.
func Load(path string) LoadResult {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{Manifest: New("", 0), Status: LoadAbsent}
		}
		return LoadResult{Manifest: New("", 0), Status: LoadCorrupt, Err: err}
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return LoadResult{Manifest: New("", 0), Status: LoadCorrupt, Err: err}
	}
	return LoadResult{Manifest: &m, Status: LoadOK}
}

// Save validates m and atomically replaces the file at path: the
// document is written to a temporary file in the same directory and
// renamed into place, so a crash mid-write leaves the previous
// manifest intact. The JSON is indented with four spaces, matching
// what deployed update clients were tested against.
func Save(path string, m *Manifest) error {
	if err := validate(m); err != nil {
		return fmt.Errorf("refusing to save manifest: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')

	temporary, err := os.CreateTemp(filepath.Dir(path), ".latest-*.json")
	if err != nil {
		return fmt.Errorf("creating temporary manifest: %w", err)
	}
	temporaryPath := temporary.Name()

	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary manifest: %w", err)
	}
	if err := temporary.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary manifest: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("replacing manifest %s: %w", path, err)
	}
	return nil
}

// validate checks the shape invariants a freshly built manifest must
// satisfy before it is published.
func validate(m *Manifest) error {
	if m == nil {
		return errors.New("nil manifest")
	}
	if m.Version == "" {
		return errors.New("empty version")
	}

	if hash := m.Executable.Hash; hash != "" && !digest.Valid(hash) {
		return fmt.Errorf("executable hash %q is not a hex SHA256 digest", hash)
	}
	if m.Executable.Hash == "" && len(m.Executable.Parts) > 0 {
		return errors.New("executable has parts but no hash")
	}
	for i, part := range m.Executable.Parts {
		if part == "" {
			return fmt.Errorf("executable part %d has empty URL", i)
		}
	}

	for i, asset := range m.Assets {
		if asset.Path == "" {
			return fmt.Errorf("asset %d has empty path", i)
		}
		if asset.URL == "" {
			return fmt.Errorf("asset %q has empty URL", asset.Path)
		}
		if !digest.Valid(asset.Hash) {
			return fmt.Errorf("asset %q hash %q is not a hex SHA256 digest", asset.Path, asset.Hash)
		}
	}
	return nil
}
