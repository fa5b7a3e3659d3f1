// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/racpast/snibpub/lib/archive"
	"github.com/racpast/snibpub/lib/manifest"
)

// Config describes one publish target: where build outputs come from,
// where the distribution tree lives, and how artifacts are named.
// Every component receives the Config it needs at construction; there
// are no process-wide settings.
type Config struct {
	// SourceDir is the directory of build outputs to publish. A
	// missing source directory aborts the run.
	SourceDir string `yaml:"source_dir"`

	// TargetRepoDir is the root of the distribution repository. The
	// manifest lives here; published files live in FilesSubdir below
	// it.
	TargetRepoDir string `yaml:"target_repo_dir"`

	// FilesSubdir is the subdirectory of TargetRepoDir that holds the
	// published files and is served at BaseURL.
	FilesSubdir string `yaml:"files_subdir"`

	// ExecutableName is the filename of the main binary, expected at
	// the source root. Files with this base name are excluded from
	// asset sync everywhere in the tree.
	ExecutableName string `yaml:"executable_name"`

	// VersionFile is the filename of the version marker at the source
	// root. Its trimmed content is the release version; when absent,
	// the version defaults to "V1.0.0".
	VersionFile string `yaml:"version_file"`

	// BaseURL is the public URL prefix of the published files
	// directory. Must end with "/".
	BaseURL string `yaml:"base_url"`

	// ChunkSize is the maximum part size in bytes for the chunked
	// executable container.
	ChunkSize int64 `yaml:"chunk_size"`

	// Archive is the container format name for the packaged
	// executable: "zip" (default), "zstd", or "lz4".
	Archive string `yaml:"archive"`

	// DigestCache enables the on-disk digest cache that lets re-runs
	// skip rehashing assets whose size and mtime are unchanged. The
	// cache never changes manifest contents, only hashing work.
	DigestCache bool `yaml:"digest_cache"`

	// Rules configures the rule table compilation step. Compilation
	// is skipped when Metadata is empty.
	Rules RulesConfig `yaml:"rules"`
}

// RulesConfig configures the rule compiler.
type RulesConfig struct {
	// Metadata is the path to the JSONC rule metadata document. Host
	// list files (<Id>.txt) are read from the same directory. Empty
	// disables rule compilation.
	Metadata string `yaml:"metadata"`

	// Output is the path of the compiled rule table, relative to the
	// source root, so the table is published as an ordinary asset.
	Output string `yaml:"output"`
}

// DefaultVersion is the release version used when the source tree has
// no version marker file.
const DefaultVersion = "V1.0.0"

// Default returns the stock SNIBypass deployment configuration. It is
// a complete, runnable configuration: commands fall back to it when no
// config file is given.
func Default() *Config {
	return &Config{
		SourceDir:      "files",
		TargetRepoDir:  "target-repo",
		FilesSubdir:    "files",
		ExecutableName: "SNIBypassGUI.exe",
		VersionFile:    "version.txt",
		BaseURL:        "https://snib.racpast.com/files/",
		ChunkSize:      20 * 1024 * 1024,
		Archive:        "zip",
		DigestCache:    false,
		Rules: RulesConfig{
			Metadata: "",
			Output:   "rules.json",
		},
	}
}

// Load resolves configuration from the SNIBPUB_CONFIG environment
// variable, falling back to [Default] when the variable is not set.
// A set-but-unreadable config file is an error, never a silent
// fallback.
func Load() (*Config, error) {
	path := os.Getenv("SNIBPUB_CONFIG")
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging the
// file over [Default] so partial configs stay runnable.
func LoadFile(path string) (*Config, error) {
	configuration := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, configuration); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return configuration, nil
}

// Validate checks the configuration for values the pipeline cannot
// run with.
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("source_dir must not be empty")
	}
	if c.TargetRepoDir == "" {
		return fmt.Errorf("target_repo_dir must not be empty")
	}
	if c.ExecutableName == "" {
		return fmt.Errorf("executable_name must not be empty")
	}
	if c.VersionFile == "" {
		return fmt.Errorf("version_file must not be empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		return fmt.Errorf("base_url must end with a slash, got %q", c.BaseURL)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if _, err := archive.ParseFormat(c.Archive); err != nil {
		return err
	}
	if c.Rules.Metadata != "" && c.Rules.Output == "" {
		return fmt.Errorf("rules.output must not be empty when rules.metadata is set")
	}
	return nil
}

// ArchiveFormat returns the parsed archive format. Call Validate
// first; an invalid name falls back to zip here.
func (c *Config) ArchiveFormat() archive.Format {
	format, err := archive.ParseFormat(c.Archive)
	if err != nil {
		return archive.FormatZip
	}
	return format
}

// TargetFilesDir returns the directory that holds published files.
func (c *Config) TargetFilesDir() string {
	return filepath.Join(c.TargetRepoDir, c.FilesSubdir)
}

// ManifestPath returns the path of the persisted manifest.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.TargetRepoDir, manifest.Filename)
}

// RuleTablePath returns the absolute path of the compiled rule table
// inside the source tree, or "" when rule compilation is disabled.
func (c *Config) RuleTablePath() string {
	if c.Rules.Metadata == "" {
		return ""
	}
	return filepath.Join(c.SourceDir, c.Rules.Output)
}
