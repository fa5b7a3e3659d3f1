// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/racpast/snibpub/lib/config"
	"github.com/racpast/snibpub/lib/manifest"
	"github.com/racpast/snibpub/lib/rules"
)

// Publisher executes publish runs for one configured target.
type Publisher struct {
	cfg    *config.Config
	logger *slog.Logger

	// now is the clock used for the manifest timestamp. Tests
	// substitute a fixed clock.
	now func() time.Time
}

// New returns a Publisher for the given configuration. The logger must
// not be nil.
func New(cfg *config.Config, logger *slog.Logger) *Publisher {
	return &Publisher{cfg: cfg, logger: logger, now: time.Now}
}

// Run executes one publish run and returns the manifest it wrote.
//
// Step order is fixed: rule compilation, executable publish, asset
// sync, orphan sweep, manifest write. Any I/O failure aborts the run
// before the manifest write, leaving the previous manifest intact.
func (p *Publisher) Run() (*manifest.Manifest, error) {
	info, err := os.Stat(p.cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("source directory %s: %w", p.cfg.SourceDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path %s is not a directory", p.cfg.SourceDir)
	}
	if err := os.MkdirAll(p.cfg.TargetFilesDir(), 0755); err != nil {
		return nil, fmt.Errorf("creating target directory: %w", err)
	}

	if p.cfg.Rules.Metadata != "" {
		if err := p.compileRules(); err != nil {
			return nil, err
		}
	}

	previous := manifest.Load(p.cfg.ManifestPath())
	switch previous.Status {
	case manifest.LoadAbsent:
		p.logger.Info("no previous manifest, publishing from scratch")
	case manifest.LoadCorrupt:
		p.logger.Warn("previous manifest unreadable, treating as empty prior state",
			"path", p.cfg.ManifestPath(), "error", previous.Err)
	}

	next := manifest.New(p.readVersion(), p.now().Unix())

	// Every relative path added here must exist in the target files
	// directory when the run completes; everything else is an orphan.
	targetSet := make(map[string]bool)

	next.Executable, err = p.publishExecutable(previous.Manifest, targetSet)
	if err != nil {
		return nil, err
	}

	next.Assets, err = p.syncAssets(targetSet)
	if err != nil {
		return nil, err
	}

	if err := p.sweepOrphans(targetSet); err != nil {
		return nil, err
	}

	if err := manifest.Save(p.cfg.ManifestPath(), next); err != nil {
		return nil, err
	}

	p.logger.Info("publish complete",
		"version", next.Version,
		"assets", len(next.Assets),
		"executable_parts", len(next.Executable.Parts))
	return next, nil
}

// compileRules builds the rule table into the source tree, where the
// asset sync then publishes it.
func (p *Publisher) compileRules() error {
	items, err := rules.Compile(p.cfg.Rules.Metadata, p.logger)
	if err != nil {
		return err
	}
	tablePath := p.cfg.RuleTablePath()
	if err := rules.WriteTable(tablePath, items); err != nil {
		return err
	}
	p.logger.Info("compiled rule table", "rules", len(items), "path", tablePath)
	return nil
}

// readVersion reads the version marker from the source tree. A missing
// or empty marker silently falls back to the default version — the
// original deployment behaved this way and clients rely on always
// seeing a version string.
func (p *Publisher) readVersion() string {
	data, err := os.ReadFile(filepath.Join(p.cfg.SourceDir, p.cfg.VersionFile))
	if err != nil {
		return config.DefaultVersion
	}
	version := strings.TrimSpace(string(data))
	if version == "" {
		return config.DefaultVersion
	}
	return version
}
