// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for snibpub.
//
// Configuration is loaded from a single file specified by either the
// SNIBPUB_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search; a publish run must be reproducible
// from one named file. When no file is given at all, commands run on
// [Default], which mirrors the constants the original deployment was
// built around.
//
// Environment variables never override config values. The config file
// is the single source of truth for a run.
//
// Key exports:
//
//   - [Config] -- paths, naming, base URL, chunk size, archive format
//   - [Default] -- the stock SNIBypass deployment layout
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends only on lib/archive (format name validation)
// and lib/manifest (manifest filename).
package config
