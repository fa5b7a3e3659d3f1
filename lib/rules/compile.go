// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// HostListExtension is the filename extension of per-rule host list
// files, which sit next to the metadata document as <Id>.txt.
const HostListExtension = ".txt"

// Compile reads the JSONC metadata document at metaPath and merges
// each item with its host list file. Items without a usable Id (or
// with a duplicate Id) are skipped with an error log; a missing host
// list file degrades to an empty Hosts field with a warning. Only I/O
// failures abort compilation.
func Compile(metaPath string, logger *slog.Logger) ([]Item, error) {
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("reading rule metadata %s: %w", metaPath, err)
	}

	parsed, err := ParseItems(data)
	if err != nil {
		return nil, fmt.Errorf("parsing rule metadata %s: %w", metaPath, err)
	}

	hostListDir := filepath.Dir(metaPath)
	seen := make(map[string]bool, len(parsed))

	compiled := make([]Item, 0, len(parsed))
	for index := range parsed {
		item := parsed[index]

		id := item.ID()
		if id == "" {
			logger.Error("rule item has no Id, skipping", "index", index)
			continue
		}
		if seen[id] {
			logger.Error("duplicate rule Id, skipping", "index", index, "id", id)
			continue
		}
		seen[id] = true

		hostPath := filepath.Join(hostListDir, id+HostListExtension)
		text, err := os.ReadFile(hostPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("rule has no host list file", "id", id, "path", hostPath)
			item.SetHosts("")
		case err != nil:
			return nil, fmt.Errorf("reading host list %s: %w", hostPath, err)
		default:
			item.SetHosts(EncodeHosts(string(text)))
		}

		item.EnsureStatus()
		compiled = append(compiled, item)
	}

	return compiled, nil
}

// EncodeHosts converts raw host list text into the wire encoding: line
// endings normalized to CRLF, leading and trailing whitespace stripped
// from the whole blob, and the UTF-8 bytes base64-encoded.
func EncodeHosts(text string) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = strings.ReplaceAll(normalized, "\n", "\r\n")
	normalized = strings.TrimSpace(normalized)
	return base64.StdEncoding.EncodeToString([]byte(normalized))
}

// WriteTable writes the compiled rule table as a single JSON document
// at path. The table lands inside the source tree so the asset
// synchronizer publishes it like any other file.
func WriteTable(path string, items []Item) error {
	data, err := json.MarshalIndent(items, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding rule table: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing rule table %s: %w", path, err)
	}
	return nil
}
