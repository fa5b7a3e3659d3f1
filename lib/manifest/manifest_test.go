// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/racpast/snibpub/lib/digest"
)

func sampleManifest() *Manifest {
	return &Manifest{
		Version:   "V2.1.0",
		Timestamp: 1756200000,
		Executable: ExecutableEntry{
			UpdateRequired: true,
			Hash:           digest.HashBytes([]byte("exe")),
			Parts: []string{
				"https://snib.racpast.com/files/update.zip.part000",
				"https://snib.racpast.com/files/update.zip.part001",
			},
		},
		Assets: []AssetEntry{
			{Path: "data/rules.json", URL: "https://snib.racpast.com/files/data/rules.json", Hash: digest.HashBytes([]byte("rules"))},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), Filename)
	want := sampleManifest()

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	result := Load(path)
	if result.Status != LoadOK {
		t.Fatalf("Load status = %v, want LoadOK", result.Status)
	}
	got := result.Manifest
	if got.Version != want.Version || got.Timestamp != want.Timestamp {
		t.Errorf("header mismatch: got %q/%d", got.Version, got.Timestamp)
	}
	if got.Executable.Hash != want.Executable.Hash || !got.Executable.UpdateRequired {
		t.Errorf("executable mismatch: %+v", got.Executable)
	}
	if len(got.Executable.Parts) != 2 || len(got.Assets) != 1 {
		t.Errorf("entry counts: %d parts, %d assets", len(got.Executable.Parts), len(got.Assets))
	}
}

func TestSaveWireFormat(t *testing.T) {
	// The update client expects snake_case keys and four-space
	// indentation.
	path := filepath.Join(t.TempDir(), Filename)
	if err := Save(path, sampleManifest()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)

	for _, key := range []string{`"version"`, `"timestamp"`, `"executable"`, `"update_required"`, `"hash"`, `"parts"`, `"assets"`, `"path"`, `"url"`} {
		if !strings.Contains(text, key) {
			t.Errorf("serialized manifest missing key %s", key)
		}
	}
	if !strings.Contains(text, "\n    \"version\"") {
		t.Error("manifest is not indented with four spaces")
	}
}

func TestLoadAbsent(t *testing.T) {
	result := Load(filepath.Join(t.TempDir(), Filename))
	if result.Status != LoadAbsent {
		t.Fatalf("Load status = %v, want LoadAbsent", result.Status)
	}
	if result.Manifest == nil {
		t.Fatal("absent load must still yield an empty manifest")
	}
	if result.Manifest.Executable.Hash != "" || len(result.Manifest.Executable.Parts) != 0 {
		t.Errorf("empty prior state expected, got %+v", result.Manifest.Executable)
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), Filename)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	result := Load(path)
	if result.Status != LoadCorrupt {
		t.Fatalf("Load status = %v, want LoadCorrupt", result.Status)
	}
	if result.Err == nil {
		t.Error("corrupt load should carry the parse error")
	}
	if result.Manifest == nil {
		t.Fatal("corrupt load must still yield an empty manifest")
	}
}

func TestSaveAtomicReplacement(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, Filename)

	if err := Save(path, sampleManifest()); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	second := sampleManifest()
	second.Version = "V2.2.0"
	if err := Save(path, second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	result := Load(path)
	if result.Status != LoadOK || result.Manifest.Version != "V2.2.0" {
		t.Errorf("replacement not visible: status %v, version %q", result.Status, result.Manifest.Version)
	}

	// No temporary files may remain.
	entries, err := os.ReadDir(directory)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		for _, entry := range entries {
			t.Logf("leftover: %s", entry.Name())
		}
		t.Errorf("directory has %d entries after Save, want 1", len(entries))
	}
}

func TestSaveValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Manifest)
	}{
		{"empty version", func(m *Manifest) { m.Version = "" }},
		{"bad executable hash", func(m *Manifest) { m.Executable.Hash = "nothex" }},
		{"parts without hash", func(m *Manifest) { m.Executable.Hash = "" }},
		{"empty part url", func(m *Manifest) { m.Executable.Parts[0] = "" }},
		{"empty asset path", func(m *Manifest) { m.Assets[0].Path = "" }},
		{"empty asset url", func(m *Manifest) { m.Assets[0].URL = "" }},
		{"bad asset hash", func(m *Manifest) { m.Assets[0].Hash = "short" }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := sampleManifest()
			test.mutate(m)
			if err := Save(filepath.Join(t.TempDir(), Filename), m); err == nil {
				t.Error("Save should reject invalid manifest")
			}
		})
	}
}

func TestNewEmptyShape(t *testing.T) {
	// The empty executable entry must serialize with an empty parts
	// array, not null — the update client indexes into it.
	data, err := json.Marshal(New("V1.0.0", 1).Executable)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got := string(data); !strings.Contains(got, `"parts":[]`) {
		t.Errorf("empty executable serializes as %s, want parts to be []", got)
	}
}
