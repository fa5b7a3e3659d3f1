// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVerifyCleanTree(t *testing.T) {
	cfg := testConfig(t)
	writeTree(t, cfg.SourceDir, map[string][]byte{
		"version.txt":    []byte("V1.2.3"),
		"app.exe":        incompressible(5000),
		"data/hosts.txt": []byte("a.example.com"),
	})
	if _, err := newTestPublisher(cfg, 1000).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	issues, err := Verify(cfg)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("clean tree reported issues: %v", issues)
	}
}

func TestVerifyDetectsMissingPart(t *testing.T) {
	cfg := testConfig(t)
	writeTree(t, cfg.SourceDir, map[string][]byte{"app.exe": incompressible(5000)})
	if _, err := newTestPublisher(cfg, 1000).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if err := os.Remove(filepath.Join(cfg.TargetFilesDir(), "update.zip.part001")); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	issues, err := Verify(cfg)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !containsIssue(issues, "update.zip.part001") {
		t.Errorf("missing part not reported: %v", issues)
	}
}

func TestVerifyDetectsCorruptedPart(t *testing.T) {
	cfg := testConfig(t)
	writeTree(t, cfg.SourceDir, map[string][]byte{"app.exe": incompressible(5000)})
	if _, err := newTestPublisher(cfg, 1000).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	partPath := filepath.Join(cfg.TargetFilesDir(), "update.zip.part000")
	data := mustRead(t, partPath)
	data[100] ^= 0xff
	if err := os.WriteFile(partPath, data, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	issues, err := Verify(cfg)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(issues) == 0 {
		t.Error("corrupted part not detected")
	}
}

func TestVerifyDetectsModifiedAsset(t *testing.T) {
	cfg := testConfig(t)
	writeTree(t, cfg.SourceDir, map[string][]byte{"data/hosts.txt": []byte("a.example.com")})
	if _, err := newTestPublisher(cfg, 1000).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	writeTree(t, cfg.TargetFilesDir(), map[string][]byte{"data/hosts.txt": []byte("tampered")})

	issues, err := Verify(cfg)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !containsIssue(issues, "data/hosts.txt") {
		t.Errorf("modified asset not reported: %v", issues)
	}
}

func TestVerifyDetectsUnreferencedFile(t *testing.T) {
	cfg := testConfig(t)
	writeTree(t, cfg.SourceDir, map[string][]byte{"a.txt": []byte("x")})
	if _, err := newTestPublisher(cfg, 1000).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	writeTree(t, cfg.TargetFilesDir(), map[string][]byte{"stray.bin": []byte("who put this here")})

	issues, err := Verify(cfg)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !containsIssue(issues, "stray.bin") {
		t.Errorf("unreferenced file not reported: %v", issues)
	}
}

func TestVerifyMissingManifest(t *testing.T) {
	cfg := testConfig(t)
	issues, err := Verify(cfg)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(issues) == 0 {
		t.Error("missing manifest must be an issue")
	}
}

func containsIssue(issues []string, fragment string) bool {
	for _, issue := range issues {
		if strings.Contains(issue, fragment) {
			return true
		}
	}
	return false
}
