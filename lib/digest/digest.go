// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// HashFile computes the hex-encoded SHA256 digest of the file at path.
// The file is streamed through the hash function (via io.Copy) to keep
// memory usage constant regardless of file size.
//
// The second return value reports whether the file exists. A missing
// file yields ("", false, nil): absence is a legitimate prior state for
// callers, not a failure.
func HashFile(path string) (string, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", false, fmt.Errorf("hashing %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), true, nil
}

// HashBytes returns the hex-encoded SHA256 digest of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Valid reports whether s is a well-formed hex-encoded SHA256 digest:
// exactly 64 characters of valid hex.
func Valid(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
