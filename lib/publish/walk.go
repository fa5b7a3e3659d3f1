// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"errors"
	"io/fs"
	"iter"
	"path/filepath"
)

// FileRecord describes one regular file found during a tree walk.
type FileRecord struct {
	// Path is the file's path as walked (root-prefixed).
	Path string

	// Rel is the slash-normalized path relative to the walk root —
	// the form used in manifests, URLs, and the target file set.
	Rel string

	// Info is the file's metadata at walk time.
	Info fs.FileInfo
}

// Walk returns a lazy sequence of the regular files under root, in
// deterministic lexical order. Directories are traversed, not yielded.
// Errors surface through the second value; stopping early is the
// caller's choice (break), and the sequence can be restarted simply by
// ranging again.
func Walk(root string) iter.Seq2[FileRecord, error] {
	return func(yield func(FileRecord, error) bool) {
		stopWalk := errors.New("walk stopped")

		_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				if !yield(FileRecord{Path: path}, walkErr) {
					return stopWalk
				}
				return nil
			}
			if entry.IsDir() {
				return nil
			}

			info, err := entry.Info()
			if err != nil {
				if !yield(FileRecord{Path: path}, err) {
					return stopWalk
				}
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				if !yield(FileRecord{Path: path}, err) {
					return stopWalk
				}
				return nil
			}

			record := FileRecord{Path: path, Rel: filepath.ToSlash(rel), Info: info}
			if !yield(record, nil) {
				return stopWalk
			}
			return nil
		})
	}
}
