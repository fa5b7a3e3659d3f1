// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package chunk

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PartName returns the filename of the part with the given index for a
// source file named base: "<base>.part<NNN>" with a zero-padded
// three-digit index starting at 000.
func PartName(base string, index int) string {
	return fmt.Sprintf("%s.part%03d", base, index)
}

// Split reads sourcePath sequentially and writes successive byte ranges
// of at most chunkSize bytes to part files in destDir. The returned
// slice holds the part filenames (not full paths) in index order. Only
// the final part may be shorter than chunkSize; an empty source file
// produces no parts.
func Split(sourcePath, destDir string, chunkSize int64) ([]string, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}

	source, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s for splitting: %w", sourcePath, err)
	}
	defer source.Close()

	base := filepath.Base(sourcePath)
	reader := bufio.NewReader(source)

	var parts []string
	for index := 0; ; index++ {
		// Peek before creating the next part so an input that ends
		// exactly on a chunk boundary does not produce a trailing
		// empty part.
		if _, err := reader.Peek(1); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading %s: %w", sourcePath, err)
		}

		name := PartName(base, index)
		written, err := writePart(filepath.Join(destDir, name), reader, chunkSize)
		if err != nil {
			return nil, fmt.Errorf("writing part %s: %w", name, err)
		}
		parts = append(parts, name)

		if written < chunkSize {
			break
		}
	}

	return parts, nil
}

// writePart copies at most chunkSize bytes from reader into a newly
// created file at path, returning the number of bytes written.
func writePart(path string, reader io.Reader, chunkSize int64) (int64, error) {
	part, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	written, err := io.CopyN(part, reader, chunkSize)
	if err != nil && !errors.Is(err, io.EOF) {
		part.Close()
		return written, err
	}
	if err := part.Close(); err != nil {
		return written, err
	}
	return written, nil
}

// Reassemble concatenates the files at partPaths, in slice order, into
// a newly created file at destPath. The result is byte-identical to the
// file the parts were split from.
func Reassemble(destPath string, partPaths []string) error {
	destination, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", destPath, err)
	}

	for _, partPath := range partPaths {
		part, err := os.Open(partPath)
		if err != nil {
			destination.Close()
			return fmt.Errorf("opening part %s: %w", partPath, err)
		}
		if _, err := io.Copy(destination, part); err != nil {
			part.Close()
			destination.Close()
			return fmt.Errorf("appending part %s: %w", partPath, err)
		}
		part.Close()
	}

	if err := destination.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", destPath, err)
	}
	return nil
}
