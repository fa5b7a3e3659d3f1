// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format identifies the container format used to package the
// executable before chunking.
type Format uint8

const (
	// FormatZip is a deflate-compressed zip archive with the
	// executable as its single entry.
	FormatZip Format = iota

	// FormatZstd is a zstd frame of the raw executable bytes.
	FormatZstd

	// FormatLZ4 is an lz4 frame of the raw executable bytes.
	FormatLZ4
)

// String returns the configuration name of the format.
func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatZstd:
		return "zstd"
	case FormatLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(f))
	}
}

// ParseFormat parses a format from its configuration name.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "zip":
		return FormatZip, nil
	case "zstd":
		return FormatZstd, nil
	case "lz4":
		return FormatLZ4, nil
	default:
		return 0, fmt.Errorf("unknown archive format: %q", name)
	}
}

// ContainerName returns the filename of the container artifact for the
// format. The name is stable per format: part filenames and therefore
// part URLs derive from it.
func (f Format) ContainerName() string {
	switch f {
	case FormatZstd:
		return "update.zst"
	case FormatLZ4:
		return "update.lz4"
	default:
		return "update.zip"
	}
}

// Create writes a container of the given format at destPath holding
// the contents of sourcePath. For zip containers, entryName is the
// archive-internal filename of the sole entry; the frame formats carry
// no entry name. The source is streamed, never loaded whole.
func Create(format Format, sourcePath, entryName, destPath string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("opening %s for archiving: %w", sourcePath, err)
	}
	defer source.Close()

	destination, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating container %s: %w", destPath, err)
	}

	if err := compressInto(format, destination, source, entryName); err != nil {
		destination.Close()
		return fmt.Errorf("archiving %s into %s: %w", sourcePath, destPath, err)
	}
	if err := destination.Close(); err != nil {
		return fmt.Errorf("closing container %s: %w", destPath, err)
	}
	return nil
}

func compressInto(format Format, destination io.Writer, source io.Reader, entryName string) error {
	switch format {
	case FormatZip:
		writer := zip.NewWriter(destination)
		entry, err := writer.Create(entryName)
		if err != nil {
			return fmt.Errorf("creating zip entry %q: %w", entryName, err)
		}
		if _, err := io.Copy(entry, source); err != nil {
			return fmt.Errorf("writing zip entry: %w", err)
		}
		return writer.Close()

	case FormatZstd:
		encoder, err := zstd.NewWriter(destination)
		if err != nil {
			return fmt.Errorf("initializing zstd encoder: %w", err)
		}
		if _, err := io.Copy(encoder, source); err != nil {
			encoder.Close()
			return fmt.Errorf("writing zstd frame: %w", err)
		}
		return encoder.Close()

	case FormatLZ4:
		encoder := lz4.NewWriter(destination)
		if _, err := io.Copy(encoder, source); err != nil {
			encoder.Close()
			return fmt.Errorf("writing lz4 frame: %w", err)
		}
		return encoder.Close()

	default:
		return fmt.Errorf("unsupported archive format: %d", format)
	}
}

// Extract writes the contents of the container at containerPath to
// destPath. For zip containers the first (and only) entry is
// extracted. Used by the verify command and the round-trip tests.
func Extract(format Format, containerPath, destPath string) error {
	destination, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", destPath, err)
	}

	if err := decompressInto(format, destination, containerPath); err != nil {
		destination.Close()
		return fmt.Errorf("extracting %s: %w", containerPath, err)
	}
	if err := destination.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", destPath, err)
	}
	return nil
}

func decompressInto(format Format, destination io.Writer, containerPath string) error {
	switch format {
	case FormatZip:
		reader, err := zip.OpenReader(containerPath)
		if err != nil {
			return fmt.Errorf("opening zip: %w", err)
		}
		defer reader.Close()

		if len(reader.File) != 1 {
			return fmt.Errorf("container has %d entries, want exactly 1", len(reader.File))
		}
		entry, err := reader.File[0].Open()
		if err != nil {
			return fmt.Errorf("opening zip entry: %w", err)
		}
		defer entry.Close()

		_, err = io.Copy(destination, entry)
		return err

	case FormatZstd:
		container, err := os.Open(containerPath)
		if err != nil {
			return err
		}
		defer container.Close()

		decoder, err := zstd.NewReader(container)
		if err != nil {
			return fmt.Errorf("initializing zstd decoder: %w", err)
		}
		defer decoder.Close()

		_, err = io.Copy(destination, decoder.IOReadCloser())
		return err

	case FormatLZ4:
		container, err := os.Open(containerPath)
		if err != nil {
			return err
		}
		defer container.Close()

		_, err = io.Copy(destination, lz4.NewReader(container))
		return err

	default:
		return fmt.Errorf("unsupported archive format: %d", format)
	}
}
