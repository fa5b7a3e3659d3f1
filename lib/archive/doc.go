// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive wraps the published executable in a compressed
// single-entry container before it is chunked.
//
// Three container formats are supported, selected by configuration:
//
//   - [FormatZip] -- a deflate-compressed zip archive holding the
//     executable as its only entry. The default, and the format every
//     deployed update client understands.
//   - [FormatZstd] -- a raw zstd frame of the executable bytes. Better
//     ratio and much faster decode than deflate.
//   - [FormatLZ4] -- a raw lz4 frame. Fastest decode, weakest ratio.
//
// Format values are part of the published artifact naming (update.zip,
// update.zst, update.lz4) — changing a deployment's format invalidates
// the previously published parts, which the orphan sweep then removes.
package archive
