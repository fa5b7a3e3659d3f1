// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

// Package digestcache persists asset content digests between publish
// runs so unchanged files are not rehashed.
//
// The cache maps slash-normalized asset paths to the file size, mtime,
// and SHA256 digest observed when the digest was computed. A lookup
// only hits when size and mtime both still match; anything else falls
// back to hashing. The cache therefore never changes what a manifest
// contains — digests are deterministic — it only saves SHA256 work on
// large unchanged trees.
//
// The cache file is CBOR with Core Deterministic Encoding (RFC 8949
// §4.2), stored next to the manifest in the target repository root. A
// missing or unreadable cache degrades to an empty one, the same
// policy the pipeline applies to the previous manifest.
package digestcache
