// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest provides SHA256 content hashing for published files.
//
// Every file that enters the distribution tree is identified by the
// hex-encoded SHA256 digest of its contents. The executable publisher
// compares the current digest against the digest stored in the previous
// manifest to decide whether the binary must be re-archived and
// re-chunked; asset entries carry their digest so the update client can
// verify downloads.
//
// "File does not exist" is a legitimate state for several callers (no
// executable in the source tree, no previously published artifact), so
// [HashFile] reports absence as a boolean rather than an error.
//
// This package has no dependencies on other snibpub packages.
package digest
