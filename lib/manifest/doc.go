// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest defines the published update manifest and its
// load/save boundary.
//
// The manifest is a single JSON document (latest.json at the target
// repository root) consumed by the update client over HTTPS. It names
// the release version, the executable's content digest and part URLs,
// and one entry per published asset. The whole document is replaced on
// every publish run; the only state carried across runs is the
// executable entry, reused verbatim when the executable is unchanged.
//
// Loading distinguishes three outcomes explicitly — [LoadOK],
// [LoadAbsent], [LoadCorrupt] — instead of collapsing failure into an
// empty document silently. Absent and corrupt both degrade to empty
// prior state; the caller decides what to log.
package manifest
