// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

// Package rules compiles the proxy bypass rule table that ships as an
// ordinary asset in the published tree.
//
// Rule metadata is authored as a JSONC document (JSON extended with
// comments and trailing commas): an array of objects, each describing
// one host-bypass rule. The host list itself lives in a sibling plain
// text file named <Id>.txt. Compilation merges the two: the host list
// is CRLF-normalized, trimmed, and base64-encoded into the item's
// Hosts field, Status defaults to 0, and every other metadata field
// passes through unchanged — including field order, so the compiled
// table diffs cleanly against its source.
//
// A missing host list file is a warning, not a failure: the rule ships
// with an empty Hosts field. An item without the required Id is
// skipped with an error log; compilation continues.
package rules
