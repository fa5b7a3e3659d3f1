// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

// Package publish implements the release publish pipeline: it turns a
// directory of build outputs into a distribution tree plus a manifest
// the update client fetches over HTTPS.
//
// A run executes sequentially: rule table compilation (optional),
// executable publish, asset sync, orphan sweep, manifest write. The
// target tree and manifest are owned exclusively by one run at a time;
// there is no locking because at most one publish runs per target.
//
// The pipeline is incremental where it matters: when the executable's
// SHA256 digest matches the previous manifest, its already-published
// chunk parts are reused verbatim and the large binary is never
// re-archived. Everything else is recomputed each run, and the orphan
// sweep deletes whatever the current run did not produce, so a
// completed run always leaves the tree and manifest consistent — every
// file on disk is referenced by exactly one manifest entry, and every
// referenced file exists.
//
// A crash between steps leaves a recoverable tree: re-running with the
// same inputs reproduces identical outputs (timestamp aside), and
// strays from an interrupted run fall to a later orphan sweep.
package publish
