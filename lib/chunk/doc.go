// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

// Package chunk splits large files into fixed-size sequential parts.
//
// Update clients on restricted hosting cannot fetch a single large
// binary reliably, so the packaged executable container is published as
// a series of part files named <basename>.part000, <basename>.part001,
// and so on. Concatenating the parts in index order reproduces the
// source byte-for-byte; [Reassemble] performs exactly that and is used
// by the verify command and the round-trip tests.
//
// Splitting is not resumable. A failure mid-split leaves partial part
// files behind and must abort the surrounding run; a later successful
// run removes strays through the orphan sweep.
package chunk
