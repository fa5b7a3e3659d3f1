// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfoContainsVersionAndCommit(t *testing.T) {
	info := Info()
	if !strings.Contains(info, Version) {
		t.Errorf("Info() = %q, missing version %q", info, Version)
	}
	if !strings.Contains(info, GitCommit) {
		t.Errorf("Info() = %q, missing commit %q", info, GitCommit)
	}
}

func TestFullContainsPlatform(t *testing.T) {
	full := Full()
	if !strings.Contains(full, "Go:") || !strings.Contains(full, "/") {
		t.Errorf("Full() = %q, missing Go or platform info", full)
	}
}
