// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError carries a process exit code through the command tree.
// Commands return it when they have already reported their findings
// and only need a specific exit status (e.g., verification failures).
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode returns the process exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}
