// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// suggestCommand returns the subcommand name closest to input, or ""
// when nothing is within a sensible edit distance.
func suggestCommand(input string, commands []*Command) string {
	best := ""
	bestDistance := 4 // threshold: suggestions beyond distance 3 are noise

	for _, cmd := range commands {
		d := levenshtein(input, cmd.Name)
		if d < bestDistance {
			bestDistance = d
			best = cmd.Name
		}
	}
	return best
}

// suggestFlag finds the unknown flag in args and returns the closest
// defined flag (with leading dashes), or "".
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	var unknown string
	for _, arg := range args {
		if strings.HasPrefix(arg, "--") {
			unknown = strings.TrimPrefix(arg, "--")
			if i := strings.IndexByte(unknown, '='); i >= 0 {
				unknown = unknown[:i]
			}
			if flagSet.Lookup(unknown) == nil {
				break
			}
			unknown = ""
		}
	}
	if unknown == "" {
		return ""
	}

	best := ""
	bestDistance := 4
	flagSet.VisitAll(func(f *pflag.Flag) {
		d := levenshtein(unknown, f.Name)
		if d < bestDistance {
			bestDistance = d
			best = f.Name
		}
	})
	if best == "" {
		return ""
	}
	return "--" + best
}

// levenshtein computes the edit distance between two strings using a
// single-row dynamic programming pass.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	row := make([]int, len(a)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(b); j++ {
		prev := row[0]
		row[0] = j
		for i := 1; i <= len(a); i++ {
			current := row[i]
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			row[i] = min(row[i-1]+1, min(current+1, prev+cost))
			prev = current
		}
	}
	return row[len(a)]
}
