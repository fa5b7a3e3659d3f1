// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"reflect"
	"testing"
)

func TestWalkOrderAndNormalization(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"b.txt":        []byte("b"),
		"a/nested.txt": []byte("n"),
		"a/z.txt":      []byte("z"),
		"c/d/e.txt":    []byte("e"),
	})

	collect := func() []string {
		var paths []string
		for record, err := range Walk(root) {
			if err != nil {
				t.Fatalf("Walk: %v", err)
			}
			if record.Info.IsDir() {
				t.Fatalf("Walk yielded a directory: %s", record.Rel)
			}
			paths = append(paths, record.Rel)
		}
		return paths
	}

	want := []string{"a/nested.txt", "a/z.txt", "b.txt", "c/d/e.txt"}
	got := collect()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Walk order = %v, want %v", got, want)
	}

	// Restartable: a second range yields the same sequence.
	if again := collect(); !reflect.DeepEqual(again, want) {
		t.Errorf("second Walk = %v, want %v", again, want)
	}
}

func TestWalkEarlyStop(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"1.txt": []byte("1"),
		"2.txt": []byte("2"),
		"3.txt": []byte("3"),
	})

	var seen int
	for _, err := range Walk(root) {
		if err != nil {
			t.Fatalf("Walk: %v", err)
		}
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Errorf("saw %d records after break at 2", seen)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	var sawError bool
	for _, err := range Walk(t.TempDir() + "/absent") {
		if err != nil {
			sawError = true
		}
	}
	if !sawError {
		t.Error("Walk of a missing root must yield an error")
	}
}
