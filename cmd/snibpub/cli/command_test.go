// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "snibpub",
		Subcommands: []*Command{
			{
				Name: "publish",
				Run: func(args []string) error {
					called = "publish"
					return nil
				},
			},
			{
				Name: "verify",
				Run: func(args []string) error {
					called = "verify"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"verify"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "verify" {
		t.Errorf("dispatched to %q, want %q", called, "verify")
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var configPath string
	var positional []string

	command := &Command{
		Name: "publish",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("publish", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "config file path")
			return flagSet
		},
		Run: func(args []string) error {
			positional = args
			return nil
		},
	}

	if err := command.Execute([]string{"--config", "snibpub.yaml", "extra"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if configPath != "snibpub.yaml" {
		t.Errorf("configPath = %q, want %q", configPath, "snibpub.yaml")
	}
	if len(positional) != 1 || positional[0] != "extra" {
		t.Errorf("args = %v, want [extra]", positional)
	}
}

func TestCommand_Execute_UnknownCommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "snibpub",
		Subcommands: []*Command{
			{Name: "publish"},
			{Name: "verify"},
			{Name: "version"},
		},
	}

	err := root.Execute([]string{"publsih"})
	if err == nil {
		t.Fatal("Execute() succeeded for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "publish"`) {
		t.Errorf("error = %q, want suggestion for publish", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "publish",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("publish", pflag.ContinueOnError)
			flagSet.String("config", "", "config file path")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--confg", "snibpub.yaml"})
	if err == nil {
		t.Fatal("Execute() succeeded for unknown flag")
	}
	if !strings.Contains(err.Error(), "--config") {
		t.Errorf("error = %q, want suggestion for --config", err)
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	ran := false
	command := &Command{
		Name:    "verify",
		Summary: "check published files against the manifest",
		Run: func(args []string) error {
			ran = true
			return nil
		},
	}

	if err := command.Execute([]string{"--help"}); err != nil {
		t.Fatalf("Execute(--help) error: %v", err)
	}
	if ran {
		t.Error("Run executed despite --help")
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name: "snibpub",
		Subcommands: []*Command{
			{Name: "publish"},
		},
	}

	if err := root.Execute(nil); err == nil {
		t.Fatal("Execute() succeeded without a subcommand")
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	root := &Command{
		Name:        "snibpub",
		Description: "Incremental release publisher.",
		Subcommands: []*Command{
			{Name: "publish", Summary: "build the release tree"},
			{Name: "verify", Summary: "check published files"},
		},
		Examples: []Example{
			{Description: "publish with a config file", Command: "snibpub publish --config snibpub.yaml"},
		},
	}

	var buf bytes.Buffer
	root.PrintHelp(&buf)
	out := buf.String()

	for _, want := range []string{
		"Incremental release publisher.",
		"publish",
		"build the release tree",
		"# publish with a config file",
		"snibpub publish --config snibpub.yaml",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "snibpub"}
	child := &Command{Name: "rules", parent: root}

	if got := child.fullName(); got != "snibpub rules" {
		t.Errorf("fullName() = %q, want %q", got, "snibpub rules")
	}
}
