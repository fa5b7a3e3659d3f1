// Copyright 2026 The snibpub Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the snibpub CLI command tree.
package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/racpast/snibpub/cmd/snibpub/cli"
	"github.com/racpast/snibpub/lib/config"
	"github.com/racpast/snibpub/lib/publish"
	"github.com/racpast/snibpub/lib/rules"
	"github.com/racpast/snibpub/lib/version"
)

// Root builds and returns the complete snibpub CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "snibpub",
		Description: `snibpub: incremental release publisher.

Packages an executable into chunked archives, mirrors auxiliary
files into a target repository, compiles proxy rule tables, and
maintains a manifest describing the published release.`,
		Subcommands: []*cli.Command{
			publishCommand(),
			rulesCommand(),
			verifyCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("snibpub %s\n", version.Full())
					return nil
				},
			},
		},
	}
}

func publishCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "publish",
		Summary: "Build the release tree and write the manifest",
		Description: `Publish runs the full release pipeline: compiles the rule table,
archives and chunks the executable when its content changed, copies
auxiliary files into the target repository, removes files no longer
published, and writes the updated manifest.`,
		Usage: "snibpub publish [flags]",
		Examples: []cli.Example{
			{
				Description: "publish using defaults, with SNIBPUB_CONFIG honored",
				Command:     "snibpub publish",
			},
			{
				Description: "publish with an explicit config file",
				Command:     "snibpub publish --config snibpub.yaml",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("publish", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to YAML config file")
			return flagSet
		},
		Run: func(args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger().With("command", "publish")

			m, err := publish.New(cfg, logger).Run()
			if err != nil {
				return err
			}
			fmt.Printf("published %s: executable update_required=%t, %d assets\n",
				m.Version, m.Executable.UpdateRequired, len(m.Assets))
			return nil
		},
	}
}

func rulesCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "rules",
		Summary: "Compile the proxy rule table without publishing",
		Description: `Rules compiles the rule metadata and per-rule host lists into the
rule table JSON inside the source tree, without touching the target
repository.`,
		Usage: "snibpub rules [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("rules", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to YAML config file")
			return flagSet
		},
		Run: func(args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cfg.Rules.Metadata == "" {
				return fmt.Errorf("no rule metadata path configured")
			}
			logger := cli.NewCommandLogger().With("command", "rules")

			items, err := rules.Compile(cfg.Rules.Metadata, logger)
			if err != nil {
				return err
			}
			outPath := cfg.RuleTablePath()
			if err := rules.WriteTable(outPath, items); err != nil {
				return err
			}
			fmt.Printf("compiled %d rules to %s\n", len(items), outPath)
			return nil
		},
	}
}

func verifyCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "verify",
		Summary: "Check the published tree against its manifest",
		Description: `Verify recomputes digests for every published asset, reassembles
and extracts the chunked executable, and reports files present in
the target repository that the manifest does not reference.`,
		Usage: "snibpub verify [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to YAML config file")
			return flagSet
		},
		Run: func(args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			issues, err := publish.Verify(cfg)
			if err != nil {
				return err
			}
			if len(issues) > 0 {
				for _, issue := range issues {
					fmt.Println(issue)
				}
				fmt.Printf("%d verification issue(s) found\n", len(issues))
				return &cli.ExitError{Code: 1}
			}
			fmt.Println("ok")
			return nil
		},
	}
}

// loadConfig resolves the effective configuration: an explicit --config
// path wins, otherwise the SNIBPUB_CONFIG environment variable, falling
// back to built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
