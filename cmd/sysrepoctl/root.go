// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rastislavszabo/sr/internal/srconfig"
	"github.com/rastislavszabo/sr/internal/srlog"
)

// version is stamped by the release process; unset in a developer
// build, same convention as the rest of the teacher's tooling.
var version = "dev"

var log = srlog.For(srlog.CLI)

func rootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:          "sysrepoctl",
		Short:        "sysrepoctl installs, uninstalls, and inspects YANG modules in the module store",
		SilenceUsage: true,
		RunE:         runVerb(v),
	}

	flags := cmd.Flags()
	flags.Bool("list", false, "List every installed module.")
	flags.Bool("install", false, "Install a new module.")
	flags.Bool("init", false, "Track an already-present schema file without copying it.")
	flags.Bool("uninstall", false, "Uninstall a module.")
	flags.Bool("change", false, "Change the owner and/or permissions of a module's data.")
	flags.String("feature-enable", "", "Enable the named feature on --module.")
	flags.String("feature-disable", "", "Disable the named feature on --module.")
	flags.Bool("version", false, "Print the version and exit.")

	flags.String("yang", "", "Path to the module's YANG source file.")
	flags.String("yin", "", "Path to the module's YIN source file.")
	flags.String("module", "", "Module name (required for uninstall/change/feature toggles).")
	flags.String("revision", "", "Module revision-date.")
	flags.String("owner", "", "owner:group to apply to the module's data files.")
	flags.String("permissions", "", "Octal permission bits, e.g. 600, to apply to the module's data files.")
	flags.StringSlice("search-dir", nil, "Additional directories to search for imported/included schemas.")
	flags.Bool("search-installed", false, "Also search the schema store for imported/included schemas.")
	flags.Int("level", 1, "Verbosity level, 0-4.")
	flags.Bool("data-bearing", true, "Whether the module being installed/initialized owns datastore content.")
	flags.String("config_file", "", "Path to a YAML configuration file.")

	flags.String("0", "", "Root prefix standing in for /etc/sysrepo (for tests).")
	flags.MarkHidden("0")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if cfgFile := v.GetString("config_file"); cfgFile != "" {
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("sysrepoctl: reading config: %w", err)
			}
		}
		return nil
	}

	return cmd
}

// Execute runs the root command, exiting non-zero on failure (same
// top-level shape as gnmidiff/gnmidiff/main.go).
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runVerb(v *viper.Viper) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if v.GetBool("version") {
			fmt.Println("sysrepoctl", version)
			return nil
		}

		level := v.GetInt("level")
		if level < 0 || level > 4 {
			return fmt.Errorf("sysrepoctl: --level must be between 0 and 4, got %d", level)
		}

		cfg, err := srconfig.Load(v, v.GetString("config_file"), v.GetString("0"))
		if err != nil {
			return err
		}
		if err := cfg.EnsureDirs(); err != nil {
			return err
		}

		env := newOpEnv(cfg, v)

		switch {
		case v.GetBool("list"):
			return env.list()
		case v.GetBool("install"):
			return env.install()
		case v.GetBool("init"):
			return env.initModule()
		case v.GetBool("uninstall"):
			return env.uninstall()
		case v.GetBool("change"):
			return env.change()
		case v.GetString("feature-enable") != "":
			return env.featureToggle(v.GetString("feature-enable"), true)
		case v.GetString("feature-disable") != "":
			return env.featureToggle(v.GetString("feature-disable"), false)
		default:
			return cmd.Help()
		}
	}
}
