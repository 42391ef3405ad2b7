/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/internal/ioconfig"
	"github.com/gnames/gnvariants/internal/iofs"
	"github.com/gnames/gnvariants/internal/iologger"
	app "github.com/gnames/gnvariants/pkg"
	"github.com/gnames/gnvariants/pkg/config"
	"github.com/spf13/cobra"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd builds the root command with all subcommands.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "gnvariants",
		Short:   "GNvariants catalogues mutations of viral genomes",
		Long: `GNvariants aligns viral genome sequences to reference genomes,
stores nucleotide and amino acid variants of every sample in a relational
database and finds samples by mutation profiles and properties.

Commands follow the lifecycle of a database:
  - create: create tables and load references and properties
  - import: import samples from FASTA files
  - match: query samples by profiles and properties
  - restore: rebuild sample sequences from stored variants
  - delete: remove samples

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNVARIANTS_*)
  3. Config file (~/.config/gnvariants/config.yaml)
  4. Built-in defaults

Nested fields use underscores, for example database.driver is set by
GNVARIANTS_DATABASE_DRIVER.`,
		PersistentPreRunE: bootstrap,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "gnvariants version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for gnvariants")

	pf := rootCmd.PersistentFlags()
	pf.String("db-driver", "", "relational store: postgres or sqlite")
	pf.String("db-path", "", "SQLite database file")
	pf.String("cache-driver", "", "artifact cache: fs, s3 or memory")
	pf.IntP("jobs", "j", 0, "number of concurrent aligners")

	rootCmd.AddCommand(
		getCreateCmd(),
		getImportCmd(),
		getMatchCmd(),
		getRestoreCmd(),
		getDeleteCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults.
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if cfg, err = ioconfig.Load(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	opts = flagOptions(cmd)
	cfg.Update(opts)

	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"driver", cfg.Database.Driver,
		"cache", cfg.Cache.Driver,
	)
	return nil
}

// flagOptions converts explicitly set persistent flags to options.
func flagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	f := cmd.Flags()
	if f.Changed("db-driver") {
		s, _ := f.GetString("db-driver")
		res = append(res, config.OptDatabaseDriver(s))
	}
	if f.Changed("db-path") {
		s, _ := f.GetString("db-path")
		res = append(res, config.OptDatabasePath(s))
	}
	if f.Changed("cache-driver") {
		s, _ := f.GetString("cache-driver")
		res = append(res, config.OptCacheDriver(s))
	}
	if f.Changed("jobs") {
		i, _ := f.GetInt("jobs")
		res = append(res, config.OptJobsNumber(i))
	}
	return res
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
