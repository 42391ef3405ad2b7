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
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/internal/iofs"
	"github.com/gnames/gnvariants/internal/ioschema"
	"github.com/gnames/gnvariants/pkg/property"
	"github.com/gnames/gnvariants/pkg/reference"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	var (
		forceCreate bool
		refFile     string
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create database schema and load references",
		Long: `Create the GNvariants database schema.

This command:
  1. Connects to PostgreSQL or SQLite using configuration settings
  2. Checks for existing tables and prompts for confirmation
  3. Creates tables (GORM AutoMigrate for PostgreSQL, DDL for SQLite)
  4. Loads references, properties and lineages from a YAML file

Loading is idempotent: references and properties that are already
stored are kept as they are.

Use --force to skip confirmation and drop existing tables.

Examples:
  gnvariants create -r sars-cov-2.yaml
  gnvariants create --force -r sars-cov-2.yaml
  gnvariants --db-driver sqlite create -r sars-cov-2.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCreate(cmd, forceCreate, refFile)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	createCmd.Flags().BoolVarP(&forceCreate, "force", "f",
		false, "drop existing tables without confirmation")
	createCmd.Flags().StringVarP(&refFile, "reference", "r",
		"", "YAML file with references, properties and lineages")

	return createCmd
}

func runCreate(cmd *cobra.Command, force bool, refFile string) error {
	ctx := context.Background()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return err
	}

	if hasTables {
		if !force {
			gn.Warn("\nWarning: Database contains existing tables.")
			gn.Warn("Creating schema will drop ALL existing tables and data.")
			fmt.Fprint(cmd.OutOrStdout(), "\nDo you want to continue? (yes/no): ")
			if !confirm(cmd.InOrStdin()) {
				gn.Info("Aborted. No changes made.")
				return nil
			}
		}
		gn.Info("Dropping all existing tables...")
		if err = op.DropAllTables(ctx); err != nil {
			return err
		}
		gn.Info("All tables dropped")
	}

	sm := ioschema.NewManager(op)
	gn.Info("Creating schema...")
	if err = sm.Create(ctx); err != nil {
		return err
	}

	if refFile != "" {
		data, err := os.ReadFile(refFile)
		if err != nil {
			return iofs.ReadFileError(refFile, err)
		}
		refs, err := reference.DecodeYAML(bytes.NewReader(data))
		if err != nil {
			return err
		}
		props, ll, err := property.DecodeYAML(bytes.NewReader(data))
		if err != nil {
			return err
		}
		if err = sm.Setup(ctx, refs, props, ll); err != nil {
			return err
		}
		cat, err := sm.Catalog(ctx)
		if err != nil {
			return err
		}
		printCatalog(cmd.OutOrStdout(), cat)
	}

	gn.Info("\nDatabase schema creation complete!")
	gn.Info(`Next steps:
	 - Run '<em>gnvariants import</em>' to add samples
	 - Run '<em>gnvariants match</em>' to query them`)
	return nil
}

func confirm(r io.Reader) bool {
	response, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && response == "" {
		gn.Warn("Failed to read user input")
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y"
}

// printCatalog lists stored references with their molecules and
// elements.
func printCatalog(w io.Writer, cat *reference.Catalog) {
	for _, ref := range cat.References() {
		fmt.Fprintf(w, "%s\t%s\n", ref.Accession, ref.Description)
		for _, mol := range ref.Molecules {
			fmt.Fprintf(w, "  %s\t%s\t%d bp\n", mol.Accession, mol.Alias, len(mol.Sequence))
			for _, e := range mol.Elements {
				if e.Type == reference.Source {
					continue
				}
				fmt.Fprintf(w, "    %s\t%s\t%d-%d\n", e.Type, e.Symbol, e.Start+1, e.End)
			}
		}
	}
}
