package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry/internal/imports"
	"github.com/quarry-labs/quarry/pkg/core"
)

// ImportsOptions holds options for the imports command.
type ImportsOptions struct {
	Format string
}

// NewImportsCommand creates the imports command.
func NewImportsCommand() *cobra.Command {
	opts := &ImportsOptions{}

	cmd := &cobra.Command{
		Use:   "imports",
		Short: "Inspect and manage staged table imports",
		Long: `Inspect staged table imports and drive them through their lifecycle.

A staged import starts pending with a provisional identity, gets its
real table identity on resolve, and leaves the pending set on verify.`,
		Example: `  # List all imports
  quarry imports

  # Stage an import from a manifest
  quarry imports add orders.import.yaml

  # Assign the real table identity
  quarry imports resolve <token> --table-id 42

  # Confirm the table structure
  quarry imports verify <token>`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImportsList(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json")

	cmd.AddCommand(newImportsAddCommand())
	cmd.AddCommand(newImportsResolveCommand())
	cmd.AddCommand(newImportsVerifyCommand())

	return cmd
}

func runImportsList(cmd *cobra.Command, opts *ImportsOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	schemas, err := cmdCtx.State.ListSchemas()
	if err != nil {
		return err
	}

	var records []core.ImportRecord
	for _, schema := range schemas {
		recs, err := cmdCtx.State.ListImports(schema.ID)
		if err != nil {
			return err
		}
		records = append(records, recs...)
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	renderImports(cmd.OutOrStdout(), records)
	return nil
}

func renderImports(w io.Writer, records []core.ImportRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No staged imports.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Token", "Schema", "Table", "Provisional ID", "Table ID", "Status"})

	for _, rec := range records {
		tableID := "-"
		if rec.ID != 0 {
			tableID = fmt.Sprintf("%d", rec.ID)
		}
		t.AppendRow(table.Row{rec.Token, rec.SchemaID, rec.TableName, rec.ProvisionalID, tableID, rec.Status})
	}
	t.Render()
}

func newImportsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <manifest>",
		Short: "Stage an import from a manifest file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			manifest, err := imports.LoadManifest(args[0])
			if err != nil {
				return err
			}

			schema, err := cmdCtx.State.EnsureSchema(manifest.Schema)
			if err != nil {
				return err
			}

			rec, err := cmdCtx.Imports.Register(cmdCtx.Engine.Database(), schema.ID, manifest.Table)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Staged import %s (provisional id %d, token %s)\n",
				rec.TableName, rec.ProvisionalID, rec.Token)
			return nil
		},
	}
}

func newImportsResolveCommand() *cobra.Command {
	var tableID int64

	cmd := &cobra.Command{
		Use:   "resolve <token>",
		Short: "Assign the real table identity to a staged import",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if tableID == 0 {
				return fmt.Errorf("--table-id is required")
			}

			if err := cmdCtx.Imports.Resolve(cmdCtx.Engine.Database(), args[0], tableID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Resolved import %s to table %d\n", args[0], tableID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&tableID, "table-id", 0, "Real table identity to assign")
	return cmd
}

func newImportsVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Confirm a staged import's table structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cmdCtx.Imports.Verify(cmdCtx.Engine.Database(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Verified import %s\n", args[0])
			return nil
		},
	}
}
