package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/quarry-labs/quarry/pkg/core"
)

// TablesOptions holds options for the tables command.
type TablesOptions struct {
	Schema string
	Format string
}

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	opts := &TablesOptions{}

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List tables in the target database",
		Long: `List tables visible on the live connection, one section per schema.

Unverified imports are included and marked pending until the database
confirms them.`,
		Example: `  # All schemas
  quarry tables

  # One schema
  quarry tables --schema analytics

  # JSON for scripting
  quarry tables --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTables(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "", "Limit to one schema")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json")

	return cmd
}

type tableListing struct {
	Schema string             `json:"schema"`
	Tables []core.TableRecord `json:"tables"`
}

func runTables(cmd *cobra.Command, opts *TablesOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()

	schemas, err := cmdCtx.Engine.Schemas(ctx)
	if err != nil {
		return err
	}

	var listings []tableListing
	for _, schema := range schemas {
		if opts.Schema != "" && schema.Name != opts.Schema {
			continue
		}
		if err := cmdCtx.Engine.Refresh(ctx, schema.ID); err != nil {
			return err
		}
		listings = append(listings, tableListing{
			Schema: schema.Name,
			Tables: cmdCtx.Engine.TableSource(schema.ID).Get(),
		})
	}

	if opts.Schema != "" && len(listings) == 0 {
		return fmt.Errorf("schema %q not found", opts.Schema)
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	}

	renderTableListings(cmd.OutOrStdout(), listings)
	return nil
}

func renderTableListings(w io.Writer, listings []tableListing) {
	titleCaser := cases.Title(language.English)

	for i, listing := range listings {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Schema: %s\n", titleCaser.String(listing.Schema))
		fmt.Fprintln(w, strings.Repeat("-", 40))

		if len(listing.Tables) == 0 {
			fmt.Fprintln(w, "(no tables)")
			continue
		}

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"ID", "Name", "Status"})

		for _, rec := range listing.Tables {
			status := "verified"
			if !rec.ImportVerified {
				status = "pending import"
			}
			t.AppendRow(table.Row{rec.ID, rec.Name, status})
		}
		t.Render()
	}
}
