package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tourquote/internal/catalog"
	"github.com/Veraticus/tourquote/internal/cli"
	"github.com/Veraticus/tourquote/internal/common"
	"github.com/Veraticus/tourquote/internal/service"
)

// importChunk is the number of entries saved per transaction during import.
const importChunk = 200

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the supplier price catalog",
	}

	cmd.AddCommand(catalogImportCmd())
	cmd.AddCommand(catalogListCmd())
	cmd.AddCommand(catalogDeactivateCmd())

	return cmd
}

func catalogImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <price-list>",
		Short: "Import a CSV or XLSX price list",
		Long: `Import supplier prices. The first row names the columns; service_name,
cost_basis and unit_price are required. Rows that fail validation are
reported and skipped. Re-importing the same list updates existing entries.`,
		Args: cobra.ExactArgs(1),
		RunE: runCatalogImport,
	}

	cmd.Flags().String("currency", "EUR", "currency for rows without one")
	cmd.Flags().String("sheet", "", "XLSX sheet to read (default: first sheet)")
	cmd.Flags().Bool("dry-run", false, "parse and report without saving")

	return cmd
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	currency, _ := cmd.Flags().GetString("currency")
	sheet, _ := cmd.Flags().GetString("sheet")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	result, err := catalog.ParseFile(args[0], catalog.Options{DefaultCurrency: currency, Sheet: sheet})
	if err != nil {
		if errors.Is(err, catalog.ErrMissingColumn) || errors.Is(err, catalog.ErrUnsupportedFormat) || errors.Is(err, catalog.ErrEmptyFile) {
			return common.NewUserError("could not read price list", err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun || len(result.Entries) == 0 {
		return cli.RenderImportResult(out, args[0]+" (not saved)", result)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	progress := cli.NewProgress(cmd.ErrOrStderr(), len(result.Entries), "Saving catalog entries...")
	for start := 0; start < len(result.Entries); start += importChunk {
		end := min(start+importChunk, len(result.Entries))
		if err := store.SaveCatalogEntries(ctx, result.Entries[start:end]); err != nil {
			return fmt.Errorf("failed to save catalog entries: %w", err)
		}
		progress.Add(end - start)
	}
	progress.Finish()

	slog.Info("catalog import complete", "file", args[0], "entries", len(result.Entries), "skipped", len(result.Errors))
	return cli.RenderImportResult(out, args[0], result)
}

func catalogListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			category, _ := cmd.Flags().GetString("category")
			location, _ := cmd.Flags().GetString("location")
			currency, _ := cmd.Flags().GetString("currency")
			all, _ := cmd.Flags().GetBool("all")

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			entries, err := store.GetCatalog(ctx, service.CatalogFilter{
				Category:        category,
				Location:        location,
				Currency:        currency,
				IncludeInactive: all,
			})
			if err != nil {
				return err
			}
			return cli.RenderCatalog(cmd.OutOrStdout(), entries)
		},
	}

	cmd.Flags().String("category", "", "filter by category")
	cmd.Flags().String("location", "", "filter by location or route")
	cmd.Flags().String("currency", "", "filter by currency")
	cmd.Flags().Bool("all", false, "include deactivated entries")

	return cmd
}

func catalogDeactivateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate <entry-id>",
		Short: "Stop using a catalog entry for new quotations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			yes, _ := cmd.Flags().GetBool("yes")

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			entry, err := store.GetCatalogEntry(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError("no catalog entry with that ID", err)
			}
			if err != nil {
				return err
			}

			if !yes {
				confirmer := cli.NewConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
				ok, err := confirmer.Confirm(ctx, fmt.Sprintf("Deactivate %q (%s)?", entry.ServiceName, entry.LocationText()))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Left unchanged"))
					return nil
				}
			}

			if err := store.DeactivateCatalogEntry(ctx, entry.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deactivated "+entry.ServiceName))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	return cmd
}
