package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tourquote/internal/cli"
	"github.com/Veraticus/tourquote/internal/common"
	"github.com/Veraticus/tourquote/internal/export"
)

func quotationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quotations",
		Aliases: []string{"quotes"},
		Short:   "Browse saved quotations",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved quotations, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			summaries, err := store.ListQuotations(ctx, limit)
			if err != nil {
				return err
			}
			return cli.RenderQuotationList(cmd.OutOrStdout(), summaries)
		},
	}
	list.Flags().Int("limit", 20, "maximum quotations to show (0 for all)")

	show := &cobra.Command{
		Use:   "show <quotation-id>",
		Short: "Show a saved quotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			xlsxPath, _ := cmd.Flags().GetString("xlsx")

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			q, err := store.GetQuotation(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError("no saved quotation with that ID", err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := cli.RenderQuotation(out, q); err != nil {
				return err
			}
			if xlsxPath != "" {
				if err := export.SaveXLSX(xlsxPath, q); err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess("Wrote "+xlsxPath))
			}
			return nil
		},
	}
	show.Flags().String("xlsx", "", "also write the quotation to this XLSX file")

	cmd.AddCommand(list, show)
	return cmd
}
