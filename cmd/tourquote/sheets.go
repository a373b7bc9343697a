package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tourquote/internal/cli"
	"github.com/Veraticus/tourquote/internal/common"
	"github.com/Veraticus/tourquote/internal/config"
	"github.com/Veraticus/tourquote/internal/sheets"
)

func sheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Google Sheets publishing",
	}

	auth := &cobra.Command{
		Use:   "auth",
		Short: "Authorize tourquote to write to Google Sheets",
		Long: `Run the OAuth2 browser flow with the configured sheets.client_id and
sheets.client_secret and store the resulting token in sheets.token_file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listen, _ := cmd.Flags().GetString("listen")

			cfg := config.SheetsDefaults()
			if cfg.ClientID == "" || cfg.ClientSecret == "" {
				return common.NewUserError("set sheets.client_id and sheets.client_secret first", common.ErrMissingConfig)
			}

			out := cmd.OutOrStdout()
			_, err := sheets.Authorize(cmd.Context(), cfg, listen, func(url string) {
				fmt.Fprintln(out, cli.FormatInfo("Open this URL in your browser to authorize access:"))
				fmt.Fprintln(out, url)
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatSuccess("Token saved to "+cfg.TokenFile))
			return nil
		},
	}
	auth.Flags().String("listen", "localhost:8089", "address for the OAuth callback server")

	cmd.AddCommand(auth)
	return cmd
}
