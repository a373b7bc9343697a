package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tourquote/internal/cli"
	"github.com/Veraticus/tourquote/internal/common"
	"github.com/Veraticus/tourquote/internal/config"
	"github.com/Veraticus/tourquote/internal/engine"
	"github.com/Veraticus/tourquote/internal/export"
	"github.com/Veraticus/tourquote/internal/model"
	"github.com/Veraticus/tourquote/internal/quote"
	"github.com/Veraticus/tourquote/internal/service"
	"github.com/Veraticus/tourquote/internal/sheets"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <itinerary-file>...",
		Short: "Quote one or more itineraries against the catalog",
		Long: `Detect the services an itinerary implies, price them against the active
catalog and print the quotation. Pass "-" to read the itinerary from stdin.
Several files are quoted in parallel; one failing does not stop the others.

Examples:
  # Quote a 7 day trip for 4 travelers
  tourquote analyze egypt.txt --days 7 --people 4

  # Offline extraction, rooms for two and a single supplement
  tourquote analyze egypt.txt --people 3 --extractor keyword \
    --accommodation-mode per_room --single-supplement 40

  # Save, export to Excel and publish to Google Sheets
  tourquote analyze egypt.txt --people 2 --save --xlsx quote.xlsx --sheets`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().Int("days", 0, "itinerary length in days (0 keeps every detected day)")
	cmd.Flags().Int("people", 2, "number of travelers")
	cmd.Flags().String("title", "", "quotation title (single itinerary only)")
	cmd.Flags().String("extractor", "llm", "service extractor (llm, keyword)")
	cmd.Flags().String("category", "", "only price against catalog entries in this category")
	cmd.Flags().String("location", "", "only price against catalog entries for this location")
	cmd.Flags().String("catalog-currency", "", "only price against catalog entries in this currency")
	cmd.Flags().Int("concurrency", engine.DefaultBatchConcurrency, "itineraries quoted at once")
	cmd.Flags().Bool("save", false, "store the quotation in the database")
	cmd.Flags().String("xlsx", "", "write the quotation to this XLSX file")
	cmd.Flags().Bool("sheets", false, "publish the quotation to Google Sheets")
	addPricingFlags(cmd.Flags())

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	days, _ := cmd.Flags().GetInt("days")
	people, _ := cmd.Flags().GetInt("people")
	title, _ := cmd.Flags().GetString("title")
	extractorName, _ := cmd.Flags().GetString("extractor")
	category, _ := cmd.Flags().GetString("category")
	location, _ := cmd.Flags().GetString("location")
	catalogCurrency, _ := cmd.Flags().GetString("catalog-currency")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	save, _ := cmd.Flags().GetBool("save")
	xlsxPath, _ := cmd.Flags().GetString("xlsx")
	publish, _ := cmd.Flags().GetBool("sheets")

	if len(args) > 1 && title != "" {
		return common.NewUserError("--title applies to a single itinerary", nil)
	}

	pricing, err := pricingConfig(cmd.Flags())
	if err != nil {
		return common.NewUserError("invalid pricing options", err)
	}

	reqs, err := buildRequests(cmd.InOrStdin(), args, engine.AnalyzeRequest{
		Filter: service.CatalogFilter{
			Category: category,
			Location: location,
			Currency: catalogCurrency,
		},
		Title:     title,
		Config:    pricing,
		Days:      days,
		NumPeople: people,
		Save:      save,
	})
	if err != nil {
		return err
	}

	var writer *sheets.Writer
	if publish {
		sheetsCfg, err := config.LoadSheetsConfig()
		if err != nil {
			return common.NewUserError("Google Sheets is not configured", err)
		}
		writer, err = sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
		if err != nil {
			return err
		}
	}

	interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx = interruptHandler.HandleInterrupts(ctx, save)

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	count, err := store.CountCatalogEntries(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		slog.Warn("catalog is empty; every service will be reported as a missing price")
	}

	extractor, closeExtractor, err := createExtractor(extractorName)
	if err != nil {
		return common.NewUserError("could not create the service extractor", err)
	}
	defer closeExtractor()

	quoter := engine.NewQuoter(extractor, store, engine.WithStore(store), engine.WithConcurrency(concurrency))
	out := cmd.OutOrStdout()

	if len(reqs) == 1 {
		q, err := quoter.Analyze(ctx, reqs[0])
		if err != nil {
			return explainAnalyzeError(err)
		}
		return deliver(ctx, out, q, delivery{xlsxPath: xlsxPath, writer: writer, saved: save})
	}

	var failed int
	for _, result := range quoter.AnalyzeBatch(ctx, reqs) {
		if result.Err != nil {
			failed++
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatError(fmt.Sprintf("%s: %v", args[result.Index], explainAnalyzeError(result.Err))))
			continue
		}
		d := delivery{xlsxPath: batchPath(xlsxPath, args[result.Index]), writer: writer, saved: save}
		if err := deliver(ctx, out, result.Quotation, d); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d itineraries failed", failed, len(reqs))
	}
	return nil
}

// buildRequests reads each itinerary argument into a request based on tmpl.
func buildRequests(stdin io.Reader, args []string, tmpl engine.AnalyzeRequest) ([]engine.AnalyzeRequest, error) {
	reqs := make([]engine.AnalyzeRequest, 0, len(args))
	for _, arg := range args {
		var (
			data []byte
			err  error
		)
		if arg == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(filepath.Clean(arg))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read itinerary %s: %w", arg, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return nil, common.NewUserError(fmt.Sprintf("itinerary %s is empty", arg), nil)
		}

		req := tmpl
		req.Itinerary = string(data)
		if req.Title == "" && arg != "-" {
			req.Title = strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// batchPath gives each itinerary in a batch its own workbook next to path.
func batchPath(path, itinerary string) string {
	if path == "" {
		return ""
	}
	ext := filepath.Ext(path)
	name := strings.TrimSuffix(filepath.Base(itinerary), filepath.Ext(itinerary))
	return strings.TrimSuffix(path, ext) + "-" + name + ext
}

// delivery lists where a finished quotation goes besides the terminal.
type delivery struct {
	writer   *sheets.Writer
	xlsxPath string
	saved    bool
}

func deliver(ctx context.Context, out io.Writer, q *model.Quotation, d delivery) error {
	if err := cli.RenderQuotation(out, q); err != nil {
		return err
	}

	if d.xlsxPath != "" {
		if err := export.SaveXLSX(d.xlsxPath, q); err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess("Wrote "+d.xlsxPath))
	}

	if d.writer != nil {
		url, err := d.writer.WriteQuotation(ctx, q)
		if err != nil {
			return fmt.Errorf("failed to publish to Google Sheets: %w", err)
		}
		fmt.Fprintln(out, cli.FormatSuccess("Published to "+url))
	}

	if d.saved {
		fmt.Fprintln(out, cli.FormatInfo("Saved quotation "+q.ID))
	}
	return nil
}

func explainAnalyzeError(err error) error {
	switch {
	case errors.Is(err, common.ErrNoServicesDetected):
		return common.NewUserError("no billable services were found in the itinerary", err)
	case errors.Is(err, common.ErrExtractorUnavailable):
		return common.NewUserError("the service extractor is unavailable; try again or use --extractor keyword", err)
	case errors.Is(err, quote.ErrInvalidPeople):
		return common.NewUserError("the number of travelers must be at least 1", err)
	case errors.Is(err, model.ErrInvalidPricingConfig):
		return common.NewUserError("invalid pricing options", err)
	}
	return err
}
