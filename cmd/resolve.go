package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ch4xm/landmark-cli/internal/landmark"
	"github.com/ch4xm/landmark-cli/internal/report"
	"github.com/ch4xm/landmark-cli/internal/resolver"
	"github.com/ch4xm/landmark-cli/pkg/geocode"
)

var (
	resolveInput   string
	resolveJSONOut string
	resolveCSVOut  string
	resolveQuiet   bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Geocode extracted landmarks and write the JSON and CSV reports",
	Long: `Runs the full pipeline: extracts landmarks from the input file, resolves
each one against Nominatim (primary query with location qualifier, then a
simplified fallback), and writes the JSON comparison report plus the CSV
coordinate summary.

Requests are paced to one per configured interval to respect the provider's
rate policy. Transient network failures are retried with a fixed delay; a
landmark whose queries fail keeps its recorded coordinates in the CSV.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate(); err != nil {
			return err
		}

		inputPath := cfg.InputPath
		if resolveInput != "" {
			inputPath = resolveInput
		}
		jsonOut := cfg.JSONOutputPath
		if resolveJSONOut != "" {
			jsonOut = resolveJSONOut
		}
		csvOut := cfg.CSVOutputPath
		if resolveCSVOut != "" {
			csvOut = resolveCSVOut
		}

		fmt.Printf("Reading landmarks from %s...\n", inputPath)
		records, err := landmark.Extract(inputPath)
		if err != nil {
			return eris.Wrap(err, "resolve: extract landmarks")
		}
		fmt.Printf("Found %d landmarks.\n\n", len(records))

		client := geocode.NewClient(cfg.Nominatim.UserAgent,
			geocode.WithBaseURL(cfg.Nominatim.BaseURL),
			geocode.WithLimit(cfg.Nominatim.Limit),
			geocode.WithHTTPClient(&http.Client{Timeout: cfg.Resolver.Timeout()}),
		)
		res := resolver.New(client, resolver.Config{
			Region:          cfg.Resolver.Region,
			RequestInterval: cfg.Resolver.RequestInterval(),
			RetryAttempts:   cfg.Resolver.RetryAttempts,
			RetryDelay:      cfg.Resolver.RetryDelay(),
		})

		outcomes, err := runResolve(ctx, res, records, resolveQuiet)
		if err != nil {
			return err
		}

		s := report.Summarize(outcomes)
		fmt.Printf("\n%s\n", strings.Repeat("=", 60))
		fmt.Println("SUMMARY")
		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("Total landmarks: %d\n", s.Total)
		fmt.Printf("Successfully geocoded: %d\n", s.Geocoded)
		fmt.Printf("Failed: %d\n", s.Failed)

		if err := report.WriteJSON(jsonOut, outcomes); err != nil {
			return eris.Wrap(err, "resolve: write json report")
		}
		fmt.Printf("\nJSON report created: %s\n", jsonOut)

		if err := report.WriteCSV(csvOut, outcomes); err != nil {
			return eris.Wrap(err, "resolve: write csv report")
		}
		fmt.Printf("CSV file created: %s\n", csvOut)

		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveInput, "input", "", "input file path (overrides config)")
	resolveCmd.Flags().StringVar(&resolveJSONOut, "json-out", "", "JSON report path (overrides config)")
	resolveCmd.Flags().StringVar(&resolveCSVOut, "csv-out", "", "CSV summary path (overrides config)")
	resolveCmd.Flags().BoolVar(&resolveQuiet, "quiet", false, "suppress per-landmark output; show a progress bar on a terminal")
	rootCmd.AddCommand(resolveCmd)
}

// runResolve resolves every record in order and accumulates one outcome per
// record. Per-landmark failures degrade to an absent result; only context
// cancellation aborts the loop.
func runResolve(ctx context.Context, res *resolver.Resolver, records []landmark.Record, quiet bool) ([]report.Outcome, error) {
	var bar *progressbar.ProgressBar
	if quiet && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(records),
			progressbar.OptionSetDescription("Geocoding landmarks"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	outcomes := make([]report.Outcome, 0, len(records))
	for i, rec := range records {
		if bar == nil && !quiet {
			fmt.Printf("[%d/%d] Processing: %s (%s)\n", i+1, len(records), rec.Name, rec.Location)
		}

		place, err := res.Resolve(ctx, rec)
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(err, "resolve: canceled")
			}
			zap.L().Warn("geocoding failed",
				zap.String("landmark", rec.Name),
				zap.String("location", rec.Location),
				zap.Error(err),
			)
		}
		outcomes = append(outcomes, report.Outcome{Landmark: rec, Place: place})

		switch {
		case bar != nil:
			_ = bar.Add(1)
		case quiet:
		case place != nil:
			fmt.Printf("  ✓ Found: (%v, %v)\n", place.Lat, place.Lon)
			fmt.Printf("  Difference: Δlat=%.6f, Δlon=%.6f\n\n", math.Abs(place.Lat-rec.Lat), math.Abs(place.Lon-rec.Lon))
		default:
			fmt.Printf("  ✗ Geocoding failed - keeping existing coordinates\n\n")
		}
	}

	return outcomes, nil
}
