package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"option-scanner/internal/anomaly"
	"option-scanner/internal/bhavcopy"
	"option-scanner/internal/errors"
	"option-scanner/internal/models"
	"option-scanner/internal/scanner"
	"option-scanner/internal/store"
	"option-scanner/pkg/utils"
)

func newScanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <source>",
		Short: "Scan a bhavcopy source for ATM option movers",
		Long: `Run the full scan pipeline against a registered bhavcopy source.

The pipeline resolves the at-the-money call and put per underlying,
overlays live last-traded prices (refreshed continuously during market
hours, gap-filled outside them) and ranks legs by change percent.
Instruments blacklisted during the pre-open protection window are
excluded.`,
		Example: `  scanner scan Monthly
  scanner scan Intraday --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			source, err := parseSource(args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}

			result, err := app.runScan(source)
			if err != nil {
				output.Error("Scan failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			app.displayScan(output, source, result)
			return nil
		},
	}

	return cmd
}

// runScan loads the source bhavcopy and executes the pipeline.
func (a *App) runScan(source models.Source) (*models.ScanResult, error) {
	path := a.bhavcopyPath(source)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Wrapf(errors.ErrSourceNotFound,
			"%s (register one with 'scanner data bhavcopy set %s <file>')", source, source)
	}
	rows, err := bhavcopy.Load(path)
	if err != nil {
		if errors.Is(err, errors.ErrMissingColumns) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "loading %s bhavcopy", source)
	}

	if err := a.Master.Load(); err != nil {
		return nil, errors.Wrap(err, "loading instrument master")
	}

	filter := anomaly.NewFilter(a.Blacklist, a.Logger)
	pipeline := scanner.New(a.Master, a.Fetcher, a.Cache, filter, a.Logger)

	result, err := pipeline.Run(source, rows, a.accessToken())
	if err != nil {
		return nil, err
	}

	if a.Scans != nil && len(result.Calls)+len(result.Puts) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Scans.SaveScan(ctx, result); err != nil {
			a.Logger.Warn().Err(err).Msg("Persisting scan history failed")
		}
	}

	return result, nil
}

// bhavcopyPath is where a registered source file lives in the data dir.
func (a *App) bhavcopyPath(source models.Source) string {
	return filepath.Join(a.Config.Data.Dir, strings.ToLower(string(source))+".csv")
}

func (a *App) displayScan(output *Output, source models.Source, result *models.ScanResult) {
	output.Bold("%s Options", source)
	output.Dim("Last updated: %s IST", result.At.In(utils.IndiaLocation).Format("15:04:05"))

	if date, err := a.Meta.Get(source); err == nil && date != "" {
		output.Dim("Data date: %s", date)
	}
	if a.accessToken() == "" {
		output.Warning("No access token configured; showing cached prices only. See 'scanner auth'.")
	}
	output.Println()

	if len(result.Calls)+len(result.Puts) == 0 {
		output.Info("No data to display. Register a bhavcopy with 'scanner data bhavcopy set %s <file>'.", source)
		return
	}

	output.Bold("Calls (CE)")
	renderLegs(output, result.Calls)
	output.Println()

	output.Bold("Puts (PE)")
	renderLegs(output, result.Puts)

	if result.Filtered > 0 {
		output.Println()
		output.Dim("%d rows hidden by the anomaly blacklist", result.Filtered)
	}
}

func renderLegs(output *Output, rows []models.ScanRow) {
	if len(rows) == 0 {
		output.Dim("  none")
		return
	}

	table := NewTable(output, "Symbol", "Strike", "Trigger", "LTP", "Change %")
	for _, r := range rows {
		table.AddRow(
			r.Symbol,
			utils.FormatStrike(r.Strike),
			utils.FormatPrice(r.Trigger),
			utils.FormatPrice(r.LTP),
			output.ChangeCell(r.ChangePercent),
		)
	}
	table.Render()
}

func parseSource(arg string) (models.Source, error) {
	for _, s := range models.Sources {
		if strings.EqualFold(arg, string(s)) {
			return s, nil
		}
	}
	return "", errors.Wrapf(errors.ErrUnknownSource, "%q (expected Monthly, Weekly or Intraday)", arg)
}

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show persisted scan history",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Scans == nil {
				output.Error("Scan history store unavailable")
				return errors.ErrStoreUnavailable
			}

			limit, _ := cmd.Flags().GetInt("limit")
			sourceArg, _ := cmd.Flags().GetString("source")
			days, _ := cmd.Flags().GetInt("days")

			filter := store.ScanFilter{Limit: limit}
			if sourceArg != "" {
				source, err := parseSource(sourceArg)
				if err != nil {
					output.Error("%v", err)
					return err
				}
				filter.Source = source
			}
			if days > 0 {
				filter.Since = utils.NowIST().AddDate(0, 0, -days)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			records, err := app.Scans.GetScans(ctx, filter)
			if err != nil {
				output.Error("Failed to load scan history: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(records)
			}

			if len(records) == 0 {
				output.Info("No scan history yet. Run 'scanner scan <source>' first.")
				return nil
			}

			table := NewTable(output, "When", "Source", "Symbol", "Strike", "Type", "LTP", "Change %")
			for _, r := range records {
				table.AddRow(
					utils.FormatDateTime(r.At),
					string(r.Source),
					r.Symbol,
					utils.FormatStrike(r.Strike),
					string(r.OptionType),
					utils.FormatPrice(r.LTP),
					fmt.Sprintf("%.2f%%", r.ChangePercent),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("limit", 50, "maximum rows to show")
	cmd.Flags().String("source", "", "filter by source (Monthly, Weekly, Intraday)")
	cmd.Flags().Int("days", 0, "only show scans from the last N days")

	return cmd
}
