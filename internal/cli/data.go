package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"option-scanner/internal/bhavcopy"
	"option-scanner/internal/errors"
	"option-scanner/internal/master"
	"option-scanner/internal/models"
)

func newDataCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Manage the instrument master and bhavcopy files",
	}

	cmd.AddCommand(newMasterCmd(app))
	cmd.AddCommand(newBhavcopyCmd(app))
	cmd.AddCommand(newStatusCmd(app))

	return cmd
}

func newMasterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "master",
		Short: "Manage the instrument master",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Download the latest instrument master",
		Long: `Download the gzip-compressed instrument master and replace the local
copy. The previous file is kept on any failure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			output.Info("Downloading instrument master...")
			downloader := master.NewDownloader(app.Config.Quotes.MasterURL)
			if err := downloader.Download(ctx, app.Config.Data.MasterPath); err != nil {
				output.Error("Download failed: %v", err)
				return err
			}

			if err := app.Master.Reload(); err != nil {
				output.Error("Downloaded master could not be loaded: %v", err)
				return err
			}

			output.Success("Instrument master updated (%d contracts indexed)", app.Master.Len())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reload",
		Short: "Reload the instrument master from disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Master.Reload(); err != nil {
				output.Error("Reload failed: %v", err)
				return err
			}
			output.Success("Instrument master reloaded (%d contracts indexed)", app.Master.Len())
			return nil
		},
	})

	return cmd
}

func newBhavcopyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bhavcopy",
		Short: "Manage registered bhavcopy files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <source> <file>",
		Short: "Register a bhavcopy file for a source",
		Long: `Validate and copy a bhavcopy CSV into the data directory as the
Monthly, Weekly or Intraday source. The settlement date embedded in the
file name (YYYYMMDD) is recorded alongside.`,
		Example: `  scanner data bhavcopy set Monthly BhavCopy_NSE_FO_0_0_0_20260129_F_0000.csv`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			source, err := parseSource(args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}

			srcPath := args[1]

			// Reject structurally invalid files before registering.
			if _, err := bhavcopy.Load(srcPath); err != nil {
				output.Error("Invalid bhavcopy: %v", err)
				return err
			}

			if err := copyFile(srcPath, app.bhavcopyPath(source)); err != nil {
				output.Error("Registering bhavcopy failed: %v", err)
				return err
			}

			if date := bhavcopy.DateFromFilename(filepath.Base(srcPath)); date != "" {
				if err := app.Meta.Set(source, date); err != nil {
					app.Logger.Warn().Err(err).Msg("Persisting source date failed")
				}
			}

			output.Success("%s bhavcopy updated", source)
			return nil
		},
	})

	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show registered data files and dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			type sourceStatus struct {
				Source     models.Source `json:"source"`
				Registered bool          `json:"registered"`
				DataDate   string        `json:"data_date,omitempty"`
			}

			var statuses []sourceStatus
			for _, source := range models.Sources {
				s := sourceStatus{Source: source}
				if _, err := os.Stat(app.bhavcopyPath(source)); err == nil {
					s.Registered = true
				}
				if date, err := app.Meta.Get(source); err == nil {
					s.DataDate = date
				}
				statuses = append(statuses, s)
			}

			masterOK := app.Master.Load() == nil

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"master_loaded":    masterOK,
					"master_contracts": app.Master.Len(),
					"sources":          statuses,
				})
			}

			output.Bold("Instrument master")
			if masterOK {
				output.Printf("  %d contracts indexed from %s\n", app.Master.Len(), app.Master.Path())
			} else {
				output.Warning("  not available, run 'scanner data master update'")
			}
			output.Println()

			output.Bold("Bhavcopy sources")
			table := NewTable(output, "Source", "Registered", "Data date")
			for _, s := range statuses {
				reg := "no"
				if s.Registered {
					reg = "yes"
				}
				date := s.DataDate
				if date == "" {
					date = "-"
				}
				table.AddRow(string(s.Source), reg, date)
			}
			table.Render()
			return nil
		},
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.NewDataError("bhavcopy", src, "opening source file", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrap(err, "creating data directory")
	}

	out, err := os.Create(dst)
	if err != nil {
		return errors.NewDataError("bhavcopy", dst, "creating destination file", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrap(err, "copying bhavcopy")
	}
	return out.Close()
}
