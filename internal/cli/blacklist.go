package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"option-scanner/pkg/utils"
)

func newBlacklistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blacklist",
		Short: "Inspect the day-scoped anomaly blacklist",
		Long: `Contracts whose change metric spikes during the opening window are
blacklisted and excluded from scan results for the rest of the day.
The blacklist resets automatically on the next trading day.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "List today's blacklisted instrument keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			keys, err := app.Blacklist.Load(utils.TodayIST())
			if err != nil {
				output.Error("Loading blacklist failed: %v", err)
				return err
			}

			sorted := make([]string, 0, len(keys))
			for key := range keys {
				sorted = append(sorted, key)
			}
			sort.Strings(sorted)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"date": utils.TodayIST(),
					"keys": sorted,
				})
			}

			if len(sorted) == 0 {
				output.Info("No blacklisted contracts for %s", utils.TodayIST())
				return nil
			}

			output.Bold("Blacklisted contracts (%s)", utils.TodayIST())
			for _, key := range sorted {
				output.Printf("  %s\n", key)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear today's blacklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Blacklist.Save(utils.TodayIST(), map[string]bool{}); err != nil {
				output.Error("Clearing blacklist failed: %v", err)
				return err
			}
			output.Success("Blacklist cleared for %s", utils.TodayIST())
			return nil
		},
	})

	return cmd
}
