package cli

import (
	"github.com/spf13/cobra"

	"option-scanner/pkg/utils"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Upstox access token",
		Long: `Store, inspect or remove the Upstox access token used for live
quote fetches. Tokens are valid for the current trading day only; a
token stored on a previous day is ignored.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <token>",
		Short: "Store an access token for today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Tokens.Save(utils.TodayIST(), args[0]); err != nil {
				output.Error("Storing token failed: %v", err)
				return err
			}
			output.Success("Access token stored for %s", utils.TodayIST())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the token status for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			token := app.accessToken()
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"date":      utils.TodayIST(),
					"has_token": token != "",
				})
			}

			if token == "" {
				output.Warning("No valid access token for today, quotes will fall back to cached values")
				return nil
			}
			output.Success("Access token present for %s (%s...)", utils.TodayIST(), truncateToken(token))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Tokens.Clear(); err != nil {
				output.Error("Clearing token failed: %v", err)
				return err
			}
			output.Success("Access token cleared")
			return nil
		},
	})

	return cmd
}

func truncateToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
