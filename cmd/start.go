// start.go holds the start subcommand, the normal way to run the
// server.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chevah/github-hooks-server/server"
)

var startCmd *cobra.Command

func init() {
	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Run the webhook server.",
		Long:  `Listen for webhook deliveries and drive the review workflow.`,
		Run: func(cmd *cobra.Command, args []string) {
			server.Start(loadAndInit())
		},
	}

	rootCmd.AddCommand(startCmd)

	startCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "GitHub personal access token.")
	startCmd.PersistentFlags().StringVarP(&c, "config", "c", "", "Config file path.")
}
