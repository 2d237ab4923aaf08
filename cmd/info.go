package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chevah/github-hooks-server/global"
)

var infoCmd *cobra.Command

func init() {
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Load the config and print what was understood.",
		Long:  `Load and validate the config file, then log the parsed result.`,
		Run: func(cmd *cobra.Command, args []string) {
			conf := loadAndInit()
			global.Sugar.Infow("loaded config",
				"server", conf.Server,
				"bots", conf.Bots,
				"default reviewers", conf.DefaultReviewers,
				"skip", conf.Skip,
			)
		},
	}

	rootCmd.AddCommand(infoCmd)

	infoCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "GitHub personal access token.")
	infoCmd.PersistentFlags().StringVarP(&c, "config", "c", "", "Config file path.")
}
