// Package cmd holds the command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chevah/github-hooks-server/client"
	"github.com/chevah/github-hooks-server/config"
	"github.com/chevah/github-hooks-server/global"
)

// The token can also be given through this environment variable
// instead of the command line. It never lives in the config file.
const tokenEnv = "GITHUB_TOKEN"

var (
	// GitHub personal access token, from flag or environment.
	token string

	// Config file path, default ./config.yaml.
	c string
)

var rootCmd = &cobra.Command{
	Use:   "hooks-server",
	Short: "Pull request review workflow robot.",
	Long: `hooks-server keeps the review lifecycle of pull requests in
sync with the labels, assignees and review requests on GitHub, driven
by webhook events and free-text commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Usage()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadAndInit reads the config file and initialises the logger and the
// GitHub client. Shared by every subcommand.
func loadAndInit() *config.Config {
	if token == "" {
		token = os.Getenv(tokenEnv)
		if token == "" {
			fmt.Printf("please input token with argument --token\n")
			os.Exit(1)
		}
	}
	if c == "" {
		c = "./config.yaml"
	}

	conf, err := config.Load(c)
	if err != nil {
		fmt.Printf("unable to load config file, %v\n", err)
		os.Exit(1)
	}

	global.Init(conf)
	client.Init(token)
	return conf
}
