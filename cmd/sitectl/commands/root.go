// Package commands implements the sitectl operator CLI.
package commands

import (
	"os"

	"dumarte_backend/platform/config"
	"dumarte_backend/platform/logger"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	log     *logger.Logger
)

// Execute runs the root command.
func Execute() error {
	return newRoot().Execute()
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "sitectl",
		Short:         "Operator tooling for the site backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env := "production"
			if verbose {
				env = "development"
			}
			log = logger.NewWithWriter(env, os.Stderr)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(submitCmd(), countupCmd(), projectsCmd(), imagesCmd())
	return root
}

// loadConfig reads the same environment the API server uses.
func loadConfig() (*config.Config, error) {
	return config.Load()
}
