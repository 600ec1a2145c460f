// Command bootstrap prepares a fresh checkout for local development.
package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"starterapi/internal/bootstrap"
)

func main() {
	os.Exit(bootstrap.ExitCode(newRootCmd().Execute()))
}

func newRootCmd() *cobra.Command {
	var (
		dir         string
		skipInstall bool
	)

	cmd := &cobra.Command{
		Use:           "bootstrap",
		Short:         "Set up the local development environment",
		Long:          "Checks for the Go toolchain, creates the isolated " + bootstrap.EnvDir + " environment, downloads dependencies and creates .env from .env.example.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			_, err := bootstrap.New(bootstrap.Options{
				Root:        dir,
				SkipInstall: skipInstall,
				Runner:      bootstrap.ExecRunner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()},
				Reporter:    bootstrap.NewReporter(cmd.OutOrStdout()),
			}).Run(ctx)
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "project root to set up")
	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, "skip downloading dependencies")

	return cmd
}
