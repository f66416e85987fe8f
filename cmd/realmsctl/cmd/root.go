// Package cmd holds the realmsctl commands: offline tools for browsing the
// card catalog, running scripted matches and checking replay files.
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type rootOptions struct {
	verbose bool
	logger  *zap.Logger
}

// NewRootCmd creates the realmsctl root command. It is called once in main.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:           "realmsctl",
		Short:         "Offline tools for the realms game server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !opts.verbose {
				return nil
			}
			cfg := zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
			cfg.OutputPaths = []string{"stderr"}
			logger, err := cfg.Build()
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(
		newCatalogCmd(),
		newSimulateCmd(opts),
		newReplayCmd(opts),
	)
	return rootCmd
}
