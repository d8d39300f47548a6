// File: cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/internal/config"
	"github.com/seoscope/seoscope-cli/internal/observability"
)

var cfgFile string

// NewRootCommand builds the root command with all subcommands attached. A
// fresh instance per invocation keeps flag state from leaking between runs
// in tests.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "seoscope",
		Short:   "seoscope audits a website's technical SEO health.",
		Version: Version,
		// Findings are reported through exit codes; cobra's usage dump on
		// every failed run would drown the report.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(); err != nil {
				return err
			}

			var cfg config.Config
			if err := viper.Unmarshal(&cfg); err != nil {
				// Fall back to a usable logger so the error itself is visible.
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "seoscope"})
				return fmt.Errorf("failed to unmarshal config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting seoscope", zap.String("version", Version))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./seoscope.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newAuditCmd())
	rootCmd.AddCommand(newDiffCmd())

	return rootCmd
}

// Execute runs the CLI against the given signal-aware context.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if _, silent := err.(exitCodeError); !silent {
			if logger := observability.GetLogger(); logger != nil {
				logger.Error("Command execution failed", zap.Error(err))
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		return err
	}
	return nil
}

// initializeConfig reads the config file and environment variables.
func initializeConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		for _, path := range config.DefaultConfigPaths() {
			viper.AddConfigPath(path)
		}
		viper.SetConfigName("seoscope")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SEOSCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults and env vars carry the run.
	}
	return nil
}

// exitCodeError carries a process exit code up to main without any message;
// the findings were already rendered by the reporter.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// ExitCode maps an Execute error to the process exit code: 0 on success, the
// carried code for findings-driven failures, 2 for usage and crash errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if e, ok := err.(exitCodeError); ok {
		return e.code
	}
	return 2
}
