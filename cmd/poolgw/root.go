package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// defaultConfigPath is used when neither --config nor POOLGW_CONFIG_PATH is set.
const defaultConfigPath = "configs/gateway.yaml"

// rootFlags holds the persistent flags shared by all subcommands.
type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// exitError carries a process exit code without an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "poolgw",
		Short: "poolgw - health-aware round-robin gateway for service pools",
		Long: `poolgw routes requests by path prefix to pools of interchangeable
backend instances. Each request is sent to the next healthy instance in
round-robin order; instances failing their health probe are skipped.

Responses from backends are relayed verbatim. When every instance of a
pool is down the gateway answers 503; when the chosen instance cannot be
reached it answers 500.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c",
		getEnvOrDefault(envConfigPath, defaultConfigPath), "Path to configuration file")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level",
		getEnvOrDefault(envLogLevel, ""), "Log level (debug, info, warn, error); overrides the config file")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format",
		getEnvOrDefault(envLogFormat, ""), "Log format (json, console); overrides the config file")

	cmd.AddCommand(
		newServeCmd(flags),
		newValidateCmd(flags),
		newProbeCmd(flags),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
