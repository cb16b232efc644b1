// Package main recipe-cli：在終端機解析食譜並與助理對話
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recipe-assistant/internal/api"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

var (
	cfg  *config.Config
	deps *api.Dependencies

	cleanup = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "recipe-cli",
	Short: "Parse recipe pages and chat about them",
	Long: `recipe-cli runs the recipe extraction pipeline and the dialogue engine
without the HTTP server. Configuration is read from .env and the environment,
the same way the API server reads it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.LogLevel = level
		}
		common.InitConsoleLogger(cfg.LogLevel)

		d, closeFn, err := api.Build(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		deps, cleanup = d, closeFn
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		cleanup()
		common.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
