package main

import (
	"fmt"
	"log/slog"

	"github.com/shouni/coloring-page-kit/internal/config"
	"github.com/shouni/coloring-page-kit/internal/logger"
	"github.com/spf13/cobra"
)

// NewRootCmd は coloring-page コマンドを組み立てます。
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "coloring-page",
		Short:         "Tigre Goods の塗り絵ページを生成します",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "設定ファイル (YAML) のパス")

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		logger.Setup(cfg.Server.LogLevel)
		slog.Info("設定を読み込みました",
			"port", cfg.Server.Port,
			"log_level", cfg.Server.LogLevel,
			"models", cfg.Gemini.Models,
			"api_key_present", cfg.Gemini.APIKey != "")
		return cfg, nil
	}

	rootCmd.AddCommand(newServeCmd(loadConfig), newGenerateCmd(loadConfig))
	return rootCmd
}
