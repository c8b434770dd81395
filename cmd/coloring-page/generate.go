package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shouni/coloring-page-kit/internal/config"
	"github.com/shouni/coloring-page-kit/pkg/domain"
	"github.com/shouni/coloring-page-kit/pkg/imgutil"
	"github.com/spf13/cobra"
)

func newGenerateCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "塗り絵を 1 枚生成してファイルに保存します",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithTimeout(ctx, cfg.Server.GenerateTimeout)
			defer cancel()

			gen, cleanup, err := buildGenerator(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			res := gen.Generate(ctx, func(msg string) {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			})
			if !res.OK() {
				return fmt.Errorf("%s", res.ErrorMessage)
			}

			path, err := saveImage(outDir, res.Image, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", path, res.Model, res.Scene)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "出力ディレクトリ")
	return cmd
}

// outputFileName はダウンロード時と同じ命名で保存先のファイル名を返します。
func outputFileName(mimeType string, now time.Time) string {
	return fmt.Sprintf("desenho_tigregoods_%d%s", now.UnixMilli(), imgutil.ExtensionFor(mimeType))
}

func saveImage(dir string, img *domain.ImageResponse, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, outputFileName(img.MimeType, now))
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path, nil
}
