package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/coloring-page-kit/internal/config"
	"github.com/shouni/coloring-page-kit/pkg/generator"
	"github.com/shouni/coloring-page-kit/pkg/remote"
	"github.com/shouni/coloring-page-kit/pkg/scene"
)

// buildGenerator は設定から ColoringPageGenerator を組み立てます。
// 返される cleanup は必ず呼ぶこと。
func buildGenerator(ctx context.Context, cfg *config.Config) (*generator.ColoringPageGenerator, func(), error) {
	cleanup := func() {}

	catalog := scene.Default()
	if len(cfg.Scenes) > 0 {
		c, err := scene.NewCatalog(cfg.Scenes)
		if err != nil {
			return nil, cleanup, fmt.Errorf("invalid scenes configuration: %w", err)
		}
		catalog = c
	}

	genCfg := cfg.Gemini.GeneratorConfig()

	var aiClient generator.ContentGenerator
	if genCfg.APIKey != "" {
		c, err := generator.NewGenAIClient(ctx, genCfg.APIKey)
		if err != nil {
			return nil, cleanup, err
		}
		aiClient = c
	} else {
		slog.WarnContext(ctx, "APIキーが未設定です。生成のたびにエラーを表示します")
	}

	var opts []generator.Option
	if genCfg.ReferenceImageURL != "" {
		var reader generator.ObjectReader
		if strings.HasPrefix(genCfg.ReferenceImageURL, "gs://") {
			gcs, err := remote.NewGCSReader(ctx)
			if err != nil {
				return nil, cleanup, err
			}
			reader = gcs
			cleanup = func() {
				if err := gcs.Close(); err != nil {
					slog.Warn("storage client の終了に失敗しました", "error", err)
				}
			}
		}

		ttl := cfg.Gemini.ReferenceCacheTTL
		fetcher := remote.NewHTTPFetcher(remote.WithRedirectValidator(generator.IsSafeURL))
		core, err := generator.NewGeminiImageCore(fetcher, reader, cache.New(ttl, 2*ttl), ttl)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		opts = append(opts, generator.WithImageCore(core))
	}

	gen, err := generator.NewColoringPageGenerator(genCfg, aiClient, catalog, opts...)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return gen, cleanup, nil
}
