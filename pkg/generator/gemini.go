package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shouni/coloring-page-kit/pkg/domain"
	"google.golang.org/genai"
)

// ColoringPageGenerator はシーン選択・プロンプト構築・モデルのフォールバックをまとめた生成クライアントです。
type ColoringPageGenerator struct {
	cfg      Config
	aiClient ContentGenerator
	imgCore  *GeminiImageCore
	scenes   SceneSelector
	logger   *slog.Logger
	newTimer func() backoff.Timer
}

// Option は ColoringPageGenerator の生成オプションです。
type Option func(*ColoringPageGenerator)

// WithLogger はロガーを差し替えます。
func WithLogger(logger *slog.Logger) Option {
	return func(g *ColoringPageGenerator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithImageCore は参照画像を扱う Core を設定します。
func WithImageCore(core *GeminiImageCore) Option {
	return func(g *ColoringPageGenerator) {
		if core != nil {
			g.imgCore = core
		}
	}
}

// WithTimer はバックオフ待機に使うタイマーを差し替えます（テスト用）。
func WithTimer(newTimer func() backoff.Timer) Option {
	return func(g *ColoringPageGenerator) {
		if newTimer != nil {
			g.newTimer = newTimer
		}
	}
}

// NewColoringPageGenerator は ColoringPageGenerator を初期化するのだ。
// aiClient は APIKey が空の場合のみ nil を許容します（その場合は常に設定エラーを返す）。
func NewColoringPageGenerator(cfg Config, aiClient ContentGenerator, scenes SceneSelector, opts ...Option) (*ColoringPageGenerator, error) {
	if scenes == nil {
		return nil, fmt.Errorf("scenes (SceneSelector) is required")
	}
	if aiClient == nil && cfg.APIKey != "" {
		return nil, fmt.Errorf("aiClient (ContentGenerator) is required")
	}

	g := &ColoringPageGenerator{
		cfg:      cfg.withDefaults(),
		aiClient: aiClient,
		imgCore:  &GeminiImageCore{},
		scenes:   scenes,
		logger:   slog.Default(),
		newTimer: func() backoff.Timer { return nil },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate はランダムなシーンの塗り絵を生成します。
// 失敗しても panic やエラーは返さず、表示用メッセージを持つ結果を返します。
func (g *ColoringPageGenerator) Generate(ctx context.Context, onRetryNotice func(message string)) domain.GenerationResult {
	result := domain.GenerationResult{ID: uuid.NewString()}

	notify := func(msg string) {
		result.Notices = append(result.Notices, msg)
		if onRetryNotice != nil {
			onRetryNotice(msg)
		}
	}

	// 1. 認証情報
	if g.cfg.APIKey == "" || g.aiClient == nil {
		g.logger.ErrorContext(ctx, "APIキーが設定されていません")
		result.ErrorMessage = MsgMissingAPIKey
		return result
	}

	// 2. シーンとプロンプト
	result.Scene = g.scenes.Pick()
	prompt, err := BuildPrompt(result.Scene)
	if err != nil {
		g.logger.ErrorContext(ctx, "プロンプトの生成に失敗しました", "scene", result.Scene, "error", err)
		result.ErrorMessage, _ = UserMessage(err)
		return result
	}

	parts := []*genai.Part{{Text: prompt}}
	if g.cfg.ReferenceImageURL != "" && g.imgCore.httpClient != nil {
		if refPart := g.imgCore.PrepareReferencePart(ctx, g.cfg.ReferenceImageURL); refPart != nil {
			parts = append(parts, refPart)
		}
	}

	g.logger.InfoContext(ctx, "塗り絵の生成を開始します", "request_id", result.ID, "scene", result.Scene, "models", g.cfg.Models)

	// 3. モデルを順番に試す
	var (
		lastErr  error
		sawQuota bool
	)
	for i, model := range g.cfg.Models {
		req := domain.GenerationRequest{
			Model:       model,
			Prompt:      prompt,
			AspectRatio: g.cfg.AspectRatio,
			ImageSize:   g.imageSizeFor(model),
		}

		out, err := g.generateWithRetry(ctx, req, parts, notify)
		if err == nil {
			g.logger.InfoContext(ctx, "塗り絵の生成に成功しました", "request_id", result.ID, "model", model, "bytes", len(out.Data))
			result.Image = &domain.ImageResponse{Data: out.Data, MimeType: out.MimeType}
			result.Model = model
			return result
		}

		lastErr = err
		kind := Classify(err)
		if kind == KindDailyQuotaExceeded {
			sawQuota = true
		}
		g.logger.WarnContext(ctx, "モデルでの生成に失敗しました", "model", model, "kind", kind.String(), "error", err)

		if ctx.Err() != nil {
			break
		}
		if i < len(g.cfg.Models)-1 && !g.shouldFallback(kind) {
			g.logger.InfoContext(ctx, "フォールバック対象外のエラーのため中断します", "kind", kind.String())
			break
		}
	}

	// 4. 全滅時の集約
	if sawQuota {
		result.ErrorMessage = MsgDailyLimit
		result.QuotaExhausted = true
	} else {
		result.ErrorMessage, _ = UserMessage(lastErr)
	}
	g.logger.ErrorContext(ctx, "すべてのモデルで生成に失敗しました",
		"request_id", result.ID,
		"quota_exhausted", result.QuotaExhausted,
		"error", lastErr)
	return result
}

// shouldFallback は失敗の種類から次のモデルへ進むかを決めます。
func (g *ColoringPageGenerator) shouldFallback(kind ErrorKind) bool {
	if g.cfg.FallbackOnAnyError {
		return true
	}
	return kind == KindDailyQuotaExceeded || kind == KindRateLimited
}

// imageSizeFor は上位モデル（pro 系）にだけサイズヒントを付けます。
func (g *ColoringPageGenerator) imageSizeFor(model string) string {
	if g.cfg.ImageSize == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(model), "-pro-") || strings.HasSuffix(strings.ToLower(model), "-pro") {
		return g.cfg.ImageSize
	}
	return ""
}
