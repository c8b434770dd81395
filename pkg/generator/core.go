package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

// GeminiImageCore は参照画像の準備とレスポンス解析を担う基盤クラスです。
type GeminiImageCore struct {
	httpClient HTTPClient
	reader     ObjectReader
	cache      ImageCacher
	expiration time.Duration
}

// NewGeminiImageCore は依存関係を注入して GeminiImageCore を初期化します。
func NewGeminiImageCore(httpClient HTTPClient, reader ObjectReader, cache ImageCacher, cacheTTL time.Duration) (*GeminiImageCore, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	// reader は nil を許容（gs:// 非対応）、cache も nil を許容（キャッシュなし動作）
	if cacheTTL <= 0 {
		cacheTTL = DefaultReferenceTTL
	}

	return &GeminiImageCore{
		httpClient: httpClient,
		reader:     reader,
		cache:      cache,
		expiration: cacheTTL,
	}, nil
}

// PrepareReferencePart は参照画像を InlineData パーツに変換します。
// 取得に失敗した場合は nil を返し、呼び出し側はテキストのみで続行します。
func (c *GeminiImageCore) PrepareReferencePart(ctx context.Context, rawURL string) *genai.Part {
	if rawURL == "" {
		return nil
	}

	data, err := c.loadReference(ctx, rawURL)
	if err != nil {
		slog.WarnContext(ctx, "参照画像の読み込みに失敗しました。テキストのみで続行します", "url", rawURL, "error", err)
		return nil
	}
	return c.toPart(data)
}
