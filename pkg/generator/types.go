package generator

import (
	"time"
)

const (
	UseImageCompression     = true
	ImageCompressionQuality = 75

	DefaultPrimaryModel  = "gemini-2.5-flash-image"
	DefaultFallbackModel = "gemini-3-pro-image-preview"
	DefaultAspectRatio   = "3:4"
	DefaultImageSize     = "2K"
	DefaultMaxRetries    = 3
	DefaultBaseDelay     = 2 * time.Second
	DefaultReferenceTTL  = time.Hour

	cacheKeyReference = "reference:"
)

// ImageOptions は API に渡す画像設定です。
type ImageOptions struct {
	AspectRatio string
	ImageSize   string
}

// ImageOutput は Core の内部解析結果
type ImageOutput struct {
	Data     []byte
	MimeType string
}

// Config は ColoringPageGenerator の動作設定です。
type Config struct {
	// APIKey が空のときはネットワークに触れずに失敗結果を返します。
	APIKey string
	// Models は試行順のモデル一覧（先頭がプライマリ）。
	Models      []string
	AspectRatio string
	ImageSize   string
	// MaxRetries はレート制限時の追加リトライ回数（モデルごと）。
	MaxRetries int
	// BaseDelay は待機時間 2^attempt * BaseDelay の基準値。
	BaseDelay time.Duration
	// FallbackOnAnyError が false の場合、クォータ超過とレート制限のときだけ次のモデルへ進みます。
	FallbackOnAnyError bool
	// ReferenceImageURL はマスコットの参照画像（http(s):// または gs://）。空なら使いません。
	ReferenceImageURL string
}

// DefaultConfig は既定値を埋めた Config を返します。
func DefaultConfig() Config {
	return Config{
		Models:             []string{DefaultPrimaryModel, DefaultFallbackModel},
		AspectRatio:        DefaultAspectRatio,
		ImageSize:          DefaultImageSize,
		MaxRetries:         DefaultMaxRetries,
		BaseDelay:          DefaultBaseDelay,
		FallbackOnAnyError: true,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if len(c.Models) == 0 {
		c.Models = def.Models
	}
	if c.AspectRatio == "" {
		c.AspectRatio = def.AspectRatio
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = def.BaseDelay
	}
	return c
}
