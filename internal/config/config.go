// Package config はアプリケーション設定を読み込みます。
package config

import (
	"time"

	"github.com/shouni/coloring-page-kit/pkg/generator"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Gemini GeminiConfig `mapstructure:"gemini" validate:"required"`
	// Scenes が空でなければ既定のシーン一覧を置き換えます。
	Scenes []string `mapstructure:"scenes" validate:"omitempty,dive,required"`
}

// ServerConfig は HTTP サーバーの設定です。
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// GenerateTimeout は 1 回の生成リクエスト全体の上限です。
	GenerateTimeout time.Duration `mapstructure:"generate_timeout" validate:"gt=0"`
}

// GeminiConfig は画像生成 API の設定です。
type GeminiConfig struct {
	// APIKey は空でもよい。その場合は生成のたびに設定エラーを表示します。
	APIKey             string        `mapstructure:"api_key"`
	Models             []string      `mapstructure:"models" validate:"required,min=1,dive,required"`
	AspectRatio        string        `mapstructure:"aspect_ratio" validate:"required,oneof=1:1 2:3 3:2 3:4 4:3 4:5 5:4 9:16 16:9 21:9"`
	ImageSize          string        `mapstructure:"image_size" validate:"omitempty,oneof=1K 2K 4K"`
	MaxRetries         int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BaseDelay          time.Duration `mapstructure:"base_delay" validate:"gt=0"`
	FallbackOnAnyError bool          `mapstructure:"fallback_on_any_error"`
	ReferenceImageURL  string        `mapstructure:"reference_image_url" validate:"omitempty,url"`
	ReferenceCacheTTL  time.Duration `mapstructure:"reference_cache_ttl" validate:"gt=0"`
}

// GeneratorConfig は generator パッケージ用の設定に変換します。
func (c GeminiConfig) GeneratorConfig() generator.Config {
	return generator.Config{
		APIKey:             c.APIKey,
		Models:             append([]string(nil), c.Models...),
		AspectRatio:        c.AspectRatio,
		ImageSize:          c.ImageSize,
		MaxRetries:         c.MaxRetries,
		BaseDelay:          c.BaseDelay,
		FallbackOnAnyError: c.FallbackOnAnyError,
		ReferenceImageURL:  c.ReferenceImageURL,
	}
}
