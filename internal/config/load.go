package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shouni/coloring-page-kit/pkg/generator"
	"github.com/spf13/viper"
)

// EnvPrefix は環境変数の接頭辞です（例: COLORING_SERVER_PORT）。
const EnvPrefix = "COLORING"

// apiKeyEnvs は API キーを探す環境変数です。先に見つかったものを使います。
var apiKeyEnvs = []string{
	EnvPrefix + "_GEMINI_API_KEY",
	"GEMINI_API_KEY",
	"VITE_GEMINI_API_KEY",
	"API_KEY",
}

func setDefaults(v *viper.Viper) {
	def := generator.DefaultConfig()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.generate_timeout", "5m")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.models", def.Models)
	v.SetDefault("gemini.aspect_ratio", def.AspectRatio)
	v.SetDefault("gemini.image_size", def.ImageSize)
	v.SetDefault("gemini.max_retries", def.MaxRetries)
	v.SetDefault("gemini.base_delay", def.BaseDelay.String())
	v.SetDefault("gemini.fallback_on_any_error", def.FallbackOnAnyError)
	v.SetDefault("gemini.reference_image_url", "")
	v.SetDefault("gemini.reference_cache_ttl", generator.DefaultReferenceTTL.String())

	v.SetDefault("scenes", []string{})
}

// Load は既定値・設定ファイル（任意）・環境変数の順に重ねて設定を読み込みます。
// configPath が空なら設定ファイルは読みません。
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv(append([]string{"gemini.api_key"}, apiKeyEnvs...)...); err != nil {
		return nil, fmt.Errorf("error binding api key environment variables: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Gemini.APIKey = strings.TrimSpace(cfg.Gemini.APIKey)

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
