package generator

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenAIClient は google.golang.org/genai を使った ContentGenerator の実装です。
type GenAIClient struct {
	client *genai.Client
}

// NewGenAIClient は API キーで Gemini API クライアントを初期化します。
func NewGenAIClient(ctx context.Context, apiKey string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, ErrConfigurationMissing
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GenAIClient{client: client}, nil
}

// GenerateContent は parts を 1 つのユーザーメッセージとして送り、画像を要求します。
func (c *GenAIClient) GenerateContent(ctx context.Context, model string, parts []*genai.Part, opts ImageOptions) (*genai.GenerateContentResponse, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	return c.client.Models.GenerateContent(ctx, model, contents, buildContentConfig(opts))
}

func buildContentConfig(opts ImageOptions) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityImage), string(genai.ModalityText)},
	}
	if opts.AspectRatio != "" || opts.ImageSize != "" {
		config.ImageConfig = &genai.ImageConfig{
			AspectRatio: opts.AspectRatio,
			ImageSize:   opts.ImageSize,
		}
	}
	return config
}
