package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shouni/coloring-page-kit/pkg/imgutil"
	"google.golang.org/genai"
)

// loadReference は参照画像を取得・圧縮します。結果はキャッシュされます。
func (c *GeminiImageCore) loadReference(ctx context.Context, rawURL string) ([]byte, error) {
	if c.cache != nil {
		if val, ok := c.cache.Get(cacheKeyReference + rawURL); ok {
			if data, ok := val.([]byte); ok {
				return data, nil
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "url", rawURL, "type", fmt.Sprintf("%T", val))
		}
	}

	data, err := c.fetchImageData(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	finalData := data
	if UseImageCompression {
		if compressed, err := imgutil.CompressToJPEG(data, ImageCompressionQuality); err == nil {
			finalData = compressed
		}
	}

	if c.cache != nil {
		c.cache.Set(cacheKeyReference+rawURL, finalData, c.expiration)
	}
	return finalData, nil
}

func (c *GeminiImageCore) fetchImageData(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, "gs://") {
		if c.reader == nil {
			return nil, fmt.Errorf("gs:// の参照画像を読むための reader が設定されていません: %s", rawURL)
		}
		rc, err := c.reader.Open(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	if safe, err := IsSafeURL(rawURL); err != nil || !safe {
		return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}
	return c.httpClient.FetchBytes(ctx, rawURL)
}

func (c *GeminiImageCore) toPart(data []byte) *genai.Part {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		slog.Warn("MIMEタイプが画像ではないためPartに変換できませんでした", "detected_mime_type", mimeType)
		return nil
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}
}

// parseToResponse はレスポンスから最初のインライン画像を取り出します。
// 画像が無い場合は KindEmptyResponse の GenerationError を返し、API の説明テキストを Detail に入れます。
func (c *GeminiImageCore) parseToResponse(resp *genai.GenerateContentResponse) (*ImageOutput, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, &GenerationError{
				Kind: KindEmptyResponse,
				Err:  fmt.Errorf("prompt blocked (BlockReason: %s)", resp.PromptFeedback.BlockReason),
			}
		}
		return nil, &GenerationError{Kind: KindEmptyResponse, Err: fmt.Errorf("invalid response: no candidates")}
	}

	// 最初の候補 (Candidate) のみを利用する。
	candidate := resp.Candidates[0]

	var texts []string
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = "image/png"
				}
				return &ImageOutput{Data: part.InlineData.Data, MimeType: mimeType}, nil
			}
			if text := strings.TrimSpace(part.Text); text != "" && !part.Thought {
				texts = append(texts, text)
			}
		}
	}

	detail := strings.Join(texts, " ")
	if candidate.FinishReason != "" && candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, &GenerationError{
			Kind:   KindEmptyResponse,
			Detail: detail,
			Err:    fmt.Errorf("%w (FinishReason: %s)", ErrEmptyResponse, candidate.FinishReason),
		}
	}

	return nil, &GenerationError{Kind: KindEmptyResponse, Detail: detail, Err: ErrEmptyResponse}
}
