package domain

import (
	"encoding/base64"
)

// GenerationRequest は 1 回の試行で API に送る生成要求です。
// 試行ごとに作られ、使い終わったら捨てられます。
type GenerationRequest struct {
	Model       string
	Prompt      string
	AspectRatio string
	ImageSize   string // 上位モデル向けのサイズヒント（空なら指定なし）
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
}

// DataURI はブラウザでそのまま表示・保存できる data URI を返します。
func (r *ImageResponse) DataURI() string {
	if r == nil || len(r.Data) == 0 {
		return ""
	}
	mimeType := r.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

// GenerationResult は 1 回の生成呼び出しの結果です。
// Image が入っていれば成功、そうでなければ ErrorMessage と QuotaExhausted が失敗内容を表します。
type GenerationResult struct {
	ID             string
	Image          *ImageResponse
	Scene          string
	Model          string
	ErrorMessage   string
	QuotaExhausted bool
	Notices        []string
}

// OK は画像が得られたかどうかを返します。
func (r GenerationResult) OK() bool {
	return r.Image != nil && len(r.Image.Data) > 0
}
