package generator

import (
	"context"
	"io"
	"time"

	"github.com/shouni/coloring-page-kit/pkg/domain"
	"google.golang.org/genai"
)

// ContentGenerator は画像生成 API との 1 回の通信を担当します。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, parts []*genai.Part, opts ImageOptions) (*genai.GenerateContentResponse, error)
}

// ImageGenerator は UI 層が利用する統合窓口です。
type ImageGenerator interface {
	// Generate はランダムなシーンの塗り絵を 1 枚生成します。
	// onRetryNotice はバックオフ待機のたびに呼ばれます（nil 可）。
	Generate(ctx context.Context, onRetryNotice func(message string)) domain.GenerationResult
}

// SceneSelector はシーンを 1 つ選びます。
type SceneSelector interface {
	Pick() string
}

// ImageCacher は、画像をキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// HTTPClient は、URLからデータを取得するためのインターフェースです。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// ObjectReader は gs:// などのオブジェクトストレージから読み出します。
type ObjectReader interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}
