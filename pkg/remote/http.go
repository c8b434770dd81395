package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const (
	// DefaultMaxBytes は参照画像として受け付ける最大サイズです。
	DefaultMaxBytes int64 = 10 << 20
	defaultTimeout        = 30 * time.Second
	maxRedirects          = 10
)

// URLValidator は接続先 URL を許可するかどうかを判定します。
type URLValidator func(rawURL string) (bool, error)

// Option は HTTPFetcher の生成オプションです。
type Option func(*http.Client)

// WithRedirectValidator はリダイレクト先ごとに validate を適用します。
// 最初の URL は呼び出し側で検証済みである前提なのだ。
func WithRedirectValidator(validate URLValidator) Option {
	return func(c *http.Client) {
		if validate == nil {
			return
		}
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			ok, err := validate(req.URL.String())
			if err != nil {
				return fmt.Errorf("redirect to %s blocked: %w", req.URL.Redacted(), err)
			}
			if !ok {
				return fmt.Errorf("redirect to %s blocked", req.URL.Redacted())
			}
			return nil
		}
	}
}

// HTTPFetcher は URL からバイト列を取得します。
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPFetcher は go-cleanhttp のプール済みクライアントで HTTPFetcher を作ります。
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = defaultTimeout
	for _, opt := range opts {
		opt(client)
	}
	return NewHTTPFetcherWithClient(client, DefaultMaxBytes)
}

// NewHTTPFetcherWithClient は任意の *http.Client を使う HTTPFetcher を作ります。
func NewHTTPFetcherWithClient(client *http.Client, maxBytes int64) *HTTPFetcher {
	if client == nil {
		client = cleanhttp.DefaultClient()
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &HTTPFetcher{client: client, maxBytes: maxBytes}
}

// FetchBytes は rawURL を GET してボディを返します。2xx 以外はエラーです。
func (f *HTTPFetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status fetching %s: %s", rawURL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", rawURL, f.maxBytes)
	}
	return data, nil
}
