package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiImageCore(t *testing.T) {
	t.Run("httpClient が nil ならエラー", func(t *testing.T) {
		_, err := NewGeminiImageCore(nil, nil, nil, time.Hour)
		assert.Error(t, err)
	})

	t.Run("TTL が 0 以下なら既定値になる", func(t *testing.T) {
		core, err := NewGeminiImageCore(&mockHTTPClient{}, nil, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultReferenceTTL, core.expiration)
	})
}

func TestGeminiImageCore_PrepareReferencePart(t *testing.T) {
	ctx := context.Background()
	const refURL = "https://8.8.8.8/tigre.png"

	t.Run("キャッシュが無ければ取得して圧縮しキャッシュする", func(t *testing.T) {
		cache := newMockCache()
		httpMock := &mockHTTPClient{data: testPNG(t)}
		core, err := NewGeminiImageCore(httpMock, nil, cache, time.Hour)
		require.NoError(t, err)

		part := core.PrepareReferencePart(ctx, refURL)

		require.NotNil(t, part)
		require.NotNil(t, part.InlineData)
		assert.Equal(t, "image/jpeg", part.InlineData.MIMEType)
		assert.Equal(t, 1, httpMock.calls)

		cached, ok := cache.Get(cacheKeyReference + refURL)
		assert.True(t, ok, "should be cached")
		assert.Equal(t, part.InlineData.Data, cached)
	})

	t.Run("キャッシュがあれば取得をスキップする", func(t *testing.T) {
		cache := newMockCache()
		cache.Set(cacheKeyReference+refURL, testPNG(t), time.Hour)
		httpMock := &mockHTTPClient{err: errors.New("should not be called")}
		core, _ := NewGeminiImageCore(httpMock, nil, cache, time.Hour)

		part := core.PrepareReferencePart(ctx, refURL)

		require.NotNil(t, part)
		assert.Equal(t, "image/png", part.InlineData.MIMEType)
		assert.Zero(t, httpMock.calls)
	})

	t.Run("キャッシュの型が不正なら取得し直す", func(t *testing.T) {
		cache := newMockCache()
		cache.Set(cacheKeyReference+refURL, "not-bytes", time.Hour)
		httpMock := &mockHTTPClient{data: testPNG(t)}
		core, _ := NewGeminiImageCore(httpMock, nil, cache, time.Hour)

		part := core.PrepareReferencePart(ctx, refURL)

		require.NotNil(t, part)
		assert.Equal(t, 1, httpMock.calls)
	})

	t.Run("プライベートアドレスは取得しない", func(t *testing.T) {
		httpMock := &mockHTTPClient{data: testPNG(t)}
		core, _ := NewGeminiImageCore(httpMock, nil, nil, time.Hour)

		part := core.PrepareReferencePart(ctx, "http://127.0.0.1/tigre.png")

		assert.Nil(t, part)
		assert.Zero(t, httpMock.calls)
	})

	t.Run("gs:// は ObjectReader から読む", func(t *testing.T) {
		reader := &mockReader{data: testPNG(t)}
		httpMock := &mockHTTPClient{}
		core, _ := NewGeminiImageCore(httpMock, reader, nil, time.Hour)

		part := core.PrepareReferencePart(ctx, "gs://assets/tigre.png")

		require.NotNil(t, part)
		assert.Equal(t, []string{"gs://assets/tigre.png"}, reader.uris)
		assert.Zero(t, httpMock.calls)
	})

	t.Run("gs:// で reader が無ければ nil", func(t *testing.T) {
		core, _ := NewGeminiImageCore(&mockHTTPClient{}, nil, nil, time.Hour)

		assert.Nil(t, core.PrepareReferencePart(ctx, "gs://assets/tigre.png"))
	})

	t.Run("画像でないデータは nil", func(t *testing.T) {
		httpMock := &mockHTTPClient{data: []byte("<html>not an image</html>")}
		core, _ := NewGeminiImageCore(httpMock, nil, nil, time.Hour)

		assert.Nil(t, core.PrepareReferencePart(ctx, refURL))
	})

	t.Run("URL が空なら nil", func(t *testing.T) {
		core, _ := NewGeminiImageCore(&mockHTTPClient{}, nil, nil, time.Hour)

		assert.Nil(t, core.PrepareReferencePart(ctx, ""))
	})
}
