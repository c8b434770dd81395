package generator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"google.golang.org/genai"
)

// --- Mocks ---

// step は fakeAIClient が 1 回の呼び出しで返す結果です。
type step struct {
	resp *genai.GenerateContentResponse
	err  error
}

// fakeAIClient はモデルごとに用意した結果を順番に返します。
// 用意した結果を使い切った後は最後の結果を返し続けるのだ。
type fakeAIClient struct {
	mu        sync.Mutex
	scripts   map[string][]step
	calls     map[string]int
	lastParts []*genai.Part
	lastOpts  map[string]ImageOptions
}

func newFakeAIClient() *fakeAIClient {
	return &fakeAIClient{
		scripts:  make(map[string][]step),
		calls:    make(map[string]int),
		lastOpts: make(map[string]ImageOptions),
	}
}

func (f *fakeAIClient) on(model string, steps ...step) *fakeAIClient {
	f.scripts[model] = append(f.scripts[model], steps...)
	return f
}

func (f *fakeAIClient) GenerateContent(ctx context.Context, model string, parts []*genai.Part, opts ImageOptions) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[model]++
	f.lastParts = parts
	f.lastOpts[model] = opts

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	script := f.scripts[model]
	if len(script) == 0 {
		return nil, errors.New("no script for model " + model)
	}
	idx := f.calls[model] - 1
	if idx >= len(script) {
		idx = len(script) - 1
	}
	return script[idx].resp, script[idx].err
}

func (f *fakeAIClient) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// fakeTimer は待たずに即座に発火し、要求された待機時間を記録します。
type fakeTimer struct {
	mu    sync.Mutex
	waits []time.Duration
	c     chan time.Time
}

func (t *fakeTimer) Start(d time.Duration) {
	t.mu.Lock()
	t.waits = append(t.waits, d)
	t.mu.Unlock()
	t.c = make(chan time.Time, 1)
	t.c <- time.Now()
}

func (t *fakeTimer) Stop() {}

func (t *fakeTimer) C() <-chan time.Time { return t.c }

func (t *fakeTimer) recorded() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]time.Duration(nil), t.waits...)
}

type mockHTTPClient struct {
	data  []byte
	err   error
	calls int
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	return m.data, m.err
}

type mockReader struct {
	data []byte
	err  error
	uris []string
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.uris = append(m.uris, uri)
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

type mockCache struct {
	data map[string]any
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]any)}
}

func (m *mockCache) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockCache) Set(key string, value any, d time.Duration) {
	m.data[key] = value
}

type fixedScene string

func (s fixedScene) Pick() string { return string(s) }

// --- Helpers ---

func imageResp(data []byte, mimeType string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}},
			},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func textResp(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func rateLimitErr() error {
	return genai.APIError{Code: 429, Message: "Resource has been exhausted (e.g. check quota).", Status: "RESOURCE_EXHAUSTED"}
}

func dailyQuotaErr() error {
	return genai.APIError{
		Code:    429,
		Message: "You exceeded your current quota.",
		Status:  "RESOURCE_EXHAUSTED",
		Details: []map[string]any{{"quotaId": "GenerateRequestsPerDayPerProjectPerModel-FreeTier"}},
	}
}

// testPNG は小さな PNG 画像のバイト列を作ります。
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}
