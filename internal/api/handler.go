// Package api は塗り絵生成の HTTP 入口です。
package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/coloring-page-kit/pkg/domain"
	"github.com/shouni/coloring-page-kit/pkg/generator"
	"golang.org/x/sync/semaphore"
)

//go:embed web/index.html
var webFS embed.FS

// MsgBusy は別の生成が進行中のときに返すメッセージです。
const MsgBusy = "Já existe um desenho sendo criado. Aguarde a conclusão."

// GenerateResponse は POST /api/generate のレスポンスです。
type GenerateResponse struct {
	ID             string   `json:"id"`
	ImageURL       string   `json:"image_url,omitempty"`
	MimeType       string   `json:"mime_type,omitempty"`
	Scene          string   `json:"scene,omitempty"`
	Model          string   `json:"model,omitempty"`
	Error          string   `json:"error,omitempty"`
	QuotaExhausted bool     `json:"quota_exhausted"`
	Notices        []string `json:"notices"`
}

func newGenerateResponse(res domain.GenerationResult) GenerateResponse {
	resp := GenerateResponse{
		ID:             res.ID,
		Scene:          res.Scene,
		Model:          res.Model,
		Error:          res.ErrorMessage,
		QuotaExhausted: res.QuotaExhausted,
		Notices:        res.Notices,
	}
	if resp.Notices == nil {
		resp.Notices = []string{}
	}
	if res.OK() {
		resp.ImageURL = res.Image.DataURI()
		resp.MimeType = res.Image.MimeType
	}
	return resp
}

// Handler は HTTP ハンドラー群です。
type Handler struct {
	generator generator.ImageGenerator
	inFlight  *semaphore.Weighted
	timeout   time.Duration
	logger    *slog.Logger
}

// NewHandler は Handler を初期化します。generateTimeout が 0 以下なら生成に上限を設けません。
func NewHandler(gen generator.ImageGenerator, generateTimeout time.Duration, logger *slog.Logger) (*Handler, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		generator: gen,
		inFlight:  semaphore.NewWeighted(1),
		timeout:   generateTimeout,
		logger:    logger,
	}, nil
}

// Index は埋め込みの HTML ページを返します。
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		h.logger.ErrorContext(r.Context(), "ページの読み込みに失敗しました", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// Generate は塗り絵を 1 枚生成します。同時に走る生成は 1 つだけです。
// 応答は text/event-stream で、待機中の通知を notice イベントとして都度送り、最後に result イベントを送ります。
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.inFlight.TryAcquire(1) {
		h.logger.WarnContext(ctx, "生成中のため新しいリクエストを拒否しました")
		RespondWithError(w, r, http.StatusConflict, MsgBusy)
		return
	}
	defer h.inFlight.Release(1)

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		// ストリーミングできない場合は通知をまとめて JSON で返す
		res := h.generator.Generate(ctx, func(msg string) {
			h.logger.InfoContext(ctx, "リトライ通知", "notice", msg)
		})
		RespondWithJSON(w, r, http.StatusOK, newGenerateResponse(res))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	stream := &eventStream{w: w, flusher: flusher}
	res := h.generator.Generate(ctx, func(msg string) {
		h.logger.InfoContext(ctx, "リトライ通知", "notice", msg)
		if err := stream.send(EventNotice, NoticeEvent{Message: msg}); err != nil {
			h.logger.WarnContext(ctx, "通知の送信に失敗しました", "error", err)
		}
	})

	if err := stream.send(EventResult, newGenerateResponse(res)); err != nil {
		h.logger.WarnContext(ctx, "結果の送信に失敗しました", "error", err)
	}
}

// ストリームのイベント名
const (
	EventNotice = "notice"
	EventResult = "result"
)

// NoticeEvent は notice イベントのデータです。
type NoticeEvent struct {
	Message string `json:"message"`
}

type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s *eventStream) send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Health は死活監視用です。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}
