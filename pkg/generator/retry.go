package generator

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shouni/coloring-page-kit/pkg/domain"
	"google.golang.org/genai"
)

// newRateLimitBackOff は 2^attempt * baseDelay (attempt は 1 始まり) の待機列を作ります。
// baseDelay=2s なら 4s, 8s, 16s になります。
func newRateLimitBackOff(ctx context.Context, baseDelay time.Duration, maxRetries int) backoff.BackOff {
	exp := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(2*baseDelay),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxInterval(time.Duration(math.MaxInt64)),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(maxRetries)), ctx)
}

// generateWithRetry は 1 つのモデルに対してレート制限時のみリトライしながら生成します。
// 1 日のクォータ超過やその他のエラーは即座に返します。
func (g *ColoringPageGenerator) generateWithRetry(ctx context.Context, req domain.GenerationRequest, parts []*genai.Part, notify func(string)) (*ImageOutput, error) {
	maxRetries := g.cfg.MaxRetries
	attempt := 0
	var out *ImageOutput

	operation := func() error {
		attempt++
		g.logger.InfoContext(ctx, "Gemini API呼び出し", "model", req.Model, "attempt", attempt, "max_attempts", maxRetries+1)

		result, err := g.attemptOnce(ctx, req, parts)
		if err == nil {
			out = result
			return nil
		}

		genErr := asGenerationError(err, req.Model, attempt)
		if genErr.Kind == KindRateLimited {
			return genErr
		}
		return backoff.Permanent(genErr)
	}

	onBackoff := func(err error, wait time.Duration) {
		g.logger.WarnContext(ctx, "レート制限のため待機してリトライします",
			"model", req.Model,
			"attempt", attempt,
			"wait_ms", wait.Milliseconds(),
			"error", err)
		if notify != nil {
			notify(retryNotice(wait, attempt, maxRetries))
		}
	}

	err := backoff.RetryNotifyWithTimer(operation, newRateLimitBackOff(ctx, g.cfg.BaseDelay, maxRetries), onBackoff, g.newTimer())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, &GenerationError{Kind: KindTransport, Model: req.Model, Attempt: attempt, Err: err}
		}
		return nil, asGenerationError(err, req.Model, attempt)
	}
	return out, nil
}

// attemptOnce は API を 1 回だけ呼び出して画像を取り出します。
func (g *ColoringPageGenerator) attemptOnce(ctx context.Context, req domain.GenerationRequest, parts []*genai.Part) (*ImageOutput, error) {
	resp, err := g.aiClient.GenerateContent(ctx, req.Model, parts, ImageOptions{
		AspectRatio: req.AspectRatio,
		ImageSize:   req.ImageSize,
	})
	if err != nil {
		return nil, err
	}
	return g.imgCore.parseToResponse(resp)
}

// asGenerationError は err を分類済みの GenerationError に揃えます。
func asGenerationError(err error, model string, attempt int) *GenerationError {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		if genErr.Model == "" {
			genErr.Model = model
		}
		if genErr.Attempt == 0 {
			genErr.Attempt = attempt
		}
		return genErr
	}
	return &GenerationError{Kind: Classify(err), Model: model, Attempt: attempt, Err: err}
}
