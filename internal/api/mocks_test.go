package api

import (
	"context"
	"sync/atomic"

	"github.com/shouni/coloring-page-kit/pkg/domain"
)

// fakeGenerator は notices を通知してから決まった結果を返します。
// release が nil でなければ、通知の後で閉じられるまで待つのだ。
type fakeGenerator struct {
	result  domain.GenerationResult
	notices []string
	started chan struct{}
	release chan struct{}
	// ctxErrs が nil でなければコンテキストの終了を待ち、その理由を送る
	ctxErrs chan error
	calls   atomic.Int32
}

func (f *fakeGenerator) Generate(ctx context.Context, onRetryNotice func(message string)) domain.GenerationResult {
	f.calls.Add(1)
	for _, n := range f.notices {
		if onRetryNotice != nil {
			onRetryNotice(n)
		}
	}
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if f.ctxErrs != nil {
		<-ctx.Done()
		f.ctxErrs <- ctx.Err()
	}
	return f.result
}
