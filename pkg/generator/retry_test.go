package generator

import (
	"context"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
)

func TestNewRateLimitBackOff(t *testing.T) {
	t.Run("待機は 2^attempt * baseDelay で増える", func(t *testing.T) {
		b := newRateLimitBackOff(context.Background(), 2*time.Second, 3)
		b.Reset()

		assert.Equal(t, 4*time.Second, b.NextBackOff())
		assert.Equal(t, 8*time.Second, b.NextBackOff())
		assert.Equal(t, 16*time.Second, b.NextBackOff())
		assert.Equal(t, backoff.Stop, b.NextBackOff())
	})

	t.Run("MaxRetries=0 ならリトライしない", func(t *testing.T) {
		b := newRateLimitBackOff(context.Background(), time.Second, 0)
		b.Reset()

		assert.Equal(t, backoff.Stop, b.NextBackOff())
	})
}

func TestRetryNotice(t *testing.T) {
	assert.Equal(t,
		"Muitas solicitações. Tentando novamente em 4 segundos... (tentativa 1 de 3)",
		retryNotice(4*time.Second, 1, 3))
}
