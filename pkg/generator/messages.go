package generator

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// 画面に表示するメッセージ（ポルトガル語）。
const (
	MsgMissingAPIKey   = "A chave da API não está configurada. Defina a variável de ambiente GEMINI_API_KEY."
	MsgNoImage         = "A IA não conseguiu gerar uma imagem automática. Tente clicar novamente."
	MsgNoImageWithText = "A IA não gerou a imagem. Resposta: %s"
	MsgTooManyRequests = "Muitas solicitações. Aguarde um momento e tente novamente."
	MsgDailyLimit      = "O limite diário de geração de imagens foi atingido. Tente novamente amanhã."
	MsgConnection      = "Erro de conexão com o servidor de IA. Tente novamente em alguns segundos."
	MsgUnclassified    = "Erro: %s"
	MsgGeneric         = "Ocorreu um erro ao gerar a imagem."
	MsgRetryNotice     = "Muitas solicitações. Tentando novamente em %d segundos... (tentativa %d de %d)"

	maxDisplayedErrorLength = 100
)

// UserMessage はエラーを画面表示用のメッセージに変換します。
// 2 番目の戻り値は 1 日の上限に達したかどうかです。
func UserMessage(err error) (string, bool) {
	if err == nil {
		return MsgGeneric, false
	}

	switch Classify(err) {
	case KindConfigurationMissing:
		return MsgMissingAPIKey, false
	case KindDailyQuotaExceeded:
		return MsgDailyLimit, true
	case KindRateLimited:
		return MsgTooManyRequests, false
	case KindTransport:
		return MsgConnection, false
	case KindEmptyResponse:
		var genErr *GenerationError
		if errors.As(err, &genErr) && genErr.Detail != "" {
			return fmt.Sprintf(MsgNoImageWithText, genErr.Detail), false
		}
		return MsgNoImage, false
	default:
		msg := rootMessage(err)
		if msg == "" {
			return MsgGeneric, false
		}
		return fmt.Sprintf(MsgUnclassified, truncate(msg, maxDisplayedErrorLength)), false
	}
}

// retryNotice はバックオフ待機中に表示するカウントダウンメッセージです。
func retryNotice(wait time.Duration, attempt, maxRetries int) string {
	return fmt.Sprintf(MsgRetryNotice, int(wait.Round(time.Second)/time.Second), attempt, maxRetries)
}

// rootMessage は GenerationError の包装を外した元のエラーメッセージを返します。
func rootMessage(err error) string {
	var genErr *GenerationError
	if errors.As(err, &genErr) && genErr.Err != nil {
		return strings.TrimSpace(genErr.Err.Error())
	}
	return strings.TrimSpace(err.Error())
}

// truncate は文字単位で max 文字に切り詰めます。
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
