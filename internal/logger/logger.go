// Package logger は slog の初期設定を行います。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel は設定文字列を slog.Level に変換します。不明な値は Info として扱い、false を返します。
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Setup は JSON 形式のロガーを作り、slog のデフォルトに設定します。
func Setup(level string) *slog.Logger {
	return SetupWithWriter(os.Stdout, level)
}

// SetupWithWriter は出力先を指定して Setup を行います。
func SetupWithWriter(w io.Writer, level string) *slog.Logger {
	lvl, ok := ParseLevel(level)
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	if !ok {
		logger.Warn("不明なログレベルのため info を使います", "configured_level", level)
	}
	slog.SetDefault(logger)
	return logger
}
