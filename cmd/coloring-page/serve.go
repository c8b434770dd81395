package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shouni/coloring-page-kit/internal/api"
	"github.com/shouni/coloring-page-kit/internal/config"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "塗り絵ジェネレーターの Web UI を起動します",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "待ち受けポート (設定値を上書き)")
	return cmd
}

func runServer(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	gen, cleanup, err := buildGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	handler, err := api.NewHandler(gen, cfg.Server.GenerateTimeout, slog.Default())
	if err != nil {
		return err
	}

	// シャットダウン時に処理中の生成（バックオフ待機を含む）を止めるためのコンテキスト
	requestCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()

	srv := newHTTPServer(requestCtx, fmt.Sprintf(":%d", cfg.Server.Port), api.NewRouter(handler))

	errCh := make(chan error, 1)
	go func() {
		slog.Info("サーバーを起動します", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		slog.Info("シャットダウンします", "signal", sig.String())
	}

	cancelRequests()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("サーバーを停止しました")
	return nil
}

// newHTTPServer は全リクエストのコンテキストを baseCtx から派生させる http.Server を作ります。
func newHTTPServer(baseCtx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}
}
