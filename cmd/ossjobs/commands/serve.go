package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/urfave/cli/v3"

	apihttp "github.com/jinford/ossjobs/internal/interface/http"
	"github.com/jinford/ossjobs/internal/platform/container"
)

// shutdownTimeout はHTTPサーバーの graceful shutdown の猶予時間です
const shutdownTimeout = 10 * time.Second

// ServeAction はHTTP APIサーバーを起動します
// イベントトラッカーとレジストリ同期スケジューラーも同時に動かし、
// シグナル受信時はトラッカーの最終フラッシュまで待ってから終了します。
func ServeAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer app.Close()

	services := container.New(app.Config, app.Database, app.Redis)

	// イベントトラッカー
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		services.Tracker.Run(ctx)
	}()

	// レジストリ同期スケジューラー
	if err := services.Scheduler.Start(ctx); err != nil {
		return err
	}
	defer services.Scheduler.Stop()

	// HTTPサーバー
	srv := &http.Server{
		Addr:    app.Config.HTTP.Addr,
		Handler: apihttp.NewRouter(services.Boards, services.Search),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}

	// トラッカーの最終フラッシュを待つ
	wg.Wait()
	return nil
}
