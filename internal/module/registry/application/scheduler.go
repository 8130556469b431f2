package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler はrobfig/cronをラップしてレジストリ同期を定期実行します
type Scheduler struct {
	cron   *cron.Cron
	syncer *Syncer
	spec   string
}

// NewScheduler は指定のcronスケジュールで同期を実行するスケジューラーを
// 作成します（例: "@every 1h"）
func NewScheduler(syncer *Syncer, spec string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		syncer: syncer,
		spec:   spec,
	}
}

// Start はスケジュールを登録して起動します
// 初回のデータを待たせないため、起動直後にも1回同期を実行します
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.syncer.Run(ctx); err != nil {
			slog.Error("registry sync failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	slog.Info("registry sync scheduler started", "spec", s.spec)

	go func() {
		if err := s.syncer.Run(ctx); err != nil {
			slog.Error("initial registry sync failed", "error", err)
		}
	}()

	return nil
}

// Stop はスケジューラーを停止します
func (s *Scheduler) Stop() {
	s.cron.Stop()
	slog.Info("registry sync scheduler stopped")
}
