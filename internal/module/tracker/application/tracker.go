package application

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jinford/ossjobs/internal/module/tracker/domain"
)

// DefaultFlushInterval はバッチをデータベースへ書き込む間隔のデフォルトです
const DefaultFlushInterval = 5 * time.Minute

// counterKey は集約中のバッチのキーです
type counterKey struct {
	jobID uuid.UUID
	day   string
}

// batches はイベント種別ごとに集約中のカウンターを保持します
type batches struct {
	jobViews          map[counterKey]int
	searchAppearances map[counterKey]int
}

func newBatches() batches {
	return batches{
		jobViews:          make(map[counterKey]int),
		searchAppearances: make(map[counterKey]int),
	}
}

func (b batches) isEmpty() bool {
	return len(b.jobViews) == 0 && len(b.searchAppearances) == 0
}

// Tracker はイベントをメモリ上で集約し、定期的にストアへフラッシュします
//
// イベント1件ごとに書き込むのではなく(求人, 日)単位でバッファリングして
// からまとめて書き込むことで、ストア側のロック競合を低く保ちます。
type Tracker struct {
	store    domain.Store
	interval time.Duration
	events   chan domain.Event
	now      func() time.Time
}

// Option はTrackerの設定オプションです
type Option func(*Tracker)

// WithFlushInterval はフラッシュ間隔を変更します
func WithFlushInterval(interval time.Duration) Option {
	return func(t *Tracker) {
		t.interval = interval
	}
}

// WithClock は現在時刻の取得方法を差し替えます（テスト用）
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker は新しいトラッカーを作成します
// Runを呼ぶまでイベントは処理されません
func NewTracker(store domain.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:    store,
		interval: DefaultFlushInterval,
		events:   make(chan domain.Event, 100),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track はイベントを集約キューへ送ります
func (t *Tracker) Track(ctx context.Context, event domain.Event) error {
	select {
	case t.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrackJobView は求人閲覧イベントをfire-and-forgetで記録します
func (t *Tracker) TrackJobView(ctx context.Context, jobID uuid.UUID) {
	if err := t.Track(ctx, domain.NewJobViewEvent(jobID)); err != nil {
		slog.Warn("failed to track job view", "job_id", jobID, "error", err)
	}
}

// TrackSearchAppearances は検索結果表示イベントをfire-and-forgetで記録します
func (t *Tracker) TrackSearchAppearances(ctx context.Context, jobIDs []uuid.UUID) {
	if err := t.Track(ctx, domain.NewSearchAppearancesEvent(jobIDs)); err != nil {
		slog.Warn("failed to track search appearances", "error", err)
	}
}

// Run は集約ワーカーとフラッシュワーカーを起動し、ctxのキャンセルまで
// ブロックします。キャンセル時は集約中のバッチをフラッシュしてから
// 戻ります。
func (t *Tracker) Run(ctx context.Context) {
	// フラッシュが集約をブロックしないようワーカーを分離する
	batchesCh := make(chan batches, 5)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		t.aggregate(ctx, batchesCh)
	}()
	go func() {
		defer wg.Done()
		t.flush(batchesCh)
	}()
	wg.Wait()
}

// aggregate はイベントを受け取り、(求人, 日)ごとのカウンターに集約します
func (t *Tracker) aggregate(ctx context.Context, batchesCh chan<- batches) {
	defer close(batchesCh)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	current := newBatches()
	for {
		select {
		case <-ticker.C:
			if !current.isEmpty() {
				batchesCh <- current
				current = newBatches()
			}

		case event := <-t.events:
			t.apply(current, event)

		case <-ctx.Done():
			// キューに残っているイベントを取り込んでから最後のバッチを送る
			for {
				select {
				case event := <-t.events:
					t.apply(current, event)
					continue
				default:
				}
				break
			}
			if !current.isEmpty() {
				batchesCh <- current
			}
			return
		}
	}
}

// apply は1件のイベントを集約中のカウンターへ反映します
func (t *Tracker) apply(current batches, event domain.Event) {
	day := t.now().UTC().Format(domain.DayLayout)
	switch event.Kind {
	case domain.EventKindJobView:
		for _, jobID := range event.JobIDs {
			current.jobViews[counterKey{jobID: jobID, day: day}]++
		}
	case domain.EventKindSearchAppearance:
		for _, jobID := range event.JobIDs {
			current.searchAppearances[counterKey{jobID: jobID, day: day}]++
		}
	}
}

// flush はバッチを受け取ってストアへ書き込みます
// 書き込み失敗はログに残すのみで、次のバッチの処理を続けます
func (t *Tracker) flush(batchesCh <-chan batches) {
	for b := range batchesCh {
		if len(b.jobViews) > 0 {
			if err := t.store.UpdateJobViews(context.Background(), prepareBatch(b.jobViews)); err != nil {
				slog.Error("error writing job views", "error", err)
			}
		}
		if len(b.searchAppearances) > 0 {
			if err := t.store.UpdateSearchAppearances(context.Background(), prepareBatch(b.searchAppearances)); err != nil {
				slog.Error("error writing search appearances", "error", err)
			}
		}
	}
}

// prepareBatch は集約済みのマップをソート済みスライスに変換します
func prepareBatch(data map[counterKey]int) []domain.CounterUpdate {
	updates := make([]domain.CounterUpdate, 0, len(data))
	for key, total := range data {
		updates = append(updates, domain.CounterUpdate{
			JobID: key.jobID,
			Day:   key.day,
			Total: total,
		})
	}
	sort.Slice(updates, func(i, j int) bool {
		if updates[i].JobID != updates[j].JobID {
			return updates[i].JobID.String() < updates[j].JobID.String()
		}
		return updates[i].Day < updates[j].Day
	})
	return updates
}
