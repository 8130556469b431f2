package domain

import (
	"context"

	"github.com/google/uuid"
)

// DayLayout はカウンターの日付キーの形式です（UTC）
const DayLayout = "2006-01-02"

// EventKind はトラッキングイベントの種別を表します
type EventKind string

const (
	// EventKindJobView は求人詳細の閲覧です
	EventKindJobView EventKind = "job-view"

	// EventKindSearchAppearance は検索結果への表示です
	EventKindSearchAppearance EventKind = "search-appearance"
)

// Event は1件のトラッキングイベントです
type Event struct {
	Kind   EventKind
	JobIDs []uuid.UUID
}

// NewJobViewEvent は求人閲覧イベントを作成します
func NewJobViewEvent(jobID uuid.UUID) Event {
	return Event{Kind: EventKindJobView, JobIDs: []uuid.UUID{jobID}}
}

// NewSearchAppearancesEvent は検索結果表示イベントを作成します
// 1ページに表示された求人すべてをまとめて渡せます
func NewSearchAppearancesEvent(jobIDs []uuid.UUID) Event {
	return Event{Kind: EventKindSearchAppearance, JobIDs: jobIDs}
}

// CounterUpdate は(求人, 日)ごとの加算値です
type CounterUpdate struct {
	JobID uuid.UUID
	Day   string
	Total int
}

// Store はデイリーカウンターの永続化ポートです
//
// 実装は1バッチを1トランザクションで原子的にマージし、同一ストリームへの
// 並行バッチを直列化しなければなりません。publishedでない求人への加算は
// エラーにせず黙って破棄します。加算はat-least-once前提の加法マージであり、
// 重複排除は行いません。
type Store interface {
	// UpdateJobViews は求人閲覧カウンターへバッチをマージします
	UpdateJobViews(ctx context.Context, data []CounterUpdate) error

	// UpdateSearchAppearances は検索結果表示カウンターへバッチをマージします
	UpdateSearchAppearances(ctx context.Context, data []CounterUpdate) error
}
