package application

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/jinford/ossjobs/internal/module/search/domain"
)

// EventTracker は検索・閲覧イベントの発火ポートです
// fire-and-forgetの契約のため、エラーは実装側で処理されます
type EventTracker interface {
	// TrackSearchAppearances は求人が検索結果に表示されたことを記録します
	TrackSearchAppearances(ctx context.Context, jobIDs []uuid.UUID)

	// TrackJobView は求人が閲覧されたことを記録します
	TrackJobView(ctx context.Context, jobID uuid.UUID)
}

// SearchService は求人検索のユースケースを提供します
type SearchService struct {
	jobs      domain.JobReader
	locations domain.LocationReader
	projects  domain.ProjectReader
	tracker   EventTracker
}

// NewSearchService は新しい検索サービスを作成します
func NewSearchService(jobs domain.JobReader, locations domain.LocationReader, projects domain.ProjectReader, tracker EventTracker) *SearchService {
	return &SearchService{
		jobs:      jobs,
		locations: locations,
		projects:  projects,
		tracker:   tracker,
	}
}

// SearchJobs はパラメータバッグを正規化して検索を実行します
// 返却したページの求人には検索結果表示イベントを発火します
func (s *SearchService) SearchJobs(ctx context.Context, boardID uuid.UUID, params url.Values) (*domain.SearchOutput, error) {
	filters := domain.NormalizeFilters(params)

	output, err := s.jobs.SearchJobs(ctx, boardID, filters)
	if err != nil {
		return nil, err
	}

	if len(output.Jobs) > 0 {
		jobIDs := make([]uuid.UUID, len(output.Jobs))
		for i, job := range output.Jobs {
			jobIDs[i] = job.JobID
		}
		s.tracker.TrackSearchAppearances(ctx, jobIDs)
	}

	return output, nil
}

// GetJob はpublishedな求人の詳細を取得し、閲覧イベントを発火します
func (s *SearchService) GetJob(ctx context.Context, boardID, jobID uuid.UUID) (*domain.Job, error) {
	job, err := s.jobs.GetJob(ctx, boardID, jobID)
	if err != nil {
		return nil, err
	}

	s.tracker.TrackJobView(ctx, job.JobID)
	return job, nil
}

// TrackJobView は求人閲覧イベントのみを発火します（埋め込みウィジェット用）
func (s *SearchService) TrackJobView(ctx context.Context, jobID uuid.UUID) {
	s.tracker.TrackJobView(ctx, jobID)
}

// SearchLocations は勤務地オートコンプリートを実行します
func (s *SearchService) SearchLocations(ctx context.Context, tsQuery string) ([]domain.Location, error) {
	return s.locations.SearchLocations(ctx, tsQuery)
}

// ListProjectOptions はフィルターとして選択可能なプロジェクト一覧を返します
func (s *SearchService) ListProjectOptions(ctx context.Context) ([]domain.Project, error) {
	return s.projects.ListProjects(ctx)
}
