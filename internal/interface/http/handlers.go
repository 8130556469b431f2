package http

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	boarddomain "github.com/jinford/ossjobs/internal/module/board/domain"
	"github.com/jinford/ossjobs/internal/module/search/application"
	searchdomain "github.com/jinford/ossjobs/internal/module/search/domain"
)

// boardIDKey はミドルウェアが解決したボードIDのコンテキストキーです
const boardIDKey = "boardID"

type handler struct {
	boards boarddomain.Reader
	search *application.SearchService
}

// resolveBoard はリクエストのホスト名からボード（テナント）を解決します
func (h *handler) resolveBoard(c *gin.Context) {
	host := c.Request.Host
	if hostname, _, err := net.SplitHostPort(host); err == nil {
		host = hostname
	}

	boardID, err := h.boards.GetBoardID(c.Request.Context(), host)
	if err != nil {
		if errors.Is(err, boarddomain.ErrBoardNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown board"})
			return
		}
		h.internalError(c, "failed to resolve board", err)
		return
	}

	c.Set(boardIDKey, boardID)
	c.Next()
}

// searchJobs は求人検索を実行します
// フィルターのクエリパラメータはそのまま正規化層に渡します。不正値は
// 「その次元を適用しない」に落ちるため、このエンドポイントがパラメータ
// 起因の4xxを返すことはありません。
func (h *handler) searchJobs(c *gin.Context) {
	output, err := h.search.SearchJobs(c.Request.Context(), h.boardID(c), c.Request.URL.Query())
	if err != nil {
		h.internalError(c, "failed to search jobs", err)
		return
	}
	c.JSON(http.StatusOK, output)
}

// getJob はpublishedな求人の詳細を返します
func (h *handler) getJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	job, err := h.search.GetJob(c.Request.Context(), h.boardID(c), jobID)
	if err != nil {
		if errors.Is(err, searchdomain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		h.internalError(c, "failed to get job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// searchLocations は勤務地オートコンプリートを実行します
func (h *handler) searchLocations(c *gin.Context) {
	locations, err := h.search.SearchLocations(c.Request.Context(), c.Query("ts_query"))
	if err != nil {
		h.internalError(c, "failed to search locations", err)
		return
	}
	if locations == nil {
		locations = []searchdomain.Location{}
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// filterOptions はフィルターの選択肢を返します
func (h *handler) filterOptions(c *gin.Context) {
	projects, err := h.search.ListProjectOptions(c.Request.Context())
	if err != nil {
		h.internalError(c, "failed to list filter options", err)
		return
	}
	if projects == nil {
		projects = []searchdomain.Project{}
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// trackJobView は求人閲覧イベントを記録します（fire-and-forget）
func (h *handler) trackJobView(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	h.search.TrackJobView(c.Request.Context(), jobID)
	c.Status(http.StatusNoContent)
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// boardID はミドルウェアが解決したボードIDを取り出します
func (h *handler) boardID(c *gin.Context) uuid.UUID {
	return c.MustGet(boardIDKey).(uuid.UUID)
}

// internalError は詳細をログに残し、クライアントには500のみ返します
func (h *handler) internalError(c *gin.Context, msg string, err error) {
	slog.Error(msg, "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
