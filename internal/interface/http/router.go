// Package http は検索エンジンとイベントトラッキングをHTTP APIとして
// 公開します。認証・セッション・HTML描画は外部コラボレーターの責務で、
// ここではボード解決とクエリパラメータの受け渡しのみを行います。
package http

import (
	"github.com/gin-gonic/gin"

	boarddomain "github.com/jinford/ossjobs/internal/module/board/domain"
	"github.com/jinford/ossjobs/internal/module/search/application"
)

// NewRouter はAPIルーターを構築します
func NewRouter(boards boarddomain.Reader, search *application.SearchService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &handler{boards: boards, search: search}

	router.GET("/healthz", h.health)

	api := router.Group("/api", h.resolveBoard)
	{
		api.GET("/jobs", h.searchJobs)
		api.GET("/jobs/:job_id", h.getJob)
		api.GET("/locations", h.searchLocations)
		api.GET("/filters/options", h.filterOptions)
		api.POST("/events/job-view/:job_id", h.trackJobView)
	}

	return router
}
