package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Assignments *AssignmentHandler
	Comparisons *ComparisonHandler
	WebAnalysis *WebAnalysisHandler
	Reports     *ReportHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/assignments", deps.Assignments.Upload)
	api.GET("/assignments", deps.Assignments.List)
	api.GET("/assignments/:id", deps.Assignments.Get)
	api.DELETE("/assignments/:id", deps.Assignments.Delete)

	api.POST("/comparisons", deps.Comparisons.Compare)
	api.POST("/assignments/:id/web-analysis", deps.WebAnalysis.Analyze)

	api.GET("/reports", deps.Reports.List)
	api.GET("/reports/view/*key", deps.Reports.View)
	api.GET("/reports/download/*key", deps.Reports.Download)
	api.DELETE("/reports/*key", deps.Reports.Delete)
}
