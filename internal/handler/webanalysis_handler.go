package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/simcheck/simcheck/internal/pkg/response"
	"github.com/simcheck/simcheck/internal/service"
)

type WebAnalysisHandler struct {
	analysis *service.WebAnalysisService
}

func NewWebAnalysisHandler(analysis *service.WebAnalysisService) *WebAnalysisHandler {
	return &WebAnalysisHandler{analysis: analysis}
}

func (h *WebAnalysisHandler) Analyze(c *gin.Context) {
	result, err := h.analysis.Analyze(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
