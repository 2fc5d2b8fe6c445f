package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/simcheck/simcheck/internal/pkg/errcode"
	"github.com/simcheck/simcheck/internal/pkg/response"
	"github.com/simcheck/simcheck/internal/service"
)

type ComparisonHandler struct {
	comparisons *service.ComparisonService
}

type compareRequest struct {
	AssignmentIDs []string `json:"assignment_ids" binding:"required"`
}

func NewComparisonHandler(comparisons *service.ComparisonService) *ComparisonHandler {
	return &ComparisonHandler{comparisons: comparisons}
}

func (h *ComparisonHandler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "assignment_ids is required")
		return
	}
	results, err := h.comparisons.CompareBatch(c.Request.Context(), req.AssignmentIDs)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"results": results, "total": len(results)})
}
