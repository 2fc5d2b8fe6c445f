package handler

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simcheck/simcheck/internal/pkg/errcode"
	"github.com/simcheck/simcheck/internal/pkg/response"
	"github.com/simcheck/simcheck/internal/service"
)

type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) List(c *gin.Context) {
	items, err := h.reports.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items, "total": len(items)})
}

func (h *ReportHandler) View(c *gin.Context) {
	h.serve(c, false)
}

func (h *ReportHandler) Download(c *gin.Context) {
	h.serve(c, true)
}

func (h *ReportHandler) serve(c *gin.Context, attachment bool) {
	key := reportKey(c)
	if key == "" {
		response.Error(c, errcode.ErrInvalid, "report key is required")
		return
	}
	file, info, err := h.reports.Open(c.Request.Context(), key)
	if err != nil {
		handleError(c, err)
		return
	}
	defer file.Close()
	c.Header("Content-Type", "application/pdf")
	if info.Size > 0 {
		c.Header("Content-Length", fmt.Sprintf("%d", info.Size))
	}
	if attachment {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	} else {
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(key)))
	}
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}

func (h *ReportHandler) Delete(c *gin.Context) {
	key := reportKey(c)
	if key == "" {
		response.Error(c, errcode.ErrInvalid, "report key is required")
		return
	}
	if err := h.reports.Delete(c.Request.Context(), key); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// reportKey extracts the store key from a wildcard route parameter. Gin
// keeps the leading slash on wildcard matches.
func reportKey(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("key"), "/")
}
