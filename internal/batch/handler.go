package batch

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawkit-ai/pawkit-backend/internal/dto"
	"github.com/pawkit-ai/pawkit-backend/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// Create decomposes a bulk video request into its batch hierarchy and queue
// jobs, returning the fan-out counts and the Woofs cost.
func (h *Handler) Create(c *gin.Context) {
	var req dto.BatchCreateDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.CreateBatch(c.Request.Context(), middleware.CallerID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Status returns the nested batch/video/clip aggregation.
func (h *Handler) Status(c *gin.Context) {
	resp, err := h.service.GetStatus(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportCSV streams the per-video CSV with a UTF-8 BOM as an attachment.
func (h *Handler) ExportCSV(c *gin.Context) {
	status, err := h.service.GetStatus(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=batch-%s.csv", status.BatchID))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", ExportCSV(status))
}

// ExportZip streams the CSV + summary + manifest bundle.
func (h *Handler) ExportZip(c *gin.Context) {
	status, err := h.service.GetStatus(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	bundle, err := ExportZip(status)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=batch-%s.zip", status.BatchID))
	c.Data(http.StatusOK, "application/zip", bundle)
}

// RetryClip resets a failed clip and enqueues a fresh job for it.
func (h *Handler) RetryClip(c *gin.Context) {
	resp, err := h.service.RetryClip(c.Request.Context(), middleware.CallerID(c),
		c.Param("id"), c.Param("clipId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
