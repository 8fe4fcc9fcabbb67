package job

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pawkit-ai/pawkit-backend/common"
	"github.com/pawkit-ai/pawkit-backend/internal/dto"
	"github.com/pawkit-ai/pawkit-backend/middleware"
)

type OrderHandler struct {
	service OrderServiceInterface
}

func NewOrderHandler(s OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

// CreateOrder handles order intake: one order plus its first copy job.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.OrderCreateDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.CreateOrder(c.Request.Context(), middleware.CallerID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetOrder returns one order's status for polling clients.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	resp, err := h.service.GetOrder(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetJob returns one job, including its payload envelope and history.
func (h *OrderHandler) GetJob(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id < 1 {
		c.Error(common.Errf(http.StatusBadRequest, "invalid ID"))
		return
	}

	resp, err := h.service.GetJob(c.Request.Context(), middleware.CallerID(c), uint(id))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListJobs returns the caller's jobs, optionally filtered by status.
func (h *OrderHandler) ListJobs(c *gin.Context) {
	resp, err := h.service.ListJobs(c.Request.Context(), middleware.CallerID(c), c.Query("status"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
