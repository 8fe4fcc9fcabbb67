package ledger

import (
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

// Consume debits the caller's brand balance for one generation.
func (h *Handler) Consume(c *gin.Context) {
	var req dto.ConsumeDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.Consume(c.Request.Context(), middleware.CallerID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refund credits a previously consumed amount back.
func (h *Handler) Refund(c *gin.Context) {
	var req dto.RefundDTO
	if !middleware.Bind(c, &req) {
		return
	}

	resp, err := h.service.Refund(c.Request.Context(), middleware.CallerID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
