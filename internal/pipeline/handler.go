package pipeline

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/dto"
	"github.com/pawkit-ai/pawkit-backend/middleware"
)

// Handler exposes the trigger and watchdog sweep entry points.
type Handler struct {
	trigger  *Trigger
	watchdog *Watchdog
}

func NewHandler(trigger *Trigger, watchdog *Watchdog) *Handler {
	return &Handler{trigger: trigger, watchdog: watchdog}
}

// Trigger runs the watchdog and, when pending jobs exist, one dispatch pass.
func (h *Handler) Trigger(c *gin.Context) {
	resp, err := h.trigger.Run(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sweep runs a single watchdog pass with optional overrides in the body.
func (h *Handler) Sweep(c *gin.Context) {
	req := dto.SweepRequestDTO{}
	if c.Request.ContentLength > 0 {
		if !middleware.Bind(c, &req) {
			return
		}
	}

	timeout := config.DefaultWatchdogTimeout
	if req.TimeoutMinutes > 0 {
		timeout = time.Duration(req.TimeoutMinutes) * time.Minute
	}
	maxAttempts := config.DefaultMaxAttempts
	if req.MaxAttempts > 0 {
		maxAttempts = req.MaxAttempts
	}

	resp, err := h.watchdog.Sweep(c.Request.Context(), timeout, maxAttempts)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
