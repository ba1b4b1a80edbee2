package health

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"btoolme/internal/shared/server/respond"
	"btoolme/internal/shared/telemetry"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health-check", h.check)
	rg.OPTIONS("/health-check", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}

func (h *Handler) check(c *gin.Context) {
	report, err := h.run(c)
	if report.Timestamp == "" {
		report.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if err != nil {
		telemetry.Error("health.failed", map[string]any{"error": err.Error()})
		respond.JSON(c, http.StatusInternalServerError, report)
		return
	}
	respond.OK(c, report)
}

func (h *Handler) run(c *gin.Context) (report Report, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("health check panicked: %v", rec)
			report = Report{Status: StatusUnhealthy, Error: "Health check failed"}
		}
	}()
	if h.Service == nil {
		return Report{Status: StatusUnhealthy, Error: ErrNoChecks.Error()}, ErrNoChecks
	}
	return h.Service.Status(c.Request.Context())
}
