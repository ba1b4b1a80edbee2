package questionnaire

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"btoolme/internal/shared/apperr"
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
	rg.GET("/questionnaire", h.questions)
	rg.POST("/recommendations", h.recommend)
	rg.OPTIONS("/recommendations", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}

func (h *Handler) questions(c *gin.Context) {
	respond.OK(c, gin.H{"questions": h.Service.Questions()})
}

func (h *Handler) recommend(c *gin.Context) {
	var answers Answers
	if err := c.ShouldBindJSON(&answers); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request data", []apperr.FieldIssue{
			{Field: "body", Issue: "malformed JSON"},
		})
		return
	}

	recs, err := h.Service.Recommend(c.Request.Context(), answers)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request data", apperr.DetailsOf(err))
			return
		}
		telemetry.Error("questionnaire.recommend_failed", map[string]any{
			"error":      err.Error(),
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", GenericErrorMessage, nil)
		return
	}

	respond.OK(c, gin.H{
		"success":         true,
		"recommendations": recs,
		"count":           len(recs),
	})
}
