package delivery

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"btoolme/internal/shared/apperr"
	"btoolme/internal/shared/metrics"
	"btoolme/internal/shared/server/respond"
	"btoolme/internal/shared/telemetry"
)

// Handler is the server-side counterpart of the gateway: it receives a payload
// and dispatches it to both recipients.
type Handler struct {
	Dispatcher Dispatcher
	Metrics    *metrics.Recorder
}

func NewHandler(d Dispatcher, rec *metrics.Recorder) *Handler {
	registerJSONFieldNames()
	return &Handler{Dispatcher: d, Metrics: rec}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/send-recommendations", h.send)
	rg.OPTIONS("/send-recommendations", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}

func (h *Handler) send(c *gin.Context) {
	var p Payload
	if err := c.ShouldBindJSON(&p); err != nil {
		h.Metrics.ObserveDelivery("rejected")
		respond.Error(c, http.StatusBadRequest, "validation_error", MsgInvalidBody, bindingIssues(err))
		return
	}

	receipt, err := h.Dispatcher.Dispatch(c.Request.Context(), p)
	if err != nil {
		telemetry.Error("delivery.dispatch_failed", map[string]any{
			"error":      err.Error(),
			"kind":       apperr.KindOf(err),
			"to":         telemetry.MaskEmail(p.Email),
			"request_id": c.GetString("requestId"),
		})
		h.Metrics.ObserveDelivery("failed")
		respond.Error(c, http.StatusInternalServerError, "email_error", MsgSendFailed, nil)
		return
	}

	h.Metrics.ObserveDelivery("sent")
	respond.OK(c, Outcome{Success: true, Message: MsgSent, Recipients: receipt.Recipients})
}

var registerOnce sync.Once

// registerJSONFieldNames makes gin's validator report json field names.
func registerJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

func bindingIssues(err error) []apperr.FieldIssue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperr.FieldIssue{{Field: "body", Issue: "malformed JSON"}}
	}
	issues := make([]apperr.FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		issues = append(issues, apperr.FieldIssue{Field: field, Issue: fe.Tag()})
	}
	return issues
}
