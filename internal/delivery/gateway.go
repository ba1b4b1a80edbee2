package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"btoolme/internal/shared/metrics"
	"btoolme/internal/shared/telemetry"
)

var emailCheck = validator.New()

// Gateway turns a delivery request into an Outcome. It never returns an error
// and never lets a dispatcher panic escape.
type Gateway struct {
	Dispatcher Dispatcher
	Metrics    *metrics.Recorder
}

func NewGateway(d Dispatcher, rec *metrics.Recorder) *Gateway {
	return &Gateway{Dispatcher: d, Metrics: rec}
}

// RequestDelivery sends one request. Malformed requests are rejected without
// contacting the dispatcher. No retries.
func (g *Gateway) RequestDelivery(ctx context.Context, req Request) (out Outcome) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if !validRequest(req) {
		g.Metrics.ObserveDelivery("rejected")
		return Outcome{Success: false, Error: MsgMissingData}
	}

	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("delivery.panic", map[string]any{
				"error": fmt.Sprint(rec),
				"to":    telemetry.MaskEmail(req.Email),
			})
			g.Metrics.ObserveDelivery("failed")
			out = Outcome{Success: false, Error: MsgSendFailed}
		}
	}()

	if g.Dispatcher == nil {
		g.Metrics.ObserveDelivery("failed")
		return Outcome{Success: false, Error: MsgSendFailed}
	}

	receipt, err := g.Dispatcher.Dispatch(ctx, NewPayload(req))
	if err == nil && !receipt.allSucceeded() {
		err = errors.New("dispatch reported an incomplete delivery")
	}
	if err != nil {
		telemetry.Error("delivery.failed", map[string]any{
			"error": err.Error(),
			"to":    telemetry.MaskEmail(req.Email),
		})
		g.Metrics.ObserveDelivery("failed")
		return Outcome{Success: false, Error: humanMessage(err), Recipients: receipt.Recipients}
	}

	g.Metrics.ObserveDelivery("sent")
	return Outcome{Success: true, Message: MsgSent, Recipients: receipt.Recipients}
}

func validRequest(req Request) bool {
	if req.Name == "" || len(req.Recommendations) == 0 {
		return false
	}
	return emailCheck.Var(req.Email, "required,email") == nil
}

// humanMessage keeps remote endpoint messages, which are already user facing,
// and replaces everything else with the generic failure text.
func humanMessage(err error) string {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return MsgSendFailed
}
