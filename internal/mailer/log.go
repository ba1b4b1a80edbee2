package mailer

import (
	"context"

	"github.com/google/uuid"

	"btoolme/internal/shared/telemetry"
)

// LogSender logs messages instead of sending them. Dev environments only.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := msg.validate(); err != nil {
		return Result{}, err
	}
	id := uuid.NewString() + "@btoolme.local"
	telemetry.Info("mailer.log_send", map[string]any{
		"to":         telemetry.MaskEmail(msg.To),
		"subject":    msg.Subject,
		"message_id": id,
		"html_bytes": len(msg.HTML),
	})
	return Result{MessageID: id}, nil
}

func (LogSender) Verify(ctx context.Context) error {
	return ctx.Err()
}
