package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"btoolme/internal/mailer"
	"btoolme/internal/shared/apperr"
	"btoolme/internal/shared/metrics"
	"btoolme/internal/shared/telemetry"
)

// Dispatcher hands a payload to whatever actually sends the emails.
type Dispatcher interface {
	Dispatch(ctx context.Context, p Payload) (Receipt, error)
}

// MailDispatcher renders both emails and sends them through a mailer.Sender.
type MailDispatcher struct {
	Sender     mailer.Sender
	From       string
	FromName   string
	InternalTo string
	Metrics    *metrics.Recorder
	Now        func() time.Time
}

type outbound struct {
	role Role
	msg  mailer.Message
}

// Dispatch sends to the submitter and the internal address concurrently.
// One failing send does not cancel the other; both finish before the receipt is built.
func (d *MailDispatcher) Dispatch(ctx context.Context, p Payload) (Receipt, error) {
	if d.Sender == nil {
		return Receipt{}, apperr.Email(MsgSendFailed, mailer.ErrNotConfigured)
	}
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	sentAt := now().UTC()

	submitter, err := RenderSubmitter(p, sentAt)
	if err != nil {
		return Receipt{}, apperr.Unexpected(err)
	}
	internal, err := RenderInternal(p, sentAt)
	if err != nil {
		return Receipt{}, apperr.Unexpected(err)
	}

	sends := []outbound{
		{role: RoleSubmitter, msg: d.message(p.Email, submitter)},
		{role: RoleInternal, msg: d.message(d.InternalTo, internal)},
	}
	results := make([]RecipientResult, len(sends))

	var g errgroup.Group
	for i, s := range sends {
		i, s := i, s
		g.Go(func() error {
			results[i] = d.send(ctx, s)
			if !results[i].Success {
				return fmt.Errorf("%s: %s", s.role, results[i].Error)
			}
			return nil
		})
	}
	_ = g.Wait()

	receipt := Receipt{Recipients: results}
	var errs []error
	for _, res := range results {
		if !res.Success {
			errs = append(errs, fmt.Errorf("%s: %s", res.Role, res.Error))
		}
	}
	if len(errs) > 0 {
		return receipt, apperr.Email(MsgSendFailed, errors.Join(errs...))
	}
	return receipt, nil
}

func (d *MailDispatcher) message(to string, r Rendered) mailer.Message {
	return mailer.Message{
		FromName: d.FromName,
		From:     d.From,
		To:       to,
		Subject:  r.Subject,
		HTML:     r.HTML,
		Text:     r.Text,
	}
}

func (d *MailDispatcher) send(ctx context.Context, s outbound) (res RecipientResult) {
	res.Role = s.role
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			res.Success = false
			res.Error = fmt.Sprint(rec)
		}
		var err error
		if !res.Success {
			err = errors.New(res.Error)
		}
		d.Metrics.ObserveEmailSend(string(s.role), time.Since(start), err)
	}()

	out, err := d.Sender.Send(ctx, s.msg)
	if err != nil {
		telemetry.Error("delivery.send_failed", map[string]any{
			"role":  s.role,
			"to":    telemetry.MaskEmail(s.msg.To),
			"error": err.Error(),
		})
		res.Error = err.Error()
		return res
	}
	telemetry.Info("delivery.sent", map[string]any{
		"role":       s.role,
		"to":         telemetry.MaskEmail(s.msg.To),
		"message_id": out.MessageID,
	})
	res.Success = true
	res.MessageID = out.MessageID
	return res
}
