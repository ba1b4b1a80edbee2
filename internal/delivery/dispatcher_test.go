package delivery

import (
	"context"
	"strings"
	"testing"
	"time"

	"btoolme/internal/shared/apperr"
)

func newMailDispatcher(s *stubSender) *MailDispatcher {
	return &MailDispatcher{
		Sender:     s,
		From:       "hello@btoolme.com",
		FromName:   "btoolme Recommendations",
		InternalTo: "recommendations@btoolme.com",
		Now:        func() time.Time { return time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC) },
	}
}

func TestMailDispatcherSendsToBothRecipients(t *testing.T) {
	s := &stubSender{}
	receipt, err := newMailDispatcher(s).Dispatch(context.Background(), NewPayload(sampleRequest()))
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(receipt.Recipients) != 2 {
		t.Fatalf("expected 2 recipient results, got %d", len(receipt.Recipients))
	}
	if got := receipt.Recipients[0]; got.Role != RoleSubmitter || got.MessageID != "id-jane@example.com" {
		t.Fatalf("unexpected submitter result: %+v", got)
	}
	if got := receipt.Recipients[1].Role; got != RoleInternal {
		t.Fatalf("expected internal result second, got %s", got)
	}

	user, ok := s.byRecipient("jane@example.com")
	if !ok {
		t.Fatalf("no message sent to submitter")
	}
	if user.Subject != SubjectSubmitter || user.FromName != "btoolme Recommendations" {
		t.Fatalf("unexpected submitter headers: %q from %q", user.Subject, user.FromName)
	}
	if !strings.Contains(user.Text, "Sent on March 3rd, 2024 by btoolme") {
		t.Fatalf("missing sent-on footer: %q", user.Text)
	}

	internal, ok := s.byRecipient("recommendations@btoolme.com")
	if !ok {
		t.Fatalf("no message sent to internal address")
	}
	if internal.Subject != SubjectInternal {
		t.Fatalf("unexpected internal subject %q", internal.Subject)
	}
	if !strings.Contains(internal.HTML, "jane@example.com") {
		t.Fatalf("internal body should name the submitter")
	}
}

func TestMailDispatcherFailureDoesNotCancelSibling(t *testing.T) {
	s := &stubSender{failTo: map[string]bool{"recommendations@btoolme.com": true}}
	receipt, err := newMailDispatcher(s).Dispatch(context.Background(), NewPayload(sampleRequest()))
	if err == nil {
		t.Fatalf("expected error")
	}
	if apperr.KindOf(err) != apperr.KindEmail {
		t.Fatalf("expected email kind, got %s", apperr.KindOf(err))
	}
	if !strings.Contains(err.Error(), "internal") {
		t.Fatalf("expected failing role in error, got %v", err)
	}

	if len(receipt.Recipients) != 2 {
		t.Fatalf("expected 2 recipient results, got %d", len(receipt.Recipients))
	}
	if !receipt.Recipients[0].Success {
		t.Fatalf("submitter send should succeed: %+v", receipt.Recipients[0])
	}
	if failed := receipt.Recipients[1]; failed.Success || failed.Error == "" {
		t.Fatalf("internal send should fail with an error: %+v", failed)
	}
	if len(s.sent) != 2 {
		t.Fatalf("expected both sends attempted, got %d", len(s.sent))
	}
}

func TestMailDispatcherWithoutSender(t *testing.T) {
	_, err := (&MailDispatcher{}).Dispatch(context.Background(), NewPayload(sampleRequest()))
	if apperr.KindOf(err) != apperr.KindEmail {
		t.Fatalf("expected email kind, got %v", err)
	}
}
