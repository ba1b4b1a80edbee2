package delivery

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"btoolme/internal/shared/apperr"
)

func TestRequestDeliveryMissingDataShortCircuits(t *testing.T) {
	cases := map[string]Request{
		"empty email":     {Email: "", Name: "x", Recommendations: sampleRecommendations()},
		"malformed email": {Email: "jane", Name: "x", Recommendations: sampleRecommendations()},
		"blank name":      {Email: "jane@example.com", Name: "  ", Recommendations: sampleRecommendations()},
		"no recs":         {Email: "jane@example.com", Name: "Jane"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			d := &stubDispatcher{receipt: okReceipt()}
			out := NewGateway(d, nil).RequestDelivery(context.Background(), req)
			if out.Success || out.Error != MsgMissingData || out.Message != "" {
				t.Fatalf("unexpected outcome: %+v", out)
			}
			if d.calls != 0 {
				t.Fatalf("dispatcher should not be called")
			}
		})
	}
}

func TestRequestDeliveryTrimsContactFields(t *testing.T) {
	d := &stubDispatcher{receipt: okReceipt()}
	req := sampleRequest()
	req.Email = "  jane@example.com "
	req.Name = " Jane Doe\t"

	out := NewGateway(d, nil).RequestDelivery(context.Background(), req)
	if !out.Success {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if d.last.Email != "jane@example.com" || d.last.Name != "Jane Doe" {
		t.Fatalf("expected trimmed contact fields, got %q / %q", d.last.Email, d.last.Name)
	}
}

func TestRequestDeliveryPaddedEmailReachesRemoteHandler(t *testing.T) {
	backend := &stubDispatcher{receipt: okReceipt()}
	srv := httptest.NewServer(newDeliveryRouter(backend))
	defer srv.Close()

	req := sampleRequest()
	req.Email = " jane@example.com "
	gw := NewGateway(NewHTTPDispatcher(srv.URL+"/send-recommendations"), nil)

	out := gw.RequestDelivery(context.Background(), req)
	if !out.Success || out.Message != MsgSent {
		t.Fatalf("expected delivery through the remote handler, got %+v", out)
	}
	if backend.calls != 1 || backend.last.Email != "jane@example.com" {
		t.Fatalf("unexpected backend dispatch: calls=%d email=%q", backend.calls, backend.last.Email)
	}
}

func TestRequestDeliverySuccess(t *testing.T) {
	d := &stubDispatcher{receipt: okReceipt()}
	out := NewGateway(d, nil).RequestDelivery(context.Background(), sampleRequest())
	if !out.Success || out.Message != MsgSent || out.Error != "" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(out.Recipients) != 2 {
		t.Fatalf("expected 2 recipient results, got %d", len(out.Recipients))
	}
	if d.calls != 1 {
		t.Fatalf("expected a single dispatch, got %d", d.calls)
	}
	if got := d.last.Recommendations[0].Tool.Category; got != "accounting" {
		t.Fatalf("unexpected projected category %q", got)
	}
}

func TestRequestDeliveryFailureIsConverted(t *testing.T) {
	d := &stubDispatcher{
		receipt: Receipt{Recipients: []RecipientResult{
			{Role: RoleSubmitter, Success: true},
			{Role: RoleInternal, Success: false, Error: "boom"},
		}},
		err: apperr.Email(MsgSendFailed, errors.New("internal: boom")),
	}
	out := NewGateway(d, nil).RequestDelivery(context.Background(), sampleRequest())
	if out.Success || out.Error == "" || out.Message != "" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Error != MsgSendFailed {
		t.Fatalf("expected generic message, got %q", out.Error)
	}
	if len(out.Recipients) != 2 || out.Recipients[1].Success {
		t.Fatalf("expected per-recipient detail, got %+v", out.Recipients)
	}
}

func TestRequestDeliveryPartialReceiptWithoutErrorFails(t *testing.T) {
	d := &stubDispatcher{receipt: Receipt{Recipients: []RecipientResult{{Role: RoleSubmitter, Success: true}}}}
	d.receipt.Recipients = append(d.receipt.Recipients, RecipientResult{Role: RoleInternal})
	out := NewGateway(d, nil).RequestDelivery(context.Background(), sampleRequest())
	if out.Success {
		t.Fatalf("expected failure for incomplete receipt")
	}
}

func TestRequestDeliveryRemoteMessagePassesThrough(t *testing.T) {
	d := &stubDispatcher{err: &RemoteError{Status: 500, Message: "Request failed with status 500"}}
	out := NewGateway(d, nil).RequestDelivery(context.Background(), sampleRequest())
	if out.Error != "Request failed with status 500" {
		t.Fatalf("unexpected error %q", out.Error)
	}
}

func TestRequestDeliveryRecoversPanic(t *testing.T) {
	d := &stubDispatcher{panic: true}
	out := NewGateway(d, nil).RequestDelivery(context.Background(), sampleRequest())
	if out.Success || out.Error != MsgSendFailed {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestNewPayloadDropsScore(t *testing.T) {
	p := NewPayload(sampleRequest())
	if len(p.Recommendations) != 2 {
		t.Fatalf("expected 2 items, got %d", len(p.Recommendations))
	}
	item := p.Recommendations[0]
	if item.Tool.Name != "Wave" || item.Tool.Website != "https://www.waveapps.com" || len(item.Reasons) != 2 {
		t.Fatalf("unexpected item: %+v", item)
	}
}
