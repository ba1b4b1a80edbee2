package delivery

import (
	"context"
	"errors"
	"sync"

	"btoolme/internal/catalog"
	"btoolme/internal/mailer"
	"btoolme/internal/recommend"
)

type stubSender struct {
	mu     sync.Mutex
	sent   []mailer.Message
	failTo map[string]bool
}

func (s *stubSender) Send(ctx context.Context, msg mailer.Message) (mailer.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	if s.failTo[msg.To] {
		return mailer.Result{}, errors.New("smtp: 550 mailbox unavailable")
	}
	return mailer.Result{MessageID: "id-" + msg.To}, nil
}

func (s *stubSender) byRecipient(to string) (mailer.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.sent {
		if m.To == to {
			return m, true
		}
	}
	return mailer.Message{}, false
}

type stubDispatcher struct {
	calls   int
	receipt Receipt
	err     error
	panic   bool
	last    Payload
}

func (d *stubDispatcher) Dispatch(ctx context.Context, p Payload) (Receipt, error) {
	d.calls++
	d.last = p
	if d.panic {
		panic("transport exploded")
	}
	return d.receipt, d.err
}

func okReceipt() Receipt {
	return Receipt{Recipients: []RecipientResult{
		{Role: RoleSubmitter, Success: true, MessageID: "a"},
		{Role: RoleInternal, Success: true, MessageID: "b"},
	}}
}

func sampleRecommendations() []recommend.Recommendation {
	return []recommend.Recommendation{
		{
			Tool: catalog.Tool{
				ID:          "wave",
				Name:        "Wave",
				Category:    catalog.CategoryAccounting,
				Description: "Free accounting & invoicing.",
				Website:     "https://www.waveapps.com",
				Pricing:     []catalog.PricingTier{catalog.TierFree},
			},
			Score:   9,
			Reasons: []string{"Covers your accounting needs", "Fits your low budget (plans from free)"},
		},
		{
			Tool: catalog.Tool{
				ID:          "xero",
				Name:        "Xero",
				Category:    catalog.CategoryAccounting,
				Description: "Accounting platform.",
				Website:     "https://www.xero.com",
			},
			Score:   5,
			Reasons: []string{"Covers your accounting needs"},
		},
	}
}

func sampleRequest() Request {
	return Request{Email: "jane@example.com", Name: "Jane", Recommendations: sampleRecommendations()}
}
