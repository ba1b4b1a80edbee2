package mailer

import (
	"context"
	"errors"
)

var (
	ErrNoMessageID    = errors.New("mail transport returned no message id")
	ErrNotConfigured  = errors.New("email credentials not configured")
	ErrInvalidMessage = errors.New("invalid email message")
)

// Message is one outbound email with an HTML body and a plain-text alternative.
type Message struct {
	FromName string
	From     string
	To       string
	Subject  string
	HTML     string
	Text     string
}

// Result is the transport's acknowledgement of one accepted message.
type Result struct {
	MessageID string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}

// Verifier checks that the transport is reachable with the configured credentials.
type Verifier interface {
	Verify(ctx context.Context) error
}

func (m Message) validate() error {
	switch {
	case m.From == "":
		return errors.Join(ErrInvalidMessage, errors.New("from address required"))
	case m.To == "":
		return errors.Join(ErrInvalidMessage, errors.New("recipient required"))
	case m.Subject == "":
		return errors.Join(ErrInvalidMessage, errors.New("subject required"))
	case m.HTML == "" && m.Text == "":
		return errors.Join(ErrInvalidMessage, errors.New("body required"))
	}
	return nil
}
