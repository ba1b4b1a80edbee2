package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const gmailScope = "https://mail.google.com/"

// GmailConfig holds the OAuth2 client and SMTP settings for the Gmail sender.
type GmailConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	RedirectURL  string
	User         string
	Host         string
	Port         int
	Timeout      time.Duration
}

// GmailSender sends mail through Gmail SMTP, authenticating with XOAUTH2.
// The token source is built once and refreshes access tokens as they expire.
type GmailSender struct {
	cfg    GmailConfig
	tokens oauth2.TokenSource
}

// NewGmailSender builds a sender that exchanges the refresh token against Google's endpoint.
func NewGmailSender(cfg GmailConfig) (*GmailSender, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" || cfg.User == "" {
		return nil, ErrNotConfigured
	}
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{gmailScope},
		Endpoint:     google.Endpoint,
	}
	src := oauthConfig.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.RefreshToken})
	return NewGmailSenderWithTokens(cfg, oauth2.ReuseTokenSource(nil, src)), nil
}

// NewGmailSenderWithTokens uses an existing token source.
func NewGmailSenderWithTokens(cfg GmailConfig, tokens oauth2.TokenSource) *GmailSender {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &GmailSender{cfg: cfg, tokens: tokens}
}

// Send delivers msg and returns the Message-ID it was sent with.
func (s *GmailSender) Send(ctx context.Context, msg Message) (Result, error) {
	m, err := buildMsg(msg)
	if err != nil {
		return Result{}, err
	}
	client, err := s.client()
	if err != nil {
		return Result{}, err
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return Result{}, fmt.Errorf("send mail: %w", err)
	}
	id := messageID(m)
	if id == "" {
		return Result{}, ErrNoMessageID
	}
	return Result{MessageID: id}, nil
}

// Verify obtains an access token and opens then closes an authenticated SMTP session.
func (s *GmailSender) Verify(ctx context.Context) error {
	client, err := s.client()
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	return client.Close()
}

func (s *GmailSender) client() (*mail.Client, error) {
	token, err := s.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("oauth2 token: %w", err)
	}
	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthXOAUTH2),
		mail.WithUsername(s.cfg.User),
		mail.WithPassword(token.AccessToken),
		mail.WithTimeout(s.cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return client, nil
}

func buildMsg(msg Message) (*mail.Msg, error) {
	if err := msg.validate(); err != nil {
		return nil, err
	}
	m := mail.NewMsg()
	if msg.FromName != "" {
		if err := m.FromFormat(msg.FromName, msg.From); err != nil {
			return nil, fmt.Errorf("%w: from: %v", ErrInvalidMessage, err)
		}
	} else if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("%w: from: %v", ErrInvalidMessage, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("%w: to: %v", ErrInvalidMessage, err)
	}
	m.Subject(msg.Subject)
	m.SetMessageID()
	m.SetDate()
	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
	}
	return m, nil
}

func messageID(m *mail.Msg) string {
	ids := m.GetGenHeader(mail.HeaderMessageID)
	if len(ids) == 0 {
		return ""
	}
	return strings.Trim(ids[0], "<>")
}
