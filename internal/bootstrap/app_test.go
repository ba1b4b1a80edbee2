package bootstrap

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"btoolme/internal/delivery"
	"btoolme/internal/mailer"
	"btoolme/internal/questionnaire"
	"btoolme/internal/recommend"
	"btoolme/internal/shared/config"
	"btoolme/internal/shared/storage/db"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (s *recordingSender) Send(ctx context.Context, msg mailer.Message) (mailer.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return mailer.Result{MessageID: "test-id"}, nil
}

func (s *recordingSender) Verify(ctx context.Context) error { return nil }

func testConfig(env string) config.Config {
	return config.Config{
		Env:                     env,
		CORSAllowOrigin:         []string{"*"},
		EmailFrom:               "hello@btoolme.com",
		EmailFromName:           "btoolme Recommendations",
		EmailInternalTo:         "recommendations@btoolme.com",
		SMTPPort:                587,
		RecommendationLimit:     3,
		RecommendationCacheSize: 16,
	}
}

func TestBuildDevFallsBackToLogSender(t *testing.T) {
	app, err := Build(testConfig("dev"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := app.Sender.(mailer.LogSender); !ok {
		t.Fatalf("expected log sender, got %T", app.Sender)
	}
	if len(app.Catalog.Tools()) == 0 {
		t.Fatalf("expected embedded catalog")
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestBuildSenderReportsInvalidCredentialsInDev(t *testing.T) {
	buf := captureLog(t)
	cfg := testConfig("dev")
	cfg.GoogleClientID = "not-a-google-client"
	cfg.GoogleClientSecret = "secret"
	cfg.GoogleRefreshToken = "refresh"

	sender, err := buildSender(cfg)
	if err != nil {
		t.Fatalf("build sender: %v", err)
	}
	if _, ok := sender.(mailer.LogSender); !ok {
		t.Fatalf("expected log sender, got %T", sender)
	}
	if !strings.Contains(buf.String(), "credentials present but invalid") {
		t.Fatalf("expected invalid credential warning, got %q", buf.String())
	}
}

func TestBuildSenderWithoutCredentialsInDev(t *testing.T) {
	buf := captureLog(t)
	if _, err := buildSender(testConfig("dev")); err != nil {
		t.Fatalf("build sender: %v", err)
	}
	if !strings.Contains(buf.String(), "email not configured") {
		t.Fatalf("expected not-configured notice, got %q", buf.String())
	}
}

func stubMigrations(t *testing.T, fn func(context.Context, *sql.DB) error) {
	t.Helper()
	prev := runMigrations
	runMigrations = fn
	t.Cleanup(func() { runMigrations = prev })
}

func TestMigrateForDevAppliesMigrations(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	calls := 0
	stubMigrations(t, func(ctx context.Context, got *sql.DB) error {
		calls++
		if got != conn {
			t.Fatalf("unexpected connection")
		}
		return nil
	})

	if got := migrateForDev(context.Background(), testConfig("dev"), db.RuntimeServer, conn); got != conn {
		t.Fatalf("expected connection to be kept")
	}
	if calls != 1 {
		t.Fatalf("expected one migration run, got %d", calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMigrateForDevFailureFallsBack(t *testing.T) {
	buf := captureLog(t)
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	mock.ExpectClose()
	stubMigrations(t, func(context.Context, *sql.DB) error { return errors.New("no permission") })

	if got := migrateForDev(context.Background(), testConfig("dev"), db.RuntimeServer, conn); got != nil {
		t.Fatalf("expected nil connection after failed migrations")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected connection to be closed: %v", err)
	}
	if !strings.Contains(buf.String(), "migrations failed") {
		t.Fatalf("expected migration failure log, got %q", buf.String())
	}
}

func TestMigrateForDevSkipsOutsideLocalServer(t *testing.T) {
	conn, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()
	stubMigrations(t, func(context.Context, *sql.DB) error {
		t.Fatalf("migrations should not run")
		return nil
	})

	if got := migrateForDev(context.Background(), testConfig("production"), db.RuntimeServer, conn); got != conn {
		t.Fatalf("expected connection unchanged in production")
	}
	if got := migrateForDev(context.Background(), testConfig("dev"), db.RuntimeLambda, conn); got != conn {
		t.Fatalf("expected connection unchanged in lambda")
	}
}

func TestBuildProductionRequiresEmailConfig(t *testing.T) {
	if _, err := Build(testConfig("production")); err == nil {
		t.Fatalf("expected invalid email config to be fatal in production")
	}
}

func TestBuildProductionWithValidEmailConfig(t *testing.T) {
	cfg := testConfig("production")
	cfg.GoogleClientID = "123.apps.googleusercontent.com"
	cfg.GoogleClientSecret = "secret"
	cfg.GoogleRefreshToken = "refresh"
	app, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := app.Sender.(*mailer.GmailSender); !ok {
		t.Fatalf("expected gmail sender, got %T", app.Sender)
	}
}

func TestEndToEndRecommendAndSend(t *testing.T) {
	sender := &recordingSender{}
	app, err := BuildWith(testConfig("test"), Options{Sender: sender})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	answers := `{"businessSize":"small","industry":"retail","needs":["accounting"],"budget":"low","name":"Jane","email":"jane@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/recommendations", strings.NewReader(answers))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("recommendations: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var scored struct {
		Recommendations []recommend.Recommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &scored); err != nil {
		t.Fatalf("decode recommendations: %v", err)
	}
	if len(scored.Recommendations) == 0 || len(scored.Recommendations) > 3 {
		t.Fatalf("expected 1..3 recommendations, got %d", len(scored.Recommendations))
	}

	payload := delivery.NewPayload(delivery.Request{
		Email:           "jane@example.com",
		Name:            "Jane",
		Recommendations: scored.Recommendations,
	})
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/.netlify/functions/send-recommendations", &body)
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("send: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(sender.sent))
	}
}

func TestGatewayDeliversThroughMailDispatcher(t *testing.T) {
	sender := &recordingSender{}
	app, err := BuildWith(testConfig("test"), Options{Sender: sender})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	recs, err := app.Questionnaire.Recommend(context.Background(), questionnaire.Answers{
		BusinessSize: "small",
		Industry:     "retail",
		Needs:        []string{"crm"},
		Budget:       "medium",
		Name:         "Jane",
		Email:        "jane@example.com",
	})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	out := app.Gateway.RequestDelivery(context.Background(), delivery.Request{
		Email:           "jane@example.com",
		Name:            "Jane",
		Recommendations: recs,
	})
	if !out.Success || out.Message != delivery.MsgSent {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(out.Recipients) != 2 {
		t.Fatalf("expected per-recipient results, got %+v", out.Recipients)
	}
}
