package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

var toolColumns = []string{"id", "name", "category", "description", "website", "features", "pricing", "industries", "business_sizes"}

func TestPGRepoListDecodesJSONColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rows := sqlmock.NewRows(toolColumns).
		AddRow("wave", "Wave", "accounting", "Free accounting", "https://www.waveapps.com",
			[]byte(`["invoicing","reporting"]`), []byte(`["free","low"]`), []byte(`["retail"]`), []byte(`[]`)).
		AddRow("slack", "Slack", "communication", "Chat", "https://slack.com",
			[]byte(`["chat"]`), []byte(`["free"]`), nil, nil)
	mock.ExpectQuery("SELECT id, name, category").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	tools, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}
	if tools[0].Category != CategoryAccounting {
		t.Fatalf("unexpected category: %q", tools[0].Category)
	}
	if len(tools[0].Pricing) != 2 || tools[0].Pricing[1] != TierLow {
		t.Fatalf("unexpected pricing: %v", tools[0].Pricing)
	}
	if len(tools[1].Industries) != 0 {
		t.Fatalf("expected no industries, got %v", tools[1].Industries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT id, name, category").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(toolColumns))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoSyncReplacesRowsInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	tools := []Tool{
		{ID: "wave", Name: "Wave", Category: CategoryAccounting, Website: "https://www.waveapps.com", Features: []string{"invoicing"}, Pricing: []PricingTier{TierFree}},
		{ID: "slack", Name: "Slack", Category: CategoryCommunication, Website: "https://slack.com", Features: []string{"chat"}, Pricing: []PricingTier{TierFree, TierLow}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tools").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO tools").
		WithArgs("wave", 0, "Wave", "accounting", "", "https://www.waveapps.com",
			[]byte(`["invoicing"]`), []byte(`["free"]`), []byte(`[]`), []byte(`[]`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO tools").
		WithArgs("slack", 1, "Slack", "communication", "", "https://slack.com",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := &PGRepo{DB: db}
	if err := repo.Sync(context.Background(), tools); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSyncRejectsInvalidCatalog(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	err = repo.Sync(context.Background(), []Tool{{ID: "x"}})
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}
