package payroll

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"opsconsole/internal/platform/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if err := db.Migrate(ctx, pool, filepath.Join("..", "..", "..", "migrations")); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, "DELETE FROM payroll_records")
		pool.Close()
	})
	return NewStore(pool)
}

func TestSaveRecordsDoesNotRewriteForeignDeduction(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	period := Period{Year: 2026, Month: 8}

	err := store.SaveRecords(ctx, period, []Record{
		{
			EmployeeID: "e-a", EmployeeName: "Anna Nowak", HourlyRate: 20, HoursWorked: 160,
			PayrollDeductions: []Deduction{{ID: "tmp-1", Category: "ADVANCE", Amount: 100}},
		},
		{
			EmployeeID: "e-b", EmployeeName: "Jan Kowalski", HourlyRate: 25, HoursWorked: 160,
			PayrollDeductions: []Deduction{{ID: "tmp-1", Category: "FINE", Amount: 50}},
		},
	})
	if err != nil {
		t.Fatalf("seed save: %v", err)
	}

	records, err := store.ListRecords(ctx, period)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 || len(records[1].PayrollDeductions) != 1 {
		t.Fatalf("unexpected seed state: %+v", records)
	}
	foreignID := records[1].PayrollDeductions[0].ID

	// Save only Anna's record, but carrying Jan's deduction id.
	first := records[0]
	first.PayrollDeductions = []Deduction{{ID: foreignID, Category: "INSURANCE", Amount: 999}}
	if err := store.SaveRecords(ctx, period, []Record{first}); err != nil {
		t.Fatalf("save: %v", err)
	}

	records, err = store.ListRecords(ctx, period)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	jan := records[1].PayrollDeductions
	if len(jan) != 1 || jan[0].ID != foreignID || jan[0].Category != "FINE" || jan[0].Amount != 50 {
		t.Fatalf("expected Jan's deduction untouched, got %+v", jan)
	}

	anna := records[0].PayrollDeductions
	if len(anna) != 1 {
		t.Fatalf("expected one deduction on Anna's record, got %+v", anna)
	}
	if anna[0].ID == foreignID {
		t.Fatal("expected a fresh id, not the foreign one")
	}
	if anna[0].Category != "INSURANCE" || anna[0].Amount != 999 {
		t.Fatalf("expected submitted values kept as a fresh deduction, got %+v", anna[0])
	}
}
