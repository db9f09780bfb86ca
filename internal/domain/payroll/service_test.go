package payroll

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"opsconsole/internal/platform/serial"
)

type fakeStore struct {
	records    []Record
	saved      [][]Record
	categories []Category
	affected   int64
	listErr    error
	saveErr    error
}

func (f *fakeStore) ListRecords(_ context.Context, _ Period) ([]Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Record, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeStore) SaveRecords(_ context.Context, _ Period, records []Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	batch := make([]Record, len(records))
	copy(batch, records)
	f.saved = append(f.saved, batch)
	return nil
}

func (f *fakeStore) ListCategories(_ context.Context) ([]Category, error) {
	return f.categories, nil
}

func (f *fakeStore) CreateCategory(_ context.Context, name string) (string, error) {
	f.categories = append(f.categories, Category{Name: NormalizeCategory(name)})
	return "cat-1", nil
}

func (f *fakeStore) DeleteCategory(_ context.Context, _ string) (int64, error) {
	return f.affected, nil
}

type fakeHours struct {
	rows []EmployeeHours
	err  error
	got  []string
}

func (f *fakeHours) GetEmployeeHours(_ context.Context, names []string, _, _ int) ([]EmployeeHours, error) {
	f.got = names
	return f.rows, f.err
}

func newTestService(store StoreAPI, hours HoursSource) *Service {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewService(store, hours, serial.New(4), log)
}

func TestRecordsBackfillsMissingHoursByName(t *testing.T) {
	store := &fakeStore{records: []Record{
		{EmployeeID: "e1", EmployeeName: "Anna Nowak", HourlyRate: 20},
		{EmployeeID: "e2", EmployeeName: "Jan Kowalski", HourlyRate: 25, HoursWorked: 160},
	}}
	hours := &fakeHours{rows: []EmployeeHours{
		{EmployeeName: "Anna Nowak", Hours: 100},
	}}
	svc := newTestService(store, hours)

	records, err := svc.Records(context.Background(), Period{Year: 2026, Month: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(hours.got) != 1 || hours.got[0] != "Anna Nowak" {
		t.Fatalf("expected lookup for Anna Nowak only, got %v", hours.got)
	}
	if records[0].HoursWorked != 100 {
		t.Fatalf("expected backfilled hours 100, got %v", records[0].HoursWorked)
	}
	if records[0].CashAmount != 2000 {
		t.Fatalf("expected recomputed cash 2000, got %v", records[0].CashAmount)
	}
	if records[1].HoursWorked != 160 {
		t.Fatalf("expected untouched hours 160, got %v", records[1].HoursWorked)
	}
}

func TestRecordsUnknownNameStaysZero(t *testing.T) {
	store := &fakeStore{records: []Record{
		{EmployeeID: "e1", EmployeeName: "Anna Nowak", HourlyRate: 20},
	}}
	hours := &fakeHours{rows: []EmployeeHours{
		{EmployeeName: "Anna Kowalska", Hours: 80},
	}}
	svc := newTestService(store, hours)

	records, err := svc.Records(context.Background(), Period{Year: 2026, Month: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].HoursWorked != 0 {
		t.Fatalf("expected zero hours for unmatched name, got %v", records[0].HoursWorked)
	}
	if records[0].CashAmount != 0 {
		t.Fatalf("expected zero cash, got %v", records[0].CashAmount)
	}
}

func TestRecordsSurvivesHoursLookupFailure(t *testing.T) {
	store := &fakeStore{records: []Record{
		{EmployeeID: "e1", EmployeeName: "Anna Nowak", HourlyRate: 20, Bonus: 50},
	}}
	hours := &fakeHours{err: errors.New("analytics down")}
	svc := newTestService(store, hours)

	records, err := svc.Records(context.Background(), Period{Year: 2026, Month: 7})
	if err != nil {
		t.Fatalf("expected best-effort result, got error: %v", err)
	}
	if records[0].HoursWorked != 0 {
		t.Fatalf("expected zero hours, got %v", records[0].HoursWorked)
	}
	if records[0].CashAmount != 50 {
		t.Fatalf("expected cash 50 from bonus only, got %v", records[0].CashAmount)
	}
}

func TestSaveRecomputesBeforePersisting(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	// Stale derived fields on the way in; the persisted batch must carry
	// freshly recomputed values.
	records := []Record{{
		EmployeeID:   "e1",
		EmployeeName: "Anna Nowak",
		HourlyRate:   20,
		HoursWorked:  10,
		Bonus:        50,
		BankTransfer: 30,
		Deductions:   999,
		CashAmount:   999,
		PayrollDeductions: []Deduction{
			{ID: "tmp-1", Category: "advance", Amount: 40},
		},
	}}

	if err := svc.Save(context.Background(), Period{Year: 2026, Month: 7}, records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected one persisted batch, got %d", len(store.saved))
	}
	saved := store.saved[0][0]
	if saved.Deductions != 40 {
		t.Fatalf("expected persisted deductions 40, got %v", saved.Deductions)
	}
	if saved.CashAmount != 180 {
		t.Fatalf("expected persisted cash 180, got %v", saved.CashAmount)
	}
}

func TestSaveRejectsInvalidPeriod(t *testing.T) {
	svc := newTestService(&fakeStore{}, nil)
	if err := svc.Save(context.Background(), Period{Year: 2026, Month: 13}, nil); err != ErrInvalidPeriod {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}
