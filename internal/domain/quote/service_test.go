package quote

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeStore struct {
	created  []Quote
	sequence int
}

func (f *fakeStore) CreateQuote(_ context.Context, q Quote) (Quote, error) {
	f.sequence++
	q.ID = "q-1"
	q.SequenceNumber = f.sequence
	q.DocumentNumber = FormatNumber(f.sequence, q.Month, q.Year)
	q.Status = StatusCreated
	f.created = append(f.created, q)
	return q, nil
}

func (f *fakeStore) UpdateQuote(_ context.Context, q Quote) (Quote, error) {
	q.Status = StatusSaved
	return q, nil
}

func (f *fakeStore) GetQuote(_ context.Context, _ string) (Quote, error) {
	return Quote{}, ErrQuoteNotFound
}

func (f *fakeStore) ListQuotes(_ context.Context, _, _, _, _ int) ([]Quote, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) DeleteQuote(_ context.Context, _ string) error { return nil }

func (f *fakeStore) NextNumber(_ context.Context, year, month int) (NumberInfo, error) {
	return NumberInfo{
		NextQuoteNumber: FormatNumber(f.sequence+1, month, year),
		SequenceNumber:  f.sequence + 1,
		Month:           month,
		Year:            year,
	}, nil
}

func newTestService(store StoreAPI) *Service {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewService(store, log)
}

func TestCreateAssignsNumberAndStatus(t *testing.T) {
	svc := newTestService(&fakeStore{})

	created, err := svc.Create(context.Background(), Quote{Year: 2026, Month: 3, Status: StatusDraft})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected storage-assigned id")
	}
	if created.DocumentNumber != "1/03/2026" {
		t.Fatalf("expected number 1/03/2026, got %q", created.DocumentNumber)
	}
	if created.Status != StatusCreated {
		t.Fatalf("expected status created, got %q", created.Status)
	}
}

func TestCreateRejectsInvalidPeriod(t *testing.T) {
	svc := newTestService(&fakeStore{})
	if _, err := svc.Create(context.Background(), Quote{Year: 2026, Month: 13}); err != ErrInvalidPeriod {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestNextNumberFormat(t *testing.T) {
	store := &fakeStore{sequence: 6}
	svc := newTestService(store)

	info, err := svc.NextNumber(context.Background(), 2026, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.NextQuoteNumber != "7/08/2026" {
		t.Fatalf("expected 7/08/2026, got %q", info.NextQuoteNumber)
	}
	if info.SequenceNumber != 7 || info.Month != 8 || info.Year != 2026 {
		t.Fatalf("unexpected number info: %+v", info)
	}
}

func TestFormatNumberPadsMonth(t *testing.T) {
	if got := FormatNumber(12, 11, 2025); got != "12/11/2025" {
		t.Fatalf("expected 12/11/2025, got %q", got)
	}
	if got := FormatNumber(1, 3, 2026); got != "1/03/2026" {
		t.Fatalf("expected 1/03/2026, got %q", got)
	}
}
