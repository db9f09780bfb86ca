package quotehandler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"opsconsole/internal/domain/auth"
	"opsconsole/internal/domain/quote"
	quotehandler "opsconsole/internal/transport/http/handlers/quote"
	"opsconsole/internal/transport/http/middleware"
)

const testSecret = "test-secret"

type fakeStore struct {
	updated []quote.Quote
}

func (f *fakeStore) CreateQuote(_ context.Context, q quote.Quote) (quote.Quote, error) {
	q.ID = "q-1"
	q.SequenceNumber = 1
	q.DocumentNumber = quote.FormatNumber(1, q.Month, q.Year)
	q.Status = quote.StatusCreated
	return q, nil
}

func (f *fakeStore) UpdateQuote(_ context.Context, q quote.Quote) (quote.Quote, error) {
	q.Status = quote.StatusSaved
	f.updated = append(f.updated, q)
	return q, nil
}

func (f *fakeStore) GetQuote(_ context.Context, _ string) (quote.Quote, error) {
	return quote.Quote{}, quote.ErrQuoteNotFound
}

func (f *fakeStore) ListQuotes(_ context.Context, _, _, _, _ int) ([]quote.Quote, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) DeleteQuote(_ context.Context, _ string) error { return nil }

func (f *fakeStore) NextNumber(_ context.Context, year, month int) (quote.NumberInfo, error) {
	return quote.NumberInfo{NextQuoteNumber: quote.FormatNumber(1, month, year)}, nil
}

func newTestRouter(t *testing.T, store quote.StoreAPI) http.Handler {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(testSecret))
	handler := quotehandler.NewHandler(quote.NewService(store, log), nil, nil)
	handler.RegisterRoutes(router)
	return router
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := auth.IssueToken(testSecret, "u-1", "ops@example.com", time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return "Bearer " + token
}

func TestUpdateRejectsInvalidPayload(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(t, store)

	body := `{
		"contractorName": "",
		"minQuantity": -5,
		"productionActivities": [
			{"name": "cutting", "workTimeMinutes": 400, "price": -10}
		]
	}`
	req := httptest.NewRequest(http.MethodPut, "/quotes/q-1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.updated) != 0 {
		t.Fatalf("expected nothing persisted, got %d updates", len(store.updated))
	}
}

func TestUpdateAcceptsValidPayload(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(t, store)

	body := `{
		"contractorName": "ACME",
		"year": 2026, "month": 8, "minQuantity": 10,
		"productionActivities": [
			{"name": "cutting", "workTimeHours": 1, "workTimeMinutes": 30, "price": 60}
		]
	}`
	req := httptest.NewRequest(http.MethodPut, "/quotes/q-1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.updated) != 1 {
		t.Fatalf("expected one update, got %d", len(store.updated))
	}
	if store.updated[0].ID != "q-1" {
		t.Fatalf("expected id from the path, got %q", store.updated[0].ID)
	}
}

func TestPricePreviewRequiresAuth(t *testing.T) {
	router := newTestRouter(t, &fakeStore{})

	req := httptest.NewRequest(http.MethodPost, "/quotes/price", bytes.NewBufferString(`{"contractorName":"ACME"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
}
