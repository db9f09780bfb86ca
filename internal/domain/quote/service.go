package quote

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type Service struct {
	store StoreAPI
	log   *logrus.Logger
}

func NewService(store StoreAPI, log *logrus.Logger) *Service {
	return &Service{store: store, log: log}
}

// Create persists a draft quote, assigning its uuid and the next document
// number for its period. A zero period defaults to the current month.
func (s *Service) Create(ctx context.Context, q Quote) (Quote, error) {
	if q.Year == 0 && q.Month == 0 {
		now := time.Now()
		q.Year = now.Year()
		q.Month = int(now.Month())
	}
	if err := validatePeriod(q.Year, q.Month); err != nil {
		return Quote{}, err
	}

	created, err := s.store.CreateQuote(ctx, q)
	if err != nil {
		return Quote{}, err
	}
	s.log.WithFields(logrus.Fields{
		"quoteId": created.ID,
		"number":  created.DocumentNumber,
	}).Info("quote created")
	return created, nil
}

func (s *Service) Update(ctx context.Context, q Quote) (Quote, error) {
	return s.store.UpdateQuote(ctx, q)
}

func (s *Service) Get(ctx context.Context, id string) (Quote, error) {
	return s.store.GetQuote(ctx, id)
}

func (s *Service) List(ctx context.Context, year, month, limit, offset int) ([]Quote, int, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, 0, err
	}
	return s.store.ListQuotes(ctx, year, month, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteQuote(ctx, id)
}

func (s *Service) NextNumber(ctx context.Context, year, month int) (NumberInfo, error) {
	if err := validatePeriod(year, month); err != nil {
		return NumberInfo{}, err
	}
	return s.store.NextNumber(ctx, year, month)
}

func validatePeriod(year, month int) error {
	if year < 2000 || year > 2200 || month < 1 || month > 12 {
		return ErrInvalidPeriod
	}
	return nil
}
