package payroll

import (
	"context"

	"github.com/sirupsen/logrus"

	"opsconsole/internal/platform/serial"
)

// HoursSource is the analytics collaborator supplying worked hours by
// employee name for a period.
type HoursSource interface {
	GetEmployeeHours(ctx context.Context, names []string, year, month int) ([]EmployeeHours, error)
}

type Service struct {
	store  StoreAPI
	hours  HoursSource
	runner *serial.Runner
	log    *logrus.Logger
}

func NewService(store StoreAPI, hours HoursSource, runner *serial.Runner, log *logrus.Logger) *Service {
	return &Service{store: store, hours: hours, runner: runner, log: log}
}

// Records loads a period's records, backfills missing worked hours from the
// analytics service and recomputes every record before returning it.
//
// The hours lookup matches by employee name, not by a stable id. That is a
// compatibility shim for the analytics service's contract: duplicate or
// mismatched names silently yield zero hours.
func (s *Service) Records(ctx context.Context, period Period) ([]Record, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	records, err := s.store.ListRecords(ctx, period)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, r := range records {
		if r.HoursWorked == 0 {
			missing = append(missing, r.EmployeeName)
		}
	}
	if len(missing) > 0 && s.hours != nil {
		worked, err := s.hours.GetEmployeeHours(ctx, missing, period.Year, period.Month)
		if err != nil {
			// Backfill is best effort: the records stay usable with zero
			// hours and the user can retry.
			s.log.WithFields(logrus.Fields{
				"period": period.Key(),
				"names":  len(missing),
			}).WithError(err).Warn("employee hours backfill failed")
		} else {
			byName := make(map[string]float64, len(worked))
			for _, w := range worked {
				byName[w.EmployeeName] = w.Hours
			}
			for i := range records {
				if records[i].HoursWorked == 0 {
					records[i].HoursWorked = byName[records[i].EmployeeName]
				}
			}
		}
	}

	for i := range records {
		records[i] = Recompute(records[i])
	}
	return records, nil
}

// Save recomputes the batch and persists it through the period's serial
// queue, so a save always writes the state produced by the most recent
// recompute and overlapping saves of one period cannot interleave.
func (s *Service) Save(ctx context.Context, period Period, records []Record) error {
	if err := validatePeriod(period); err != nil {
		return err
	}

	for i := range records {
		records[i] = Recompute(records[i])
	}

	return s.runner.Do(ctx, "payroll/"+period.Key(), func(ctx context.Context) error {
		return s.store.SaveRecords(ctx, period, records)
	})
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (string, error) {
	return s.store.CreateCategory(ctx, name)
}

// DeleteCategory removes the category from the registry and cascades the
// removal through every record's deduction list, store-side.
func (s *Service) DeleteCategory(ctx context.Context, name string) (int64, error) {
	affected, err := s.store.DeleteCategory(ctx, name)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.log.WithFields(logrus.Fields{
			"category": NormalizeCategory(name),
			"records":  affected,
		}).Info("category delete cascaded")
	}
	return affected, nil
}

func validatePeriod(period Period) error {
	if period.Year < 2000 || period.Year > 2200 || period.Month < 1 || period.Month > 12 {
		return ErrInvalidPeriod
	}
	return nil
}
