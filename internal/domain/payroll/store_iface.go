package payroll

import "context"

type StoreAPI interface {
	ListRecords(ctx context.Context, period Period) ([]Record, error)
	SaveRecords(ctx context.Context, period Period, records []Record) error
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string) (string, error)
	// DeleteCategory removes the category and every deduction carrying it
	// across all periods, refreshing the derived fields of each affected
	// record in the same transaction. Returns the number of affected records.
	DeleteCategory(ctx context.Context, name string) (int64, error)
}
