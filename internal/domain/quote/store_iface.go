package quote

import "context"

type StoreAPI interface {
	// CreateQuote assigns the next sequence number for the quote's period
	// and inserts the quote with its line items in one transaction.
	CreateQuote(ctx context.Context, q Quote) (Quote, error)
	UpdateQuote(ctx context.Context, q Quote) (Quote, error)
	GetQuote(ctx context.Context, id string) (Quote, error)
	ListQuotes(ctx context.Context, year, month, limit, offset int) ([]Quote, int, error)
	DeleteQuote(ctx context.Context, id string) error
	NextNumber(ctx context.Context, year, month int) (NumberInfo, error)
}
