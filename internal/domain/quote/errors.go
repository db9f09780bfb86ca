package quote

import "errors"

var (
	ErrQuoteNotFound = errors.New("quote not found")
	ErrInvalidPeriod = errors.New("period must be a valid year and month")
)
