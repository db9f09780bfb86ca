package payroll

import "errors"

var (
	ErrCategoryNotFound = errors.New("deduction category not found")
	ErrCategoryExists   = errors.New("deduction category already exists")
	ErrInvalidPeriod    = errors.New("period must be a valid year and month")
)
