package payroll

import (
	"math"
	"strings"

	"opsconsole/internal/domain/worktime"
)

// DeductionsTotal sums the deduction amounts. A nil or empty list is 0.
func DeductionsTotal(deductions []Deduction) float64 {
	total := 0.0
	for _, d := range deductions {
		total += coerce(d.Amount)
	}
	return total
}

// CashAmount computes the payable cash for a record:
// max(0, hours*rate + bonus + sickLeavePay - deductions - bankTransfer).
// The result is never negative; a shortfall is absorbed silently.
func CashAmount(r Record) float64 {
	earned := coerce(r.HoursWorked)*coerce(r.HourlyRate) + coerce(r.Bonus) + coerce(r.SickLeavePay)
	cash := earned - DeductionsTotal(r.PayrollDeductions) - coerce(r.BankTransfer)
	if cash < 0 {
		return 0
	}
	return cash
}

// Recompute refreshes both derived fields from the record's inputs. Every
// mutation path (field edit, deduction add/remove, category cascade, hours
// backfill) must go through here so Deductions and CashAmount can never
// drift apart.
func Recompute(r Record) Record {
	r.HoursWorked = coerce(r.HoursWorked)
	r.HoursWorkedTime = worktime.FormatDecimal(r.HoursWorked)
	r.Deductions = DeductionsTotal(r.PayrollDeductions)
	r.CashAmount = CashAmount(r)
	return r
}

// ApplyHoursText overrides the numeric hours from a user-entered
// "hours:minutes" string. Empty input leaves the record untouched.
func ApplyHoursText(r Record, text string) Record {
	if strings.TrimSpace(text) == "" {
		return r
	}
	r.HoursWorked = worktime.ParseDecimal(text)
	return Recompute(r)
}

// NormalizeCategory upper-cases and trims a free-text category name.
func NormalizeCategory(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func coerce(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
