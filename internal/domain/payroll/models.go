package payroll

import "time"

// Record is one employee's compensation for one (year, month) period.
// Deductions and CashAmount are derived from the other fields and must be
// refreshed through Recompute whenever any input changes.
type Record struct {
	EmployeeID        string      `json:"employeeId"`
	EmployeeName      string      `json:"employeeName"`
	HourlyRate        float64     `json:"hourlyRate"`
	HoursWorked       float64     `json:"hoursWorked"`
	HoursWorkedTime   string      `json:"hoursWorkedTime,omitempty"`
	Bonus             float64     `json:"bonus"`
	SickLeavePay      float64     `json:"sickLeavePay"`
	BankTransfer      float64     `json:"bankTransfer"`
	Deductions        float64     `json:"deductions"`
	CashAmount        float64     `json:"cashAmount"`
	PayrollDeductions []Deduction `json:"payrollDeductions"`
}

// Deduction is a named amount subtracted from a record's payout. Unsaved
// entries carry a temporary client-side id until storage assigns one.
type Deduction struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Note     string  `json:"note,omitempty"`
	Amount   float64 `json:"amount"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Period identifies one payroll cycle.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (p Period) Key() string {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// EmployeeHours is one row of the analytics collaborator's response.
type EmployeeHours struct {
	EmployeeName string  `json:"employeeName"`
	Hours        float64 `json:"hours"`
}
