package payroll

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListRecords(ctx context.Context, period Period) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, employee_name, hourly_rate, hours_worked,
           bonus, sick_leave_pay, bank_transfer, deductions, cash_amount
    FROM payroll_records
    WHERE year = $1 AND month = $2
    ORDER BY employee_name
  `, period.Year, period.Month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	recordIDs := map[string]int{}
	for rows.Next() {
		var id string
		var r Record
		if err := rows.Scan(&id, &r.EmployeeID, &r.EmployeeName, &r.HourlyRate, &r.HoursWorked,
			&r.Bonus, &r.SickLeavePay, &r.BankTransfer, &r.Deductions, &r.CashAmount); err != nil {
			return nil, err
		}
		recordIDs[id] = len(records)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}

	dedRows, err := s.DB.Query(ctx, `
    SELECT d.id, d.record_id, d.category, COALESCE(d.note, ''), d.amount
    FROM payroll_deductions d
    JOIN payroll_records r ON d.record_id = r.id
    WHERE r.year = $1 AND r.month = $2
    ORDER BY d.created_at, d.id
  `, period.Year, period.Month)
	if err != nil {
		return nil, err
	}
	defer dedRows.Close()

	for dedRows.Next() {
		var d Deduction
		var recordID string
		if err := dedRows.Scan(&d.ID, &recordID, &d.Category, &d.Note, &d.Amount); err != nil {
			return nil, err
		}
		if idx, ok := recordIDs[recordID]; ok {
			records[idx].PayrollDeductions = append(records[idx].PayrollDeductions, d)
		}
	}
	return records, dedRows.Err()
}

// SaveRecords upserts the whole batch for a period. Each record's deduction
// list replaces the stored one: rows with temporary ids are inserted fresh,
// rows missing from the list are deleted.
func (s *Store) SaveRecords(ctx context.Context, period Period, records []Record) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, r := range records {
		var recordID string
		err := tx.QueryRow(ctx, `
      INSERT INTO payroll_records
        (employee_id, employee_name, year, month, hourly_rate, hours_worked,
         bonus, sick_leave_pay, bank_transfer, deductions, cash_amount)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
      ON CONFLICT (employee_id, year, month) DO UPDATE SET
        employee_name = EXCLUDED.employee_name,
        hourly_rate = EXCLUDED.hourly_rate,
        hours_worked = EXCLUDED.hours_worked,
        bonus = EXCLUDED.bonus,
        sick_leave_pay = EXCLUDED.sick_leave_pay,
        bank_transfer = EXCLUDED.bank_transfer,
        deductions = EXCLUDED.deductions,
        cash_amount = EXCLUDED.cash_amount,
        updated_at = now()
      RETURNING id
    `, r.EmployeeID, r.EmployeeName, period.Year, period.Month, r.HourlyRate, r.HoursWorked,
			r.Bonus, r.SickLeavePay, r.BankTransfer, r.Deductions, r.CashAmount).Scan(&recordID)
		if err != nil {
			return err
		}

		keep := make([]string, 0, len(r.PayrollDeductions))
		for _, d := range r.PayrollDeductions {
			if !strings.HasPrefix(d.ID, TempIDPrefix) && d.ID != "" {
				keep = append(keep, d.ID)
			}
		}
		if _, err := tx.Exec(ctx, `
      DELETE FROM payroll_deductions
      WHERE record_id = $1 AND NOT (id::text = ANY($2))
    `, recordID, keep); err != nil {
			return err
		}

		for _, d := range r.PayrollDeductions {
			category := NormalizeCategory(d.Category)
			if strings.HasPrefix(d.ID, TempIDPrefix) || d.ID == "" {
				if _, err := tx.Exec(ctx, `
          INSERT INTO payroll_deductions (record_id, category, note, amount)
          VALUES ($1,$2,$3,$4)
        `, recordID, category, nullIfEmpty(d.Note), d.Amount); err != nil {
					return err
				}
				continue
			}
			// Scoped to the owning record: an id belonging to another
			// record must never rewrite that record's row.
			tag, err := tx.Exec(ctx, `
        UPDATE payroll_deductions
        SET category = $2, note = $3, amount = $4
        WHERE id = $1 AND record_id = $5
      `, d.ID, category, nullIfEmpty(d.Note), d.Amount, recordID)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				// Foreign or stale id: keep the submitted values as a
				// fresh deduction of this record instead.
				if _, err := tx.Exec(ctx, `
          INSERT INTO payroll_deductions (record_id, category, note, amount)
          VALUES ($1,$2,$3,$4)
        `, recordID, category, nullIfEmpty(d.Note), d.Amount); err != nil {
					return err
				}
			}
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, created_at
    FROM deduction_categories
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) CreateCategory(ctx context.Context, name string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO deduction_categories (name)
    VALUES ($1)
    RETURNING id
  `, NormalizeCategory(name)).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrCategoryExists
		}
		return "", err
	}
	return id, nil
}

func (s *Store) DeleteCategory(ctx context.Context, name string) (int64, error) {
	name = NormalizeCategory(name)

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM deduction_categories WHERE name = $1`, name)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, ErrCategoryNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM payroll_deductions WHERE category = $1`, name); err != nil {
		return 0, err
	}

	// Refresh both derived fields of every record that lost a deduction,
	// mirroring Recompute so stored state stays consistent in one step.
	updated, err := tx.Exec(ctx, `
    UPDATE payroll_records r SET
      deductions = d.total,
      cash_amount = GREATEST(0,
        r.hours_worked * r.hourly_rate + r.bonus + r.sick_leave_pay
        - d.total - r.bank_transfer),
      updated_at = now()
    FROM (
      SELECT r2.id,
             COALESCE((SELECT SUM(pd.amount) FROM payroll_deductions pd WHERE pd.record_id = r2.id), 0) AS total
      FROM payroll_records r2
    ) d
    WHERE r.id = d.id AND r.deductions <> d.total
  `)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return updated.RowsAffected(), nil
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
