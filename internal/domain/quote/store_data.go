package quote

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateQuote(ctx context.Context, q Quote) (Quote, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Quote{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var sequence int
	err = tx.QueryRow(ctx, `
    SELECT COALESCE(MAX(sequence_number), 0) + 1
    FROM quotes
    WHERE year = $1 AND month = $2
  `, q.Year, q.Month).Scan(&sequence)
	if err != nil {
		return Quote{}, err
	}
	q.SequenceNumber = sequence
	q.DocumentNumber = FormatNumber(sequence, q.Month, q.Year)
	q.Status = StatusCreated

	err = tx.QueryRow(ctx, `
    INSERT INTO quotes
      (document_number, sequence_number, year, month, contractor_code,
       contractor_name, product_code, product_name, min_quantity,
       total_quantity, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id, created_at, updated_at
  `, q.DocumentNumber, q.SequenceNumber, q.Year, q.Month, q.ContractorCode,
		q.ContractorName, q.ProductCode, q.ProductName, q.MinQuantity,
		q.TotalQuantity, q.Status).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return Quote{}, err
	}

	if err := insertLines(ctx, tx, &q); err != nil {
		return Quote{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func (s *Store) UpdateQuote(ctx context.Context, q Quote) (Quote, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Quote{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE quotes SET
      contractor_code = $2, contractor_name = $3, product_code = $4,
      product_name = $5, min_quantity = $6, total_quantity = $7,
      status = $8, updated_at = now()
    WHERE id = $1
  `, q.ID, q.ContractorCode, q.ContractorName, q.ProductCode,
		q.ProductName, q.MinQuantity, q.TotalQuantity, StatusSaved)
	if err != nil {
		return Quote{}, err
	}
	if tag.RowsAffected() == 0 {
		return Quote{}, ErrQuoteNotFound
	}
	q.Status = StatusSaved

	// Line items have no identity outside their quote: replace wholesale.
	if _, err := tx.Exec(ctx, `DELETE FROM quote_materials WHERE quote_id = $1`, q.ID); err != nil {
		return Quote{}, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM quote_activities WHERE quote_id = $1`, q.ID); err != nil {
		return Quote{}, err
	}
	if err := insertLines(ctx, tx, &q); err != nil {
		return Quote{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func (s *Store) GetQuote(ctx context.Context, id string) (Quote, error) {
	var q Quote
	err := s.DB.QueryRow(ctx, `
    SELECT id, document_number, sequence_number, year, month,
           contractor_code, contractor_name, product_code, product_name,
           min_quantity, total_quantity, status, created_at, updated_at
    FROM quotes
    WHERE id = $1
  `, id).Scan(&q.ID, &q.DocumentNumber, &q.SequenceNumber, &q.Year, &q.Month,
		&q.ContractorCode, &q.ContractorName, &q.ProductCode, &q.ProductName,
		&q.MinQuantity, &q.TotalQuantity, &q.Status, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quote{}, ErrQuoteNotFound
		}
		return Quote{}, err
	}

	if err := s.loadLines(ctx, &q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func (s *Store) ListQuotes(ctx context.Context, year, month, limit, offset int) ([]Quote, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM quotes WHERE year = $1 AND month = $2
  `, year, month).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, document_number, sequence_number, year, month,
           contractor_code, contractor_name, product_code, product_name,
           min_quantity, total_quantity, status, created_at, updated_at
    FROM quotes
    WHERE year = $1 AND month = $2
    ORDER BY sequence_number
    LIMIT $3 OFFSET $4
  `, year, month, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var quotes []Quote
	for rows.Next() {
		var q Quote
		if err := rows.Scan(&q.ID, &q.DocumentNumber, &q.SequenceNumber, &q.Year, &q.Month,
			&q.ContractorCode, &q.ContractorName, &q.ProductCode, &q.ProductName,
			&q.MinQuantity, &q.TotalQuantity, &q.Status, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, 0, err
		}
		quotes = append(quotes, q)
	}
	return quotes, total, rows.Err()
}

func (s *Store) DeleteQuote(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

func (s *Store) NextNumber(ctx context.Context, year, month int) (NumberInfo, error) {
	var sequence int
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(MAX(sequence_number), 0) + 1
    FROM quotes
    WHERE year = $1 AND month = $2
  `, year, month).Scan(&sequence)
	if err != nil {
		return NumberInfo{}, err
	}
	return NumberInfo{
		NextQuoteNumber: FormatNumber(sequence, month, year),
		SequenceNumber:  sequence,
		Month:           month,
		Year:            year,
	}, nil
}

func insertLines(ctx context.Context, tx pgx.Tx, q *Quote) error {
	for i := range q.Materials {
		m := &q.Materials[i]
		percent, fixed := m.Margin.Fields()
		if err := tx.QueryRow(ctx, `
      INSERT INTO quote_materials
        (quote_id, position, name, purchase_price, margin_percent,
         margin_pln, quantity, ignore_min_quantity)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
      RETURNING id
    `, q.ID, i, m.Name, m.PurchasePrice, percent, fixed, m.Quantity,
			m.IgnoreMinQuantity).Scan(&m.ID); err != nil {
			return err
		}
	}
	for i := range q.Activities {
		a := &q.Activities[i]
		percent, fixed := a.Margin.Fields()
		if err := tx.QueryRow(ctx, `
      INSERT INTO quote_activities
        (quote_id, position, name, work_time_hours, work_time_minutes,
         price, margin_percent, margin_pln, ignore_min_quantity)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
      RETURNING id
    `, q.ID, i, a.Name, a.WorkTimeHours, a.WorkTimeMinutes, a.Price,
			percent, fixed, a.IgnoreMinQuantity).Scan(&a.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) loadLines(ctx context.Context, q *Quote) error {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, purchase_price, margin_percent, margin_pln,
           quantity, ignore_min_quantity
    FROM quote_materials
    WHERE quote_id = $1
    ORDER BY position
  `, q.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m Material
		var percent, fixed float64
		if err := rows.Scan(&m.ID, &m.Name, &m.PurchasePrice, &percent, &fixed,
			&m.Quantity, &m.IgnoreMinQuantity); err != nil {
			return err
		}
		m.Margin = MarginFromFields(percent, fixed)
		q.Materials = append(q.Materials, m)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	actRows, err := s.DB.Query(ctx, `
    SELECT id, name, work_time_hours, work_time_minutes, price,
           margin_percent, margin_pln, ignore_min_quantity
    FROM quote_activities
    WHERE quote_id = $1
    ORDER BY position
  `, q.ID)
	if err != nil {
		return err
	}
	defer actRows.Close()

	for actRows.Next() {
		var a Activity
		var percent, fixed float64
		if err := actRows.Scan(&a.ID, &a.Name, &a.WorkTimeHours, &a.WorkTimeMinutes,
			&a.Price, &percent, &fixed, &a.IgnoreMinQuantity); err != nil {
			return err
		}
		a.Margin = MarginFromFields(percent, fixed)
		q.Activities = append(q.Activities, a)
	}
	return actRows.Err()
}
