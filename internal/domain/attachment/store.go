package attachment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StoreAPI interface {
	Insert(ctx context.Context, quoteID, fileName, contentType string, size int64) (Attachment, error)
	ListByQuote(ctx context.Context, quoteID string) ([]Attachment, error)
	Get(ctx context.Context, id string) (Attachment, error)
	Delete(ctx context.Context, id string) error
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, quoteID, fileName, contentType string, size int64) (Attachment, error) {
	a := Attachment{QuoteID: quoteID, FileName: fileName, ContentType: contentType, SizeBytes: size}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO quote_attachments (quote_id, file_name, content_type, size_bytes)
    VALUES ($1,$2,$3,$4)
    RETURNING id, created_at
  `, quoteID, fileName, contentType, size).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return Attachment{}, err
	}
	return a, nil
}

func (s *Store) ListByQuote(ctx context.Context, quoteID string) ([]Attachment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, quote_id, file_name, content_type, size_bytes, created_at
    FROM quote_attachments
    WHERE quote_id = $1
    ORDER BY created_at
  `, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []Attachment
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.QuoteID, &a.FileName, &a.ContentType, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Attachment, error) {
	var a Attachment
	err := s.DB.QueryRow(ctx, `
    SELECT id, quote_id, file_name, content_type, size_bytes, created_at
    FROM quote_attachments
    WHERE id = $1
  `, id).Scan(&a.ID, &a.QuoteID, &a.FileName, &a.ContentType, &a.SizeBytes, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Attachment{}, ErrNotFound
		}
		return Attachment{}, err
	}
	return a, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM quote_attachments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
