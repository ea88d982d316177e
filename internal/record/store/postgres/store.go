package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/tally/internal/record"
)

// Store keeps record documents as JSONB rows in the records table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListDocuments(ctx context.Context, userID string, kind record.Kind) ([]record.Document, error) {
	query := `
		SELECT id, doc
		FROM records
		WHERE user_id = $1 AND kind = $2
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, userID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var docs []record.Document

	for rows.Next() {
		var (
			id  string
			raw []byte
		)

		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		var doc record.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			slog.Warn("skipping undecodable record document", "id", id, "kind", kind, "error", err)
			continue
		}

		doc.ID = id
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating record rows: %w", err)
	}

	return docs, nil
}

// InsertDocuments writes all documents in one transaction.
func (s *Store) InsertDocuments(ctx context.Context, userID string, kind record.Kind, docs []record.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO records (id, user_id, kind, doc, created_at)
		VALUES ($1, $2, $3, $4, NOW())`

	for _, doc := range docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", doc.ID, err)
		}

		if _, err := tx.ExecContext(ctx, query, doc.ID, userID, string(kind), raw); err != nil {
			return fmt.Errorf("inserting record %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}

	return nil
}
