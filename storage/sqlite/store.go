// Copyright 2025 Skysift Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package sqlite implements storage.MetadataStore on an embedded SQLite
// database using the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/skysift/apodex/core"
	"github.com/skysift/apodex/storage"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS apod_entries (
	date           TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	explanation    TEXT NOT NULL,
	image_url      TEXT NOT NULL,
	blob_key       TEXT NOT NULL,
	category       TEXT NOT NULL,
	confidence     REAL NOT NULL,
	caption        TEXT NOT NULL,
	copyright      TEXT NOT NULL DEFAULT '',
	processed_at   TEXT NOT NULL,
	is_relevant    INTEGER NOT NULL,
	transaction_id TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_apod_entries_category ON apod_entries(category);
CREATE INDEX IF NOT EXISTS idx_apod_entries_relevant ON apod_entries(is_relevant);
`

// Store implements storage.MetadataStore for SQLite.
type Store struct {
	db *sql.DB
}

var _ storage.MetadataStore = (*Store)(nil)

// Open opens (creating if necessary) the metadata database at path.
// Pass ":memory:" for a throwaway in-memory database, used in tests.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The modernc driver serializes access through a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertRecord inserts or replaces the row keyed by record.Date.
func (s *Store) UpsertRecord(ctx context.Context, record *core.ArchiveRecord) error {
	query, args, err := sq.Insert("apod_entries").
		Columns("date", "title", "explanation", "image_url", "blob_key",
			"category", "confidence", "caption", "copyright",
			"processed_at", "is_relevant", "transaction_id").
		Values(record.Date, record.Title, record.Explanation, record.ImageURL, record.BlobKey,
			record.Category, record.Confidence, record.Caption, record.Copyright,
			record.ProcessedAt.UTC().Format(time.RFC3339Nano), record.Relevant, record.TxID).
		Suffix(`ON CONFLICT(date) DO UPDATE SET
			title = excluded.title,
			explanation = excluded.explanation,
			image_url = excluded.image_url,
			blob_key = excluded.blob_key,
			category = excluded.category,
			confidence = excluded.confidence,
			caption = excluded.caption,
			copyright = excluded.copyright,
			processed_at = excluded.processed_at,
			is_relevant = excluded.is_relevant,
			transaction_id = excluded.transaction_id`).
		ToSql()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// GetRecord retrieves the row for a date.
func (s *Store) GetRecord(ctx context.Context, date string) (*core.ArchiveRecord, error) {
	query, args, err := selectColumns().
		Where(sq.Eq{"date": date}).
		ToSql()
	if err != nil {
		return nil, err
	}

	record, err := scanRecord(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: entry %q", storage.ErrNotFound, date)
	}
	return record, err
}

// HasRecord reports whether a row exists for the date.
func (s *Store) HasRecord(ctx context.Context, date string) (bool, error) {
	query, args, err := sq.Select("1").
		From("apod_entries").
		Where(sq.Eq{"date": date}).
		ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// DeleteRecord removes the row for a date.
func (s *Store) DeleteRecord(ctx context.Context, date string) error {
	query, args, err := sq.Delete("apod_entries").
		Where(sq.Eq{"date": date}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// DeleteRecordByTx removes the row for a date only if it carries the given
// transaction id, so rollback of a stale write never clobbers a newer one.
func (s *Store) DeleteRecordByTx(ctx context.Context, date, txID string) error {
	query, args, err := sq.Delete("apod_entries").
		Where(sq.Eq{"date": date, "transaction_id": txID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// CountRecords returns the number of archived rows.
func (s *Store) CountRecords(ctx context.Context) (int, error) {
	query, _, err := sq.Select("COUNT(*)").From("apod_entries").ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}

// ListRecords returns up to limit rows ordered by date descending.
func (s *Store) ListRecords(ctx context.Context, limit, offset int) ([]*core.ArchiveRecord, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be >= 1", storage.ErrInvalidQuery)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must be >= 0", storage.ErrInvalidQuery)
	}

	query, args, err := selectColumns().
		OrderBy("date DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*core.ArchiveRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func selectColumns() sq.SelectBuilder {
	return sq.Select("date", "title", "explanation", "image_url", "blob_key",
		"category", "confidence", "caption", "copyright",
		"processed_at", "is_relevant", "transaction_id").
		From("apod_entries")
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*core.ArchiveRecord, error) {
	var (
		record      core.ArchiveRecord
		processedAt string
	)
	err := row.Scan(&record.Date, &record.Title, &record.Explanation, &record.ImageURL,
		&record.BlobKey, &record.Category, &record.Confidence, &record.Caption,
		&record.Copyright, &processedAt, &record.Relevant, &record.TxID)
	if err != nil {
		return nil, err
	}

	record.ProcessedAt, err = time.Parse(time.RFC3339Nano, processedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing processed_at: %w", err)
	}
	return &record, nil
}
