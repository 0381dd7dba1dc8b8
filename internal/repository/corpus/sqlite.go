package corpus

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the pure-Go "sqlite" driver

	"github.com/kailas-cloud/bookrec/internal/domain"
)

// SQLiteProvider reads the catalog from a sqlite database with a `books`
// table: id, title, author, genre, description, rating, cover, and an
// optional `vector` BLOB (little-endian float32) for embedding scoring.
// `PRAGMA user_version` versions the catalog build.
type SQLiteProvider struct {
	db *sql.DB
}

// NewSQLiteProvider opens the catalog database.
func NewSQLiteProvider(path string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db %s: %w", path, err)
	}
	return &SQLiteProvider{db: db}, nil
}

// Close releases the database handle.
func (p *SQLiteProvider) Close() error {
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("close catalog db: %w", err)
	}
	return nil
}

// Load reads all records in rowid order, which defines the corpus
// insertion order used for ranking tie-breaks.
func (p *SQLiteProvider) Load(ctx context.Context) (Snapshot, error) {
	var userVersion int64
	if err := p.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&userVersion); err != nil {
		return Snapshot{}, fmt.Errorf("read catalog version: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, title, author, genre, description, rating, cover, vector
		FROM books ORDER BY rowid`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("query catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var (
			book  domain.Book
			cover sql.NullString
			blob  []byte
		)
		if err := rows.Scan(
			&book.ID, &book.Title, &book.Author, &book.Genre,
			&book.Description, &book.Rating, &cover, &blob,
		); err != nil {
			return Snapshot{}, fmt.Errorf("scan catalog row: %w", err)
		}

		if cover.Valid && cover.String != "" {
			book.Cover = cover.String
		} else {
			book.Cover = CoverForTitle(book.Title)
		}

		rec := Record{Book: book}
		if len(blob) > 0 {
			vec, err := vectorFromBytes(blob)
			if err != nil {
				return Snapshot{}, fmt.Errorf("book %s: %w", book.ID, err)
			}
			rec.Vector = vec
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterate catalog: %w", err)
	}

	version := fmt.Sprintf("sqlite-%d-%d", userVersion, len(records))
	return NewSnapshot(records, version), nil
}
