package corpus

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kailas-cloud/bookrec/internal/domain"
)

// CSVProvider reads the catalog from a CSV file with a header row.
// Recognized columns: id, title, author, genre, description, rating, cover.
type CSVProvider struct {
	path string
}

// NewCSVProvider creates a CSV catalog provider.
func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{path: path}
}

// Load reads all records. The snapshot version derives from the file's
// modification time, so a rewritten catalog produces a new version.
func (p *CSVProvider) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("load corpus: %w", err)
	}

	f, err := os.Open(filepath.Clean(p.path))
	if err != nil {
		return Snapshot{}, fmt.Errorf("open catalog %s: %w", p.path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return Snapshot{}, fmt.Errorf("read catalog header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["title"]; !ok {
		return Snapshot{}, fmt.Errorf("catalog %s: missing title column", p.path)
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Snapshot{}, fmt.Errorf("read catalog row %d: %w", line, err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		book := domain.Book{
			ID:          field("id"),
			Title:       field("title"),
			Author:      field("author"),
			Description: field("description"),
			Genre:       field("genre"),
			Cover:       field("cover"),
		}
		if book.Title == "" {
			continue
		}
		if book.ID == "" {
			book.ID = strconv.Itoa(len(records) + 1)
		}
		if book.Cover == "" {
			book.Cover = CoverForTitle(book.Title)
		}
		if s := field("rating"); s != "" {
			rating, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Snapshot{}, fmt.Errorf("catalog row %d: invalid rating %q: %w", line, s, err)
			}
			book.Rating = rating
		}

		records = append(records, Record{Book: book})
	}

	info, err := f.Stat()
	if err != nil {
		return Snapshot{}, fmt.Errorf("stat catalog: %w", err)
	}
	version := fmt.Sprintf("csv-%d-%d", info.ModTime().Unix(), len(records))

	return NewSnapshot(records, version), nil
}
