package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/LesleyGao/internship-tracker/internal/domain"
)

// SQLite keeps the snapshot in a local single-table database. Same contract
// as the sheets backend; insertion order stands in for sheet row order.
type SQLite struct {
	pool   *sql.DB
	schema domain.Schema
}

func OpenSQLite(path string, schema domain.Schema) (*SQLite, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	s := &SQLite{pool: pool, schema: schema}
	if err := s.migrate(); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	tx, err := s.pool.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS snapshot (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  company TEXT NOT NULL,
  role TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  link TEXT NOT NULL DEFAULT '',
  date_added TEXT NOT NULL DEFAULT '',
  original_posted_date TEXT NOT NULL DEFAULT '',
  last_checked TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLite) ReadAllRows(ctx context.Context) ([][]string, error) {
	rows, err := s.pool.QueryContext(ctx, `
SELECT company, role, location, link, date_added, original_posted_date, last_checked
FROM snapshot
ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("snapshot read: %w", err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var company, role, location, link, added, original, checked string
		if err := rows.Scan(&company, &role, &location, &link, &added, &original, &checked); err != nil {
			return nil, err
		}
		if s.schema == domain.SchemaPostedDate {
			out = append(out, []string{company, role, location, link, added, original, checked})
		} else {
			out = append(out, []string{company, role, location, link, added, checked})
		}
	}
	return out, rows.Err()
}

// EnsureHeader is a no-op: the header is the table's column list.
func (s *SQLite) EnsureHeader(ctx context.Context, header []string) error { return nil }

func (s *SQLite) ClearRows(ctx context.Context, from, count int) error {
	if count <= 0 {
		return nil
	}
	// Sheet row 2 is the first data row.
	offset := from - 2
	if offset < 0 {
		offset = 0
	}
	_, err := s.pool.ExecContext(ctx, `
DELETE FROM snapshot
WHERE id IN (SELECT id FROM snapshot ORDER BY id LIMIT ? OFFSET ?);`, count, offset)
	if err != nil {
		return fmt.Errorf("snapshot clear rows %d+%d: %w", from, count, err)
	}
	return nil
}

func (s *SQLite) AppendRows(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range rows {
		if len(r) != s.schema.Columns() {
			return fmt.Errorf("row has %d cells, store expects %d", len(r), s.schema.Columns())
		}
		cells := r
		if s.schema == domain.SchemaCompact {
			// widen to the table's 7 columns
			cells = []string{r[0], r[1], r[2], r[3], r[4], "", r[5]}
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO snapshot (company, role, location, link, date_added, original_posted_date, last_checked)
VALUES (?, ?, ?, ?, ?, ?, ?);`,
			cells[0], cells[1], cells[2], cells[3], cells[4], cells[5], cells[6],
		); err != nil {
			return fmt.Errorf("snapshot append: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Close()
}
