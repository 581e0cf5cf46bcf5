// Package tracker persists one immutable record per job outcome in an
// append-only SQLite table. Rows are never updated or deleted; a schema
// mismatch versions the table instead of touching existing history.
package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jonathan/auto-applier/internal/types"
)

// Columns is the fixed column order of the application log.
var Columns = []string{
	"timestamp",
	"role",
	"company",
	"job_title",
	"job_url",
	"location",
	"remote",
	"cv_used",
	"match_score",
	"status",
	"notes",
}

const baseTable = "applications"

// maxTableVersions bounds the mismatch-versioning scan.
const maxTableVersions = 10

// Tracker is the append-only application log.
type Tracker struct {
	db    *sql.DB
	table string
}

// Open opens (creating if needed) the application log at path and resolves
// the active table. If an existing table's columns do not match Columns, a
// fresh versioned table (applications_v2, _v3, ...) is created; the old
// table and its rows are left untouched.
func Open(ctx context.Context, path string) (*Tracker, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open application log: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite wants a single writer

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping application log: %w", err)
	}

	t := &Tracker{db: db}
	if err := t.ensureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return t, nil
}

// Close releases the underlying database handle.
func (t *Tracker) Close() error {
	if t == nil || t.db == nil {
		return nil
	}
	return t.db.Close()
}

// Table returns the name of the active table, mainly for tests and logs.
func (t *Tracker) Table() string {
	return t.table
}

// Append writes one terminal outcome. The timestamp is taken at write time;
// a nil score is stored as NULL.
func (t *Tracker) Append(ctx context.Context, rec *types.ApplicationRecord) error {
	var score any
	if rec.Score != nil {
		score = *rec.Score
	}

	query := fmt.Sprintf(`
INSERT INTO %s (timestamp, role, company, job_title, job_url, location, remote, cv_used, match_score, status, notes)
VALUES (?,?,?,?,?,?,?,?,?,?,?);`, t.table)

	_, err := t.db.ExecContext(ctx, query,
		time.Now().UTC().Format(time.RFC3339),
		rec.Role,
		rec.Company,
		rec.JobTitle,
		rec.JobURL,
		rec.Location,
		rec.Remote,
		rec.CVUsed,
		score,
		string(rec.Status),
		rec.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to append application record: %w", err)
	}
	return nil
}

// List returns the most recent records, newest first.
func (t *Tracker) List(ctx context.Context, limit int) ([]types.ApplicationRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
SELECT timestamp, role, company, job_title, job_url, location, remote, cv_used, match_score, status, notes
FROM %s
ORDER BY timestamp DESC
LIMIT ?;`, t.table)

	rows, err := t.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list application records: %w", err)
	}
	defer rows.Close()

	var out []types.ApplicationRecord
	for rows.Next() {
		var rec types.ApplicationRecord
		var ts, status string
		var score sql.NullInt64
		if err := rows.Scan(&ts, &rec.Role, &rec.Company, &rec.JobTitle, &rec.JobURL,
			&rec.Location, &rec.Remote, &rec.CVUsed, &score, &status, &rec.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan application record: %w", err)
		}
		rec.Timestamp, _ = time.Parse(time.RFC3339, ts)
		rec.Status = types.ApplicationStatus(status)
		if score.Valid {
			v := int(score.Int64)
			rec.Score = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the number of rows in the active table.
func (t *Tracker) Count(ctx context.Context) (int, error) {
	var n int
	err := t.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s;`, t.table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count application records: %w", err)
	}
	return n, nil
}

// ensureTable finds the first table whose columns match the fixed header,
// creating a new versioned table when every existing candidate mismatches.
func (t *Tracker) ensureTable(ctx context.Context) error {
	for v := 1; v <= maxTableVersions; v++ {
		name := baseTable
		if v > 1 {
			name = fmt.Sprintf("%s_v%d", baseTable, v)
		}

		cols, err := tableColumns(ctx, t.db, name)
		if err != nil {
			return err
		}
		if cols == nil {
			if err := createTable(ctx, t.db, name); err != nil {
				return err
			}
			t.table = name
			return nil
		}
		if columnsMatch(cols) {
			t.table = name
			return nil
		}
		// Mismatched header: never overwrite history, try the next version.
	}
	return fmt.Errorf("no usable application table after %d versions", maxTableVersions)
}

func createTable(ctx context.Context, db *sql.DB, name string) error {
	defs := make([]string, 0, len(Columns)+1)
	defs = append(defs, "id INTEGER PRIMARY KEY AUTOINCREMENT")
	for _, col := range Columns {
		if col == "match_score" {
			defs = append(defs, col+" INTEGER")
			continue
		}
		defs = append(defs, col+" TEXT NOT NULL DEFAULT ''")
	}

	query := fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", name, strings.Join(defs, ",\n  "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}
	return nil
}

// tableColumns returns the declared column names of name (excluding the id
// primary key), or nil when the table does not exist.
func tableColumns(ctx context.Context, db *sql.DB, name string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?) ORDER BY cid;`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", name, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, err
		}
		if col == "id" {
			continue
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func columnsMatch(cols []string) bool {
	if len(cols) != len(Columns) {
		return false
	}
	for i, col := range Columns {
		if cols[i] != col {
			return false
		}
	}
	return true
}
