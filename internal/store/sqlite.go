package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/sales-insights/internal/dataset"
)

// SQLiteStore writes tables with modernc.org/sqlite.
type SQLiteStore struct {
	db    *sql.DB
	dsn   string
	table string
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn, table string) (*SQLiteStore, error) {
	if table == "" {
		return nil, eris.New("sqlite: empty table name")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, dsn: dsn, table: table}, nil
}

func (s *SQLiteStore) Kind() string { return "sqlite" }

func (s *SQLiteStore) Target() string { return s.dsn + "#" + s.table }

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// WriteDataset replaces the data table with the dataset's columns and rows.
// Dates are stored as text. Column names equal under case folding get a
// numeric suffix.
func (s *SQLiteStore) WriteDataset(ctx context.Context, ds *dataset.Dataset) error {
	cols := ds.Columns()
	if len(cols) == 0 {
		return eris.Errorf("sqlite: dataset for %s has no columns", s.table)
	}

	labels := foldUnique(ds.Names())
	defs := make([]string, len(cols))
	names := make([]string, len(cols))
	kinds := make([]dataset.Kind, len(cols))
	for i, c := range cols {
		kinds[i] = c.Kind()
		names[i] = quoteIdent(labels[i])
		defs[i] = names[i] + " " + sqliteType(kinds[i])
	}

	rows := make([][]any, ds.Len())
	for r := range rows {
		rows[r] = make([]any, len(cols))
		for i, c := range cols {
			v := c.Values[r]
			if v.Kind() == dataset.KindDate {
				rows[r][i] = v.String()
				continue
			}
			rows[r][i] = cell(kinds[i], v)
		}
	}

	n, err := s.replace(ctx, s.table, defs, names, rows)
	if err != nil {
		return err
	}
	zap.L().Debug("sqlite: wrote dataset", zap.String("table", s.table), zap.Int64("rows", n))
	return nil
}

// WriteInsights replaces the insights table with one row per insight.
func (s *SQLiteStore) WriteInsights(ctx context.Context, insights []string) error {
	table := s.table + InsightsSuffix
	names := []string{quoteIdent("position"), quoteIdent("insight")}
	defs := []string{names[0] + " INTEGER", names[1] + " TEXT"}

	rows := make([][]any, len(insights))
	for i, line := range insights {
		rows[i] = []any{i + 1, line}
	}
	_, err := s.replace(ctx, table, defs, names, rows)
	return err
}

func (s *SQLiteStore) replace(ctx context.Context, table string, defs, names []string, rows [][]any) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
		return 0, eris.Wrapf(err, "sqlite: drop %s", table)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, eris.Wrapf(err, "sqlite: create %s", table)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(table), strings.Join(names, ", "), placeholders)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: prepare insert %s", table)
	}
	defer stmt.Close() //nolint:errcheck

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert into %s", table)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit tx")
	}
	return int64(len(rows)), nil
}

func sqliteType(k dataset.Kind) string {
	switch k {
	case dataset.KindNumber:
		return "REAL"
	case dataset.KindInt:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// foldUnique suffixes column names that collide case-insensitively with an
// earlier one (".1", ".2", ...). SQLite identifiers ignore case.
func foldUnique(names []string) []string {
	used := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		name := n
		for k := 1; used[strings.ToLower(name)]; k++ {
			name = n + "." + strconv.Itoa(k)
		}
		used[strings.ToLower(name)] = true
		out[i] = name
	}
	return out
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
