package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// Column is one column of a table definition.
type Column struct {
	Name string
	Type string // PostgreSQL type, e.g. "TEXT", "DOUBLE PRECISION"
}

// TableSpec names a table and its columns. Schema may be empty.
type TableSpec struct {
	Schema  string
	Table   string
	Columns []Column
}

func (s TableSpec) identifier() pgx.Identifier {
	if s.Schema != "" {
		return pgx.Identifier{s.Schema, s.Table}
	}
	return pgx.Identifier{s.Table}
}

func (s TableSpec) columnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// CreateSQL renders the CREATE TABLE statement for s.
func (s TableSpec) CreateSQL() string {
	defs := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		defs[i] = pgx.Identifier{c.Name}.Sanitize() + " " + c.Type
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", s.identifier().Sanitize(), strings.Join(defs, ", "))
}

// ReplaceTable drops and recreates the table, then COPYs rows into it, all
// in one transaction. Returns rows copied. Empty rows still leave an empty
// table behind.
func ReplaceTable(ctx context.Context, pool Pool, spec TableSpec, rows [][]any) (int64, error) {
	if len(spec.Columns) == 0 {
		return 0, eris.Errorf("db: replace %s: no columns specified", spec.Table)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: replace: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if spec.Schema != "" {
		createSchema := "CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{spec.Schema}.Sanitize()
		if _, err := tx.Exec(ctx, createSchema); err != nil {
			return 0, eris.Wrapf(err, "db: replace: create schema %s", spec.Schema)
		}
	}

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+spec.identifier().Sanitize()); err != nil {
		return 0, eris.Wrapf(err, "db: replace: drop %s", spec.Table)
	}
	if _, err := tx.Exec(ctx, spec.CreateSQL()); err != nil {
		return 0, eris.Wrapf(err, "db: replace: create %s", spec.Table)
	}

	var n int64
	if len(rows) > 0 {
		n, err = tx.CopyFrom(ctx, spec.identifier(), spec.columnNames(), pgx.CopyFromRows(rows))
		if err != nil {
			return 0, eris.Wrapf(err, "db: replace: copy into %s", spec.Table)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: replace: commit tx")
	}
	return n, nil
}
