package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sales-insights/internal/dataset"
	"github.com/sells-group/sales-insights/internal/db"
)

// PostgresStore writes tables through the COPY protocol.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
	schema  string
	table   string
}

// NewPostgres connects a small pool and verifies it with a ping.
func NewPostgres(ctx context.Context, connString, schema, table string) (*PostgresStore, error) {
	if table == "" {
		return nil, eris.New("postgres: empty table name")
	}
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close, schema: schema, table: table}, nil
}

// NewPostgresWithPool wraps an existing pool. Close does not close it.
func NewPostgresWithPool(pool db.Pool, schema, table string) *PostgresStore {
	return &PostgresStore{pool: pool, schema: schema, table: table}
}

func (s *PostgresStore) Kind() string { return "postgres" }

func (s *PostgresStore) Target() string {
	if s.schema != "" {
		return s.schema + "." + s.table
	}
	return s.table
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// WriteDataset replaces the data table with the dataset's columns and rows.
func (s *PostgresStore) WriteDataset(ctx context.Context, ds *dataset.Dataset) error {
	cols := ds.Columns()
	if len(cols) == 0 {
		return eris.Errorf("postgres: dataset for %s has no columns", s.table)
	}

	spec := db.TableSpec{Schema: s.schema, Table: s.table, Columns: make([]db.Column, len(cols))}
	kinds := make([]dataset.Kind, len(cols))
	for i, c := range cols {
		kinds[i] = c.Kind()
		spec.Columns[i] = db.Column{Name: c.Name, Type: postgresType(c, kinds[i])}
	}

	rows := make([][]any, ds.Len())
	for r := range rows {
		rows[r] = make([]any, len(cols))
		for i, c := range cols {
			rows[r][i] = cell(kinds[i], c.Values[r])
		}
	}

	n, err := db.ReplaceTable(ctx, s.pool, spec, rows)
	if err != nil {
		return eris.Wrapf(err, "postgres: write %s", s.Target())
	}
	zap.L().Debug("postgres: wrote dataset", zap.String("table", s.Target()), zap.Int64("rows", n))
	return nil
}

// WriteInsights replaces the insights table with one row per insight.
func (s *PostgresStore) WriteInsights(ctx context.Context, insights []string) error {
	spec := db.TableSpec{
		Schema: s.schema,
		Table:  s.table + InsightsSuffix,
		Columns: []db.Column{
			{Name: "position", Type: "INTEGER"},
			{Name: "insight", Type: "TEXT"},
		},
	}
	rows := make([][]any, len(insights))
	for i, line := range insights {
		rows[i] = []any{int32(i + 1), line}
	}
	if _, err := db.ReplaceTable(ctx, s.pool, spec, rows); err != nil {
		return eris.Wrapf(err, "postgres: write %s", spec.Table)
	}
	return nil
}

func postgresType(c *dataset.Column, k dataset.Kind) string {
	switch k {
	case dataset.KindNumber:
		return "DOUBLE PRECISION"
	case dataset.KindInt:
		return "BIGINT"
	case dataset.KindDate:
		if hasClock(c) {
			return "TIMESTAMP"
		}
		return "DATE"
	default:
		return "TEXT"
	}
}
