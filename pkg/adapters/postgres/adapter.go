// Package postgres реализует адаптер для PostgreSQL через пул соединений pgx.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruslano69/flightprep/pkg/adapters"
)

func init() {
	adapters.Register("postgres", func(dsn string) adapters.Adapter {
		return &Adapter{dsn: dsn}
	})
}

// Adapter - адаптер PostgreSQL.
type Adapter struct {
	dsn  string
	pool *pgxpool.Pool
}

// New создает неподключенный адаптер.
func New(dsn string) *Adapter {
	return &Adapter{dsn: dsn}
}

// Connect создает пул соединений и проверяет доступность БД.
func (a *Adapter) Connect(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, a.dsn)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.pool = pool
	return nil
}

// Close закрывает пул соединений.
func (a *Adapter) Close() error {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	return nil
}

// Ping проверяет доступность БД.
func (a *Adapter) Ping(ctx context.Context) error {
	if a.pool == nil {
		return fmt.Errorf("postgres adapter is not connected")
	}
	return a.pool.Ping(ctx)
}

// ReadTable читает всю таблицу в DataFrame.
func (a *Adapter) ReadTable(ctx context.Context, table string) (dataframe.DataFrame, error) {
	if a.pool == nil {
		return dataframe.DataFrame{}, fmt.Errorf("postgres adapter is not connected")
	}

	query := fmt.Sprintf("SELECT * FROM %s", pgx.Identifier{table}.Sanitize())
	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, field := range fields {
		header[i] = string(field.Name)
	}

	records := [][]string{header}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make([]string, len(values))
		for i, v := range values {
			if v == nil {
				record[i] = "NaN" // NA токен gota
			} else {
				record[i] = fmt.Sprint(v)
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to iterate rows: %w", err)
	}
	if len(records) < 2 {
		return dataframe.DataFrame{}, fmt.Errorf("table %s is empty", table)
	}

	df := dataframe.LoadRecords(records, dataframe.DetectTypes(true))
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to load table %s: %w", table, df.Err)
	}
	return df, nil
}

// WriteTable перезаписывает таблицу содержимым DataFrame.
func (a *Adapter) WriteTable(ctx context.Context, table string, df dataframe.DataFrame) error {
	if a.pool == nil {
		return fmt.Errorf("postgres adapter is not connected")
	}

	names := df.Names()
	types := df.Types()
	ident := pgx.Identifier{table}.Sanitize()

	columnDefs := make([]string, len(names))
	placeholders := make([]string, len(names))
	for i, name := range names {
		columnDefs[i] = fmt.Sprintf("%s %s", pgx.Identifier{name}.Sanitize(), pgType(types[i]))
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", ident)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	if _, err := tx.Exec(ctx,
		fmt.Sprintf("CREATE TABLE %s (%s)", ident, strings.Join(columnDefs, ", "))); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", ident, strings.Join(placeholders, ", "))

	// batch сокращает round-trip на больших датасетах
	batch := &pgx.Batch{}
	records := df.Records()
	for _, record := range records[1:] {
		args := make([]interface{}, len(record))
		for i, v := range record {
			if v == "NaN" {
				args[i] = nil
			} else {
				args[i] = v
			}
		}
		batch.Queue(insert, args...)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert rows: %w", err)
	}

	return tx.Commit(ctx)
}

// pgType возвращает PostgreSQL тип для типа серии.
func pgType(t series.Type) string {
	switch t {
	case series.Int:
		return "BIGINT"
	case series.Float:
		return "DOUBLE PRECISION"
	case series.Bool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}
