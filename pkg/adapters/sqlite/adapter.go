// Package sqlite реализует адаптер для SQLite через modernc.org/sqlite
// (чистый Go, без cgo).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	_ "modernc.org/sqlite"

	"github.com/ruslano69/flightprep/pkg/adapters"
)

func init() {
	adapters.Register("sqlite", func(dsn string) adapters.Adapter {
		return &Adapter{dsn: dsn}
	})
}

// Adapter - адаптер SQLite.
type Adapter struct {
	dsn string
	db  *sql.DB
}

// New создает неподключенный адаптер.
func New(dsn string) *Adapter {
	return &Adapter{dsn: dsn}
}

// Connect открывает БД и проверяет соединение.
func (a *Adapter) Connect(ctx context.Context) error {
	db, err := sql.Open("sqlite", a.dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	a.db = db
	return nil
}

// Close закрывает соединение с БД.
func (a *Adapter) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// Ping проверяет доступность БД.
func (a *Adapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return fmt.Errorf("sqlite adapter is not connected")
	}
	return a.db.PingContext(ctx)
}

// ReadTable читает всю таблицу в DataFrame.
func (a *Adapter) ReadTable(ctx context.Context, table string) (dataframe.DataFrame, error) {
	if a.db == nil {
		return dataframe.DataFrame{}, fmt.Errorf("sqlite adapter is not connected")
	}

	query := fmt.Sprintf("SELECT * FROM %s", quoteIdent(table))
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to get columns: %w", err)
	}

	records := [][]string{columns}
	values := make([]sql.NullString, len(columns))
	scanArgs := make([]interface{}, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				record[i] = v.String
			} else {
				record[i] = "NaN" // NA токен gota
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
	if a.db == nil {
		return fmt.Errorf("sqlite adapter is not connected")
	}

	names := df.Names()
	types := df.Types()

	columnDefs := make([]string, len(names))
	for i, name := range names {
		columnDefs[i] = fmt.Sprintf("%s %s", quoteIdent(name), sqlType(types[i]))
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(table))); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(columnDefs, ", "))); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table), placeholders)

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

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
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}

	return tx.Commit()
}

// quoteIdent экранирует идентификатор SQLite.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// sqlType возвращает SQLite тип для типа серии.
func sqlType(t series.Type) string {
	switch t {
	case series.Int, series.Bool:
		return "INTEGER"
	case series.Float:
		return "REAL"
	default:
		return "TEXT"
	}
}
