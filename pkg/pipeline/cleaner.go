package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/ruslano69/flightprep/pkg/audit"
)

// CleanRows удаляет неполные строки и валидирует код авиакомпании.
//
// Алгоритм:
//  1. Строки с отсутствующим значением в любой колонке отбрасываются
//     целиком (частичный ремонт строк не выполняется).
//  2. Airline = upper(trim(Reporting_Airline)).
//  3. Остаются только строки, где длина Airline равна 2 (двухбуквенный
//     IATA-код); остальные отбрасываются молча — это политика
//     фильтрации, а не ошибка.
//  4. Колонка Reporting_Airline удаляется из схемы.
//
// Количество строк до и после чистки фиксируется в переданном audit
// логгере. Если сырой колонки нет, но Airline уже присутствует,
// стадия считает данные очищенными и выполняет только фильтрацию
// (повторный запуск на очищенных данных — no-op). Если нет ни той,
// ни другой колонки — *SchemaError.
func CleanRows(ctx context.Context, df dataframe.DataFrame, p *Params, log audit.Logger) (dataframe.DataFrame, error) {
	hasRaw := hasColumn(df, rawAirlineColumn)
	if !hasRaw && !hasColumn(df, airlineColumn) {
		return dataframe.DataFrame{}, &SchemaError{Stage: "clean_rows", Column: rawAirlineColumn}
	}

	before := df.Nrow()

	cleaned, err := dropIncompleteRows(df)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean rows: %w", err)
	}

	if hasRaw {
		raw := cleaned.Col(rawAirlineColumn).Records()
		codes := make([]string, len(raw))
		for i, v := range raw {
			codes[i] = strings.ToUpper(strings.TrimSpace(v))
		}
		cleaned = cleaned.Mutate(series.New(codes, series.String, airlineColumn))
		if cleaned.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("clean rows: derive airline: %w", cleaned.Err)
		}
	}

	filtered := cleaned.Filter(dataframe.F{
		Colname:    airlineColumn,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool { return len(el.String()) == 2 },
	})
	if filtered.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean rows: filter airline codes: %w", filtered.Err)
	}

	out := filtered
	if hasRaw {
		out, err = dropColumns(filtered, rawAirlineColumn)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("clean rows: drop %s: %w", rawAirlineColumn, err)
		}
	}

	entry := audit.NewEntry(audit.OpClean, audit.StatusSuccess).
		WithResource("flights").
		WithRecordsAffected(int64(out.Nrow())).
		WithMetadata("rows_before", before).
		WithMetadata("rows_after", out.Nrow())
	if err := log.Log(ctx, entry); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean rows: audit: %w", err)
	}

	return out, nil
}

// dropIncompleteRows возвращает таблицу только с полными строками.
func dropIncompleteRows(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	nrow := df.Nrow()
	cols := make([]series.Series, 0, df.Ncol())
	for _, name := range df.Names() {
		cols = append(cols, df.Col(name))
	}

	keep := make([]int, 0, nrow)
	for r := 0; r < nrow; r++ {
		complete := true
		for _, col := range cols {
			if isMissing(col.Elem(r)) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, r)
		}
	}

	if len(keep) == nrow {
		return df, nil
	}

	out := df.Subset(keep)
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}
