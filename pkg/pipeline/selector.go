package pipeline

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
)

// SelectColumns сужает таблицу до колонок l_cols, в заданном порядке.
// Чистая проекция: количество строк не меняется, никаких побочных
// эффектов. Каждая запрошенная колонка обязана присутствовать во
// входной схеме, иначе возвращается *SchemaError.
func SelectColumns(df dataframe.DataFrame, p *Params) (dataframe.DataFrame, error) {
	if len(p.Columns) == 0 {
		return dataframe.DataFrame{}, &ConfigurationError{
			Option: "l_cols",
			Reason: "at least one column is required",
		}
	}

	for _, name := range p.Columns {
		if !hasColumn(df, name) {
			return dataframe.DataFrame{}, &SchemaError{Stage: "select_columns", Column: name}
		}
	}

	out := df.Select(p.Columns)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("select columns: %w", out.Err)
	}

	return out, nil
}
