package pipeline

import (
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Имена колонок исходного датасета и производных признаков.
const (
	rawAirlineColumn = "Reporting_Airline"
	airlineColumn    = "Airline"
	depTimeColumn    = "DepTime"
	flightDateColumn = "FlightDate"
	depHourColumn    = "DepHour"
	depMonthColumn   = "DepMonth"
	depYearColumn    = "DepYear"
)

// naToken — представление отсутствующего значения при построении
// производных колонок: series.New парсит его в NA для числовых типов.
const naToken = "NaN"

// hasColumn проверяет наличие колонки в схеме таблицы.
func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// isMissing определяет отсутствующее значение ячейки.
// Для числовых колонок это NA/NaN; для строковых CSV-источники не
// различают NULL и пустую строку, поэтому пустое (или состоящее из
// одних пробелов) значение также считается отсутствующим.
func isMissing(el series.Element) bool {
	if el.IsNA() {
		return true
	}
	return strings.TrimSpace(el.String()) == ""
}

// dropColumns возвращает таблицу без перечисленных колонок.
func dropColumns(df dataframe.DataFrame, names ...string) (dataframe.DataFrame, error) {
	kept := make([]string, 0, len(df.Names()))
	for _, n := range df.Names() {
		if !containsString(names, n) {
			kept = append(kept, n)
		}
	}
	out := df.Select(kept)
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}
