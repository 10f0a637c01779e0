package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DeriveFeatures заменяет сырые поля времени и даты производными
// целочисленными признаками:
//
//	DepHour  = DepTime / 100 (целочисленно, 1345 → 13)
//	DepMonth = сегмент 1 даты FlightDate, разделенной по "-"
//	DepYear  = сегмент 0 даты FlightDate, разделенной по "-"
//
// Сырые колонки DepTime и FlightDate после вывода удаляются — в
// выходной схеме они никогда не сосуществуют с производными.
//
// Значения, не прошедшие разбор (нечисловое время, дата с менее чем
// двумя сегментами), дают NA в производной колонке, а не ошибку
// уровня строки: стадия не перепроверяет то, что уже отфильтровал
// Cleaner. Повторный запуск на уже преобразованных данных — no-op.
func DeriveFeatures(df dataframe.DataFrame, p *Params) (dataframe.DataFrame, error) {
	out := df

	if hasColumn(out, depTimeColumn) {
		out = out.Mutate(series.New(deriveHours(out.Col(depTimeColumn)), series.Int, depHourColumn))
		if out.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("derive features: %s: %w", depHourColumn, out.Err)
		}

		var err error
		out, err = dropColumns(out, depTimeColumn)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("derive features: drop %s: %w", depTimeColumn, err)
		}
	}

	if hasColumn(out, flightDateColumn) {
		months, years := deriveMonthsYears(out.Col(flightDateColumn))
		out = out.Mutate(series.New(months, series.Int, depMonthColumn))
		if out.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("derive features: %s: %w", depMonthColumn, out.Err)
		}
		out = out.Mutate(series.New(years, series.Int, depYearColumn))
		if out.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("derive features: %s: %w", depYearColumn, out.Err)
		}

		var err error
		out, err = dropColumns(out, flightDateColumn)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("derive features: drop %s: %w", flightDateColumn, err)
		}
	}

	return out, nil
}

// deriveHours переводит четырехзначное время вылета в час суток.
func deriveHours(depTime series.Series) []string {
	hours := make([]string, depTime.Len())
	for i := 0; i < depTime.Len(); i++ {
		el := depTime.Elem(i)
		if el.IsNA() {
			hours[i] = naToken
			continue
		}
		v := el.Float()
		if math.IsNaN(v) {
			hours[i] = naToken
			continue
		}
		hours[i] = strconv.Itoa(int(v) / 100)
	}
	return hours
}

// deriveMonthsYears разбирает дату формата YYYY-MM-DD на месяц и год.
func deriveMonthsYears(flightDate series.Series) (months, years []string) {
	records := flightDate.Records()
	months = make([]string, len(records))
	years = make([]string, len(records))

	for i, v := range records {
		months[i], years[i] = naToken, naToken

		parts := strings.Split(v, "-")
		if len(parts) < 2 {
			continue
		}
		if m, err := strconv.Atoi(parts[1]); err == nil {
			months[i] = strconv.Itoa(m)
		}
		if y, err := strconv.Atoi(parts[0]); err == nil {
			years[i] = strconv.Itoa(y)
		}
	}
	return months, years
}
