package pipeline

import (
	"context"

	"github.com/go-gota/gota/dataframe"

	"github.com/ruslano69/flightprep/pkg/audit"
)

// Run выполняет все четыре стадии подготовки данных в фиксированном
// порядке: Selector → Cleaner → Deriver → Splitter. Поток управления
// строго линейный, fail-fast: ошибка любой стадии прерывает
// оставшуюся часть пайплайна без частичного восстановления.
//
// Каждая стадия — чистая функция от (таблица, параметры); состояние
// между вызовами не сохраняется, входная таблица не мутируется.
func Run(ctx context.Context, df dataframe.DataFrame, p *Params, log audit.Logger) (Split, error) {
	selected, err := SelectColumns(df, p)
	if err != nil {
		return Split{}, err
	}

	cleaned, err := CleanRows(ctx, selected, p, log)
	if err != nil {
		return Split{}, err
	}

	features, err := DeriveFeatures(cleaned, p)
	if err != nil {
		return Split{}, err
	}

	return SplitTrainTest(features, p)
}
