// Package adapters определяет единый интерфейс доступа к табличным данным
// в реляционных БД и реестр реализаций.
//
// Адаптеры регистрируются в init() своих пакетов:
//
//	import _ "github.com/ruslano69/flightprep/pkg/adapters/sqlite"
package adapters

import (
	"context"

	"github.com/go-gota/gota/dataframe"
)

// Adapter - интерфейс адаптера БД для чтения и записи таблиц.
type Adapter interface {
	// Connect устанавливает соединение с БД.
	Connect(ctx context.Context) error

	// Close закрывает соединение.
	Close() error

	// Ping проверяет доступность БД.
	Ping(ctx context.Context) error

	// ReadTable читает всю таблицу в DataFrame.
	// Все значения читаются как строки, типы выводятся при загрузке.
	ReadTable(ctx context.Context, table string) (dataframe.DataFrame, error)

	// WriteTable создает таблицу (перезаписывая существующую)
	// и вставляет в нее все строки DataFrame.
	WriteTable(ctx context.Context, table string, df dataframe.DataFrame) error
}
