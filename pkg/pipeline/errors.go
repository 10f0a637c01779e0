package pipeline

import "fmt"

// SchemaError — запрошенная колонка отсутствует в схеме таблицы.
// Возвращается стадиями select_columns и clean_rows при обращении
// к несуществующей колонке.
type SchemaError struct {
	Stage  string // имя стадии, обнаружившей проблему
	Column string // имя отсутствующей колонки
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: column %q is not present in the table schema", e.Stage, e.Column)
}

// ConfigurationError — некорректное или противоречивое значение
// параметра пайплайна (например, train_fraction вне (0,1) или
// target_column вне списка features).
type ConfigurationError struct {
	Option string // имя параметра
	Reason string // причина отклонения
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Option, e.Reason)
}
