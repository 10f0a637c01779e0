package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Params содержит параметры подготовки данных, общие для всех стадий.
// Загружается один раз на запуск пайплайна и передается в каждую стадию
// без изменений.
type Params struct {
	// Columns — упорядоченный список колонок, которые оставляет Selector.
	Columns []string `yaml:"l_cols"`

	// Features — упорядоченный список колонок модельного признакового
	// набора, включая целевую колонку (используется Splitter-ом).
	Features []string `yaml:"features"`

	// TargetColumn — имя колонки-метки для обучения.
	TargetColumn string `yaml:"target_column"`

	// TrainFraction — ожидаемая доля строк train-подвыборки, строго в (0,1).
	TrainFraction float64 `yaml:"train_fraction"`

	// Seed — опциональный seed для воспроизводимого разбиения.
	// nil = неповторяемое разбиение (seed от текущего времени).
	Seed *int64 `yaml:"seed,omitempty"`
}

// LoadParams загружает параметры из YAML файла и валидирует их.
func LoadParams(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read params file: %w", err)
	}

	var p Params
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate проверяет корректность параметров на входе в пайплайн.
// Стадии дополнительно перепроверяют свои предусловия — валидация
// здесь позволяет отклонить конфигурацию до загрузки данных.
func (p *Params) Validate() error {
	if len(p.Columns) == 0 {
		return &ConfigurationError{Option: "l_cols", Reason: "at least one column is required"}
	}
	if len(p.Features) == 0 {
		return &ConfigurationError{Option: "features", Reason: "at least one feature column is required"}
	}
	if p.TargetColumn == "" {
		return &ConfigurationError{Option: "target_column", Reason: "target column name is required"}
	}
	if !containsString(p.Features, p.TargetColumn) {
		return &ConfigurationError{
			Option: "target_column",
			Reason: fmt.Sprintf("column %q must be listed in features", p.TargetColumn),
		}
	}
	if !hasNonTargetFeature(p.Features, p.TargetColumn) {
		return &ConfigurationError{
			Option: "features",
			Reason: "at least one feature besides the target column is required",
		}
	}
	if p.TrainFraction <= 0 || p.TrainFraction >= 1 {
		return &ConfigurationError{
			Option: "train_fraction",
			Reason: fmt.Sprintf("must be strictly between 0 and 1, got %v", p.TrainFraction),
		}
	}
	return nil
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// hasNonTargetFeature проверяет, что признаковый набор не выродится
// в пустую таблицу после удаления целевой колонки.
func hasNonTargetFeature(features []string, target string) bool {
	for _, f := range features {
		if f != target {
			return true
		}
	}
	return false
}
