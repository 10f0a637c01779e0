// File: pkg/runner/config.go

package runner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ruslano69/flightprep/pkg/audit"
	"github.com/ruslano69/flightprep/pkg/brokers"
	"github.com/ruslano69/flightprep/pkg/dataset"
	"github.com/ruslano69/flightprep/pkg/pipeline"
	"github.com/ruslano69/flightprep/pkg/resultlog"
	"github.com/ruslano69/flightprep/pkg/retry"
)

// RunConfig - полная конфигурация запуска пайплайна подготовки данных.
type RunConfig struct {
	// Name - имя запуска, используется в audit логе, ключах Redis
	// и ключах Kafka сообщений.
	Name string `yaml:"name"`

	// Source - источник исходного датасета
	Source dataset.SourceConfig `yaml:"source"`

	// Params - параметры пайплайна (inline)
	Params *pipeline.Params `yaml:"params"`

	// ParamsFile - путь к отдельному yaml с параметрами.
	// Используется когда Params не задан inline.
	ParamsFile string `yaml:"params_file"`

	// Output - куда выгружать подвыборки
	Output OutputConfig `yaml:"output"`

	// Audit - конфигурация audit лога
	Audit audit.Config `yaml:"audit"`

	// ResultLog - публикация результата в Redis
	ResultLog resultlog.Config `yaml:"result_log"`

	// Notify - уведомления в Kafka
	Notify brokers.Config `yaml:"notify"`

	// Retry - повторные попытки публикации в Redis и Kafka
	Retry retry.Config `yaml:"retry"`
}

// OutputConfig - конфигурация экспорта подвыборок.
type OutputConfig struct {
	// Dir - каталог (или s3://bucket/prefix) для выгрузки
	Dir string `yaml:"dir"`

	// Format - расширение файлов: csv, csv.gz, csv.zst, xlsx
	Format string `yaml:"format"`
}

// SetDefaults - установка значений по умолчанию.
func (c *RunConfig) SetDefaults() {
	if c.Name == "" {
		c.Name = "flights-prep"
	}
	c.Source.SetDefaults()
	if c.Output.Dir == "" {
		c.Output.Dir = "data/processed"
	}
	if c.Output.Format == "" {
		c.Output.Format = "csv"
	}
	c.Audit.SetDefaults()
	c.ResultLog.SetDefaults()
	c.Notify.SetDefaults()
	c.Retry.SetDefaults()
}

// Validate проверяет корректность конфигурации запуска.
func (c *RunConfig) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return err
	}

	if c.Params == nil && c.ParamsFile == "" {
		return fmt.Errorf("either params or params_file must be set")
	}
	if c.Params != nil && c.ParamsFile != "" {
		return fmt.Errorf("params and params_file are mutually exclusive")
	}
	if c.Params != nil {
		if err := c.Params.Validate(); err != nil {
			return err
		}
	}

	switch c.Output.Format {
	case "csv", "csv.gz", "csv.zst", "xlsx":
	default:
		return fmt.Errorf("unsupported output format %q", c.Output.Format)
	}

	return c.Retry.Validate()
}

// LoadConfig читает конфигурацию запуска из yaml файла.
func LoadConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadParams возвращает параметры пайплайна: inline или из файла.
func (c *RunConfig) LoadParams() (*pipeline.Params, error) {
	if c.Params != nil {
		return c.Params, nil
	}
	return pipeline.LoadParams(c.ParamsFile)
}
