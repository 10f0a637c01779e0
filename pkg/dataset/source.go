// File: pkg/dataset/source.go

package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Формат источника данных.
const (
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
	FormatTable = "table" // таблица в БД через адаптер
)

// SourceConfig описывает источник исходного датасета.
type SourceConfig struct {
	// Path - путь к файлу: локальный или s3://bucket/key.
	// Сжатие определяется по расширению (.gz, .zst).
	Path string `yaml:"path"`

	// Format - формат данных: csv, xlsx, table.
	// Для файлов выводится из расширения, если не задан.
	Format string `yaml:"format"`

	// Encoding - кодировка текстового файла (например windows-1251).
	// Пусто = UTF-8.
	Encoding string `yaml:"encoding"`

	// Sheet - имя листа для xlsx. Пусто = первый лист.
	Sheet string `yaml:"sheet"`

	// Driver - имя адаптера БД для формата table (sqlite, postgres).
	Driver string `yaml:"driver"`

	// DSN - строка подключения для формата table.
	DSN string `yaml:"dsn"`

	// Table - имя таблицы для формата table.
	Table string `yaml:"table"`

	// Checksum - ожидаемый xxh3 хеш файла (hex). Пусто = не проверять.
	Checksum string `yaml:"checksum"`
}

// SetDefaults выводит формат из расширения файла.
func (c *SourceConfig) SetDefaults() {
	if c.Format != "" {
		return
	}
	if c.Table != "" || c.DSN != "" {
		c.Format = FormatTable
		return
	}

	switch strings.ToLower(fileExt(c.Path)) {
	case ".xlsx":
		c.Format = FormatXLSX
	default:
		c.Format = FormatCSV
	}
}

// Validate проверяет корректность конфигурации источника.
func (c *SourceConfig) Validate() error {
	switch c.Format {
	case FormatCSV, FormatXLSX:
		if c.Path == "" {
			return fmt.Errorf("source: path is required for format %q", c.Format)
		}
	case FormatTable:
		if c.Driver == "" {
			return fmt.Errorf("source: driver is required for format table")
		}
		if c.DSN == "" {
			return fmt.Errorf("source: dsn is required for format table")
		}
		if c.Table == "" {
			return fmt.Errorf("source: table name is required for format table")
		}
	default:
		return fmt.Errorf("source: unsupported format %q", c.Format)
	}
	return nil
}

// fileExt возвращает содержательное расширение файла,
// пропуская суффиксы сжатия (.gz, .zst).
func fileExt(path string) string {
	ext := filepath.Ext(path)
	if ext == ".gz" || ext == ".zst" {
		ext = filepath.Ext(strings.TrimSuffix(path, ext))
	}
	return ext
}
