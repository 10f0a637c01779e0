// File: pkg/dataset/loader.go

package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/ruslano69/flightprep/pkg/adapters"
)

// Load загружает датасет из источника в DataFrame.
//
// Поддерживаются:
//   - локальные CSV файлы, в том числе сжатые gzip/zstd и в не-UTF-8 кодировке
//   - xlsx файлы
//   - объекты в S3 (s3://bucket/key)
//   - таблицы БД через зарегистрированный адаптер
func Load(ctx context.Context, cfg SourceConfig) (dataframe.DataFrame, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return dataframe.DataFrame{}, err
	}

	if cfg.Format == FormatTable {
		return loadTable(ctx, cfg)
	}

	path := cfg.Path
	if IsS3Path(path) {
		local, err := downloadS3(ctx, path)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		defer os.Remove(local)
		path = local
	}

	if cfg.Checksum != "" {
		if err := VerifyChecksum(path, cfg.Checksum); err != nil {
			return dataframe.DataFrame{}, err
		}
	}

	switch cfg.Format {
	case FormatXLSX:
		return ReadXLSX(path, cfg.Sheet)
	default:
		return loadCSV(path, cfg.Encoding)
	}
}

// loadCSV читает CSV файл с учетом сжатия и кодировки.
func loadCSV(path, encoding string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	reader, closer, err := decompressReader(file, path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if closer != nil {
		defer closer()
	}

	if encoding != "" {
		reader, err = decodeReader(reader, encoding)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
	}

	df := dataframe.ReadCSV(reader,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse csv %s: %w", path, df.Err)
	}
	return df, nil
}

// loadTable читает таблицу БД через адаптер.
func loadTable(ctx context.Context, cfg SourceConfig) (dataframe.DataFrame, error) {
	adapter, err := adapters.Create(cfg.Driver, cfg.DSN)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	if err := adapter.Connect(ctx); err != nil {
		return dataframe.DataFrame{}, err
	}
	defer adapter.Close()

	return adapter.ReadTable(ctx, cfg.Table)
}

// decompressReader оборачивает reader в декомпрессор по расширению файла.
func decompressReader(file *os.File, path string) (io.Reader, func(), error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return gz, func() { gz.Close() }, nil

	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return zr, zr.Close, nil

	default:
		return file, nil, nil
	}
}

// decodeReader перекодирует поток из указанной кодировки в UTF-8.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
