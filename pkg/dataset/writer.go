// File: pkg/dataset/writer.go

package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Write экспортирует DataFrame в файл и возвращает xxh3 хеш результата.
//
// Формат и сжатие определяются по расширению пути:
// .csv, .csv.gz, .csv.zst, .xlsx. Путь s3://bucket/key выгружается в S3
// через временный локальный файл.
func Write(ctx context.Context, df dataframe.DataFrame, path string) (string, error) {
	if IsS3Path(path) {
		_, key, err := parseS3Path(path)
		if err != nil {
			return "", err
		}

		tmp, err := os.CreateTemp("", "flightprep-*"+filepath.Ext(key))
		if err != nil {
			return "", fmt.Errorf("failed to create temp file: %w", err)
		}
		tmp.Close()
		defer os.Remove(tmp.Name())

		checksum, err := writeLocal(df, tmp.Name(), key)
		if err != nil {
			return "", err
		}
		if err := uploadS3(ctx, tmp.Name(), path); err != nil {
			return "", err
		}
		return checksum, nil
	}

	return writeLocal(df, path, path)
}

// writeLocal пишет DataFrame в локальный файл.
// formatPath используется для определения формата (при записи во
// временный файл реальное имя отличается от целевого).
func writeLocal(df dataframe.DataFrame, path, formatPath string) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if strings.HasSuffix(formatPath, ".xlsx") {
		if err := WriteXLSX(df, path, ""); err != nil {
			return "", err
		}
		return FileChecksum(path)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	if err := writeCSVStream(df, file, formatPath); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close output file: %w", err)
	}

	return FileChecksum(path)
}

// writeCSVStream пишет CSV в поток, оборачивая его компрессором по расширению.
func writeCSVStream(df dataframe.DataFrame, w io.Writer, formatPath string) error {
	switch {
	case strings.HasSuffix(formatPath, ".gz"):
		gz := gzip.NewWriter(w)
		if err := df.WriteCSV(gz); err != nil {
			gz.Close()
			return fmt.Errorf("failed to write csv: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}

	case strings.HasSuffix(formatPath, ".zst"):
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		if err := df.WriteCSV(zw); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write csv: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("failed to finish zstd stream: %w", err)
		}

	default:
		if err := df.WriteCSV(w); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}
	return nil
}
