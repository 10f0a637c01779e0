// File: pkg/dataset/s3.go

package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// IsS3Path проверяет, указывает ли путь на объект в S3.
func IsS3Path(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// parseS3Path разбирает s3://bucket/key на bucket и key.
func parseS3Path(path string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(path, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid s3 path %q: expected s3://bucket/key", path)
	}
	return parts[0], parts[1], nil
}

// newS3Client создает S3 клиент из окружения (credentials, регион).
func newS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// downloadS3 скачивает объект из S3 во временный файл и возвращает его путь.
// Вызывающий отвечает за удаление файла.
func downloadS3(ctx context.Context, path string) (string, error) {
	bucket, key, err := parseS3Path(path)
	if err != nil {
		return "", err
	}

	client, err := newS3Client(ctx)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "flightprep-*"+filepath.Ext(key))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmp.Close()

	downloader := manager.NewDownloader(client)
	if _, err := downloader.Download(ctx, tmp, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to download s3://%s/%s: %w", bucket, key, err)
	}

	return tmp.Name(), nil
}

// uploadS3 загружает локальный файл в S3.
func uploadS3(ctx context.Context, localPath, s3Path string) error {
	bucket, key, err := parseS3Path(s3Path)
	if err != nil {
		return err
	}

	client, err := newS3Client(ctx)
	if err != nil {
		return err
	}

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open file for upload: %w", err)
	}
	defer file.Close()

	uploader := manager.NewUploader(client)
	if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   file,
	}); err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", bucket, key, err)
	}

	return nil
}
