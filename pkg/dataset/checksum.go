// File: pkg/dataset/checksum.go

package dataset

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"
)

// FileChecksum вычисляет xxh3 (64-bit) хеш файла в hex.
// xxh3 очень быстрый, подходит для проверки целостности больших датасетов.
func FileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for checksum: %w", err)
	}
	defer file.Close()

	hasher := xxh3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return hashToHex(hasher.Sum64()), nil
}

// VerifyChecksum сравнивает xxh3 хеш файла с ожидаемым значением.
func VerifyChecksum(path, expected string) error {
	actual, err := FileChecksum(path)
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf(
			"checksum mismatch for %s: expected %s, got %s (data corruption detected)",
			path, expected, actual,
		)
	}
	return nil
}

func hashToHex(h uint64) string {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, h)
	return hex.EncodeToString(buf)
}
