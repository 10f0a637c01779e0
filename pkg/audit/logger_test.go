package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// countingAppender - медленный приёмник для тестов конкурентности.
type countingAppender struct {
	mu    sync.Mutex
	delay time.Duration
	count int
}

func (a *countingAppender) Append(ctx context.Context, entry *Entry) error {
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	a.mu.Lock()
	a.count++
	a.mu.Unlock()
	return nil
}

func (a *countingAppender) Close() error { return nil }

func (a *countingAppender) total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

func TestEntry_Builder(t *testing.T) {
	entry := NewEntry(OpClean, StatusSuccess).
		WithPipeline("flights-prep").
		WithResource("flights").
		WithRecordsAffected(100).
		WithDuration(500 * time.Millisecond).
		WithMetadata("rows_before", 120)

	if entry.Pipeline != "flights-prep" {
		t.Errorf("Expected pipeline 'flights-prep', got '%s'", entry.Pipeline)
	}

	if entry.RecordsAffected != 100 {
		t.Errorf("Expected 100 records, got %d", entry.RecordsAffected)
	}

	if entry.Metadata["rows_before"] != 120 {
		t.Error("Expected metadata rows_before to be 120")
	}
}

func TestEntry_WithError(t *testing.T) {
	testErr := errors.New("table is empty")

	entry := NewEntry(OpLoad, StatusSuccess).WithError(testErr)

	if entry.Status != StatusFailure {
		t.Errorf("Expected StatusFailure after WithError, got %v", entry.Status)
	}

	if entry.ErrorMessage != testErr.Error() {
		t.Errorf("Expected error message '%s', got '%s'", testErr.Error(), entry.ErrorMessage)
	}
}

func TestEntry_JSON(t *testing.T) {
	entry := NewEntry(OpSplit, StatusSuccess).
		WithResource("flights").
		WithRecordsAffected(100)

	jsonData, err := entry.ToJSON()
	if err != nil {
		t.Fatalf("Failed to marshal entry: %v", err)
	}

	if !strings.Contains(string(jsonData), `"operation":"split"`) {
		t.Errorf("Expected operation in JSON, got: %s", jsonData)
	}
}

func TestFileAppender_Write(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "audit.log")

	appender, err := NewFileAppender(filePath)
	if err != nil {
		t.Fatalf("Failed to create file appender: %v", err)
	}
	defer appender.Close()

	entry := NewEntry(OpExport, StatusSuccess).
		WithResource("train_x.csv").
		WithRecordsAffected(100)

	if err := appender.Append(context.Background(), entry); err != nil {
		t.Fatalf("Failed to append entry: %v", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("Failed to read audit file: %v", err)
	}

	if !strings.Contains(string(data), `"resource":"train_x.csv"`) {
		t.Errorf("Expected entry in audit file, got: %s", data)
	}
}

func TestFileAppender_AppendAfterClose(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "audit.log")

	appender, err := NewFileAppender(filePath)
	if err != nil {
		t.Fatalf("Failed to create file appender: %v", err)
	}

	if err := appender.Close(); err != nil {
		t.Fatalf("Failed to close appender: %v", err)
	}

	err = appender.Append(context.Background(), NewEntry(OpExport, StatusSuccess))
	if err == nil {
		t.Error("Expected error when appending after close")
	}
}

func TestConsoleAppender(t *testing.T) {
	appender := NewConsoleAppender()

	entry := NewEntry(OpDerive, StatusSuccess).
		WithResource("flights").
		WithRecordsAffected(100)

	if err := appender.Append(context.Background(), entry); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if err := appender.Close(); err != nil {
		t.Errorf("Unexpected error on close: %v", err)
	}
}

func TestMultiAppender(t *testing.T) {
	tmpDir := t.TempDir()
	filePath1 := filepath.Join(tmpDir, "audit1.log")
	filePath2 := filepath.Join(tmpDir, "audit2.log")

	appender1, _ := NewFileAppender(filePath1)
	defer appender1.Close()

	appender2, _ := NewFileAppender(filePath2)
	defer appender2.Close()

	multiAppender := NewMultiAppender(appender1, appender2)

	entry := NewEntry(OpClean, StatusSuccess).
		WithResource("flights").
		WithRecordsAffected(100)

	if err := multiAppender.Append(context.Background(), entry); err != nil {
		t.Fatalf("Failed to append to multi appender: %v", err)
	}

	if _, err := os.Stat(filePath1); os.IsNotExist(err) {
		t.Error("Expected first file to exist")
	}

	if _, err := os.Stat(filePath2); os.IsNotExist(err) {
		t.Error("Expected second file to exist")
	}
}

func TestAuditLogger_Sync(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "audit.log")

	appender, _ := NewFileAppender(filePath)

	logger := NewLogger(appender, false, 0)
	defer logger.Close()

	entry := NewEntry(OpSelect, StatusSuccess).
		WithResource("flights").
		WithRecordsAffected(100)

	if err := logger.Log(context.Background(), entry); err != nil {
		t.Fatalf("Failed to log entry: %v", err)
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		t.Error("Expected audit file to exist")
	}
}

func TestAuditLogger_Async(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "audit.log")

	appender, _ := NewFileAppender(filePath)

	logger := NewLogger(appender, true, 100)

	for i := 0; i < 10; i++ {
		entry := NewEntry(OpExport, StatusSuccess).
			WithResource("flights").
			WithRecordsAffected(int64(i))

		if err := logger.Log(context.Background(), entry); err != nil {
			t.Fatalf("Failed to log entry: %v", err)
		}
	}

	// Close дожидается фоновой горутины
	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("Failed to read audit file: %v", err)
	}

	if got := strings.Count(string(data), "\n"); got != 10 {
		t.Errorf("Expected 10 entries in audit file, got %d", got)
	}
}

func TestAuditLogger_LogOperation(t *testing.T) {
	logger := NewLogger(NewConsoleAppender(), false, 0)
	defer logger.Close()

	if err := logger.LogSuccess(context.Background(), OpLoad, "flights.csv", 42); err != nil {
		t.Errorf("LogSuccess returned error: %v", err)
	}

	testErr := errors.New("test error")
	if err := logger.LogFailure(context.Background(), OpLoad, "flights.csv", testErr); err != nil {
		t.Errorf("LogFailure returned error: %v", err)
	}
}

func TestAuditLogger_ConcurrentLogClose(t *testing.T) {
	// крошечный буфер и медленный приёмник: записи конкурируют
	// с закрытием логгера
	appender := &countingAppender{delay: time.Millisecond}
	logger := NewLogger(appender, true, 1)

	logged := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			err := logger.Log(context.Background(), NewEntry(OpExport, StatusSuccess))
			if err != nil {
				// логгер закрыт — единственный допустимый отказ
				if !strings.Contains(err.Error(), "closed") {
					t.Errorf("Unexpected Log error: %v", err)
				}
				return
			}
			logged++
		}
	}()

	time.Sleep(10 * time.Millisecond)
	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}
	<-done

	// ни одна принятая запись не потеряна
	if got := appender.total(); got < logged {
		t.Errorf("Expected at least %d appended entries, got %d", logged, got)
	}
}

func TestAuditLogger_FullBufferDoesNotDrop(t *testing.T) {
	appender := &countingAppender{delay: time.Millisecond}
	logger := NewLogger(appender, true, 2)

	// записей больше, чем влезает в буфер: переполнение уходит
	// в синхронную запись, а не теряется
	const n = 20
	for i := 0; i < n; i++ {
		if err := logger.Log(context.Background(), NewEntry(OpExport, StatusSuccess)); err != nil {
			t.Fatalf("Failed to log entry %d: %v", i, err)
		}
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	if got := appender.total(); got != n {
		t.Errorf("Expected %d appended entries, got %d", n, got)
	}
}

func TestAuditLogger_FlushWaitsForWorker(t *testing.T) {
	appender := &countingAppender{delay: 2 * time.Millisecond}
	logger := NewLogger(appender, true, 100)
	defer logger.Close()

	const n = 10
	for i := 0; i < n; i++ {
		if err := logger.Log(context.Background(), NewEntry(OpExport, StatusSuccess)); err != nil {
			t.Fatalf("Failed to log entry %d: %v", i, err)
		}
	}

	if err := logger.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	// Flush возвращается только когда все записи реально записаны,
	// включая ту, что была у воркера в работе
	if got := appender.total(); got != n {
		t.Errorf("Expected %d appended entries after Flush, got %d", n, got)
	}
}

func TestAuditLogger_LogAfterClose(t *testing.T) {
	logger := NewLogger(NewConsoleAppender(), true, 10)

	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	err := logger.Log(context.Background(), NewEntry(OpExport, StatusSuccess))
	if err == nil {
		t.Error("Expected error when logging after close")
	}
}

func TestNew_Disabled(t *testing.T) {
	logger, err := New(Config{Enabled: false})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	if _, ok := logger.(*NullLogger); !ok {
		t.Errorf("Expected NullLogger for disabled config, got %T", logger)
	}
}

func TestNew_File(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "audit.log")

	logger, err := New(Config{
		Enabled:  true,
		FilePath: filePath,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	if err := logger.LogSuccess(context.Background(), OpLoad, "flights.csv", 1); err != nil {
		t.Fatalf("Failed to log entry: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		t.Error("Expected audit file to exist")
	}
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()

	if err := logger.Log(context.Background(), NewEntry(OpExport, StatusSuccess)); err != nil {
		t.Errorf("NullLogger should never return error, got: %v", err)
	}

	if err := logger.Flush(); err != nil {
		t.Errorf("NullLogger.Flush should not error, got: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("NullLogger.Close should not error, got: %v", err)
	}
}
