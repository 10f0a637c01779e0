package audit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Logger - интерфейс audit логгера пайплайна
type Logger interface {
	// Log - записать audit запись
	Log(ctx context.Context, entry *Entry) error

	// LogSuccess - записать успешную операцию
	LogSuccess(ctx context.Context, operation Operation, resource string, records int64) error

	// LogFailure - записать ошибку операции
	LogFailure(ctx context.Context, operation Operation, resource string, err error) error

	// Flush - дождаться записи всех накопленных записей
	Flush() error

	// Close - закрыть логгер
	Close() error
}

// Config - конфигурация audit логгера
type Config struct {
	// Enabled - включен ли audit лог
	Enabled bool `yaml:"enabled"`

	// FilePath - путь к файлу лога (пусто = только консоль)
	FilePath string `yaml:"file_path"`

	// Console - дублировать записи в stderr
	Console bool `yaml:"console"`

	// Async - асинхронная запись через буферизованный канал
	Async bool `yaml:"async"`

	// BufferSize - размер буфера для асинхронного режима
	BufferSize int `yaml:"buffer_size"`
}

// SetDefaults - установка значений по умолчанию
func (c *Config) SetDefaults() {
	if c.BufferSize <= 0 {
		c.BufferSize = 256
	}
}

// AuditLogger - реализация логгера с синхронным и асинхронным режимами
type AuditLogger struct {
	appender Appender
	async    bool

	entries chan *Entry
	stop    chan struct{}
	wg      sync.WaitGroup

	// pending считает записи, принятые в буфер, но еще не записанные
	pending sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New - создать логгер по конфигурации
func New(cfg Config) (Logger, error) {
	cfg.SetDefaults()

	if !cfg.Enabled {
		return NewNullLogger(), nil
	}

	var appenders []Appender
	if cfg.Console {
		appenders = append(appenders, NewConsoleAppender())
	}
	if cfg.FilePath != "" {
		fileAppender, err := NewFileAppender(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		appenders = append(appenders, fileAppender)
	}
	if len(appenders) == 0 {
		appenders = append(appenders, NewConsoleAppender())
	}

	return NewLogger(NewMultiAppender(appenders...), cfg.Async, cfg.BufferSize), nil
}

// NewLogger - создать логгер с готовым приёмником
func NewLogger(appender Appender, async bool, bufferSize int) *AuditLogger {
	logger := &AuditLogger{
		appender: appender,
		async:    async,
	}

	if async {
		if bufferSize <= 0 {
			bufferSize = 256
		}
		logger.entries = make(chan *Entry, bufferSize)
		logger.stop = make(chan struct{})
		logger.wg.Add(1)
		go logger.worker()
	}

	return logger
}

// worker - фоновая горутина асинхронной записи.
// Канал entries никогда не закрывается: остановка сигналится через
// stop, после чего воркер дописывает остаток буфера и выходит.
func (l *AuditLogger) worker() {
	defer l.wg.Done()

	for {
		select {
		case entry := <-l.entries:
			l.append(entry)
		case <-l.stop:
			for {
				select {
				case entry := <-l.entries:
					l.append(entry)
				default:
					return
				}
			}
		}
	}
}

// append записывает одну запись из буфера.
func (l *AuditLogger) append(entry *Entry) {
	// контекст запроса уже завершён, пишем с собственным таймаутом
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = l.appender.Append(ctx, entry)
	cancel()
	l.pending.Done()
}

// Log - записать audit запись
func (l *AuditLogger) Log(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("audit entry is nil")
	}

	if l.async {
		// проверка closed и постановка в буфер под одним мьютексом:
		// Close не может закрыть логгер между ними
		l.mu.Lock()
		if l.closed {
			l.mu.Unlock()
			return fmt.Errorf("audit logger is closed")
		}

		l.pending.Add(1)
		select {
		case l.entries <- entry:
			l.mu.Unlock()
			return nil
		default:
			// буфер заполнен — пишем синхронно, не теряя запись
			l.pending.Done()
			l.mu.Unlock()
			return l.appender.Append(ctx, entry)
		}
	}

	return l.appender.Append(ctx, entry)
}

// LogSuccess - записать успешную операцию
func (l *AuditLogger) LogSuccess(ctx context.Context, operation Operation, resource string, records int64) error {
	entry := NewEntry(operation, StatusSuccess).
		WithResource(resource).
		WithRecordsAffected(records)
	return l.Log(ctx, entry)
}

// LogFailure - записать ошибку операции
func (l *AuditLogger) LogFailure(ctx context.Context, operation Operation, resource string, err error) error {
	entry := NewEntry(operation, StatusFailure).
		WithResource(resource).
		WithError(err)
	return l.Log(ctx, entry)
}

// Flush - дождаться записи всех принятых в буфер записей,
// включая ту, что воркер пишет прямо сейчас
func (l *AuditLogger) Flush() error {
	if !l.async {
		return nil
	}

	l.pending.Wait()
	return nil
}

// Close - закрыть логгер и приёмники
func (l *AuditLogger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	if l.async {
		close(l.stop)
		l.wg.Wait()
	}

	return l.appender.Close()
}

// NullLogger - логгер-заглушка, отбрасывающий все записи
type NullLogger struct{}

// NewNullLogger - создать логгер-заглушку
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Log(ctx context.Context, entry *Entry) error {
	return nil
}

func (l *NullLogger) LogSuccess(ctx context.Context, operation Operation, resource string, records int64) error {
	return nil
}

func (l *NullLogger) LogFailure(ctx context.Context, operation Operation, resource string, err error) error {
	return nil
}

func (l *NullLogger) Flush() error {
	return nil
}

func (l *NullLogger) Close() error {
	return nil
}
