package audit

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// Appender - интерфейс приёмника audit записей
type Appender interface {
	// Append - записать audit запись
	Append(ctx context.Context, entry *Entry) error

	// Close - закрыть приёмник
	Close() error
}

// ConsoleAppender - вывод audit записей в stderr
type ConsoleAppender struct {
	mu sync.Mutex
}

// NewConsoleAppender - создать консольный приёмник
func NewConsoleAppender() *ConsoleAppender {
	return &ConsoleAppender{}
}

// Append - вывести запись в stderr
func (a *ConsoleAppender) Append(ctx context.Context, entry *Entry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, err := fmt.Fprintln(os.Stderr, entry.String())
	return err
}

// Close - ничего не делает для консоли
func (a *ConsoleAppender) Close() error {
	return nil
}

// MultiAppender - запись в несколько приёмников одновременно
type MultiAppender struct {
	appenders []Appender
}

// NewMultiAppender - создать мульти-приёмник
func NewMultiAppender(appenders ...Appender) *MultiAppender {
	return &MultiAppender{appenders: appenders}
}

// Append - записать во все приёмники
func (m *MultiAppender) Append(ctx context.Context, entry *Entry) error {
	var firstErr error
	for _, appender := range m.appenders {
		if err := appender.Append(ctx, entry); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close - закрыть все приёмники
func (m *MultiAppender) Close() error {
	var firstErr error
	for _, appender := range m.appenders {
		if err := appender.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
