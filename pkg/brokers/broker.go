// Package brokers содержит публикацию уведомлений о завершении
// пайплайна во внешние очереди сообщений.
package brokers

import "context"

// Notifier - интерфейс публикации уведомлений о запуске пайплайна.
type Notifier interface {
	// Notify отправляет сообщение с ключом (имя пайплайна) и JSON телом.
	Notify(ctx context.Context, key string, payload []byte) error

	// Close закрывает соединение с брокером.
	Close() error
}

// Config - конфигурация уведомлений.
type Config struct {
	// Enabled - отправлять ли уведомления
	Enabled bool `yaml:"enabled"`

	// Brokers - адреса брокеров Kafka
	Brokers []string `yaml:"brokers"`

	// Topic - топик для уведомлений
	Topic string `yaml:"topic"`
}

// SetDefaults - установка значений по умолчанию.
func (c *Config) SetDefaults() {
	if len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	if c.Topic == "" {
		c.Topic = "flightprep.runs"
	}
}
