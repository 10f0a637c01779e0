package retry

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config - конфигурация retry для публикации результатов.
type Config struct {
	// Enabled - включен ли retry (false = одна попытка)
	Enabled bool `yaml:"enabled"`

	// MaxAttempts - максимальное количество попыток (включая первую)
	MaxAttempts int `yaml:"max_attempts"`

	// InitialDelay - задержка перед второй попыткой
	InitialDelay time.Duration `yaml:"initial_delay"`

	// MaxDelay - верхняя граница задержки
	MaxDelay time.Duration `yaml:"max_delay"`

	// Multiplier - множитель экспоненциального backoff
	Multiplier float64 `yaml:"multiplier"`

	// Jitter - доля случайного разброса задержки, [0, 1]
	Jitter float64 `yaml:"jitter"`
}

// UnmarshalYAML разбирает задержки из строк вида "500ms", "30s".
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Enabled      bool    `yaml:"enabled"`
		MaxAttempts  int     `yaml:"max_attempts"`
		InitialDelay string  `yaml:"initial_delay"`
		MaxDelay     string  `yaml:"max_delay"`
		Multiplier   float64 `yaml:"multiplier"`
		Jitter       float64 `yaml:"jitter"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.Enabled = raw.Enabled
	c.MaxAttempts = raw.MaxAttempts
	c.Multiplier = raw.Multiplier
	c.Jitter = raw.Jitter

	if raw.InitialDelay != "" {
		d, err := time.ParseDuration(raw.InitialDelay)
		if err != nil {
			return fmt.Errorf("retry: invalid initial_delay: %w", err)
		}
		c.InitialDelay = d
	}
	if raw.MaxDelay != "" {
		d, err := time.ParseDuration(raw.MaxDelay)
		if err != nil {
			return fmt.Errorf("retry: invalid max_delay: %w", err)
		}
		c.MaxDelay = d
	}
	return nil
}

// SetDefaults - установка значений по умолчанию.
func (c *Config) SetDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 500 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
}

// Validate проверяет корректность конфигурации.
func (c *Config) Validate() error {
	if c.Jitter < 0 || c.Jitter > 1 {
		return fmt.Errorf("retry: jitter must be in [0, 1], got %v", c.Jitter)
	}
	if c.MaxDelay < c.InitialDelay {
		return fmt.Errorf("retry: max_delay must be >= initial_delay")
	}
	return nil
}
