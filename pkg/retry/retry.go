// Package retry выполняет повторные попытки сетевых операций
// (публикация в Redis и Kafka) с экспоненциальным backoff.
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// RetryableFunc - функция, которую можно выполнять повторно.
type RetryableFunc func(ctx context.Context) error

// Retryer выполняет функцию с повторными попытками.
type Retryer struct {
	config Config
}

// NewRetryer создает Retryer по конфигурации.
func NewRetryer(config Config) (*Retryer, error) {
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Retryer{config: config}, nil
}

// Do выполняет функцию, повторяя ее при ошибке до MaxAttempts раз.
// Отмена контекста прерывает и ожидание задержки, и цикл попыток.
func (r *Retryer) Do(ctx context.Context, fn RetryableFunc) error {
	if !r.config.Enabled {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := fn(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt >= r.config.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", r.config.MaxAttempts, lastErr)
		}
		if ctx.Err() != nil {
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		}

		select {
		case <-time.After(r.delay(attempt)):
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}
}

// delay вычисляет задержку перед следующей попыткой.
func (r *Retryer) delay(attempt int) time.Duration {
	backoff := float64(r.config.InitialDelay) * math.Pow(r.config.Multiplier, float64(attempt-1))
	if backoff > float64(r.config.MaxDelay) {
		backoff = float64(r.config.MaxDelay)
	}

	if r.config.Jitter > 0 {
		// случайный разброс в пределах ±jitter от вычисленной задержки
		spread := backoff * r.config.Jitter
		backoff = backoff - spread + rand.Float64()*2*spread
	}

	return time.Duration(backoff)
}
