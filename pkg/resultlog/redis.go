package resultlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config - конфигурация публикации результата запуска в Redis.
type Config struct {
	// Enabled - публиковать ли результат
	Enabled bool `yaml:"enabled"`

	// Address - адрес Redis (host:port)
	Address string `yaml:"address"`

	// Password - пароль (пусто = без авторизации)
	Password string `yaml:"password"`

	// DB - номер базы Redis
	DB int `yaml:"db"`

	// TTL - время жизни ключа состояния в секундах
	TTL int `yaml:"ttl"`
}

// SetDefaults - установка значений по умолчанию.
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = "localhost:6379"
	}
	if c.TTL <= 0 {
		c.TTL = 24 * 60 * 60
	}
}

// RunResult представляет состояние запуска пайплайна, публикуемое в Redis
// после завершения выполнения (успешного или с ошибкой).
//
// Redis-ключи:
//
//	SET  flightprep:pipeline:<name>:state  <JSON>  EX <ttl>  — для GET-запросов оркестратора
//	PUB  flightprep:pipeline:<name>                          — для event-driven маршрутизации
type RunResult struct {
	PipelineName string    `json:"pipeline_name"`
	Status       string    `json:"status"` // "success" | "failed"
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	DurationMs   int64     `json:"duration_ms"`

	RowsLoaded  int `json:"rows_loaded"`
	RowsCleaned int `json:"rows_cleaned"`
	RowsTrain   int `json:"rows_train"`
	RowsTest    int `json:"rows_test"`

	// Checksums - xxh3 хеши экспортированных файлов по имени подвыборки
	Checksums map[string]string `json:"checksums,omitempty"`

	Error *string `json:"error,omitempty"`
}

// Marshal сериализует результат в JSON.
func (r RunResult) Marshal() ([]byte, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return payload, nil
}

// RedisPublisher публикует результат запуска пайплайна в Redis.
type RedisPublisher struct {
	client *redis.Client
	config Config
}

// NewRedisPublisher создает новый Redis publisher на основе конфигурации.
func NewRedisPublisher(config Config) *RedisPublisher {
	config.SetDefaults()
	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
	})
	return &RedisPublisher{client: client, config: config}
}

// Publish публикует результат запуска:
//   - SET flightprep:pipeline:<name>:state <JSON> EX <ttl>  → для опроса (polling)
//   - PUBLISH flightprep:pipeline:<name> <JSON>             → для подписки (pub/sub)
//
// Вызывается независимо от результата выполнения (success или failed).
func (p *RedisPublisher) Publish(ctx context.Context, result RunResult) error {
	payload, err := result.Marshal()
	if err != nil {
		return err
	}

	stateKey := fmt.Sprintf("flightprep:pipeline:%s:state", result.PipelineName)
	eventChannel := fmt.Sprintf("flightprep:pipeline:%s", result.PipelineName)
	ttl := time.Duration(p.config.TTL) * time.Second

	// SET ключ с TTL — оркестратор может GET для получения последнего состояния
	if err := p.client.Set(ctx, stateKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}

	// PUBLISH событие — оркестратор может SUBSCRIBE для event-driven маршрутизации
	if err := p.client.Publish(ctx, eventChannel, payload).Err(); err != nil {
		return fmt.Errorf("redis PUBLISH failed: %w", err)
	}

	return nil
}

// Close закрывает соединение с Redis.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
