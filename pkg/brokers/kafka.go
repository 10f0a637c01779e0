// File: pkg/brokers/kafka.go

package brokers

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaNotifier публикует уведомления о завершении пайплайна в Kafka.
type KafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier создает producer для топика уведомлений.
func NewKafkaNotifier(config Config) *KafkaNotifier {
	config.SetDefaults()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		WriteTimeout: 10 * time.Second,
	}

	return &KafkaNotifier{writer: writer}
}

// Notify отправляет сообщение в топик.
// Ключ сообщения = имя пайплайна, чтобы события одного пайплайна
// попадали в одну партицию и сохраняли порядок.
func (n *KafkaNotifier) Notify(ctx context.Context, key string, payload []byte) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now(),
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write kafka message: %w", err)
	}
	return nil
}

// Close закрывает producer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
