package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// KafkaDispatcher публикует события о записях в топик Kafka.
// Ключ сообщения идентификатор записи, поэтому события одной записи попадают в одну партицию.
type KafkaDispatcher struct {
	writer messageWriter
	topic  string
}

// NewKafkaDispatcher создает диспетчер поверх kafka.Writer
func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})
	return &KafkaDispatcher{writer: writer, topic: topic}
}

// Dispatch отправляет событие
func (d *KafkaDispatcher) Dispatch(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AppointmentID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := d.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: topic=%s appointment=%d: %v", ErrPublish, d.topic, event.AppointmentID, err)
	}
	return nil
}

// Close закрывает writer
func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}

