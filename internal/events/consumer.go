package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/fjod/go_food/internal/domain"
	"github.com/segmentio/kafka-go"
)

// EventRecorder persists consumed events.
type EventRecorder interface {
	RecordEvent(ctx context.Context, e domain.OrderEvent) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer commits an offset only after its event is recorded, so a failed
// write is retried instead of dropped.
type Consumer struct {
	recorder      EventRecorder
	reader        messageReader
	retryDelay    time.Duration
	maxRetryDelay time.Duration
}

func NewConsumer(recorder EventRecorder, topic, groupID string, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return newConsumer(recorder, reader)
}

func newConsumer(recorder EventRecorder, reader messageReader) *Consumer {
	return &Consumer{
		recorder:      recorder,
		reader:        reader,
		retryDelay:    time.Second,
		maxRetryDelay: 30 * time.Second,
	}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.FetchMessage(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Printf("error reading message: %v", err)
		sleep(ctx, c.retryDelay)
		return
	}

	event, err := decodeEvent(m)
	if err != nil {
		// unreadable messages are committed and skipped
		log.Printf("error parsing message at offset %d: %v", m.Offset, err)
		c.commit(ctx, m)
		return
	}

	if !c.record(ctx, event) {
		return
	}
	c.commit(ctx, m)
	log.Printf("recorded %s for order %s", event.Type, event.OrderID)
}

// record retries with exponential backoff until the write succeeds or ctx ends.
func (c *Consumer) record(ctx context.Context, event domain.OrderEvent) bool {
	delay := c.retryDelay
	for {
		err := c.recorder.RecordEvent(ctx, event)
		if err == nil {
			return true
		}
		log.Printf("failed to record %s for order %s, retrying in %s: %v", event.Type, event.OrderID, delay, err)
		if !sleep(ctx, delay) {
			return false
		}
		delay = min(delay*2, c.maxRetryDelay)
	}
}

func (c *Consumer) commit(ctx context.Context, m kafka.Message) {
	if err := c.reader.CommitMessages(ctx, m); err != nil {
		log.Printf("failed to commit offset %d: %v", m.Offset, err)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

var errMissingOrderID = errors.New("missing order_id")

func decodeEvent(m kafka.Message) (domain.OrderEvent, error) {
	var event domain.OrderEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		return event, err
	}
	if event.OrderID == "" {
		return event, errMissingOrderID
	}
	if event.Type == "" {
		for _, h := range m.Headers {
			if h.Key == "event_type" {
				event.Type = domain.OrderEventType(h.Value)
			}
		}
	}
	return event, nil
}
