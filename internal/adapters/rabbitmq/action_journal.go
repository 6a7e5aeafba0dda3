package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"six-cities/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultJournalBuffer = 256
	publishTimeout       = 10 * time.Second
)

// publisher - часть rabbitmq_producer.Publisher, нужная журналу.
type publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// ActionJournalPublisher публикует журнал действий в topic-обменник.
// Record кладёт запись в буфер и сразу возвращается; публикует фоновый воркер.
// Если буфер полон, запись отбрасывается.
type ActionJournalPublisher struct {
	producer publisher
	logger   port.LoggerPort

	entries   chan port.JournalEntry
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

var _ port.ActionJournalPort = (*ActionJournalPublisher)(nil)

func NewActionJournalPublisher(producer publisher, logger port.LoggerPort, bufferSize int) (*ActionJournalPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if bufferSize <= 0 {
		bufferSize = defaultJournalBuffer
	}

	j := &ActionJournalPublisher{
		producer: producer,
		logger:   logger.WithFields(port.Fields{"component": "ActionJournalPublisher"}),
		entries:  make(chan port.JournalEntry, bufferSize),
		done:     make(chan struct{}),
	}
	go j.run()
	return j, nil
}

func (j *ActionJournalPublisher) Record(entry port.JournalEntry) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return
	}

	select {
	case j.entries <- entry:
	default:
		j.logger.Warn("Action journal buffer is full, entry dropped", port.Fields{"action": entry.Type})
	}
}

func (j *ActionJournalPublisher) run() {
	defer close(j.done)
	for entry := range j.entries {
		if err := j.publish(entry); err != nil {
			j.logger.Error("Failed to publish journal entry", err, port.Fields{"action": entry.Type})
		}
	}
}

func (j *ActionJournalPublisher) publish(entry port.JournalEntry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    entry.At,
		Headers:      amqp.Table{"x-session-id": entry.SessionID},
	}
	if entry.RequestID != "" {
		msg.Headers["x-request-id"] = entry.RequestID
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return j.producer.Publish(ctx, RoutingKey(entry.Type), msg)
}

// RoutingKey превращает "offers/fetchOffers/pending" в "offers.fetchOffers.pending".
func RoutingKey(actionType string) string {
	return strings.ReplaceAll(actionType, "/", ".")
}

// Close перестаёт принимать записи и ждёт, пока воркер опубликует буфер.
func (j *ActionJournalPublisher) Close(ctx context.Context) error {
	j.closeOnce.Do(func() {
		j.mu.Lock()
		j.closed = true
		close(j.entries)
		j.mu.Unlock()
	})

	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("action journal: %w", ctx.Err())
	}
}
