package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"orderly/internal/domain"
	applog "orderly/internal/log"
)

// Format renders the administrator message for a new order.
func Format(o domain.Order) string {
	size := o.Size
	if size == "" {
		size = "-"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📦 New Order #%d\n", o.ID)
	fmt.Fprintf(&b, "Type: %s\n", o.Category)
	fmt.Fprintf(&b, "Product: %s\n", o.Product)
	fmt.Fprintf(&b, "Name: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", o.Phone)
	fmt.Fprintf(&b, "Address: %s\n", o.Address)
	fmt.Fprintf(&b, "Quantity: %s\n", o.Quantity)
	fmt.Fprintf(&b, "Size: %s\n", size)
	fmt.Fprintf(&b, "Language: %s", o.Language)
	return b.String()
}

// LogNotifier writes the admin message to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, o domain.Order) error {
	applog.Info(nil, "admin.notify", map[string]any{"order_id": o.ID, "message": Format(o)})
	return nil
}

// Multi fans a notification out to every notifier, trying all of them.
type Multi []interface {
	Notify(ctx context.Context, o domain.Order) error
}

func (m Multi) Notify(ctx context.Context, o domain.Order) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Event is the payload published for each new order.
type Event struct {
	ID      string       `json:"id"`
	Type    string       `json:"type"`
	Order   domain.Order `json:"order"`
	Message string       `json:"message"`
}

// KafkaNotifier publishes new orders to a topic the admin channel consumes.
type KafkaNotifier struct {
	writer messageWriter
}

// messageWriter abstracts kafka.Writer for testability.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaNotifier creates a writer. bootstrap can be a comma-separated list of host:port.
func NewKafkaNotifier(bootstrap, topic string) *KafkaNotifier {
	var brokers []string
	for _, a := range strings.Split(bootstrap, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			brokers = append(brokers, a)
		}
	}
	return &KafkaNotifier{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}}
}

// NewKafkaNotifierWith is only for tests to inject a fake writer.
func NewKafkaNotifierWith(w messageWriter) *KafkaNotifier {
	return &KafkaNotifier{writer: w}
}

func (k *KafkaNotifier) Notify(ctx context.Context, o domain.Order) error {
	b, err := json.Marshal(Event{ID: uuid.NewString(), Type: "order.created", Order: o, Message: Format(o)})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(strconv.FormatInt(o.ID, 10)), Value: b}); err != nil {
		return fmt.Errorf("kafka publish order %d: %w", o.ID, err)
	}
	return nil
}

func (k *KafkaNotifier) Close() error { return k.writer.Close() }
