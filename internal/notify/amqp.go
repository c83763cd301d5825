package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	retryDelay      = 5 * time.Second
	maxConnectRetry = 5
)

func connectToRabbitMQ(url string) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	for i := 0; i < maxConnectRetry; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			slog.Info("connected to rabbitmq")
			return conn, nil
		}
		slog.Warn("failed to connect to rabbitmq", "attempt", i+1, "max_attempts", maxConnectRetry, "error", err)
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("failed to connect after %d attempts: %w", maxConnectRetry, err)
}

// AMQPNotifier publishes summaries to a fanout exchange; every bound queue
// gets a copy. Alternative to SNS for self-hosted deployments.
type AMQPNotifier struct {
	connLock sync.RWMutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	url      string
	exchange string
}

var _ Notifier = (*AMQPNotifier)(nil)

func NewAMQPNotifier(url, exchange string) (*AMQPNotifier, error) {
	n := &AMQPNotifier{url: url, exchange: exchange}
	if err := n.connect(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *AMQPNotifier) connect() error {
	var err error
	n.conn, err = connectToRabbitMQ(n.url)
	if err != nil {
		return err
	}

	n.channel, err = n.conn.Channel()
	if err != nil {
		n.conn.Close()
		slog.Error("failed to open rabbitmq channel", "error", err)
		return fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	if err := n.channel.ExchangeDeclare(n.exchange, "fanout", true, false, false, false, nil); err != nil {
		n.conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", n.exchange, err)
	}

	slog.Info("rabbitmq channel opened and exchange declared", "exchange", n.exchange)

	go n.handleReconnect()

	return nil
}

func (n *AMQPNotifier) handleReconnect() {
	notifyClose := make(chan *amqp.Error)
	n.channel.NotifyClose(notifyClose)

	err, ok := <-notifyClose
	if !ok { // channel is just closed on graceful close
		return
	}

	slog.Warn("rabbitmq connection closed, attempting to reconnect", "error", err)

	n.connLock.Lock()
	defer n.connLock.Unlock()

	n.channel = nil
	n.conn = nil
	for {
		if n.connect() == nil {
			slog.Info("successfully reconnected to rabbitmq")
			return
		}
		time.Sleep(retryDelay * 10)
	}
}

func (n *AMQPNotifier) Publish(ctx context.Context, subject, message string) error {
	n.connLock.RLock()
	defer n.connLock.RUnlock()

	if n.channel == nil || n.channel.IsClosed() {
		return fmt.Errorf("rabbitmq connection is closed: %w", ErrDeliveryFailed)
	}

	err := n.channel.PublishWithContext(ctx,
		n.exchange,
		"",    // routing key (ignored by fanout)
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "text/plain",
			DeliveryMode: amqp.Persistent,
			Headers:      amqp.Table{"subject": subject},
			Body:         []byte(message),
		})
	if err != nil {
		slog.Error("failed to publish summary, potential connection issue", "exchange", n.exchange, "error", err)
		return fmt.Errorf("failed to publish to exchange %s: %w: %w", n.exchange, ErrDeliveryFailed, err)
	}

	slog.Info("summary published", "exchange", n.exchange, "subject", subject)
	return nil
}

func (n *AMQPNotifier) Close() {
	n.connLock.Lock()
	defer n.connLock.Unlock()
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}
