package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

// New dials the broker with exponential backoff, so a server starting
// alongside rabbitmq does not fail on the first refused connection.
func New(ctx context.Context, url string) (*amqp.Connection, error) {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 5 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	var conn *amqp.Connection
	operation := func() error {
		var err error
		conn, err = amqp.Dial(url)
		if err != nil {
			return fmt.Errorf("dial rabbitmq failed: %w", err)
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(exponentialBackoff, ctx)); err != nil {
		return nil, err
	}

	// Opening a channel proves the broker is actually usable, not just
	// accepting TCP connections.
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	_ = ch.Close()

	return conn, nil
}
