//go:build integration

package infra

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange = "task.events"
	EventsQueue    = "it.task.events"
	EventsBinding  = "user.*"
)

// EnsureRabbitTopology declares the exchange, queue and binding once.
// Tests only consume; redeclaring with other arguments fails with 406.
func EnsureRabbitTopology(ctx context.Context, rabbitURL string) error {
	conn, err := amqp.DialConfig(rabbitURL, amqp.Config{})
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := ctx.Err(); err != nil {
		return err
	}
	return BindQueue(conn, EventsExchange, EventsQueue, EventsBinding)
}
