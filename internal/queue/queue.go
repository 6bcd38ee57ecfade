// Package queue wraps the RabbitMQ connection used for booking events.
// Publishing is fire-and-forget: a booking succeeds even when the event
// cannot be delivered.
package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Queue holds an open connection and channel with the booking queue
// declared.
type Queue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Connect dials RabbitMQ and declares the booking queue as durable.
func Connect(url string) (*Queue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Queue{conn: conn, ch: ch}, nil
}

// Publish sends one event to the booking queue as persistent JSON.
func (q *Queue) Publish(ctx context.Context, evt BookingCreatedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return q.ch.PublishWithContext(ctx, "", QueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Consume returns the delivery stream for the booking queue.
func (q *Queue) Consume() (<-chan amqp.Delivery, error) {
	return q.ch.Consume(QueueName, "", false, false, false, false, nil)
}

// Close tears down the channel and connection.
func (q *Queue) Close() {
	if q.ch != nil {
		q.ch.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
}
