// Package service holds thin orchestration helpers between handlers and
// infrastructure.
package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skylane/flight-seat-booking/internal/queue"
)

// BookingPublisher publishes booking events without letting broker
// trouble affect the request path.  A nil publisher is valid and drops
// events silently, so the server runs without RabbitMQ configured.
type BookingPublisher struct {
	Q   *queue.Queue
	Log *logrus.Logger
}

// PublishBookingCreated sends the event asynchronously.  Errors are
// logged, never returned; the booking is already persisted by the time
// this runs.
func (p *BookingPublisher) PublishBookingCreated(evt queue.BookingCreatedEvent) {
	if p == nil || p.Q == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Q.Publish(ctx, evt); err != nil {
			p.Log.WithError(err).WithField("booking_id", evt.BookingID).Warn("publish booking event")
		}
	}()
}
