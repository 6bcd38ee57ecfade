package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// StartConsumer drains booking events into an append-only audit file,
// one line per booking.  It runs until the delivery channel closes.
func StartConsumer(q *Queue, log *logrus.Logger, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	deliveries, err := q.Consume()
	if err != nil {
		return err
	}

	go func() {
		for d := range deliveries {
			var evt BookingCreatedEvent
			if err := json.Unmarshal(d.Body, &evt); err != nil {
				log.WithError(err).Warn("booking consumer: bad event payload")
				d.Nack(false, false)
				continue
			}
			line := fmt.Sprintf("%s booking=%s flight=%s seats=%s passengers=%d\n",
				evt.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
				evt.BookingID, evt.FlightID, strings.Join(evt.Seats, ","), evt.PassengerCount)
			if err := appendLine(path, line); err != nil {
				log.WithError(err).Warn("booking consumer: write audit line")
				d.Nack(false, true)
				continue
			}
			d.Ack(false)
		}
		log.Info("booking consumer stopped")
	}()
	return nil
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line)
	return err
}
