package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Notifier receives decoded booking events from the consumer. The mailer
// package provides the SMTP implementation; tests can plug in anything.
type Notifier interface {
	BookingConfirmed(ev BookingEvent) error
	BookingCancelled(ev BookingEvent) error
}

// StartNotificationConsumer connects to RabbitMQ, declares both booking
// queues (durable) and consumes them, handing each decoded event to n. It
// runs a reconnect loop with exponential backoff and never returns under
// normal operation; processing errors are logged and the offending message
// rejected without requeue to avoid tight redelivery loops.
func StartNotificationConsumer(n Notifier) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("notifier: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, n); err != nil {
			log.Printf("notifier: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, n Notifier) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("notifier: set QoS failed: %v", err)
	}

	for _, q := range []string{BookingConfirmedQueue, BookingCancelledQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
	}

	confirmed, err := ch.Consume(BookingConfirmedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", BookingConfirmedQueue, err)
	}
	cancelled, err := ch.Consume(BookingCancelledQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", BookingCancelledQueue, err)
	}

	for {
		select {
		case d, ok := <-confirmed:
			if !ok {
				return errors.New("confirmed deliveries channel closed")
			}
			handleDelivery(d, n.BookingConfirmed)
		case d, ok := <-cancelled:
			if !ok {
				return errors.New("cancelled deliveries channel closed")
			}
			handleDelivery(d, n.BookingCancelled)
		}
	}
}

func handleDelivery(d amqp.Delivery, notify func(BookingEvent) error) {
	var ev BookingEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		log.Printf("notifier: unmarshal event failed: %v", err)
		_ = d.Nack(false, false)
		return
	}
	if err := notify(ev); err != nil {
		log.Printf("notifier: handling event %s failed: %v", ev.EventID, err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}
