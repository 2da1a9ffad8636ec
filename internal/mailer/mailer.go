// Package mailer renders and sends booking confirmation emails. It
// implements queue.Notifier for the notification worker. When SMTP is not
// configured the worker falls back to logging the notification, so a
// missing mail server never blocks event consumption.
package mailer

import (
	"crypto/tls"
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/hardeep74644/Library-Room-Booking-App/internal/queue"
)

// SMTPMailer sends booking emails through an SMTP relay.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewFromEnv builds a queue.Notifier from SMTP_* environment variables.
// When SMTP_HOST is unset it returns a ConsoleMailer instead.
func NewFromEnv() queue.Notifier {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Printf("mailer: SMTP_HOST not set, logging notifications to console")
		return &ConsoleMailer{}
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return &SMTPMailer{
		host: host,
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: os.Getenv("SMTP_FROM"),
	}
}

// BookingConfirmed emails the student that their room is booked.
func (m *SMTPMailer) BookingConfirmed(ev queue.BookingEvent) error {
	subject := fmt.Sprintf("Room %s booked for %s", ev.RoomNumber, ev.Date)
	body := fmt.Sprintf(`
    <h2>Booking Confirmed</h2>
    <p>Hi %s,</p>
    <p>Your study room reservation is confirmed:</p>
    <ul>
        <li>Room: <strong>%s</strong></li>
        <li>Date: <strong>%s</strong></li>
        <li>Time: <strong>%s &ndash; %s</strong></li>
    </ul>
    <p>Please arrive on time. You can cancel from your dashboard if your plans change.</p>
    `, ev.UserName, ev.RoomNumber, ev.Date, ev.StartTime, ev.EndTime)
	return m.send(ev.UserEmail, subject, body)
}

// BookingCancelled emails the student that their booking was cancelled.
func (m *SMTPMailer) BookingCancelled(ev queue.BookingEvent) error {
	subject := fmt.Sprintf("Booking for room %s cancelled", ev.RoomNumber)
	body := fmt.Sprintf(`
    <h2>Booking Cancelled</h2>
    <p>Hi %s,</p>
    <p>Your reservation for room <strong>%s</strong> on <strong>%s</strong>
    (%s &ndash; %s) has been cancelled. The slot is free for other students again.</p>
    `, ev.UserName, ev.RoomNumber, ev.Date, ev.StartTime, ev.EndTime)
	return m.send(ev.UserEmail, subject, body)
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	d.TLSConfig = &tls.Config{ServerName: m.host}
	return d.DialAndSend(msg)
}

// ConsoleMailer logs notifications instead of sending email. Used in
// development and whenever SMTP is not configured.
type ConsoleMailer struct{}

func (c *ConsoleMailer) BookingConfirmed(ev queue.BookingEvent) error {
	log.Printf("[notify] booking confirmed | to=%s room=%s date=%s %s-%s",
		ev.UserEmail, ev.RoomNumber, ev.Date, ev.StartTime, ev.EndTime)
	return nil
}

func (c *ConsoleMailer) BookingCancelled(ev queue.BookingEvent) error {
	log.Printf("[notify] booking cancelled | to=%s room=%s date=%s %s-%s",
		ev.UserEmail, ev.RoomNumber, ev.Date, ev.StartTime, ev.EndTime)
	return nil
}
