// Package mailqueue is the outgoing-mail outbox: registration publishes
// rendered emails to a durable RabbitMQ queue and a consumer delivers
// them over SMTP. Delivery stays invisible to the HTTP caller.
package mailqueue

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

const queueName = "mail_queue"

// EmailMessage is the wire format placed on the queue.
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewClient connects to RabbitMQ and declares the mail queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Durable so queued emails survive a broker restart.
	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", queueName, err)
	}

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing mail queue client: %v", errs)
	}
	return nil
}

// PublishEmail places a message on the mail queue.
func (c *Client) PublishEmail(msg EmailMessage) error {
	if c.channel == nil {
		return fmt.Errorf("mail queue channel is not available")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal email message: %w", err)
	}

	err = c.channel.Publish(
		"",        // exchange: default
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish email message: %w", err)
	}
	return nil
}

// ConsumeEmails blocks, delivering each queued message to handler.
// A handler error nacks the message without requeueing; there are no
// retries in this design.
func (c *Client) ConsumeEmails(handler func(msg EmailMessage) error) error {
	deliveries, err := c.channel.Consume(
		queueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", queueName, err)
	}

	for d := range deliveries {
		handleDelivery(d, handler)
	}
	return nil
}

// handleDelivery dispatches one message and settles it with the broker.
// Settlement failures mean the channel is gone; the message will be
// redelivered once the consumer reconnects, so they are only logged.
func handleDelivery(d amqp.Delivery, handler func(msg EmailMessage) error) {
	var msg EmailMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Printf("Discarding malformed mail message: %v", err)
		if err := d.Nack(false, false); err != nil {
			log.Printf("Failed to nack mail message: %v", err)
		}
		return
	}
	if err := handler(msg); err != nil {
		log.Printf("Failed to deliver email to %s: %v", msg.To, err)
		if err := d.Nack(false, false); err != nil {
			log.Printf("Failed to nack mail message: %v", err)
		}
		return
	}
	if err := d.Ack(false); err != nil {
		log.Printf("Failed to ack mail message: %v", err)
	}
}
