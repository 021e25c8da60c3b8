package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Deliverer renders and sends a single email. Satisfied by
// *email.SMTPMailer.
type Deliverer interface {
	SendResetEmail(ctx context.Context, toEmail, toName, resetLink string) error
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
}

// StartMailConsumer connects to RabbitMQ, declares the durable
// mail.outbound queue and delivers each job through the given
// Deliverer. It runs a reconnect loop with exponential backoff and
// never returns under normal operation; failed jobs are rejected
// without requeue so a poison message cannot wedge the worker.
func StartMailConsumer(deliver Deliverer) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("mail-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(conn, deliver)
		_ = conn.Close()
		if err != nil {
			log.Printf("mail-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, deliver Deliverer) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		log.Printf("mail-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(mailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(mailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, deliver); err != nil {
			log.Printf("mail-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, deliver Deliverer) error {
	var job MailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch job.Kind {
	case MailKindPasswordReset:
		return deliver.SendResetEmail(ctx, job.ToEmail, job.ToName, job.ResetLink)
	case MailKindWelcome:
		return deliver.SendWelcomeEmail(ctx, job.ToEmail, job.ToName)
	default:
		return fmt.Errorf("unknown mail kind %q", job.Kind)
	}
}
