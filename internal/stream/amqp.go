package stream

import (
	"context"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"github.com/zero-coolio/ofc/internal/log"
)

// amqpSource consumes pushed records from a RabbitMQ queue bound to a
// direct exchange, one record per message.
type amqpSource struct {
	cfg    Config
	logger *log.Logger
}

func (s *amqpSource) Run(ctx context.Context, handle Handler) error {
	conn, err := amqp091.Dial(s.cfg.AMQPURL)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer channel.Close()

	if err := s.setup(channel); err != nil {
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	deliveries, err := channel.Consume(
		s.cfg.Queue, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	s.logger.Info("consuming pushed records",
		log.FieldQueue, s.cfg.Queue, log.FieldExchange, s.cfg.Exchange)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			rec, decoded := decodeFrame(delivery.Body)
			if !decoded {
				s.logger.Warn("dropping undecodable message", log.FieldQueue, s.cfg.Queue)
				delivery.Nack(false, false) // reject, don't requeue
				continue
			}
			handle(rec)
			delivery.Ack(false)
		}
	}
}

func (s *amqpSource) setup(channel *amqp091.Channel) error {
	err := channel.ExchangeDeclare(
		s.cfg.Exchange, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		s.cfg.Queue, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = channel.QueueBind(
		s.cfg.Queue,    // queue name
		s.cfg.Queue,    // routing key (same as queue name for direct exchange)
		s.cfg.Exchange, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}
