package events

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
)

const Exchange = "lms.events"

// Routing keys published on the topic exchange.
const (
	UserRegisteredKey = "user.registered"
	CourseEnrolledKey = "course.enrolled"
	TestSubmittedKey  = "test.submitted"
	MessageSentKey    = "message.sent"
)

// Publisher wraps a topic exchange. Delivery of the events (OTP mail,
// notifications) is handled by workers outside this service.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *Publisher) Publish(routingKey string, payload interface{}) error {
	event := map[string]interface{}{
		"type":    routingKey,
		"payload": payload,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.channel.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
