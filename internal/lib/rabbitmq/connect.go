package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// ExchangeKind тип обменника bms.events: события маршрутизируются по шаблону agreement.*.
const ExchangeKind = amqp.ExchangeTopic

// dial подменяется в тестах.
var dial = amqp.Dial

// Connect подключается к брокеру событий по договорам.
// Делается не больше attempts попыток с паузой pause, ошибка последней попытки возвращается.
func Connect(url string, attempts int, pause time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"

	attempts = max(attempts, 1)
	var lastErr error
	for i := 1; i <= attempts; i++ {
		conn, err := dial(url)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if i < attempts {
			time.Sleep(pause)
		}
	}
	return nil, fmt.Errorf("%s: broker unreachable after %d attempts: %w", op, attempts, lastErr)
}

// declarer часть amqp.Channel, нужная для объявления топологии.
type declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// DeclareAgreementTopology объявляет долговечный обменник событий по договорам
// и привязывает к нему очереди подписчиков.
func DeclareAgreementTopology(ch declarer, exchange string, queues []QueueConfig) error {
	const op = "rabbitmq.DeclareAgreementTopology"

	if err := ch.ExchangeDeclare(exchange, ExchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("%s: exchange %s: %w", op, exchange, err)
	}
	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("%s: queue %s: %w", op, q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, exchange, false, nil); err != nil {
			return fmt.Errorf("%s: bind %s to %s by %s: %w", op, q.QueueName, exchange, q.RoutingKey, err)
		}
	}
	return nil
}
