// Package rabbitmq публикует события жизненного цикла договоров в RabbitMQ.
package rabbitmq

import "time"

// Ключи маршрутизации событий по договорам.
const (
	RoutingAgreementChecked    = "agreement.checked"
	RoutingAgreementRejected   = "agreement.rejected"
	RoutingAgreementTerminated = "agreement.terminated"
)

// QueueConfig очередь и ключ, по которому она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// AgreementQueues очереди, которые объявляет сервис при старте.
func AgreementQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "bms.agreement.events", RoutingKey: "agreement.*"},
	}
}

// AgreementEvent сообщение о смене статуса договора.
type AgreementEvent struct {
	AgreementID string    `json:"agreementId"`
	UserEmail   string    `json:"userEmail"`
	ApartmentID string    `json:"apartmentId"`
	Status      string    `json:"status"`
	Partial     bool      `json:"partial"`
	ActedBy     string    `json:"actedBy"`
	OccurredAt  time.Time `json:"occurredAt"`
}
