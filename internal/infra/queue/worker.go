package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// CRMClient receives leads that already reached the notification channel.
type CRMClient interface {
	SyncLead(ctx context.Context, payload LeadPayload) error
}

// Acknowledger is the part of amqp.Delivery the worker settles.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type Worker struct {
	Channel *amqp.Channel
	CRM     CRMClient
}

func NewWorker(ch *amqp.Channel, crm CRMClient) *Worker {
	return &Worker{
		Channel: ch,
		CRM:     crm,
	}
}

// Start consumes queueName until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer on %s: %w", queueName, err)
	}

	log.Printf(" [*] CRM worker waiting on '%s'", queueName)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ CRM worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer channel for %s closed", queueName)
			}
			w.Handle(ctx, d.Body, &d)
		}
	}
}

// Handle settles one delivery. Malformed bodies and CRM failures go to the DLQ
// without requeue; the lead itself was already delivered to the chat.
func (w *Worker) Handle(ctx context.Context, body []byte, ack Acknowledger) {
	log.Printf("📥 [WORKER] CRM sync message received")

	var payload LeadPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("❌ [WORKER] Invalid JSON: %s", err)
		ack.Nack(false, false)
		return
	}

	if err := w.CRM.SyncLead(ctx, payload); err != nil {
		log.Printf("❌ [WORKER] CRM sync failed for lead %s: %s", payload.LeadID, err)
		ack.Nack(false, false)
		return
	}

	log.Printf("✅ [WORKER] Lead %s synced to CRM (%s)", payload.LeadID, payload.Source)
	ack.Ack(false)
}
