// Package notify carries status-change notifications from the admin surface
// to the customer. The API publishes a message per status change onto SQS;
// the worker consumes it and performs the send. A notification failure is
// always reported separately from the status write it accompanies.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/HanSolo4203/RSA-v4/internal/awsx"
)

// StatusChange is the payload sent from API -> SQS -> worker.
type StatusChange struct {
	CustomerEmail       string  `json:"customer_email"`
	OrderID             string  `json:"order_id"`
	NewStatus           string  `json:"new_status"`
	PickupDate          string  `json:"pickup_date"`
	PickupTimeSlot      string  `json:"pickup_time_slot"`
	TotalCost           float64 `json:"total_cost"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
	CorrelationID       string  `json:"correlation_id,omitempty"`
}

// Publisher enqueues status-change notifications.
type Publisher struct {
	pub *awsx.Publisher
}

// NewPublisher returns a Publisher bound to the notifications queue.
func NewPublisher(sqsClient awsx.SQSAPI, queueURL string) *Publisher {
	return &Publisher{pub: awsx.NewPublisher(sqsClient, queueURL)}
}

// Publish sends the status change onto the queue.
func (p *Publisher) Publish(ctx context.Context, sc StatusChange) error {
	body, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	attrs := map[string]string{
		"order_id":   sc.OrderID,
		"new_status": sc.NewStatus,
	}
	if err := p.pub.Send(ctx, string(body), attrs); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Sender delivers a notification to the customer. Email delivery is still a
// placeholder: the message is logged with every field the template needs.
type Sender struct {
	logger *log.Entry
}

// NewSender returns a Sender.
func NewSender(logger *log.Entry) *Sender {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Sender{logger: logger.WithField("component", "notify-sender")}
}

// Send performs the delivery.
func (s *Sender) Send(ctx context.Context, sc StatusChange) error {
	// TODO: swap for SES once the sending domain is verified
	s.logger.WithFields(log.Fields{
		"order_id":    sc.OrderID,
		"email":       sc.CustomerEmail,
		"new_status":  sc.NewStatus,
		"pickup_date": sc.PickupDate,
		"time_slot":   sc.PickupTimeSlot,
		"total_cost":  sc.TotalCost,
	}).Info("status change notification")
	return nil
}
