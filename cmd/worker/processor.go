package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	log "github.com/sirupsen/logrus"

	"github.com/HanSolo4203/RSA-v4/internal/notify"
)

// Deliverer sends a status-change notification to the customer.
type Deliverer interface {
	Send(ctx context.Context, sc notify.StatusChange) error
}

// Processor consumes status-change messages from SQS and delivers them.
type Processor struct {
	sender Deliverer
	logger *log.Entry
}

// NewProcessor creates a worker processor with the delivery channel injected.
func NewProcessor(sender Deliverer, logger *log.Entry) *Processor {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Processor{sender: sender, logger: logger}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.logger.WithField("count", len(ev.Records)).Info("received SQS messages")
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			p.logger.WithError(err).Error("worker error")
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var sc notify.StatusChange
	if err := json.Unmarshal([]byte(rec.Body), &sc); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if sc.OrderID == "" || sc.CustomerEmail == "" {
		return fmt.Errorf("incomplete notification payload: order_id=%q email=%q", sc.OrderID, sc.CustomerEmail)
	}

	p.logger.WithFields(log.Fields{
		"order_id":   sc.OrderID,
		"new_status": sc.NewStatus,
		"corr":       sc.CorrelationID,
	}).Info("delivering notification")

	if err := p.sender.Send(ctx, sc); err != nil {
		return fmt.Errorf("failed to deliver notification for order %s: %w", sc.OrderID, err)
	}
	return nil
}
