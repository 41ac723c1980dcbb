package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	log "github.com/sirupsen/logrus"

	"github.com/HanSolo4203/RSA-v4/internal/notify"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	logger := log.WithField("component", "worker")

	p := NewProcessor(notify.NewSender(logger), logger)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_id":"local-order-1","customer_email":"dev@example.com","new_status":"confirmed","pickup_date":"2026-09-01","pickup_time_slot":"morning","total_cost":12.50}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{Body: testBody},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			logger.WithError(err).Fatal("local handler error")
		}
		return
	}

	lambda.Start(p.Handle)
}
