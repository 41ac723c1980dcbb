package handlers

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/HanSolo4203/RSA-v4/internal/awsx"
)

// HandlerConfig groups dependencies for the HTTP surface.
type HandlerConfig struct {
	DynamoDBClient   awsx.DynamoDBAPI
	SQSClient        awsx.SQSAPI
	CloudWatchClient awsx.CloudWatchAPI
	ServicesTable    string
	OrdersTable      string
	OrderLinesTable  string
	IdempotencyTable string
	QueueURL         string
	TTLWindow        time.Duration
	MetricsNamespace string
	Logger           *log.Entry
}

func (cfg HandlerConfig) logger() *log.Entry {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return log.NewEntry(log.StandardLogger())
}
