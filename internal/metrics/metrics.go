// Package metrics publishes business counters to CloudWatch. Emission is
// best-effort: a metrics failure is logged and never propagated to the
// request path.
package metrics

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	log "github.com/sirupsen/logrus"

	"github.com/HanSolo4203/RSA-v4/internal/awsx"
)

// Metric names.
const (
	MetricOrderSubmitted    = "OrderSubmitted"
	MetricOrderRejected     = "OrderRejected"
	MetricPartialSubmission = "PartialSubmission"
	MetricBatchUpdateOK     = "BatchUpdateSucceeded"
	MetricBatchUpdateFailed = "BatchUpdateFailed"
)

// Recorder emits counters into a single CloudWatch namespace.
type Recorder struct {
	client    awsx.CloudWatchAPI
	namespace string
	logger    *log.Entry
	nowFunc   func() time.Time
}

// NewRecorder returns a Recorder. A nil client yields a Recorder that only logs.
func NewRecorder(client awsx.CloudWatchAPI, namespace string, logger *log.Entry) *Recorder {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Recorder{
		client:    client,
		namespace: namespace,
		logger:    logger.WithField("component", "metrics"),
		nowFunc:   time.Now,
	}
}

// Count adds `value` to the named counter.
func (r *Recorder) Count(ctx context.Context, name string, value float64) {
	if r == nil || r.client == nil {
		return
	}
	ts := r.nowFunc()
	_, err := r.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &r.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Timestamp:  &ts,
				Value:      &value,
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	})
	if err != nil {
		r.logger.WithError(err).WithField("metric", name).Warn("put metric data failed")
	}
}
