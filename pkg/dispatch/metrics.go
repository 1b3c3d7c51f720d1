package dispatch

import (
	"context"
	"time"

	"github.com/famlinkhq/notifykit/pkg/deliverylog"
)

// DeliveryMetrics aggregates delivery outcomes for dispatches at or after
// since.
func (d *Dispatcher) DeliveryMetrics(ctx context.Context, since time.Time) (deliverylog.Metrics, error) {
	return d.logs.Metrics(ctx, since)
}

// RecentDeliveries returns the most recent delivery-log rows joined with
// their notification's type and title, for operational inspection.
func (d *Dispatcher) RecentDeliveries(ctx context.Context, opts deliverylog.RecentOptions) ([]deliverylog.Entry, error) {
	return d.logs.Recent(ctx, opts)
}

// CleanupDeliveryLogs purges delivery-log rows in a terminal success state
// older than the given age and returns the count removed. Failed and
// pending rows are kept for diagnosis.
func (d *Dispatcher) CleanupDeliveryLogs(ctx context.Context, olderThan time.Duration) (int64, error) {
	return d.logs.Cleanup(ctx, olderThan)
}
