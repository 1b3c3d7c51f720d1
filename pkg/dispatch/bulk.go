package dispatch

import (
	"context"

	"github.com/famlinkhq/notifykit/pkg/async"
	"github.com/famlinkhq/notifykit/pkg/notification"
)

// DispatchBulk dispatches the same notification content to many recipients
// concurrently and independently. One recipient's failure, slowness, or
// panic never affects a sibling; the join waits for every per-recipient
// attempt to settle before aggregating.
func (d *Dispatcher) DispatchBulk(ctx context.Context, recipients []Recipient, typ notification.Type, content Content) (*BulkResult, error) {
	futures := make([]*async.Future[*Result], len(recipients))
	for i, r := range recipients {
		futures[i] = async.Run(ctx, r, func(ctx context.Context, r Recipient) (*Result, error) {
			return d.Dispatch(ctx, r.UserID, typ, content, r.Email)
		})
	}

	outcomes := async.SettleAll(futures...)

	bulk := &BulkResult{Results: make([]RecipientResult, len(recipients))}
	for i, outcome := range outcomes {
		rr := RecipientResult{UserID: recipients[i].UserID}
		switch {
		case outcome.Err != nil:
			rr.Err = outcome.Err.Error()
		case outcome.Value != nil && outcome.Value.Success:
			rr.Success = true
			rr.Result = outcome.Value
		default:
			rr.Result = outcome.Value
		}

		if rr.Success {
			bulk.SuccessCount++
		} else {
			bulk.FailureCount++
		}
		if rr.Result != nil && rr.Result.Delivered {
			bulk.DeliveredCount++
		}
		bulk.Results[i] = rr
	}

	return bulk, nil
}
