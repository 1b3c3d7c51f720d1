package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/famlinkhq/notifykit/pkg/channel"
	"github.com/famlinkhq/notifykit/pkg/email"
	"github.com/famlinkhq/notifykit/pkg/logger"
	"github.com/famlinkhq/notifykit/pkg/notification"
	"github.com/famlinkhq/notifykit/pkg/queue"
)

// DeferredEmailTask is the queue payload for an email pushed past quiet
// hours. The task name derived from this type pairs the enqueue in
// deferEmail with the handler from DeferredEmailHandler.
type DeferredEmailTask struct {
	UserID  string            `json:"user_id"`
	Type    notification.Type `json:"type"`
	Payload email.Payload     `json:"payload"`
}

// deferEmail schedules a single future send at the end of the recipient's
// quiet-hours window. Without an enqueuer the email is simply suppressed,
// which matches the preference's intent even if less helpful.
func (d *Dispatcher) deferEmail(ctx context.Context, notif notification.Notification, payload email.Payload, result *Result) {
	if d.enqueuer == nil {
		return
	}

	prefs, err := d.prefs.Get(ctx, notif.UserID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("quiet hours deferral failed: %v", err))
		return
	}
	sendAt, ok := prefs.QuietHours.NextEnd(d.now())
	if !ok {
		// Window closed between the gate check and here; send path will
		// pick it up on the next dispatch. Suppress rather than guess.
		return
	}

	task := DeferredEmailTask{UserID: notif.UserID, Type: notif.Type, Payload: payload}
	if err := d.enqueuer.Enqueue(ctx, task, queue.WithScheduledAt(sendAt)); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("quiet hours deferral failed: %v", err))
		return
	}

	result.EmailDeferred = true
	// Diagnostic only; a drop here is invisible to the user.
	_ = d.publisher.Publish(ctx, notif.UserID, channel.EventEmailDeferred, map[string]string{
		"notification_id": notif.ID,
		"send_at":         sendAt.Format("2006-01-02T15:04:05Z07:00"),
	})
	d.logger.LogAttrs(ctx, slog.LevelDebug, "companion email deferred past quiet hours",
		logger.NotificationID(notif.ID),
		logger.UserID(notif.UserID),
	)
}

// DeferredEmailHandler returns the queue handler that sends deferred
// emails. Register it on the worker that drains the dispatcher's enqueuer.
// The preference gate is re-checked at send time: the user may have changed
// their settings while the email waited out the quiet-hours window.
func (d *Dispatcher) DeferredEmailHandler() queue.Handler {
	return queue.NewTaskHandler(func(ctx context.Context, task DeferredEmailTask) error {
		allowed, err := d.prefs.ShouldSend(ctx, task.UserID, task.Type, notification.ChannelEmail)
		if err != nil {
			return fmt.Errorf("preference check failed: %w", err)
		}
		if !allowed {
			return nil
		}
		if d.emailSender == nil {
			return ErrNoEmailSender
		}
		if _, err := d.emailSender.SendNotificationEmail(ctx, task.UserID, task.Type, task.Payload); err != nil {
			return fmt.Errorf("deferred email failed: %w", err)
		}
		return nil
	})
}
