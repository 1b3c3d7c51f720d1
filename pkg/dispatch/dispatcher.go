package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/famlinkhq/notifykit/pkg/channel"
	"github.com/famlinkhq/notifykit/pkg/deliverylog"
	"github.com/famlinkhq/notifykit/pkg/email"
	"github.com/famlinkhq/notifykit/pkg/logger"
	"github.com/famlinkhq/notifykit/pkg/notification"
	"github.com/famlinkhq/notifykit/pkg/queue"
)

// Dispatcher orchestrates notification creation, real-time delivery,
// delivery tracking, unread counters, and companion email. It is
// instantiated once at process start with injected dependencies and passed
// by reference to request handlers.
type Dispatcher struct {
	storage   notification.Storage
	prefs     notification.PreferenceStore
	logs      deliverylog.Store
	publisher channel.Publisher

	emailSender email.Sender
	families    FamilyLookup
	enqueuer    *queue.Enqueuer

	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithEmailSender enables the companion-email leg.
func WithEmailSender(sender email.Sender) Option {
	return func(d *Dispatcher) { d.emailSender = sender }
}

// WithFamilyLookup enables family-wide dispatch.
func WithFamilyLookup(lookup FamilyLookup) Option {
	return func(d *Dispatcher) { d.families = lookup }
}

// WithDeferral enables quiet-hours email deferral through the given
// enqueuer. Without it, an email suppressed by quiet hours is skipped.
func WithDeferral(enqueuer *queue.Enqueuer) Option {
	return func(d *Dispatcher) { d.enqueuer = enqueuer }
}

// WithLogger sets the dispatcher's logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.logger = log
		}
	}
}

// WithClock overrides the time source. Test seam.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// New creates a Dispatcher over the required collaborators.
func New(
	storage notification.Storage,
	prefs notification.PreferenceStore,
	logs deliverylog.Store,
	publisher channel.Publisher,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		storage:   storage,
		prefs:     prefs,
		logs:      logs,
		publisher: publisher,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch creates the notification, attempts real-time delivery, records
// the outcome, republishes the unread counter, and optionally sends a
// companion email.
//
// Only a failure to persist the notification itself is fatal; every
// downstream failure is captured in the result's Errors list because the
// user-visible notification already exists and must not disappear due to a
// channel hiccup.
func (d *Dispatcher) Dispatch(ctx context.Context, recipientID string, typ notification.Type, content Content, emailCtx *email.Context) (*Result, error) {
	notif := notification.Notification{
		ID:                   uuid.New().String(),
		UserID:               recipientID,
		Type:                 typ,
		Title:                content.Title,
		Message:              content.Message,
		Data:                 content.Data,
		ImageURL:             content.ImageURL,
		ThumbnailURL:         content.ThumbnailURL,
		RichMessage:          content.RichMessage,
		ActionLabel:          content.ActionLabel,
		ActionURL:            content.ActionURL,
		SecondaryActionLabel: content.SecondaryActionLabel,
		SecondaryActionURL:   content.SecondaryActionURL,
		Actionable:           content.Actionable,
		CreatedAt:            d.now(),
		ExpiresAt:            content.ExpiresAt,
	}

	if err := d.storage.Create(ctx, notif); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	result := &Result{Notification: notif, Success: true}

	logID := d.createDeliveryLog(ctx, notif, result)
	d.publishNotification(ctx, notif, logID, result)
	d.publishUnreadCount(ctx, recipientID, result)

	if emailCtx != nil {
		d.sendCompanionEmail(ctx, notif, *emailCtx, result)
	}

	return result, nil
}

// createDeliveryLog records the PENDING attempt row. The presence hint is
// advisory: when the presence query itself fails the attempt is still
// recorded with WasConnected true, deferring truth to the publish outcome.
func (d *Dispatcher) createDeliveryLog(ctx context.Context, notif notification.Notification, result *Result) string {
	wasConnected := true
	if connected, err := d.publisher.Connected(ctx, notif.UserID); err == nil {
		wasConnected = connected
	}

	log, err := d.logs.Create(ctx, deliverylog.CreateInput{
		NotificationID: notif.ID,
		UserID:         notif.UserID,
		WasConnected:   wasConnected,
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("delivery log create failed: %v", err))
		d.logger.LogAttrs(ctx, slog.LevelWarn, "failed to create delivery log",
			logger.NotificationID(notif.ID),
			logger.UserID(notif.UserID),
			logger.Error(err),
		)
		return ""
	}
	result.DeliveryLogID = log.ID
	return log.ID
}

// publishNotification attempts real-time delivery and settles the delivery
// log with the outcome.
func (d *Dispatcher) publishNotification(ctx context.Context, notif notification.Notification, logID string, result *Result) {
	pubErr := d.publisher.Publish(ctx, notif.UserID, channel.EventNotificationNew, notif)

	if pubErr == nil {
		result.Delivered = true
		if logID != "" {
			latency := d.now().Sub(notif.CreatedAt).Milliseconds()
			if err := d.logs.UpdateStatus(ctx, logID, deliverylog.StatusDelivered, deliverylog.UpdateOptions{
				LatencyMS: &latency,
			}); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("delivery log update failed: %v", err))
			}
		}
		return
	}

	result.Errors = append(result.Errors, fmt.Sprintf("broadcast failed: %v", pubErr))
	d.logger.LogAttrs(ctx, slog.LevelWarn, "real-time publish failed, notification persisted",
		logger.NotificationID(notif.ID),
		logger.UserID(notif.UserID),
		logger.Error(pubErr),
	)
	if logID != "" {
		errMsg := pubErr.Error()
		if err := d.logs.UpdateStatus(ctx, logID, deliverylog.StatusFailed, deliverylog.UpdateOptions{
			Error: &errMsg,
		}); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("delivery log update failed: %v", err))
		}
	}
}

// publishUnreadCount recomputes the recipient's unread counter from storage
// and broadcasts it. Recomputing rather than incrementing means concurrent
// dispatches to the same recipient converge without a lock.
func (d *Dispatcher) publishUnreadCount(ctx context.Context, userID string, result *Result) {
	count, err := d.storage.CountUnread(ctx, userID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("unread count failed: %v", err))
		return
	}
	if err := d.publisher.Publish(ctx, userID, channel.EventUnreadCount, map[string]int{"unread": count}); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("unread count broadcast failed: %v", err))
	}
}

// sendCompanionEmail applies the preference gate, then the quiet-hours gate
// (emergency alerts bypass quiet hours), then sends or defers. Gate skips
// are not errors; send failures are soft errors.
func (d *Dispatcher) sendCompanionEmail(ctx context.Context, notif notification.Notification, ectx email.Context, result *Result) {
	allowed, err := d.prefs.ShouldSend(ctx, notif.UserID, notif.Type, notification.ChannelEmail)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("preference check failed: %v", err))
		return
	}
	if !allowed {
		return
	}

	payload := email.BuildPayload(notif, ectx)

	if notif.Type != notification.TypeEmergencyAlert {
		inQuiet, err := d.prefs.InQuietHours(ctx, notif.UserID, d.now())
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("quiet hours check failed: %v", err))
			return
		}
		if inQuiet {
			d.deferEmail(ctx, notif, payload, result)
			return
		}
	}

	if d.emailSender == nil {
		result.Errors = append(result.Errors, ErrNoEmailSender.Error())
		return
	}

	if _, err := d.emailSender.SendNotificationEmail(ctx, notif.UserID, notif.Type, payload); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("email failed: %v", err))
		d.logger.LogAttrs(ctx, slog.LevelWarn, "companion email failed",
			logger.NotificationID(notif.ID),
			logger.UserID(notif.UserID),
			logger.Error(err),
		)
		return
	}
	result.EmailSent = true
}
