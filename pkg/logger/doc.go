// Package logger provides a thin factory around Go's slog package plus
// helper attribute constructors used across the notification subsystem.
//
// The helper constructors (Error, UserID, NotificationID, DeliveryID, ...)
// keep attribute naming consistent so that log aggregation queries can rely
// on stable keys regardless of which component emitted the record.
//
// # Usage
//
//	log := logger.New(logger.WithDevelopment("notifykit"))
//	log.Info("notification dispatched",
//	    logger.UserID(userID),
//	    logger.NotificationID(notifID),
//	)
package logger
