// Package mongo provides MongoDB connection management for the delivery log
// store.
//
// Configuration is entirely environment-driven via github.com/caarlos0/env,
// with retry logic and pooling defaults that handle transient failures of
// managed deployments (e.g. MongoDB Atlas) without manual tuning.
//
// # Usage
//
//	var cfg mongo.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logs := deliverylog.NewMongoStore(db.Collection("delivery_logs"), lookup)
//
// # Error Handling
//
// Connection failures are wrapped in sentinel errors, so callers can use
// errors.Is to detect them and decide whether to retry or terminate.
package mongo
