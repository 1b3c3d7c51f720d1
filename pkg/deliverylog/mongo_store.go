package deliverylog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore is a Mongo-backed Store implementation. Delivery logs are
// append-heavy audit rows with a single status update, which maps well onto
// a document collection.
type MongoStore struct {
	coll   *mongo.Collection
	lookup Lookup
}

// NewMongoStore creates a delivery log store over the given collection.
// lookup may be nil, in which case Recent entries carry empty notification
// fields.
func NewMongoStore(coll *mongo.Collection, lookup Lookup) *MongoStore {
	return &MongoStore{coll: coll, lookup: lookup}
}

func (s *MongoStore) Create(ctx context.Context, input CreateInput) (Log, error) {
	if input.NotificationID == "" {
		return Log{}, ErrMissingNotificationID
	}
	if input.UserID == "" {
		return Log{}, ErrMissingUserID
	}

	now := time.Now()
	l := Log{
		ID:             uuid.New().String(),
		NotificationID: input.NotificationID,
		UserID:         input.UserID,
		Status:         StatusPending,
		WasConnected:   input.WasConnected,
		ConnectionID:   input.ConnectionID,
		CreatedAt:      now,
		DispatchedAt:   now,
	}

	if _, err := s.coll.InsertOne(ctx, l); err != nil {
		return Log{}, fmt.Errorf("failed to insert delivery log: %w", err)
	}
	return l, nil
}

func (s *MongoStore) UpdateStatus(ctx context.Context, id string, status Status, opts UpdateOptions) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := validateUpdate(current.Status, status, opts); err != nil {
		return err
	}

	updated := *current
	applyUpdate(&updated, status, opts, time.Now())

	set := bson.M{
		"status":       updated.Status,
		"delivered_at": updated.DeliveredAt,
		"error":        updated.Error,
		"latency_ms":   updated.LatencyMS,
	}

	// The status guard in the filter rejects a concurrent update that
	// already moved the row; the caller sees it as an illegal transition.
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": current.Status},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to update delivery log %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrIllegalTransition
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Log, error) {
	var l Log
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get delivery log %s: %w", id, err)
	}
	return &l, nil
}

func (s *MongoStore) Metrics(ctx context.Context, since time.Time) (Metrics, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"dispatched_at": bson.M{"$gte": since}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": 1},
			"delivered": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", StatusDelivered}}, 1, 0},
			}},
			"failed": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", StatusFailed}}, 1, 0},
			}},
			"polled": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", StatusPolled}}, 1, 0},
			}},
			"pending": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", StatusPending}}, 1, 0},
			}},
			"latency_samples": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$ne": bson.A{"$latency_ms", nil}}, 1, 0},
			}},
			"avg_latency": bson.M{"$avg": "$latency_ms"},
			"min_latency": bson.M{"$min": "$latency_ms"},
			"max_latency": bson.M{"$max": "$latency_ms"},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return Metrics{}, fmt.Errorf("failed to aggregate delivery metrics: %w", err)
	}
	defer cursor.Close(ctx)

	var row struct {
		Total          int64    `bson:"total"`
		Delivered      int64    `bson:"delivered"`
		Failed         int64    `bson:"failed"`
		Polled         int64    `bson:"polled"`
		Pending        int64    `bson:"pending"`
		LatencySamples int64    `bson:"latency_samples"`
		AvgLatency     *float64 `bson:"avg_latency"`
		MinLatency     *int64   `bson:"min_latency"`
		MaxLatency     *int64   `bson:"max_latency"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&row); err != nil {
			return Metrics{}, fmt.Errorf("failed to decode delivery metrics: %w", err)
		}
	}

	m := Metrics{
		Total:          row.Total,
		Delivered:      row.Delivered,
		Failed:         row.Failed,
		Polled:         row.Polled,
		Pending:        row.Pending,
		LatencySamples: row.LatencySamples,
	}
	if row.AvgLatency != nil {
		m.AvgLatencyMS = *row.AvgLatency
	}
	if row.MinLatency != nil {
		m.MinLatencyMS = *row.MinLatency
	}
	if row.MaxLatency != nil {
		m.MaxLatencyMS = *row.MaxLatency
	}
	if m.Total > 0 {
		m.SuccessRate = float64(m.Delivered+m.Polled) / float64(m.Total)
	}
	return m, nil
}

func (s *MongoStore) Recent(ctx context.Context, opts RecentOptions) ([]Entry, error) {
	filter := bson.M{}
	if opts.Since != nil {
		filter["dispatched_at"] = bson.M{"$gte": *opts.Since}
	}
	if opts.Status != nil {
		filter["status"] = *opts.Status
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	cursor, err := s.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "dispatched_at", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent delivery logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []Log
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode recent delivery logs: %w", err)
	}

	entries := make([]Entry, len(logs))
	for i, l := range logs {
		entries[i] = Entry{Log: l}
		if s.lookup != nil {
			if typ, title, err := s.lookup(ctx, l.UserID, l.NotificationID); err == nil {
				entries[i].NotificationType = typ
				entries[i].NotificationTitle = title
			}
		}
	}
	return entries, nil
}

func (s *MongoStore) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	res, err := s.coll.DeleteMany(ctx, bson.M{
		"status":        bson.M{"$in": bson.A{StatusDelivered, StatusPolled}},
		"dispatched_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clean up delivery logs: %w", err)
	}
	return res.DeletedCount, nil
}
