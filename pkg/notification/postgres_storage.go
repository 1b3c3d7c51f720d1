package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage is a pgx-backed implementation of the Storage interface
// over a `notifications` table. The schema is owned by the surrounding
// application; this adapter only assumes the columns it reads and writes.
type PostgresStorage struct {
	db *pgxpool.Pool
}

// NewPostgresStorage creates a Postgres-backed notification storage.
func NewPostgresStorage(db *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const notificationColumns = `
	id, user_id, type, title, message, data,
	image_url, thumbnail_url, rich_message,
	action_label, action_url, secondary_action_label, secondary_action_url,
	actionable, read, read_at, created_at, expires_at`

func (s *PostgresStorage) Create(ctx context.Context, notif Notification) error {
	if notif.ID == "" {
		return ErrMissingID
	}
	if notif.UserID == "" {
		return ErrMissingUserID
	}

	data, err := json.Marshal(notif.Data)
	if err != nil {
		return fmt.Errorf("failed to encode notification data: %w", err)
	}

	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, COALESCE($17, NOW()), $18)`

	var createdAt any
	if !notif.CreatedAt.IsZero() {
		createdAt = notif.CreatedAt
	}

	_, err = s.db.Exec(ctx, query,
		notif.ID, notif.UserID, string(notif.Type), notif.Title, notif.Message, data,
		nullable(notif.ImageURL), nullable(notif.ThumbnailURL), nullable(notif.RichMessage),
		nullable(notif.ActionLabel), nullable(notif.ActionURL),
		nullable(notif.SecondaryActionLabel), nullable(notif.SecondaryActionURL),
		notif.Actionable, notif.Read, notif.ReadAt, createdAt, notif.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification %s: %w", notif.ID, err)
	}
	return nil
}

func (s *PostgresStorage) Get(ctx context.Context, userID, notifID string) (*Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1 AND user_id = $2`

	row := s.db.QueryRow(ctx, query, notifID, userID)
	notif, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification %s: %w", notifID, err)
	}
	return notif, nil
}

func (s *PostgresStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND (expires_at IS NULL OR expires_at > NOW())`
	args := []any{userID}

	if opts.OnlyUnread {
		query += ` AND read = FALSE`
	}
	if len(opts.Types) > 0 {
		args = append(args, typeNames(opts.Types))
		query += fmt.Sprintf(` AND type = ANY($%d)`, len(args))
	}
	if opts.Since != nil {
		args = append(args, *opts.Since)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}

	query += ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", userID, err)
	}
	defer rows.Close()

	notifs := []Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifs = append(notifs, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notification rows: %w", err)
	}
	return notifs, nil
}

func (s *PostgresStorage) MarkRead(ctx context.Context, userID string, notifIDs ...string) error {
	if len(notifIDs) == 0 {
		return nil
	}
	// read_at is preserved for rows that are already read
	query := `
		UPDATE notifications
		SET read = TRUE, read_at = NOW()
		WHERE user_id = $1 AND id = ANY($2) AND read = FALSE`
	if _, err := s.db.Exec(ctx, query, userID, notifIDs); err != nil {
		return fmt.Errorf("failed to mark notifications read for user %s: %w", userID, err)
	}
	return nil
}

func (s *PostgresStorage) MarkAllRead(ctx context.Context, userID string) (int, error) {
	query := `
		UPDATE notifications
		SET read = TRUE, read_at = NOW()
		WHERE user_id = $1 AND read = FALSE`
	tag, err := s.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read for user %s: %w", userID, err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStorage) Delete(ctx context.Context, userID string, notifIDs ...string) error {
	if len(notifIDs) == 0 {
		return nil
	}
	query := `DELETE FROM notifications WHERE user_id = $1 AND id = ANY($2)`
	if _, err := s.db.Exec(ctx, query, userID, notifIDs); err != nil {
		return fmt.Errorf("failed to delete notifications for user %s: %w", userID, err)
	}
	return nil
}

func (s *PostgresStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND read = FALSE AND (expires_at IS NULL OR expires_at > NOW())`
	var count int
	if err := s.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for user %s: %w", userID, err)
	}
	return count, nil
}

func scanNotification(row pgx.Row) (*Notification, error) {
	var (
		n       Notification
		typ     string
		data    []byte
		strCols [7]*string
	)
	err := row.Scan(
		&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &data,
		&strCols[0], &strCols[1], &strCols[2], &strCols[3], &strCols[4], &strCols[5], &strCols[6],
		&n.Actionable, &n.Read, &n.ReadAt, &n.CreatedAt, &n.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	n.Type = Type(typ)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("failed to decode notification data: %w", err)
		}
	}
	n.ImageURL = deref(strCols[0])
	n.ThumbnailURL = deref(strCols[1])
	n.RichMessage = deref(strCols[2])
	n.ActionLabel = deref(strCols[3])
	n.ActionURL = deref(strCols[4])
	n.SecondaryActionLabel = deref(strCols[5])
	n.SecondaryActionURL = deref(strCols[6])
	return &n, nil
}

func typeNames(types []Type) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
