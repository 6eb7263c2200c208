package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/md-rashed-zaman/pharmacare/libs/db"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/outbox"
)

type ActivityRepository struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func NewActivityRepository(pool *db.Pool, outboxRepo *outbox.Repository) *ActivityRepository {
	return &ActivityRepository{pool: pool, outbox: outboxRepo}
}

// Record appends an account event for user and enqueues it for Kafka.
func (r *ActivityRepository) Record(ctx context.Context, user model.User, action model.Action) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		id int64
		ts time.Time
	)
	if err := tx.QueryRow(ctx, `
		INSERT INTO user_activities (user_id, action)
		VALUES ($1, $2)
		RETURNING id, timestamp
	`, user.ID, string(action)).Scan(&id, &ts); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}

	payload, err := json.Marshal(map[string]any{
		"activity_id": id,
		"user_id":     user.ID,
		"username":    user.Username,
		"action":      action,
		"timestamp":   ts.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if err := r.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "user",
		AggregateID:   user.ID,
		EventType:     outbox.TopicUserActivity,
		Payload:       payload,
	}); err != nil {
		return fmt.Errorf("enqueue activity event: %w", err)
	}
	return tx.Commit(ctx)
}

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

// ListRecent returns up to limit activities, newest first. An empty action
// lists every kind.
func (r *ActivityRepository) ListRecent(ctx context.Context, action model.Action, limit int) ([]model.Activity, error) {
	limit = clampLimit(limit, defaultActivityLimit, maxActivityLimit)
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.user_id::text, u.username, u.email, a.action, a.timestamp
		FROM user_activities a
		JOIN users u ON u.id = a.user_id
		WHERE $1 = '' OR a.action = $1
		ORDER BY a.timestamp DESC, a.id DESC
		LIMIT $2
	`, string(action), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Activity
	for rows.Next() {
		var (
			a      model.Activity
			action string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Username, &a.Email, &action, &a.Timestamp); err != nil {
			return nil, err
		}
		a.Action = model.Action(action)
		out = append(out, a)
	}
	return out, rows.Err()
}
