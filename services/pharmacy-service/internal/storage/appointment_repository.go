package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/md-rashed-zaman/pharmacare/libs/db"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/outbox"
)

// SlotConstraint is the unique index on appointments(date, time).
const SlotConstraint = "appointments_slot_key"

type AppointmentRepository struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func NewAppointmentRepository(pool *db.Pool, outboxRepo *outbox.Repository) *AppointmentRepository {
	return &AppointmentRepository{pool: pool, outbox: outboxRepo}
}

func pgTime(t model.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: t.Microseconds(), Valid: true}
}

// CreateAppointment inserts appt and its booked event in one transaction.
// The slot index decides conflicts, so two racing requests for the same
// slot cannot both succeed.
func (r *AppointmentRepository) CreateAppointment(ctx context.Context, appt *model.Appointment) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO appointments
			(service, date, time, first_name, last_name, dob, postcode, email, phone, nhs_number, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, appt.Service, appt.Date, pgTime(appt.Time), appt.FirstName, appt.LastName, appt.DOB,
		appt.Postcode, appt.Email, appt.Phone, appt.NHSNumber, appt.Note).Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err, SlotConstraint) {
			return 0, apperr.Wrap(apperr.SlotConflict, "This time slot is already booked. Please choose another time.", err)
		}
		return 0, fmt.Errorf("insert appointment: %w", err)
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"service":        appt.Service,
		"date":           appt.Date.Format(model.DateLayout),
		"time":           appt.Time.String(),
		"created_at":     appt.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return 0, err
	}
	if err := r.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   strconv.FormatInt(appt.ID, 10),
		EventType:     outbox.TopicAppointmentBooked,
		Payload:       payload,
	}); err != nil {
		return 0, fmt.Errorf("enqueue appointment event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return appt.ID, nil
}

// ListBookedTimes returns the times taken on date in insertion order.
func (r *AppointmentRepository) ListBookedTimes(ctx context.Context, date time.Time) ([]model.TimeOfDay, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT time
		FROM appointments
		WHERE date = $1
		ORDER BY id
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	times := []model.TimeOfDay{}
	for rows.Next() {
		var t pgtype.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, model.TimeOfDayFromMicroseconds(t.Microseconds))
	}
	return times, rows.Err()
}

func (r *AppointmentRepository) IsBooked(ctx context.Context, date time.Time, t model.TimeOfDay) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM appointments WHERE date = $1 AND time = $2)
	`, date, pgTime(t)).Scan(&exists)
	return exists, err
}

// CountBookedByDay runs one grouped query over the inclusive range.
func (r *AppointmentRepository) CountBookedByDay(ctx context.Context, start, end time.Time) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date, count(*)
		FROM appointments
		WHERE date BETWEEN $1 AND $2
		GROUP BY date
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			d time.Time
			n int64
		)
		if err := rows.Scan(&d, &n); err != nil {
			return nil, err
		}
		counts[d.Format(model.DateLayout)] = int(n)
	}
	return counts, rows.Err()
}

const maxAppointmentLimit = 500

// ListRecent returns up to limit appointments, newest first.
func (r *AppointmentRepository) ListRecent(ctx context.Context, limit int) ([]model.Appointment, error) {
	limit = clampLimit(limit, maxAppointmentLimit, maxAppointmentLimit)
	rows, err := r.pool.Query(ctx, `
		SELECT id, service, date, time, first_name, last_name, dob, postcode, email, phone, nhs_number, note, created_at
		FROM appointments
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var (
			a model.Appointment
			t pgtype.Time
		)
		if err := rows.Scan(&a.ID, &a.Service, &a.Date, &t, &a.FirstName, &a.LastName, &a.DOB,
			&a.Postcode, &a.Email, &a.Phone, &a.NHSNumber, &a.Note, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Time = model.TimeOfDayFromMicroseconds(t.Microseconds)
		out = append(out, a)
	}
	return out, rows.Err()
}

// clampLimit caps limit at ceiling and uses fallback when it is not positive.
func clampLimit(limit, fallback, ceiling int) int {
	switch {
	case limit <= 0:
		return fallback
	case limit > ceiling:
		return ceiling
	default:
		return limit
	}
}
