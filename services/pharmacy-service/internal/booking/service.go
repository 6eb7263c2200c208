// Package booking turns a submitted booking form into a stored appointment
// and answers which slots of a day are already taken.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Store persists appointments. CreateAppointment must fail with an
// apperr.SlotConflict error when the (date, time) pair is already taken,
// and must decide that atomically with the insert.
type Store interface {
	CreateAppointment(ctx context.Context, appt *model.Appointment) (int64, error)
	ListBookedTimes(ctx context.Context, date time.Time) ([]model.TimeOfDay, error)
	IsBooked(ctx context.Context, date time.Time, t model.TimeOfDay) (bool, error)
}

type Service struct {
	store    Store
	validate *validator.Validate
	tracer   trace.Tracer
}

func NewService(store Store) *Service {
	return &Service{
		store:    store,
		validate: newValidator(),
		tracer:   otel.Tracer("pharmacy-service/booking"),
	}
}

// Book validates body and stores the appointment it describes, returning
// the new id. Failures are *apperr.Error values except storage faults.
func (s *Service) Book(ctx context.Context, body []byte) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "booking.create")
	defer span.End()

	id, err := s.book(ctx, body)
	if err != nil {
		span.SetAttributes(attribute.String("booking.outcome", string(apperr.KindOf(err))))
		if apperr.KindOf(err) == apperr.Internal {
			span.RecordError(err)
			span.SetStatus(codes.Error, "booking failed")
		}
		return 0, err
	}
	span.SetAttributes(attribute.Int64("appointment.id", id))
	return id, nil
}

func (s *Service) book(ctx context.Context, body []byte) (int64, error) {
	if !isJSONObject(body) {
		return 0, apperr.New(apperr.MalformedRequest, "Invalid JSON")
	}
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return 0, apperr.Wrap(apperr.MalformedRequest, "Invalid JSON", err)
	}

	if err := s.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return 0, apperr.Missing(verrs[0].Field())
		}
		return 0, apperr.Wrap(apperr.MalformedRequest, "Invalid JSON", err)
	}

	date, err := model.ParseDate(string(p.Date))
	if err != nil {
		return 0, apperr.Invalid("date", "date must be YYYY-MM-DD")
	}
	tod, err := model.ParseTimeOfDay(string(p.Time))
	if err != nil {
		return 0, apperr.Invalid("time", "time must be HH:MM or HH:MM:SS")
	}

	appt := &model.Appointment{
		Service:   string(p.Service),
		Date:      date,
		Time:      tod,
		FirstName: string(p.FirstName),
		LastName:  string(p.LastName),
		DOB:       string(p.DOB),
		Postcode:  string(p.Postcode),
		Email:     string(p.Email),
		Phone:     string(p.Phone),
		NHSNumber: string(p.NHSNumber),
		Note:      string(p.Note),
	}
	id, err := s.store.CreateAppointment(ctx, appt)
	if err != nil {
		if apperr.Is(err, apperr.SlotConflict) {
			return 0, err
		}
		return 0, apperr.Wrap(apperr.Internal, "failed to create appointment", err)
	}
	return id, nil
}

// BookedTimes lists the taken times on rawDate (YYYY-MM-DD). The result is
// never nil.
func (s *Service) BookedTimes(ctx context.Context, rawDate string) ([]model.TimeOfDay, error) {
	if rawDate == "" {
		return nil, apperr.Missing("date")
	}
	date, err := model.ParseDate(rawDate)
	if err != nil {
		return nil, apperr.Invalid("date", "Invalid date format")
	}
	times, err := s.store.ListBookedTimes(ctx, date)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list booked times", err)
	}
	if times == nil {
		times = []model.TimeOfDay{}
	}
	return times, nil
}

func (s *Service) IsBooked(ctx context.Context, date time.Time, t model.TimeOfDay) (bool, error) {
	return s.store.IsBooked(ctx, date, t)
}

// SlotBooked parses rawDate and rawTime the way Book does and reports
// whether that slot is taken. The parsed time is returned for echoing.
func (s *Service) SlotBooked(ctx context.Context, rawDate, rawTime string) (model.TimeOfDay, bool, error) {
	if rawDate == "" {
		return 0, false, apperr.Missing("date")
	}
	if rawTime == "" {
		return 0, false, apperr.Missing("time")
	}
	date, err := model.ParseDate(rawDate)
	if err != nil {
		return 0, false, apperr.Invalid("date", "Invalid date format")
	}
	t, err := model.ParseTimeOfDay(rawTime)
	if err != nil {
		return 0, false, apperr.Invalid("time", "time must be HH:MM or HH:MM:SS")
	}
	booked, err := s.IsBooked(ctx, date, t)
	if err != nil {
		return 0, false, apperr.Wrap(apperr.Internal, "failed to check slot", err)
	}
	return t, booked, nil
}
