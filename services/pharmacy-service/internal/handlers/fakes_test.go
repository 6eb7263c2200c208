package handlers

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type fakeAppointments struct {
	mu    sync.Mutex
	items []model.Appointment
}

func (f *fakeAppointments) CreateAppointment(_ context.Context, appt *model.Appointment) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.items {
		if a.Date.Equal(appt.Date) && a.Time == appt.Time {
			return 0, apperr.New(apperr.SlotConflict, "This time slot is already booked. Please choose another time.")
		}
	}
	appt.ID = int64(len(f.items) + 1)
	appt.CreatedAt = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	f.items = append(f.items, *appt)
	return appt.ID, nil
}

func (f *fakeAppointments) ListBookedTimes(_ context.Context, date time.Time) ([]model.TimeOfDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.TimeOfDay{}
	for _, a := range f.items {
		if a.Date.Equal(date) {
			out = append(out, a.Time)
		}
	}
	return out, nil
}

func (f *fakeAppointments) IsBooked(ctx context.Context, date time.Time, t model.TimeOfDay) (bool, error) {
	times, _ := f.ListBookedTimes(ctx, date)
	for _, bt := range times {
		if bt == t {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAppointments) ListRecent(_ context.Context, limit int) ([]model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Appointment, 0, len(f.items))
	for i := len(f.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.items[i])
	}
	return out, nil
}

func (f *fakeAppointments) CountBookedByDay(_ context.Context, start, end time.Time) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, a := range f.items {
		if !a.Date.Before(start) && !a.Date.After(end) {
			counts[a.Date.Format(model.DateLayout)]++
		}
	}
	return counts, nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users []model.User
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperr.New(apperr.Duplicate, "duplicate")
		}
	}
	user.DateJoined = time.Date(2025, 1, 1, 0, 0, len(f.users), 0, time.UTC)
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUsers) find(match func(model.User) bool) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			return u, nil
		}
	}
	return model.User{}, apperr.New(apperr.NotFound, "user not found")
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	return f.find(func(u model.User) bool { return u.Email == email })
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	return f.find(func(u model.User) bool { return u.Username == username })
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (model.User, error) {
	return f.find(func(u model.User) bool { return u.ID == id })
}

func (f *fakeUsers) ListByDateJoined(context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]model.User(nil), f.users...)
	sort.Slice(out, func(i, j int) bool { return out[i].DateJoined.After(out[j].DateJoined) })
	return out, nil
}

type fakeActivities struct {
	mu   sync.Mutex
	log  []model.Activity
	last model.Action
}

func (f *fakeActivities) Record(_ context.Context, user model.User, action model.Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log = append(f.log, model.Activity{
		ID:        int64(len(f.log) + 1),
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Action:    action,
		Timestamp: time.Date(2025, 3, 1, 12, 0, len(f.log), 0, time.UTC),
	})
	return nil
}

func (f *fakeActivities) ListRecent(_ context.Context, action model.Action, limit int) ([]model.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = action
	var out []model.Activity
	for i := len(f.log) - 1; i >= 0 && len(out) < limit; i-- {
		if action == "" || f.log[i].Action == action {
			out = append(out, f.log[i])
		}
	}
	return out, nil
}

func (f *fakeActivities) actions() []model.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Action, 0, len(f.log))
	for _, a := range f.log {
		out = append(out, a.Action)
	}
	return out
}

type fakeBranches struct {
	items []model.Branch
}

func (f *fakeBranches) List(context.Context) ([]model.Branch, error) {
	return f.items, nil
}

func (f *fakeBranches) Get(_ context.Context, id int64) (model.Branch, error) {
	for _, b := range f.items {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Branch{}, apperr.New(apperr.NotFound, "Branch not found")
}
