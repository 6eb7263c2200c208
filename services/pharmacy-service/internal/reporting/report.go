// Package reporting aggregates appointments into per-day booked and open
// slot counts for the admin dashboard.
package reporting

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
)

const (
	DefaultDays = 30
	MaxDays     = 366
	LabelLayout = "02-01-2006"
)

// DailyCounter returns the number of appointments per date in the
// inclusive range, keyed by model.DateLayout. Dates without bookings may
// be absent.
type DailyCounter interface {
	CountBookedByDay(ctx context.Context, start, end time.Time) (map[string]int, error)
}

type Report struct {
	Labels      []string
	Booked      []int
	Open        []int
	SlotsPerDay int
}

type Aggregator struct {
	counter     DailyCounter
	slotsPerDay int
	loc         *time.Location
	now         func() time.Time
}

func NewAggregator(counter DailyCounter, slotsPerDay int, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{
		counter:     counter,
		slotsPerDay: slotsPerDay,
		loc:         loc,
		now:         time.Now,
	}
}

// Today is the current calendar date in the aggregator's zone, as UTC midnight.
func (a *Aggregator) Today() time.Time {
	n := a.now().In(a.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDays reads the days query value. Empty means DefaultDays.
func ParseDays(raw string) (int, error) {
	if raw == "" {
		return DefaultDays, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperr.Invalid("days", "days must be a positive integer")
	}
	if n > MaxDays {
		return 0, apperr.Invalid("days", fmt.Sprintf("days must be at most %d", MaxDays))
	}
	return n, nil
}

// Build reports the days consecutive dates starting at start.
func (a *Aggregator) Build(ctx context.Context, start time.Time, days int) (Report, error) {
	if days <= 0 || days > MaxDays {
		return Report{}, apperr.Invalid("days", "days out of range")
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, days-1)

	counts, err := a.counter.CountBookedByDay(ctx, start, end)
	if err != nil {
		return Report{}, fmt.Errorf("count booked by day: %w", err)
	}

	rep := Report{
		Labels:      make([]string, 0, days),
		Booked:      make([]int, 0, days),
		Open:        make([]int, 0, days),
		SlotsPerDay: a.slotsPerDay,
	}
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		booked := counts[d.Format(model.DateLayout)]
		open := a.slotsPerDay - booked
		if open < 0 {
			open = 0
		}
		rep.Labels = append(rep.Labels, d.Format(LabelLayout))
		rep.Booked = append(rep.Booked, booked)
		rep.Open = append(rep.Open, open)
	}
	return rep, nil
}

// FromToday builds the report starting at Today.
func (a *Aggregator) FromToday(ctx context.Context, days int) (Report, error) {
	return a.Build(ctx, a.Today(), days)
}
