package model

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Appointment is one booked slot. Date carries no time and is kept at UTC
// midnight; Time carries no date.
type Appointment struct {
	ID        int64
	Service   string
	Date      time.Time
	Time      TimeOfDay
	FirstName string
	LastName  string
	DOB       string
	Postcode  string
	Email     string
	Phone     string
	NHSNumber string
	Note      string
	CreatedAt time.Time
}

// TimeOfDay is a wall clock time counted in seconds since midnight.
type TimeOfDay int

const secondsPerDay = 24 * 60 * 60

// ParseTimeOfDay accepts HH:MM and HH:MM:SS.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// TimeOfDayFromMicroseconds converts the postgres time representation.
func TimeOfDayFromMicroseconds(us int64) TimeOfDay {
	return TimeOfDay((us / 1_000_000) % secondsPerDay)
}

func (t TimeOfDay) Microseconds() int64 { return int64(t) * 1_000_000 }

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

// Add returns t shifted by d, wrapping past midnight.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	s := (int(t) + int(d/time.Second)) % secondsPerDay
	if s < 0 {
		s += secondsPerDay
	}
	return TimeOfDay(s)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// Short is the HH:MM form used on admin listings.
func (t TimeOfDay) Short() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// ParseDate accepts YYYY-MM-DD and rejects impossible dates such as 2025-02-30.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
