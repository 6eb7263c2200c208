package reporting

import (
	"time"

	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
)

// DailySlots returns the slot start times from start to end inclusive,
// step apart. It returns nil for a non-positive step or an empty window.
func DailySlots(start, end model.TimeOfDay, step time.Duration) []model.TimeOfDay {
	if step <= 0 || end < start {
		return nil
	}
	var slots []model.TimeOfDay
	for t := start; t <= end; t = t.Add(step) {
		slots = append(slots, t)
		if t.Add(step) <= t {
			break
		}
	}
	return slots
}

// DefaultSlots is the opening template: hourly from 09:00 to 15:00.
func DefaultSlots() []model.TimeOfDay {
	return DailySlots(model.NewTimeOfDay(9, 0, 0), model.NewTimeOfDay(15, 0, 0), time.Hour)
}
