package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type AvailabilityInput struct {
	BarberID  uint
	ServiceID uint
	Date      time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Slots walks the working day in steps of duration, skipping lunch and
// slots that overlap booked appointments (sorted by start time).
func Slots(
	wh *models.WorkingHours,
	date time.Time,
	duration time.Duration,
	booked []models.Appointment,
) []TimeSlot {

	slots := []TimeSlot{}
	if wh == nil || !wh.Active || duration <= 0 {
		return slots
	}

	dayStart := ParseHM(date, wh.StartTime)
	dayEnd := ParseHM(date, wh.EndTime)

	hasLunch := wh.LunchStart != "" && wh.LunchEnd != ""
	var lunchStart, lunchEnd time.Time
	if hasLunch {
		lunchStart = ParseHM(date, wh.LunchStart)
		lunchEnd = ParseHM(date, wh.LunchEnd)
	}

	apIdx := 0

	for cur := dayStart; !cur.Add(duration).After(dayEnd); cur = cur.Add(duration) {

		slotStart := cur
		slotEnd := cur.Add(duration)

		// almoço
		if hasLunch && slotStart.Before(lunchEnd) && slotEnd.After(lunchStart) {
			continue
		}

		// avança agendamentos finalizados
		for apIdx < len(booked) && !booked[apIdx].EndTime.After(slotStart) {
			apIdx++
		}

		conflict := false
		for i := apIdx; i < len(booked) && booked[i].StartTime.Before(slotEnd); i++ {
			if slotStart.Before(booked[i].EndTime) && slotEnd.After(booked[i].StartTime) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, TimeSlot{
				Start: slotStart.Format("15:04"),
				End:   slotEnd.Format("15:04"),
			})
		}
	}

	return slots
}
