package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-admin/internal/models"
)

// IsWithinWorkingHours valida se um horário está dentro do expediente
// incluindo pausa de almoço (regra de domínio)
func IsWithinWorkingHours(
	wh *models.WorkingHours,
	start time.Time,
	end time.Time,
) bool {

	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return false
	}

	workStart := ParseHM(start, wh.StartTime)
	workEnd := ParseHM(start, wh.EndTime)

	if start.Before(workStart) || end.After(workEnd) {
		return false
	}

	if wh.LunchStart != "" && wh.LunchEnd != "" {
		lunchStart := ParseHM(start, wh.LunchStart)
		lunchEnd := ParseHM(start, wh.LunchEnd)

		if start.Before(lunchEnd) && end.After(lunchStart) {
			return false
		}
	}

	return true
}

// ParseHM places an "HH:MM" clock time on day's date and location.
func ParseHM(day time.Time, hm string) time.Time {
	t, _ := time.Parse("15:04", hm)
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	)
}
