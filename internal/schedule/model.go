package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinicops/internal/apperr"
)

type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

var ErrInvalidWeekday = apperr.Invalid("invalid_weekday", "day of week must be Monday..Sunday")

func ParseWeekday(s string) (Weekday, error) {
	switch d := Weekday(s); d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return d, nil
	}
	return "", ErrInvalidWeekday
}

// WeekdayOf maps a calendar date to its day label.
func WeekdayOf(date time.Time) Weekday {
	return Weekday(date.Weekday().String())
}

// Schedule is one weekly recurring availability window.
type Schedule struct {
	ID             uuid.UUID
	PractitionerID uuid.UUID
	Day            Weekday
	StartTime      string
	EndTime        string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s Schedule) Window() Window {
	return Window{Start: s.StartTime, End: s.EndTime}
}

type Input struct {
	PractitionerID uuid.UUID
	Day            string
	StartTime      string
	EndTime        string
	Active         *bool
}
