package calendar

import (
	"fmt"
	"time"

	"github.com/frahmantamala/timechronos/internal"
)

// CalendarDay is one row of the precomputed dim_date table. The table is
// written once by the seed command and treated as read-only afterwards.
type CalendarDay struct {
	ID         int64     `json:"-" gorm:"primaryKey"`
	DateActual time.Time `json:"date" gorm:"column:date_actual;type:date;uniqueIndex;not null"`
	DayOfWeek  int       `json:"day_of_week" gorm:"column:day_of_week"`
	ISOWeek    int       `json:"iso_week" gorm:"column:iso_week;not null"`
	ISOYear    int       `json:"iso_year" gorm:"column:iso_year;not null"`
	WeekStart  time.Time `json:"week_start" gorm:"column:week_start;type:date;not null"`
	WeekEnd    time.Time `json:"week_end" gorm:"column:week_end;type:date;not null"`
}

func (CalendarDay) TableName() string {
	return "dim_date"
}

// WeekBounds is the resolved ISO week for a date: the week number, the ISO
// year it belongs to, and the Monday/Sunday bounding it.
type WeekBounds struct {
	ISOWeek   int       `json:"iso_week"`
	ISOYear   int       `json:"iso_year"`
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`
}

// TimesheetName derives the canonical weekly timesheet title.
func (w WeekBounds) TimesheetName() string {
	return fmt.Sprintf("Week %d, %d Timesheet", w.ISOWeek, w.ISOYear)
}

var ErrDateOutOfRange = internal.NewNotFoundError(
	"date is outside the precomputed calendar range", internal.ErrCodeDateOutOfRange)

// BuildHorizon computes the dim_date rows for every day in [start, end].
// Week numbering follows ISO-8601: weeks start on Monday and week 1 holds
// the year's first Thursday.
func BuildHorizon(start, end time.Time) []*CalendarDay {
	start = Midnight(start)
	end = Midnight(end)

	var days []*CalendarDay
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		isoYear, isoWeek := d.ISOWeek()
		weekStart := mondayOf(d)
		days = append(days, &CalendarDay{
			DateActual: d,
			DayOfWeek:  isoWeekday(d),
			ISOWeek:    isoWeek,
			ISOYear:    isoYear,
			WeekStart:  weekStart,
			WeekEnd:    weekStart.AddDate(0, 0, 6),
		})
	}
	return days
}

// Midnight truncates a timestamp to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isoWeekday maps Monday..Sunday to 1..7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func mondayOf(t time.Time) time.Time {
	return Midnight(t).AddDate(0, 0, 1-isoWeekday(t))
}
