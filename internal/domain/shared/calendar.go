package shared

import (
	"fmt"
	"time"
)

// Layouts used on the wire for calendar values
const (
	YearMonthLayout = "2006-01"
	DateLayout      = "2006-01-02"
)

// YearMonth is a calendar month without a day component
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses a YYYY-MM string
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(YearMonthLayout, s)
	if err != nil {
		return YearMonth{}, NewInvalidInputError("invalid month %q, expected YYYY-MM", s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// YearMonthOf returns the month containing t
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// String formats the month as YYYY-MM
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// IsZero reports whether ym is the zero value
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// FirstDay returns midnight UTC on the first day of the month
func (ym YearMonth) FirstDay() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns midnight UTC on the last day of the month
func (ym YearMonth) LastDay() time.Time {
	return ym.FirstDay().AddDate(0, 1, -1)
}

// Next returns the following month
func (ym YearMonth) Next() YearMonth {
	return YearMonthOf(ym.FirstDay().AddDate(0, 1, 0))
}

// Prev returns the preceding month
func (ym YearMonth) Prev() YearMonth {
	return YearMonthOf(ym.FirstDay().AddDate(0, -1, 0))
}

// Before reports whether ym is strictly earlier than other
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Contains reports whether the calendar date of t falls in the month
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

// MonthRange returns every month from start to end inclusive. It fails when
// end precedes start or the range is longer than maxMonths (0 means no limit).
func MonthRange(start, end YearMonth, maxMonths int) ([]YearMonth, error) {
	if end.Before(start) {
		return nil, NewInvalidInputError("end month %s is before start month %s", end, start)
	}
	var months []YearMonth
	for m := start; !end.Before(m); m = m.Next() {
		months = append(months, m)
		if maxMonths > 0 && len(months) > maxMonths {
			return nil, NewInvalidInputError("month range exceeds %d months", maxMonths)
		}
	}
	return months, nil
}

// ParseDate parses a YYYY-MM-DD string as midnight UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, NewInvalidInputError("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// DateRange validates an inclusive date range and returns the number of days it covers
func DateRange(start, end time.Time, maxDays int) (int, error) {
	if end.Before(start) {
		return 0, NewInvalidInputError("end date %s is before start date %s",
			end.Format(DateLayout), start.Format(DateLayout))
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if maxDays > 0 && days > maxDays {
		return 0, NewInvalidInputError("date range exceeds %d days", maxDays)
	}
	return days, nil
}
