// Package birthday computes annual-occurrence proximity for birthdays
// stored as "YYYY-MM-DD" strings. Only month and day participate in
// ranking; the year is treated as a placeholder. All functions take the
// reference day explicitly so callers stay deterministic under test.
package birthday

import (
	"fmt"
	"strconv"
	"time"
)

// MonthDay extracts the month/day pair from a "YYYY-MM-DD" string.
// It is deliberately lenient about the year and separators; anything
// that does not yield a month in 1..12 and a day in 1..31 is rejected.
func MonthDay(date string) (month, day int, ok bool) {
	if len(date) < 10 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(date[5:7])
	if err != nil {
		return 0, 0, false
	}
	d, err := strconv.Atoi(date[8:10])
	if err != nil {
		return 0, 0, false
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return 0, 0, false
	}
	return m, d, true
}

// Display renders a birthday as a "M月D日" label. Malformed input is
// returned as-is so the caller can still show something.
func Display(date string) string {
	m, d, ok := MonthDay(date)
	if !ok {
		return date
	}
	return fmt.Sprintf("%d月%d日", m, d)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// occurrenceIn returns the occurrence of month/day in the given year.
// Feb 29 in a non-leap year becomes Mar 1 of that year. Pairs that name
// no real calendar day (e.g. Apr 31) return ok=false.
func occurrenceIn(year, month, day int) (time.Time, bool) {
	if month == 2 && day == 29 && !isLeap(year) {
		return time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC), true
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// DaysUntilNext returns the number of days from today to the next
// future-or-today occurrence of the date's month/day. ok is false when
// the input is missing, malformed, or names no real calendar day; such
// entries carry no ranking data.
func DaysUntilNext(date string, today time.Time) (int, bool) {
	m, d, ok := MonthDay(date)
	if !ok {
		return 0, false
	}
	ref := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	next, ok := occurrenceIn(ref.Year(), m, d)
	if !ok {
		return 0, false
	}
	if next.Before(ref) {
		next, ok = occurrenceIn(ref.Year()+1, m, d)
		if !ok {
			return 0, false
		}
	}
	return int(next.Sub(ref).Hours() / 24), true
}

// Age returns full calendar years between the birth date and today.
// Unlike ranking, this needs a real year, so the full date must parse.
func Age(date string, today time.Time) (int, bool) {
	born, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, false
	}
	years := today.Year() - born.Year()
	if int(today.Month())*100+today.Day() < int(born.Month())*100+born.Day() {
		years--
	}
	if years < 0 {
		return 0, false
	}
	return years, true
}
