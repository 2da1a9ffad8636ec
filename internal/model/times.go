package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Library rooms can only be booked between 09:00 and 21:00. The window is a
// fixed policy, not a per-room setting.
const (
	OpeningMinutes = 9 * 60  // 09:00
	ClosingMinutes = 21 * 60 // 21:00
)

// ErrTimeFormat is returned when a clock time string is not "HH:MM".
var ErrTimeFormat = errors.New("invalid time, expected HH:MM")

// ErrUnknownDuration is returned when a duration code is not one of the
// values offered by the booking form.
var ErrUnknownDuration = errors.New("unknown booking duration")

// Duration is the booking length selected on the form. Only a fixed set of
// values exists; anything else is rejected.
type Duration string

const (
	DurationHalfHour  Duration = "30min"
	DurationOneHour   Duration = "1hr"
	DurationNinetyMin Duration = "1.5hr"
	DurationTwoHours  Duration = "2hr"
)

// durationMinutes maps each duration code to its length in minutes.
var durationMinutes = map[Duration]int{
	DurationHalfHour:  30,
	DurationOneHour:   60,
	DurationNinetyMin: 90,
	DurationTwoHours:  120,
}

// TimeToMinutes converts a "HH:MM" string to minutes since midnight. It
// returns ErrTimeFormat when the input does not split into two numeric
// parts.
func TimeToMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, ErrTimeFormat
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrTimeFormat
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrTimeFormat
	}
	if h < 0 || m < 0 || m > 59 {
		return 0, ErrTimeFormat
	}
	return h*60 + m, nil
}

// MinutesToTime formats minutes since midnight as a zero-padded "HH:MM"
// string. It is the inverse of TimeToMinutes for any valid clock time.
// Hours are not wrapped at 24; a slot computed past midnight keeps its
// literal hour and is rejected by the operating-hours check instead.
func MinutesToTime(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// EndTime returns the end of a booking that starts at start and lasts d.
func EndTime(start string, d Duration) (string, error) {
	startMin, err := TimeToMinutes(start)
	if err != nil {
		return "", err
	}
	add, ok := durationMinutes[d]
	if !ok {
		return "", ErrUnknownDuration
	}
	return MinutesToTime(startMin + add), nil
}

// WithinOperatingHours reports whether [start, end] falls inside the
// 09:00-21:00 booking window, boundaries included. Malformed times count
// as outside the window rather than inside it.
func WithinOperatingHours(start, end string) bool {
	startMin, err := TimeToMinutes(start)
	if err != nil {
		return false
	}
	endMin, err := TimeToMinutes(end)
	if err != nil {
		return false
	}
	return startMin >= OpeningMinutes && endMin <= ClosingMinutes
}

// DateOnly strips the time-of-day and location from t so two timestamps on
// the same calendar day compare equal. Schedules and booking dates are
// calendar dates; comparing raw timestamps caused off-by-one-day bugs
// around midnight and DST.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "YYYY-MM-DD" calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// FormatDate renders a calendar date as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
