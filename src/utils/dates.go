package utils

import (
	"camphub/src/config"
	"time"
)

// ParseDate reads a calendar date; any time-of-day is dropped.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(config.DATE_PARSE_FORMAT, value)
	if err != nil {
		return time.Time{}, newActionError(ErrValidation, "invalid date %q, expected YYYY-MM-DD", value)
	}
	return TruncateDate(t), nil
}

func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDateRange(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, newActionError(ErrValidation, "check-out date must be after check-in date")
	}
	return in, out, nil
}

func Nights(checkIn, checkOut time.Time) int64 {
	return int64(TruncateDate(checkOut).Sub(TruncateDate(checkIn)).Hours() / 24)
}

// RangesOverlap compares [aIn, aOut) with [bIn, bOut). The check-out day is
// not occupied.
func RangesOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	aIn, aOut = TruncateDate(aIn), TruncateDate(aOut)
	bIn, bOut = TruncateDate(bIn), TruncateDate(bOut)
	return aIn.Before(bOut) && bIn.Before(aOut)
}
