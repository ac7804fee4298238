// Package datetime coerces loosely typed values into time.Time.
package datetime

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/araddon/dateparse"
)

var ErrUnsupportedType = errors.New("unsupported datetime type")

// Ensure converts v to a time. Strings are parsed in any common layout,
// numbers are read as Unix seconds (fractions allowed) in local time.
func Ensure(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case *time.Time:
		if val == nil {
			return time.Time{}, fmt.Errorf("%w: nil *time.Time", ErrUnsupportedType)
		}
		return *val, nil
	case string:
		t, err := dateparse.ParseLocal(val)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse %q: %w", val, err)
		}
		return t, nil
	case int:
		return FromTimestamp10(float64(val)), nil
	case int64:
		return FromTimestamp10(float64(val)), nil
	case float64:
		return FromTimestamp10(val), nil
	case float32:
		return FromTimestamp10(float64(val)), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// ParseUTC parses s as a UTC time, ignoring any zone it names, and converts
// it to loc. A nil loc means time.Local.
func ParseUTC(s string, loc *time.Location) (time.Time, error) {
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	if loc == nil {
		loc = time.Local
	}

	utc := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return utc.In(loc), nil
}

// ParseUTCIn is ParseUTC with the target zone given by IANA name.
func ParseUTCIn(s, zone string) (time.Time, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("load zone %q: %w", zone, err)
	}
	return ParseUTC(s, loc)
}

// FromTimestamp10 converts Unix seconds to local time.
func FromTimestamp10(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9))
}

// FromTimestamp13 converts Unix milliseconds to local time.
func FromTimestamp13(ms float64) time.Time {
	whole, frac := math.Modf(ms)
	return time.UnixMilli(int64(whole)).Add(time.Duration(frac * float64(time.Millisecond)))
}

// Date returns local midnight offset by the given number of days from now.
func Date(offset int) time.Time {
	return dateAt(time.Now(), offset)
}

func dateAt(now time.Time, offset int) time.Time {
	y, m, d := now.AddDate(0, 0, offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

func Today() time.Time     { return Date(0) }
func Yesterday() time.Time { return Date(-1) }
func Tomorrow() time.Time  { return Date(1) }
