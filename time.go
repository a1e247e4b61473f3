package jsql

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const timeGrammar = "hh:mm:ss"

// Time is an SQL TIME: a time of day in Location. The date part of the
// instant it holds is pinned to 1970-01-01; only the hour, minute and
// second are exposed.
type Time struct {
	millis int64
}

// NewTime returns the given time of day on 1970-01-01 in Location.
func NewTime(hour, minute, second int) (Time, error) {
	if err := checkClock(hour, minute, second); err != nil {
		return Time{}, err
	}
	return clockTime(hour, minute, second), nil
}

func clockTime(hour, minute, second int) Time {
	return Time{millis: time.Date(1970, time.January, 1, hour, minute, second, 0, Location).UnixMilli()}
}

// TimeFromMillis returns the Time holding ms milliseconds since the epoch.
func TimeFromMillis(ms int64) Time {
	return Time{millis: ms}
}

// TimeOf returns t's time of day, truncated to the second.
func TimeOf(t time.Time) Time {
	h, m, s := t.Clock()
	return clockTime(h, m, s)
}

// ParseTime parses a time escape literal, hh:mm:ss. Single digit fields are
// accepted.
func ParseTime(s string) (Time, error) {
	h, m, sec, _, ok := parseClockFields(s, false)
	if !ok {
		return Time{}, invalidFormat(s, timeGrammar)
	}
	return clockTime(h, m, sec), nil
}

// Millis returns the milliseconds since the epoch.
func (t Time) Millis() int64 { return t.millis }

// SetMillis replaces the instant held by t.
func (t *Time) SetMillis(ms int64) { t.millis = ms }

// GoTime returns t as a time.Time in Location.
func (t Time) GoTime() time.Time { return time.UnixMilli(t.millis).In(Location) }

// Hour returns the hour of t.
func (t Time) Hour() int { return t.GoTime().Hour() }

// Minute returns the minute of t.
func (t Time) Minute() int { return t.GoTime().Minute() }

// Second returns the second of t.
func (t Time) Second() int { return t.GoTime().Second() }

// Get returns a clock field. Date fields are not represented by a Time.
func (t *Time) Get(f Field) (int, error) {
	switch f {
	case FieldHour:
		return t.Hour(), nil
	case FieldMinute:
		return t.Minute(), nil
	case FieldSecond:
		return t.Second(), nil
	default:
		return 0, unsupportedField(f, "Time")
	}
}

// Set replaces one clock field, keeping the others.
func (t *Time) Set(f Field, v int) error {
	h, m, s := t.GoTime().Clock()
	switch f {
	case FieldHour:
		h = v
	case FieldMinute:
		m = v
	case FieldSecond:
		s = v
	default:
		return unsupportedField(f, "Time")
	}
	nt, err := NewTime(h, m, s)
	if err != nil {
		return err
	}
	*t = nt
	return nil
}

// String formats t as hh:mm:ss.
func (t Time) String() string {
	h, m, s := t.GoTime().Clock()
	return string(appendClock(make([]byte, 0, len("15:04:05")), h, m, s))
}

// Value implements the driver Valuer interface.
func (t Time) Value() (driver.Value, error) {
	return t.GoTime(), nil
}

// Scan implements the Scanner interface. It accepts a time.Time or a time
// escape literal.
func (t *Time) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = TimeOf(v)
		return nil
	case Time:
		*t = v
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case nil:
		return fmt.Errorf("sql: converting NULL to Time is unsupported")
	}
	return fmt.Errorf("sql: unsupported Scan, storing driver.Value type %T into type *jsql.Time", src)
}

func (t *Time) scanString(s string) error {
	nt, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = nt
	return nil
}
