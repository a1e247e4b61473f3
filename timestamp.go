package jsql

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const timestampGrammar = "yyyy-[m]m-[d]d hh:mm:ss[.fffffffff]"

// Timestamp is an SQL TIMESTAMP with nanosecond precision. The millisecond
// part always falls on a whole second; everything below the second lives in
// the nanos field.
type Timestamp struct {
	millis int64
	nanos  int
}

// NewTimestamp returns the given instant in Location.
func NewTimestamp(year int, month time.Month, day, hour, minute, second, nanos int) (Timestamp, error) {
	if err := checkDate(month, day); err != nil {
		return Timestamp{}, err
	}
	if err := checkClock(hour, minute, second); err != nil {
		return Timestamp{}, err
	}
	if err := checkRange(FieldNanosecond, nanos, 0, maxNanos); err != nil {
		return Timestamp{}, err
	}
	return TimestampOf(time.Date(year, month, day, hour, minute, second, nanos, Location)), nil
}

// TimestampFromMillis returns the Timestamp holding ms milliseconds since
// the epoch. The sub-second part of ms moves into the nanos field.
func TimestampFromMillis(ms int64) Timestamp {
	var ts Timestamp
	ts.SetMillis(ms)
	return ts
}

// TimestampOf returns t as a Timestamp.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{millis: t.Unix() * 1000, nanos: t.Nanosecond()}
}

// ParseTimestamp parses a timestamp escape literal,
// yyyy-[m]m-[d]d hh:mm:ss[.f...]. The fraction may hold up to nine digits;
// surrounding white space is ignored.
func ParseTimestamp(s string) (Timestamp, error) {
	trimmed := strings.TrimSpace(s)
	space := strings.IndexByte(trimmed, ' ')
	if space < 0 {
		return Timestamp{}, invalidFormat(s, timestampGrammar)
	}
	y, mo, d, ok := parseDateFields(trimmed[:space])
	if !ok {
		return Timestamp{}, invalidFormat(s, timestampGrammar)
	}
	h, mi, sec, nanos, ok := parseClockFields(trimmed[space+1:], true)
	if !ok {
		return Timestamp{}, invalidFormat(s, timestampGrammar)
	}
	return TimestampOf(time.Date(y, mo, d, h, mi, sec, nanos, Location)), nil
}

// Millis returns the milliseconds since the epoch, including the
// milliseconds held in the nanos field.
func (ts Timestamp) Millis() int64 {
	return ts.millis + int64(ts.nanos/1000000)
}

// SetMillis replaces the instant held by ts.
func (ts *Timestamp) SetMillis(ms int64) {
	ts.millis = (ms / 1000) * 1000
	ts.nanos = int(ms%1000) * 1000000
	if ts.nanos < 0 {
		ts.nanos += 1000000000
		ts.millis = (ms/1000 - 1) * 1000
	}
}

// Nanos returns the fractional second, in nanoseconds.
func (ts Timestamp) Nanos() int { return ts.nanos }

// SetNanos replaces the fractional second. n must be in [0, 999999999].
func (ts *Timestamp) SetNanos(n int) error {
	if err := checkRange(FieldNanosecond, n, 0, maxNanos); err != nil {
		return err
	}
	ts.nanos = n
	return nil
}

// GoTime returns ts as a time.Time in Location.
func (ts Timestamp) GoTime() time.Time {
	return time.Unix(ts.millis/1000, int64(ts.nanos)).In(Location)
}

// Get returns any field of ts.
func (ts *Timestamp) Get(f Field) (int, error) {
	t := ts.GoTime()
	switch f {
	case FieldYear:
		return t.Year(), nil
	case FieldMonth:
		return int(t.Month()), nil
	case FieldDay:
		return t.Day(), nil
	case FieldHour:
		return t.Hour(), nil
	case FieldMinute:
		return t.Minute(), nil
	case FieldSecond:
		return t.Second(), nil
	case FieldNanosecond:
		return ts.nanos, nil
	default:
		return 0, unsupportedField(f, "Timestamp")
	}
}

// Set replaces one field of ts, keeping the others.
func (ts *Timestamp) Set(f Field, v int) error {
	t := ts.GoTime()
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	n := ts.nanos
	switch f {
	case FieldYear:
		y = v
	case FieldMonth:
		mo = time.Month(v)
	case FieldDay:
		d = v
	case FieldHour:
		h = v
	case FieldMinute:
		mi = v
	case FieldSecond:
		s = v
	case FieldNanosecond:
		n = v
	default:
		return unsupportedField(f, "Timestamp")
	}
	nts, err := NewTimestamp(y, mo, d, h, mi, s, n)
	if err != nil {
		return err
	}
	*ts = nts
	return nil
}

// Compare returns -1, 0 or +1 as ts is before, equal to or after o.
func (ts Timestamp) Compare(o Timestamp) int {
	switch {
	case ts.millis < o.millis:
		return -1
	case ts.millis > o.millis:
		return 1
	case ts.nanos < o.nanos:
		return -1
	case ts.nanos > o.nanos:
		return 1
	}
	return 0
}

// Before reports whether ts is before o.
func (ts Timestamp) Before(o Timestamp) bool { return ts.Compare(o) < 0 }

// After reports whether ts is after o.
func (ts Timestamp) After(o Timestamp) bool { return ts.Compare(o) > 0 }

// Equal reports whether ts and o are the same instant.
func (ts Timestamp) Equal(o Timestamp) bool { return ts.Compare(o) == 0 }

// String formats ts as yyyy-mm-dd hh:mm:ss.f, with trailing zeros of the
// fraction removed.
func (ts Timestamp) String() string {
	t := ts.GoTime()
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	buf := make([]byte, 0, len("2006-01-02 15:04:05.999999999"))
	buf = appendDate(buf, y, mo, d)
	buf = append(buf, ' ')
	buf = appendClock(buf, h, mi, s)
	buf = append(buf, '.')
	buf = appendNanos(buf, ts.nanos)
	return string(buf)
}

// Value implements the driver Valuer interface.
func (ts Timestamp) Value() (driver.Value, error) {
	return ts.GoTime(), nil
}

// Scan implements the Scanner interface. It accepts a time.Time or a
// timestamp or date escape literal.
func (ts *Timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*ts = TimestampOf(v)
		return nil
	case Timestamp:
		*ts = v
		return nil
	case string:
		return ts.scanString(v)
	case []byte:
		return ts.scanString(string(v))
	case nil:
		return fmt.Errorf("sql: converting NULL to Timestamp is unsupported")
	}
	return fmt.Errorf("sql: unsupported Scan, storing driver.Value type %T into type *jsql.Timestamp", src)
}

func (ts *Timestamp) scanString(s string) error {
	if strings.IndexByte(strings.TrimSpace(s), ' ') < 0 {
		d, err := ParseDate(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		*ts = TimestampFromMillis(d.Millis())
		return nil
	}
	nts, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = nts
	return nil
}
