package jsql

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const dateGrammar = "yyyy-[m]m-[d]d"

// Date is an SQL DATE: a calendar day in Location. The instant it holds is
// kept in epoch milliseconds; only the year, month and day are exposed.
type Date struct {
	millis int64
}

// NewDate returns midnight of the given day in Location. The month must be
// in 1..12 and the day in 1..31; days past the end of the month roll over.
func NewDate(year int, month time.Month, day int) (Date, error) {
	if err := checkDate(month, day); err != nil {
		return Date{}, err
	}
	return Date{millis: time.Date(year, month, day, 0, 0, 0, 0, Location).UnixMilli()}, nil
}

// DateFromMillis returns the Date holding ms milliseconds since the epoch.
// The value is not truncated to midnight.
func DateFromMillis(ms int64) Date {
	return Date{millis: ms}
}

// DateOf returns midnight, in Location, of t's calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{millis: time.Date(y, m, d, 0, 0, 0, 0, Location).UnixMilli()}
}

// ParseDate parses a date escape literal, yyyy-[m]m-[d]d.
func ParseDate(s string) (Date, error) {
	y, m, d, ok := parseDateFields(s)
	if !ok {
		return Date{}, invalidFormat(s, dateGrammar)
	}
	return Date{millis: time.Date(y, m, d, 0, 0, 0, 0, Location).UnixMilli()}, nil
}

// Millis returns the milliseconds since the epoch.
func (d Date) Millis() int64 { return d.millis }

// SetMillis replaces the instant held by d.
func (d *Date) SetMillis(ms int64) { d.millis = ms }

// GoTime returns d as a time.Time in Location.
func (d Date) GoTime() time.Time { return time.UnixMilli(d.millis).In(Location) }

// Year returns the year of d.
func (d Date) Year() int { return d.GoTime().Year() }

// Month returns the month of d.
func (d Date) Month() time.Month { return d.GoTime().Month() }

// Day returns the day of the month of d.
func (d Date) Day() int { return d.GoTime().Day() }

// Get returns a date field. Clock fields are not represented by a Date.
func (d *Date) Get(f Field) (int, error) {
	switch f {
	case FieldYear:
		return d.Year(), nil
	case FieldMonth:
		return int(d.Month()), nil
	case FieldDay:
		return d.Day(), nil
	default:
		return 0, unsupportedField(f, "Date")
	}
}

// Set replaces one date field, keeping the others.
func (d *Date) Set(f Field, v int) error {
	y, m, day := d.GoTime().Date()
	switch f {
	case FieldYear:
		y = v
	case FieldMonth:
		m = time.Month(v)
	case FieldDay:
		day = v
	default:
		return unsupportedField(f, "Date")
	}
	nd, err := NewDate(y, m, day)
	if err != nil {
		return err
	}
	*d = nd
	return nil
}

// String formats d as yyyy-mm-dd.
func (d Date) String() string {
	y, m, day := d.GoTime().Date()
	return string(appendDate(make([]byte, 0, len("2006-01-02")), y, m, day))
}

// Value implements the driver Valuer interface.
func (d Date) Value() (driver.Value, error) {
	return d.GoTime(), nil
}

// Scan implements the Scanner interface. It accepts a time.Time or a date
// or timestamp escape literal.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case Date:
		*d = v
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case nil:
		return fmt.Errorf("sql: converting NULL to Date is unsupported")
	}
	return fmt.Errorf("sql: unsupported Scan, storing driver.Value type %T into type *jsql.Date", src)
}

func (d *Date) scanString(s string) error {
	if strings.IndexByte(strings.TrimSpace(s), ' ') >= 0 {
		ts, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		*d = DateOf(ts.GoTime())
		return nil
	}
	nd, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = nd
	return nil
}
