package jsql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Location is the zone in which Date, Time and Timestamp components are
// interpreted and rendered. Set it before any value is built; it is not
// guarded against concurrent change.
var Location = time.Local

var (
	// ErrInvalidFormat is returned when an escape literal does not match its
	// grammar or one of its fields is out of range.
	ErrInvalidFormat = errors.New("sql: invalid escape format")

	// ErrOutOfRange is returned when a component passed to a constructor or
	// setter is outside its valid range. Such errors match ErrInvalidFormat
	// too.
	ErrOutOfRange = errors.New("sql: value out of range")

	// ErrUnsupportedOperation is returned when a value is asked for a field
	// it does not represent, such as the hour of a Date.
	ErrUnsupportedOperation = errors.New("sql: unsupported operation")
)

// Field names one component of a date-time value.
type Field uint8

const (
	FieldYear Field = iota
	FieldMonth
	FieldDay
	FieldHour
	FieldMinute
	FieldSecond
	FieldNanosecond
)

// String returns the name of the field.
func (f Field) String() string {
	switch f {
	case FieldYear:
		return "year"
	case FieldMonth:
		return "month"
	case FieldDay:
		return "day"
	case FieldHour:
		return "hour"
	case FieldMinute:
		return "minute"
	case FieldSecond:
		return "second"
	case FieldNanosecond:
		return "nanosecond"
	default:
		return "Field(" + strconv.Itoa(int(f)) + ")"
	}
}

const (
	yearLength  = 4
	monthLength = 2
	dayLength   = 2
	maxMonth    = 12
	maxDay      = 31
	maxNanos    = 999999999
)

// Temporal is implemented by *Date, *Time and *Timestamp. Get and Set fail
// with ErrUnsupportedOperation for fields the value does not represent.
type Temporal interface {
	Get(f Field) (int, error)
	Set(f Field, v int) error
	Millis() int64
	SetMillis(ms int64)
	String() string
}

var (
	_ Temporal = (*Date)(nil)
	_ Temporal = (*Time)(nil)
	_ Temporal = (*Timestamp)(nil)
)

func unsupportedField(f Field, typ string) error {
	return fmt.Errorf("%w: %s of a %s", ErrUnsupportedOperation, f, typ)
}

func invalidFormat(s, grammar string) error {
	return fmt.Errorf("%w: %q does not match %s", ErrInvalidFormat, s, grammar)
}

func checkRange(f Field, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w (%w): %s %d not in [%d, %d]", ErrOutOfRange, ErrInvalidFormat, f, v, lo, hi)
	}
	return nil
}

func checkDate(month time.Month, day int) error {
	if err := checkRange(FieldMonth, int(month), 1, maxMonth); err != nil {
		return err
	}
	return checkRange(FieldDay, day, 1, maxDay)
}

func checkClock(hour, minute, second int) error {
	if err := checkRange(FieldHour, hour, 0, 23); err != nil {
		return err
	}
	if err := checkRange(FieldMinute, minute, 0, 59); err != nil {
		return err
	}
	return checkRange(FieldSecond, second, 0, 59)
}

// indexFrom is strings.IndexByte starting at from.
func indexFrom(s string, c byte, from int) int {
	if from < 0 {
		from = 0
	}
	if from > len(s) {
		return -1
	}
	i := strings.IndexByte(s[from:], c)
	if i < 0 {
		return -1
	}
	return i + from
}

// atoiDigits is strconv.Atoi restricted to unsigned decimal digits.
func atoiDigits(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// parseDateFields parses yyyy-[m]m-[d]d. Calendar validity is not checked:
// any day in 1..31 is accepted for every month.
func parseDateFields(s string) (year int, month time.Month, day int, ok bool) {
	n := len(s)
	firstDash := strings.IndexByte(s, '-')
	secondDash := indexFrom(s, '-', firstDash+1)
	if firstDash <= 0 || secondDash <= 0 || secondDash >= n-1 {
		return 0, 0, 0, false
	}
	if firstDash != yearLength ||
		secondDash-firstDash <= 1 || secondDash-firstDash > monthLength+1 ||
		n-secondDash <= 1 || n-secondDash > dayLength+1 {
		return 0, 0, 0, false
	}
	y, err := atoiDigits(s[:firstDash])
	if err != nil {
		return 0, 0, 0, false
	}
	m, err := atoiDigits(s[firstDash+1 : secondDash])
	if err != nil {
		return 0, 0, 0, false
	}
	d, err := atoiDigits(s[secondDash+1:])
	if err != nil {
		return 0, 0, 0, false
	}
	if m < 1 || m > maxMonth || d < 1 || d > maxDay {
		return 0, 0, 0, false
	}
	return y, time.Month(m), d, true
}

// parseClockFields parses hh:mm:ss[.f...]. withFraction enables the optional
// fraction; without it a '.' is just an invalid seconds field.
func parseClockFields(s string, withFraction bool) (hour, minute, second, nanos int, ok bool) {
	n := len(s)
	firstColon := strings.IndexByte(s, ':')
	secondColon := indexFrom(s, ':', firstColon+1)
	if firstColon <= 0 || secondColon <= 0 || secondColon >= n-1 {
		return 0, 0, 0, 0, false
	}
	var err error
	if hour, err = atoiDigits(s[:firstColon]); err != nil {
		return 0, 0, 0, 0, false
	}
	if minute, err = atoiDigits(s[firstColon+1 : secondColon]); err != nil {
		return 0, 0, 0, 0, false
	}

	period := -1
	if withFraction {
		period = indexFrom(s, '.', secondColon+1)
	}
	switch {
	case period > 0 && period < n-1:
		if second, err = atoiDigits(s[secondColon+1 : period]); err != nil {
			return 0, 0, 0, 0, false
		}
		if nanos, ok = parseFraction(s[period+1:]); !ok {
			return 0, 0, 0, 0, false
		}
	case period > 0:
		return 0, 0, 0, 0, false
	default:
		if second, err = atoiDigits(s[secondColon+1:]); err != nil {
			return 0, 0, 0, 0, false
		}
	}
	if checkClock(hour, minute, second) != nil {
		return 0, 0, 0, 0, false
	}
	return hour, minute, second, nanos, true
}

// parseFraction turns 1 to 9 fraction digits into nanoseconds.
func parseFraction(f string) (int, bool) {
	precision := len(f)
	if precision == 0 || precision > 9 || f[0] < '0' || f[0] > '9' {
		return 0, false
	}
	v, err := atoiDigits(f)
	if err != nil || v < 0 {
		return 0, false
	}
	for ; precision < 9; precision++ {
		v *= 10
	}
	return v, true
}

// appendPadded appends v in decimal, left padded with zeros to width.
func appendPadded(buf []byte, v, width int) []byte {
	if v < 0 {
		buf = append(buf, '-')
		v = -v
		width--
	}
	s := strconv.Itoa(v)
	for i := len(s); i < width; i++ {
		buf = append(buf, '0')
	}
	return append(buf, s...)
}

func appendDate(buf []byte, year int, month time.Month, day int) []byte {
	buf = appendPadded(buf, year, yearLength)
	buf = append(buf, '-')
	buf = appendPadded(buf, int(month), monthLength)
	buf = append(buf, '-')
	return appendPadded(buf, day, dayLength)
}

func appendClock(buf []byte, hour, minute, second int) []byte {
	buf = appendPadded(buf, hour, 2)
	buf = append(buf, ':')
	buf = appendPadded(buf, minute, 2)
	buf = append(buf, ':')
	return appendPadded(buf, second, 2)
}

// appendNanos appends the fraction digits of nanos, without the dot. Trailing
// zeros are dropped but at least one digit is written.
func appendNanos(buf []byte, nanos int) []byte {
	if nanos == 0 {
		return append(buf, '0')
	}
	var digits [9]byte
	for i := 8; i >= 0; i-- {
		digits[i] = byte('0' + nanos%10)
		nanos /= 10
	}
	n := len(digits)
	for n > 1 && digits[n-1] == '0' {
		n--
	}
	return append(buf, digits[:n]...)
}
