package jsql

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

// Error is a database access error or warning. It carries a reason, an
// optional SQLState, a vendor specific code and an optional cause, and it
// can be linked to further errors through its chain (see SetNext).
//
// An Error must not be copied after it has been linked into a chain.
type Error struct {
	kind       Kind
	reason     string
	sqlState   string
	vendorCode int
	cause      error

	next atomic.Pointer[Error]

	updateCounts     []int64
	failedProperties map[string]ClientInfoStatus
	truncation       *Truncation
}

// Option configures an Error built by NewError.
type Option func(*Error)

// WithSQLState sets the five character SQLState of the error.
func WithSQLState(state string) Option {
	return func(e *Error) { e.sqlState = state }
}

// WithVendorCode sets the database vendor's error code.
func WithVendorCode(code int) Option {
	return func(e *Error) { e.vendorCode = code }
}

// WithCause sets the lower level error that explains this one.
func WithCause(cause error) Option {
	return func(e *Error) { e.cause = cause }
}

// NewError returns an error of the given kind. Any combination of SQLState,
// vendor code and cause may be supplied through opts.
func NewError(kind Kind, reason string, opts ...Option) *Error {
	e := &Error{kind: kind, reason: reason}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// New returns a plain KindException error.
func New(reason string, opts ...Option) *Error {
	return NewError(KindException, reason, opts...)
}

// NewWarning returns a KindWarning error. Warnings are chained to the object
// that reported them rather than returned.
func NewWarning(reason string, opts ...Option) *Error {
	return NewError(KindWarning, reason, opts...)
}

// FromCause returns an error of the given kind whose reason is the text of
// cause. A nil cause leaves the reason empty.
func FromCause(kind Kind, cause error) *Error {
	e := &Error{kind: kind, cause: cause}
	if cause != nil {
		e.reason = cause.Error()
	}
	return e
}

// NewBatchUpdateError reports a failed batch. updateCounts holds the
// result of every command the driver processed, in batch order.
func NewBatchUpdateError(reason string, updateCounts []int64, opts ...Option) *Error {
	e := NewError(KindBatchUpdate, reason, opts...)
	if updateCounts != nil {
		e.updateCounts = append([]int64(nil), updateCounts...)
	}
	return e
}

// NewClientInfoError reports client info properties that could not be set.
func NewClientInfoError(reason string, failed map[string]ClientInfoStatus, opts ...Option) *Error {
	e := NewError(KindClientInfo, reason, opts...)
	if failed != nil {
		e.failedProperties = make(map[string]ClientInfoStatus, len(failed))
		for k, v := range failed {
			e.failedProperties[k] = v
		}
	}
	return e
}

// Kind returns the classification of the error.
func (e *Error) Kind() Kind { return e.kind }

// Reason returns the description of the error.
func (e *Error) Reason() string { return e.reason }

// SQLState returns the SQLState, or "" when none was supplied.
func (e *Error) SQLState() string { return e.sqlState }

// VendorCode returns the vendor specific error code; 0 when none was supplied.
func (e *Error) VendorCode() int { return e.vendorCode }

// Unwrap returns the cause of the error. The chain built with SetNext is not
// part of the unwrap tree.
func (e *Error) Unwrap() error { return e.cause }

// UpdateCounts returns a copy of the update counts of a batch error.
func (e *Error) UpdateCounts() []int64 {
	if e.updateCounts == nil {
		return nil
	}
	return append([]int64(nil), e.updateCounts...)
}

// FailedProperties returns a copy of the properties a client info error
// could not set, with the reason for each.
func (e *Error) FailedProperties() map[string]ClientInfoStatus {
	if e.failedProperties == nil {
		return nil
	}
	out := make(map[string]ClientInfoStatus, len(e.failedProperties))
	for k, v := range e.failedProperties {
		out[k] = v
	}
	return out
}

// Is reports whether target is a Kind that e's kind descends from.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && e.kind.IsA(k)
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("sql: ")
	if e.reason != "" {
		sb.WriteString(e.reason)
	} else {
		sb.WriteString(e.kind.String())
	}
	if e.sqlState != "" || e.vendorCode != 0 {
		sb.WriteString(" (")
		if e.sqlState != "" {
			sb.WriteString("SQLState ")
			sb.WriteString(e.sqlState)
		}
		if e.vendorCode != 0 {
			if e.sqlState != "" {
				sb.WriteString(", ")
			}
			sb.WriteString("vendor code ")
			sb.WriteString(strconv.Itoa(e.vendorCode))
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// Format implements fmt.Formatter. %+v prints every node of the chain with
// its kind, state, code and cause on its own line.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			for i, n := 0, e; n != nil; i, n = i+1, n.Next() {
				if i > 0 {
					fmt.Fprint(s, "\n")
				}
				n.formatVerbose(s)
			}
			return
		}
		fmt.Fprint(s, e.Error())
	case 's':
		fmt.Fprint(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	default:
		fmt.Fprintf(s, "%%!%c(%T)", verb, e)
	}
}

func (e *Error) formatVerbose(s fmt.State) {
	fmt.Fprintf(s, "%s: %s", e.kind.String(), e.reason)
	if e.sqlState != "" {
		fmt.Fprintf(s, "\n  sqlstate: %s", e.sqlState)
	}
	if e.vendorCode != 0 {
		fmt.Fprintf(s, "\n  vendor code: %d", e.vendorCode)
	}
	if e.updateCounts != nil {
		fmt.Fprintf(s, "\n  update counts: %v", e.updateCounts)
	}
	if len(e.failedProperties) > 0 {
		names := make([]string, 0, len(e.failedProperties))
		for k := range e.failedProperties {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Fprintf(s, "\n  property %s: %s", k, e.failedProperties[k])
		}
	}
	if e.truncation != nil {
		fmt.Fprintf(s, "\n  truncation: %s", e.truncation)
	}
	if e.cause != nil {
		fmt.Fprintf(s, "\n  cause: %v", e.cause)
	}
}

// IsTransient reports whether err is, or wraps, a transient error: one
// that may succeed if retried without any change to the application.
func IsTransient(err error) bool {
	return err != nil && errors.Is(err, KindTransient)
}

// IsRecoverable reports whether err is, or wraps, a recoverable error: one
// that may succeed if the application performs recovery steps and retries.
func IsRecoverable(err error) bool {
	return err != nil && errors.Is(err, KindRecoverable)
}
