package jsql

import "fmt"

// Truncation describes a value a driver truncated while reading or
// writing it.
type Truncation struct {
	// Index is the column or parameter index, -1 when unknown.
	Index int
	// Parameter is true when Index names a parameter rather than a column.
	Parameter bool
	// Read is true when the truncation happened on read.
	Read bool
	// DataSize is the number of bytes that should have been transferred,
	// -1 when unknown.
	DataSize int
	// TransferSize is the number of bytes actually transferred, -1 when
	// unknown.
	TransferSize int
}

func (t *Truncation) String() string {
	what := "column"
	if t.Parameter {
		what = "parameter"
	}
	op := "write"
	if t.Read {
		op = "read"
	}
	return fmt.Sprintf("%s %d on %s, %d of %d bytes transferred", what, t.Index, op, t.TransferSize, t.DataSize)
}

// NewDataTruncation reports a truncated value. The reason is always
// "Data truncation"; the SQLState is 01004 for a read and 22001 for a write.
func NewDataTruncation(index int, parameter, read bool, dataSize, transferSize int, cause error) *Error {
	state := "22001"
	if read {
		state = "01004"
	}
	e := NewError(KindDataTruncation, "Data truncation", WithSQLState(state), WithCause(cause))
	e.truncation = &Truncation{
		Index:        index,
		Parameter:    parameter,
		Read:         read,
		DataSize:     dataSize,
		TransferSize: transferSize,
	}
	return e
}

// Truncation returns the truncation detail of a data truncation error.
func (e *Error) Truncation() (Truncation, bool) {
	if e.truncation == nil {
		return Truncation{}, false
	}
	return *e.truncation, true
}
