package jsql

import (
	"context"
	"io"
)

// Wrapper is implemented by driver objects that wrap vendor specific
// implementations and can hand them out.
type Wrapper interface {
	// UnwrapAs stores the object implementing iface (a pointer to an
	// interface value) into iface, or fails if there is none.
	UnwrapAs(iface interface{}) error
	// IsWrapperFor reports whether UnwrapAs would succeed for iface.
	IsWrapperFor(iface interface{}) bool
}

// Blob is an SQL BLOB value. Positions are 1-based.
type Blob interface {
	Length() (int64, error)
	Bytes(pos int64, length int) ([]byte, error)
	Reader() (io.Reader, error)
	ReaderAt(pos, length int64) (io.Reader, error)
	// Position returns the position of the first occurrence of pattern at
	// or after start, or -1.
	Position(pattern []byte, start int64) (int64, error)
	SetBytes(pos int64, b []byte) (int, error)
	Writer(pos int64) (io.Writer, error)
	Truncate(length int64) error
	// Free releases the value. Any later call except Free fails.
	Free() error
}

// Clob is an SQL CLOB value. Positions and lengths count characters and
// are 1-based.
type Clob interface {
	Length() (int64, error)
	SubString(pos int64, length int) (string, error)
	Reader() (io.Reader, error)
	ReaderAt(pos, length int64) (io.Reader, error)
	Position(search string, start int64) (int64, error)
	SetString(pos int64, s string) (int, error)
	Writer(pos int64) (io.Writer, error)
	Truncate(length int64) error
	Free() error
}

// NClob is an SQL NCLOB value; it behaves as a Clob.
type NClob interface {
	Clob
}

// SQLXML is an SQL XML value.
type SQLXML interface {
	String() (string, error)
	SetString(s string) error
	Reader() (io.Reader, error)
	Writer() (io.Writer, error)
	Free() error
}

// Struct is an SQL structured type value.
type Struct interface {
	TypeName() (string, error)
	Attributes() ([]interface{}, error)
}

// Ref is a reference to an SQL structured type value in the database.
type Ref interface {
	BaseTypeName() (string, error)
	Object(ctx context.Context) (interface{}, error)
	SetObject(ctx context.Context, v interface{}) error
}

// Array is an SQL ARRAY value. Indexes are 1-based.
type Array interface {
	BaseTypeName() (string, error)
	BaseType() (SQLType, error)
	Elements(index int64, count int) ([]interface{}, error)
	Free() error
}

// RowID is an SQL ROWID value.
type RowID interface {
	Bytes() []byte
	String() string
	Equal(other RowID) bool
}

// SQLData is implemented by Go types mapped to SQL user defined types.
type SQLData interface {
	SQLTypeName() (string, error)
	ReadSQL(in SQLInput, typeName string) error
	WriteSQL(out SQLOutput) error
}

// SQLInput is a stream of attribute values read by SQLData.ReadSQL.
type SQLInput interface {
	ReadString() (string, error)
	ReadBool() (bool, error)
	ReadInt64() (int64, error)
	ReadFloat64() (float64, error)
	ReadBytes() ([]byte, error)
	ReadDate() (Date, error)
	ReadTime() (Time, error)
	ReadTimestamp() (Timestamp, error)
	ReadObject() (interface{}, error)
	// WasNull reports whether the last value read was SQL NULL.
	WasNull() (bool, error)
}

// SQLOutput is a stream of attribute values written by SQLData.WriteSQL.
type SQLOutput interface {
	WriteString(s string) error
	WriteBool(b bool) error
	WriteInt64(v int64) error
	WriteFloat64(v float64) error
	WriteBytes(b []byte) error
	WriteDate(d Date) error
	WriteTime(t Time) error
	WriteTimestamp(ts Timestamp) error
	WriteObject(v interface{}, t SQLType) error
}

// Savepoint is a point within a transaction that can be rolled back to.
type Savepoint interface {
	// ID fails for named savepoints.
	ID() (int, error)
	// Name fails for unnamed savepoints.
	Name() (string, error)
}

// DriverPropertyInfo describes one connection property a driver accepts.
type DriverPropertyInfo struct {
	Name        string
	Value       string
	Description string
	Required    bool
	Choices     []string
}

// Driver opens connections for the URLs it accepts.
type Driver interface {
	// Connect returns a new connection to url. It returns (nil, nil) when
	// the driver does not handle url so the manager can try another one.
	Connect(ctx context.Context, url string, props Properties) (Connection, error)
	AcceptsURL(url string) (bool, error)
	PropertyInfo(url string, props Properties) ([]DriverPropertyInfo, error)
	MajorVersion() int
	MinorVersion() int
	JDBCCompliant() bool
}

// DriverAction is notified when its driver is deregistered.
type DriverAction interface {
	Deregister()
}

// DriverActionFunc adapts a function to the DriverAction interface.
type DriverActionFunc func()

// Deregister calls f.
func (f DriverActionFunc) Deregister() { f() }

// Connection is a session with a database.
type Connection interface {
	io.Closer
	IsClosed() bool
	IsValid(ctx context.Context) (bool, error)

	AutoCommit() (bool, error)
	SetAutoCommit(on bool) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	SetSavepoint(ctx context.Context, name string) (Savepoint, error)
	RollbackTo(ctx context.Context, sp Savepoint) error
	ReleaseSavepoint(ctx context.Context, sp Savepoint) error

	TransactionIsolation() (IsolationLevel, error)
	SetTransactionIsolation(level IsolationLevel) error
	ReadOnly() (bool, error)
	SetReadOnly(on bool) error

	Catalog() (string, error)
	SetCatalog(name string) error
	Schema() (string, error)
	SetSchema(name string) error

	// Warnings returns the first warning reported on the connection; the
	// rest are chained to it.
	Warnings() *Error
	ClearWarnings()

	ClientInfo() (Properties, error)
	// SetClientInfo fails with a KindClientInfo error listing the
	// properties that could not be set.
	SetClientInfo(props Properties) error

	CreateBlob() (Blob, error)
	CreateClob() (Clob, error)
	CreateNClob() (NClob, error)
	CreateSQLXML() (SQLXML, error)
	CreateArray(typeName string, elements []interface{}) (Array, error)
	CreateStruct(typeName string, attributes []interface{}) (Struct, error)
}
