package jsql

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SQLType identifies a generic or vendor specific SQL type.
type SQLType interface {
	// Name returns the SQL type name.
	Name() string
	// Vendor returns the vendor that defines the type.
	Vendor() string
	// VendorTypeNumber returns the vendor's number for the type.
	VendorTypeNumber() int
}

// JDBCType is a generic SQL type. Its value is the type code used by
// java.sql.Types, so drivers can exchange it with JDBC based systems.
type JDBCType int32

const (
	JDBCTypeBit                   JDBCType = -7
	JDBCTypeTinyint               JDBCType = -6
	JDBCTypeSmallint              JDBCType = 5
	JDBCTypeInteger               JDBCType = 4
	JDBCTypeBigint                JDBCType = -5
	JDBCTypeFloat                 JDBCType = 6
	JDBCTypeReal                  JDBCType = 7
	JDBCTypeDouble                JDBCType = 8
	JDBCTypeNumeric               JDBCType = 2
	JDBCTypeDecimal               JDBCType = 3
	JDBCTypeChar                  JDBCType = 1
	JDBCTypeVarchar               JDBCType = 12
	JDBCTypeLongVarchar           JDBCType = -1
	JDBCTypeDate                  JDBCType = 91
	JDBCTypeTime                  JDBCType = 92
	JDBCTypeTimestamp             JDBCType = 93
	JDBCTypeBinary                JDBCType = -2
	JDBCTypeVarbinary             JDBCType = -3
	JDBCTypeLongVarbinary         JDBCType = -4
	JDBCTypeNull                  JDBCType = 0
	JDBCTypeOther                 JDBCType = 1111
	JDBCTypeJavaObject            JDBCType = 2000
	JDBCTypeDistinct              JDBCType = 2001
	JDBCTypeStruct                JDBCType = 2002
	JDBCTypeArray                 JDBCType = 2003
	JDBCTypeBlob                  JDBCType = 2004
	JDBCTypeClob                  JDBCType = 2005
	JDBCTypeRef                   JDBCType = 2006
	JDBCTypeDatalink              JDBCType = 70
	JDBCTypeBoolean               JDBCType = 16
	JDBCTypeRowID                 JDBCType = -8
	JDBCTypeNChar                 JDBCType = -15
	JDBCTypeNVarchar              JDBCType = -9
	JDBCTypeLongNVarchar          JDBCType = -16
	JDBCTypeNClob                 JDBCType = 2011
	JDBCTypeSQLXML                JDBCType = 2009
	JDBCTypeRefCursor             JDBCType = 2012
	JDBCTypeTimeWithTimezone      JDBCType = 2013
	JDBCTypeTimestampWithTimezone JDBCType = 2014
)

const jdbcVendor = "java.sql"

var jdbcTypeNames = map[JDBCType]string{
	JDBCTypeBit:                   "BIT",
	JDBCTypeTinyint:               "TINYINT",
	JDBCTypeSmallint:              "SMALLINT",
	JDBCTypeInteger:               "INTEGER",
	JDBCTypeBigint:                "BIGINT",
	JDBCTypeFloat:                 "FLOAT",
	JDBCTypeReal:                  "REAL",
	JDBCTypeDouble:                "DOUBLE",
	JDBCTypeNumeric:               "NUMERIC",
	JDBCTypeDecimal:               "DECIMAL",
	JDBCTypeChar:                  "CHAR",
	JDBCTypeVarchar:               "VARCHAR",
	JDBCTypeLongVarchar:           "LONGVARCHAR",
	JDBCTypeDate:                  "DATE",
	JDBCTypeTime:                  "TIME",
	JDBCTypeTimestamp:             "TIMESTAMP",
	JDBCTypeBinary:                "BINARY",
	JDBCTypeVarbinary:             "VARBINARY",
	JDBCTypeLongVarbinary:         "LONGVARBINARY",
	JDBCTypeNull:                  "NULL",
	JDBCTypeOther:                 "OTHER",
	JDBCTypeJavaObject:            "JAVA_OBJECT",
	JDBCTypeDistinct:              "DISTINCT",
	JDBCTypeStruct:                "STRUCT",
	JDBCTypeArray:                 "ARRAY",
	JDBCTypeBlob:                  "BLOB",
	JDBCTypeClob:                  "CLOB",
	JDBCTypeRef:                   "REF",
	JDBCTypeDatalink:              "DATALINK",
	JDBCTypeBoolean:               "BOOLEAN",
	JDBCTypeRowID:                 "ROWID",
	JDBCTypeNChar:                 "NCHAR",
	JDBCTypeNVarchar:              "NVARCHAR",
	JDBCTypeLongNVarchar:          "LONGNVARCHAR",
	JDBCTypeNClob:                 "NCLOB",
	JDBCTypeSQLXML:                "SQLXML",
	JDBCTypeRefCursor:             "REF_CURSOR",
	JDBCTypeTimeWithTimezone:      "TIME_WITH_TIMEZONE",
	JDBCTypeTimestampWithTimezone: "TIMESTAMP_WITH_TIMEZONE",
}

var jdbcTypesByName = func() map[string]JDBCType {
	m := make(map[string]JDBCType, len(jdbcTypeNames))
	for t, name := range jdbcTypeNames {
		m[name] = t
	}
	return m
}()

// Name returns the SQL name of the type, such as "VARCHAR".
func (t JDBCType) Name() string {
	if name, ok := jdbcTypeNames[t]; ok {
		return name
	}
	return "JDBCType(" + strconv.Itoa(int(t)) + ")"
}

// Vendor returns "java.sql", the owner of the type codes.
func (t JDBCType) Vendor() string { return jdbcVendor }

// VendorTypeNumber returns the java.sql.Types code of the type.
func (t JDBCType) VendorTypeNumber() int { return int(t) }

func (t JDBCType) String() string { return t.Name() }

var _ SQLType = JDBCTypeNull
var _ fmt.Stringer = JDBCTypeNull

// JDBCTypeOf returns the type with the given java.sql.Types code.
func JDBCTypeOf(code int) (JDBCType, error) {
	t := JDBCType(code)
	if _, ok := jdbcTypeNames[t]; !ok || int(t) != code {
		return 0, fmt.Errorf("sql: %d is not a valid type code", code)
	}
	return t, nil
}

// JDBCTypeByName returns the type with the given SQL name. The lookup is
// case insensitive.
func JDBCTypeByName(name string) (JDBCType, error) {
	t, ok := jdbcTypesByName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("sql: unknown type name %q", name)
	}
	return t, nil
}

// JDBCTypes returns every generic type ordered by type code.
func JDBCTypes() []JDBCType {
	list := make([]JDBCType, 0, len(jdbcTypeNames))
	for t := range jdbcTypeNames {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

// IsTemporal reports whether values of t are dates, times or timestamps.
func (t JDBCType) IsTemporal() bool {
	switch t {
	case JDBCTypeDate, JDBCTypeTime, JDBCTypeTimestamp,
		JDBCTypeTimeWithTimezone, JDBCTypeTimestampWithTimezone:
		return true
	}
	return false
}

// ParseLiteral parses an escape literal of a temporal type into a Date,
// Time or Timestamp.
func (t JDBCType) ParseLiteral(s string) (Temporal, error) {
	switch t {
	case JDBCTypeDate:
		d, err := ParseDate(s)
		if err != nil {
			return nil, err
		}
		return &d, nil
	case JDBCTypeTime:
		tm, err := ParseTime(s)
		if err != nil {
			return nil, err
		}
		return &tm, nil
	case JDBCTypeTimestamp:
		ts, err := ParseTimestamp(s)
		if err != nil {
			return nil, err
		}
		return &ts, nil
	}
	return nil, fmt.Errorf("%w: %s has no escape literal", ErrUnsupportedOperation, t.Name())
}
