// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsql provides the core vocabulary of a JDBC style database
// access layer: a chained SQL error taxonomy, the DATE, TIME and TIMESTAMP
// escape formats, the generic SQL type codes and the contracts a driver
// implements.
//
// The package does not execute SQL. Drivers register with a DriverManager
// and are selected by URL, the way database/sql selects drivers by name.
package jsql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// nowFunc returns the current time; it's overridden in tests.
var nowFunc = time.Now

// defaultManager backs the package level registry functions.
var defaultManager = NewDriverManager()

// Register makes a driver available to the default manager by the
// provided name. If Register is called twice with the same name or if
// driver is nil, it panics. action may be nil.
func Register(name string, d Driver, action DriverAction) {
	defaultManager.Register(name, d, action)
}

// Deregister removes the named driver from the default manager.
func Deregister(name string) error {
	return defaultManager.Deregister(name)
}

// Drivers returns a sorted list of the names of the registered drivers.
func Drivers() []string {
	return defaultManager.Drivers()
}

// Connect opens a connection through the default manager.
func Connect(ctx context.Context, url string, props Properties) (Connection, error) {
	return defaultManager.Connect(ctx, url, props)
}

// DefaultManager returns the manager used by the package level functions.
func DefaultManager() *DriverManager {
	return defaultManager
}

// IsolationLevel is a transaction isolation level. The values are the
// codes defined by java.sql.Connection.
type IsolationLevel int

// Isolation levels a Connection may support.
//
// See https://en.wikipedia.org/wiki/Isolation_(database_systems)#Isolation_levels.
const (
	LevelNone            IsolationLevel = 0
	LevelReadUncommitted IsolationLevel = 1
	LevelReadCommitted   IsolationLevel = 2
	LevelRepeatableRead  IsolationLevel = 4
	LevelSerializable    IsolationLevel = 8
)

// String returns the name of the transaction isolation level.
func (i IsolationLevel) String() string {
	switch i {
	case LevelNone:
		return "None"
	case LevelReadUncommitted:
		return "Read Uncommitted"
	case LevelReadCommitted:
		return "Read Committed"
	case LevelRepeatableRead:
		return "Repeatable Read"
	case LevelSerializable:
		return "Serializable"
	default:
		return "IsolationLevel(" + strconv.Itoa(int(i)) + ")"
	}
}

var _ fmt.Stringer = LevelNone

// SQLLevel returns the database/sql level with the same semantics.
// LevelNone maps to sql.LevelDefault.
func (i IsolationLevel) SQLLevel() (sql.IsolationLevel, error) {
	switch i {
	case LevelNone:
		return sql.LevelDefault, nil
	case LevelReadUncommitted:
		return sql.LevelReadUncommitted, nil
	case LevelReadCommitted:
		return sql.LevelReadCommitted, nil
	case LevelRepeatableRead:
		return sql.LevelRepeatableRead, nil
	case LevelSerializable:
		return sql.LevelSerializable, nil
	}
	return 0, fmt.Errorf("sql: unknown isolation level %d", int(i))
}

// IsolationLevelOf maps a database/sql level onto the closest level with a
// JDBC code. Levels without one fail with a KindFeatureNotSupported error.
func IsolationLevelOf(l sql.IsolationLevel) (IsolationLevel, error) {
	switch l {
	case sql.LevelDefault:
		return LevelNone, nil
	case sql.LevelReadUncommitted:
		return LevelReadUncommitted, nil
	case sql.LevelReadCommitted:
		return LevelReadCommitted, nil
	case sql.LevelRepeatableRead:
		return LevelRepeatableRead, nil
	case sql.LevelSerializable:
		return LevelSerializable, nil
	}
	return 0, NewError(KindFeatureNotSupported, "isolation level "+l.String()+" has no JDBC code",
		WithSQLState("0A000"))
}

// TxOptions returns database/sql transaction options for i.
func (i IsolationLevel) TxOptions(readOnly bool) (*sql.TxOptions, error) {
	l, err := i.SQLLevel()
	if err != nil {
		return nil, err
	}
	return &sql.TxOptions{Isolation: l, ReadOnly: readOnly}, nil
}
