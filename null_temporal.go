// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsql

import (
	"database/sql"
	"database/sql/driver"
)

// NullDate represents a Date that may be null.
// NullDate implements the Scanner interface so
// it can be used as a scan destination:
//
//  var d jsql.NullDate
//  err := db.QueryRow("SELECT born FROM person WHERE id=?", id).Scan(&d)
//  ...
//  if d.Valid {
//     // use d.Date
//  } else {
//     // NULL value
//  }
//
type NullDate struct {
	Date  Date
	Valid bool // Valid is true if Date is not NULL
}

// Scan implements the Scanner interface.
func (n *NullDate) Scan(value interface{}) error {
	if value == nil {
		n.Date, n.Valid = Date{}, false
		return nil
	}
	n.Valid = true
	return n.Date.Scan(value)
}

// Value implements the driver Valuer interface.
func (n NullDate) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Date.Value()
}

// NullTime represents a Time that may be null.
// NullTime implements the Scanner interface so
// it can be used as a scan destination, similar to NullDate.
type NullTime struct {
	Time  Time
	Valid bool // Valid is true if Time is not NULL
}

// Scan implements the Scanner interface.
func (n *NullTime) Scan(value interface{}) error {
	if value == nil {
		n.Time, n.Valid = Time{}, false
		return nil
	}
	n.Valid = true
	return n.Time.Scan(value)
}

// Value implements the driver Valuer interface.
func (n NullTime) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Time.Value()
}

// NullTimestamp represents a Timestamp that may be null.
// NullTimestamp implements the Scanner interface so
// it can be used as a scan destination, similar to NullDate.
type NullTimestamp struct {
	Timestamp Timestamp
	Valid     bool // Valid is true if Timestamp is not NULL
}

// Scan implements the Scanner interface.
func (n *NullTimestamp) Scan(value interface{}) error {
	if value == nil {
		n.Timestamp, n.Valid = Timestamp{}, false
		return nil
	}
	n.Valid = true
	return n.Timestamp.Scan(value)
}

// Value implements the driver Valuer interface.
func (n NullTimestamp) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Timestamp.Value()
}

var (
	_ sql.Scanner   = (*NullDate)(nil)
	_ sql.Scanner   = (*NullTime)(nil)
	_ sql.Scanner   = (*NullTimestamp)(nil)
	_ sql.Scanner   = (*Date)(nil)
	_ sql.Scanner   = (*Time)(nil)
	_ sql.Scanner   = (*Timestamp)(nil)
	_ driver.Valuer = NullDate{}
	_ driver.Valuer = NullTime{}
	_ driver.Valuer = NullTimestamp{}
	_ driver.Valuer = Date{}
	_ driver.Valuer = Time{}
	_ driver.Valuer = Timestamp{}
)
