// ABOUTME: Multi-table atomic transaction support for the store.
// ABOUTME: RunTransaction commits all-or-nothing and notifies after commit.
package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// table helpers can run standalone or inside a transaction.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Tx is a transactional view of the store. Every read and write issued
// through it either all commits or all rolls back, including deletes
// performed earlier in the same function.
type Tx struct {
	tx *sql.Tx
}

// RunTransaction executes fn inside a single transaction spanning all
// tables. If fn returns an error or panics, every write is rolled back
// and the store is left exactly as it was. On commit a change
// notification is scheduled asynchronously.
func (d *DB) RunTransaction(fn func(tx *Tx) error) error {
	if err := d.runTransaction(fn); err != nil {
		return err
	}
	d.notifyChange()
	return nil
}

// snapshotTransaction runs fn transactionally without scheduling a
// change notification. Used for consistent multi-table reads.
func (d *DB) snapshotTransaction(fn func(tx *Tx) error) error {
	return d.runTransaction(fn)
}

func (d *DB) runTransaction(fn func(tx *Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	done := false
	defer func() {
		if !done {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	done = true
	return nil
}

// timeToMs converts a time to epoch milliseconds for storage.
func timeToMs(t time.Time) int64 {
	return t.UnixMilli()
}

// msToTime converts stored epoch milliseconds back to a time.
func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// nullableMs converts an optional time to a nullable millisecond column.
func nullableMs(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

// msPtr converts a nullable millisecond column to an optional time.
func msPtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64)
	return &t
}

// strPtr converts a nullable text column to an optional string.
func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// intPtr converts a nullable integer column to an optional int.
func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

// floatPtr converts a nullable real column to an optional float.
func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
