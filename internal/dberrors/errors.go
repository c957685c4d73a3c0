// Package dberrors holds the sentinel errors for the engine's behavioral
// error kinds, so callers can tell them apart with errors.Is instead of
// matching on formatted strings.
package dberrors

import "errors"

var (
	// ErrBufferAbort means no buffer frame could be obtained within the
	// pin deadline; the caller's transaction must roll back.
	ErrBufferAbort = errors.New("buffer abort: no buffer available within deadline")

	// ErrLockAbort means a lock wait exceeded the deadline; treated as a
	// deadlock, the caller's transaction must roll back.
	ErrLockAbort = errors.New("lock abort: timed out waiting for lock")

	// ErrTableNotFound means a table name has no entry in the table catalog.
	ErrTableNotFound = errors.New("table not found")

	// ErrViewNotFound means a view name has no entry in the view catalog.
	ErrViewNotFound = errors.New("view not found")

	// ErrIndexNotFound means an index name has no entry in the index catalog.
	ErrIndexNotFound = errors.New("index not found")

	// ErrNoCurrentBlock means a B-tree page method was called after the
	// page's block was closed.
	ErrNoCurrentBlock = errors.New("no current block: page is closed")

	// ErrBadFieldType means a field's schema type doesn't match any of the
	// types a scan or page knows how to read or write.
	ErrBadFieldType = errors.New("unsupported field type")

	// ErrDowncast means a scan or plan arrived as a concrete type a caller
	// requires but did not get, e.g. opening a sort plan and not getting a
	// *query.SortScan back.
	ErrDowncast = errors.New("unexpected concrete type")
)
