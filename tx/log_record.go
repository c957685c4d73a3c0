package tx

import (
	"errors"
	"github.com/gopherdb/simpledb/file"
)

// LogRecordType is the type of log record.
type LogRecordType int

const (
	Checkpoint LogRecordType = iota
	Start
	Commit
	Rollback
	SetI32
	SetString
	SetU32
)

func (t LogRecordType) String() string {
	switch t {
	case Checkpoint:
		return "Checkpoint"
	case Start:
		return "Start"
	case Commit:
		return "Commit"
	case Rollback:
		return "Rollback"
	case SetI32:
		return "SetI32"
	case SetString:
		return "SetString"
	case SetU32:
		return "SetU32"
	default:
		return "Unknown"
	}
}

func FromCode(code int) (LogRecordType, error) {
	switch LogRecordType(code) {
	case Checkpoint, Start, Commit, Rollback, SetI32, SetString, SetU32:
		return LogRecordType(code), nil
	default:
		return -1, errors.New("unknown LogRecordType code")
	}
}

// LogRecord interface for log records.
type LogRecord interface {
	// Op returns the log record type.
	Op() LogRecordType

	// TxNumber returns the transaction ID stored with the log record.
	TxNumber() int

	// Undo undoes the operation encoded by this log record. Only SETI32,
	// SETSTRING, and SETU32 records do anything interesting here; the
	// others describe transaction boundaries, not data changes.
	Undo(tx *Transaction) error
}

// CreateLogRecord interprets the bytes to create the appropriate log record.
// This method assumes that the first 4 bytes of the byte array represent
// the log record type.
func CreateLogRecord(bytes []byte) (LogRecord, error) {
	p := file.NewPageFromBytes(bytes)
	code := p.GetInt(0)
	recordType, err := FromCode(int(code))
	if err != nil {
		return nil, err
	}

	switch recordType {
	case Checkpoint:
		return NewCheckpointRecord()
	case Start:
		return NewStartRecord(p)
	case Commit:
		return NewCommitRecord(p)
	case Rollback:
		return NewRollbackRecord(p)
	case SetI32:
		return NewSetI32Record(p)
	case SetString:
		return NewSetStringRecord(p)
	case SetU32:
		return NewSetU32Record(p)
	default:
		return nil, errors.New("unexpected LogRecordType")
	}
}
