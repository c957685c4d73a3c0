package tx

import (
	"github.com/gopherdb/simpledb/file"
	"github.com/gopherdb/simpledb/log"
	"github.com/gopherdb/simpledb/types"
)

// CheckpointRecord marks a point in the log before which no uncommitted
// transaction's updates remain; recovery can stop scanning backward once it
// reaches one.
type CheckpointRecord struct {
	LogRecord
}

// NewCheckpointRecord creates a new CheckpointRecord. It carries no payload.
func NewCheckpointRecord() (*CheckpointRecord, error) {
	return &CheckpointRecord{}, nil
}

// Op returns the type of the log record.
func (r *CheckpointRecord) Op() LogRecordType {
	return Checkpoint
}

// TxNumber returns a dummy value, since a checkpoint record has no
// associated transaction.
func (r *CheckpointRecord) TxNumber() int {
	return -1
}

// Undo does nothing. A checkpoint record does not change any data.
func (r *CheckpointRecord) Undo(_ *Transaction) error {
	return nil
}

// String returns a string representation of the log record.
func (r *CheckpointRecord) String() string {
	return "<CHECKPOINT>"
}

// WriteCheckpointToLog writes a quiescent checkpoint record to the log. The
// record contains only the Checkpoint operator.
// The method returns the LSN of the new log record.
func WriteCheckpointToLog(logManager *log.Manager) (int64, error) {
	record := make([]byte, types.IntSize)
	page := file.NewPageFromBytes(record)
	page.SetInt(0, int32(Checkpoint))
	return logManager.Append(record)
}
