package tx

import (
	"github.com/gopherdb/simpledb/buffer"
	"github.com/gopherdb/simpledb/log"
)

// RecoveryManager implements an undo-only ARIES-style recovery scheme for a
// single transaction: every write logs a before-image record, Commit/
// Rollback force those records (and the transaction's dirty pages) to
// disk, and Recover replays the log backward undoing every transaction
// that never committed.
type RecoveryManager struct {
	logManager    *log.Manager
	bufferManager *buffer.Manager
	tx            *Transaction
	txNum         int
}

// NewRecoveryManager creates a recovery manager for the specified
// transaction, writing a START record for it immediately.
func NewRecoveryManager(tx *Transaction, txNum int, logManager *log.Manager, bufferManager *buffer.Manager) *RecoveryManager {
	rm := &RecoveryManager{
		logManager:    logManager,
		bufferManager: bufferManager,
		tx:            tx,
		txNum:         txNum,
	}
	_, _ = WriteStartToLog(logManager, txNum)
	return rm
}

// Commit flushes all buffers modified by this transaction, then writes and
// flushes a commit record to the log.
func (rm *RecoveryManager) Commit() error {
	if err := rm.bufferManager.FlushAll(rm.txNum); err != nil {
		return err
	}
	lsn, err := WriteCommitToLog(rm.logManager, rm.txNum)
	if err != nil {
		return err
	}
	return rm.logManager.Flush(lsn)
}

// Rollback undoes every change this transaction made, by scanning the log
// backward from the most recent record to this transaction's START record,
// then writes and flushes a rollback record.
func (rm *RecoveryManager) Rollback() error {
	if err := rm.doRollback(); err != nil {
		return err
	}
	if err := rm.bufferManager.FlushAll(rm.txNum); err != nil {
		return err
	}
	lsn, err := WriteRollbackToLog(rm.logManager, rm.txNum)
	if err != nil {
		return err
	}
	return rm.logManager.Flush(lsn)
}

// Recover scans the entire log backward, undoing the writes of every
// transaction that has neither a COMMIT nor a ROLLBACK record, stopping
// when it reaches a CHECKPOINT (or the start of the log). It then writes a
// quiescent checkpoint record marking recovery complete.
func (rm *RecoveryManager) Recover() error {
	if err := rm.doRecover(); err != nil {
		return err
	}
	if err := rm.bufferManager.FlushAll(rm.txNum); err != nil {
		return err
	}
	lsn, err := WriteCheckpointToLog(rm.logManager)
	if err != nil {
		return err
	}
	return rm.logManager.Flush(lsn)
}

// SetInt writes a before-image SETI32 record for the value currently at
// offset in buff's page, and returns the new record's LSN.
func (rm *RecoveryManager) SetInt(buff *buffer.Buffer, offset int, _ int) (int64, error) {
	oldValue := buff.Contents().GetInt(offset)
	block := buff.Block()
	return WriteSetI32ToLog(rm.logManager, rm.txNum, block, offset, int(oldValue))
}

// SetU32 writes a before-image SETU32 record for the value currently at
// offset in buff's page, and returns the new record's LSN.
func (rm *RecoveryManager) SetU32(buff *buffer.Buffer, offset int, _ uint32) (int64, error) {
	oldValue := buff.Contents().GetU32(offset)
	block := buff.Block()
	return WriteSetU32ToLog(rm.logManager, rm.txNum, block, offset, oldValue)
}

// SetString writes a before-image SETSTRING record for the value currently
// at offset in buff's page, and returns the new record's LSN.
func (rm *RecoveryManager) SetString(buff *buffer.Buffer, offset int, _ string) (int64, error) {
	oldValue, err := buff.Contents().GetString(offset)
	if err != nil {
		return -1, err
	}
	block := buff.Block()
	return WriteSetStringToLog(rm.logManager, rm.txNum, block, offset, oldValue)
}

func (rm *RecoveryManager) doRollback() error {
	iter, err := rm.logManager.Iterator()
	if err != nil {
		return err
	}
	for iter.HasNext() {
		bytes, err := iter.Next()
		if err != nil {
			return err
		}
		record, err := CreateLogRecord(bytes)
		if err != nil {
			return err
		}
		if record.TxNumber() != rm.txNum {
			continue
		}
		if record.Op() == Start {
			return nil
		}
		if err := record.Undo(rm.tx); err != nil {
			return err
		}
	}
	return nil
}

func (rm *RecoveryManager) doRecover() error {
	finishedTxs := make(map[int]bool)
	iter, err := rm.logManager.Iterator()
	if err != nil {
		return err
	}
	for iter.HasNext() {
		bytes, err := iter.Next()
		if err != nil {
			return err
		}
		record, err := CreateLogRecord(bytes)
		if err != nil {
			return err
		}
		switch record.Op() {
		case Checkpoint:
			return nil
		case Commit, Rollback:
			finishedTxs[record.TxNumber()] = true
		default:
			if !finishedTxs[record.TxNumber()] {
				if err := record.Undo(rm.tx); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
