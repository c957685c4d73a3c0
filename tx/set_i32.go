package tx

import (
	"fmt"
	"github.com/gopherdb/simpledb/file"
	"github.com/gopherdb/simpledb/log"
	"github.com/gopherdb/simpledb/types"
)

type SetI32Record struct {
	LogRecord
	txNum  int
	offset int
	value  int32
	block  *file.BlockId
}

// NewSetI32Record creates a new SetI32Record from a Page.
func NewSetI32Record(page *file.Page) (*SetI32Record, error) {
	operationPos := 0
	txNumPos := operationPos + types.IntSize
	txNum := page.GetInt(txNumPos)

	fileNamePos := txNumPos + types.IntSize
	fileName, err := page.GetString(fileNamePos)
	if err != nil {
		return nil, err
	}

	blockNumPos := fileNamePos + file.MaxLength(len(fileName))
	blockNum := page.GetInt(blockNumPos)
	block := &file.BlockId{File: fileName, BlockNumber: int(blockNum)}

	offsetPos := blockNumPos + types.IntSize
	offset := page.GetInt(offsetPos)

	valuePos := offsetPos + types.IntSize
	value := page.GetInt(valuePos)

	return &SetI32Record{txNum: int(txNum), offset: int(offset), value: value, block: block}, nil
}

// Op returns the type of the log record.
func (r *SetI32Record) Op() LogRecordType {
	return SetI32
}

// TxNumber returns the transaction number stored in the log record.
func (r *SetI32Record) TxNumber() int {
	return r.txNum
}

// String returns a string representation of the log record.
func (r *SetI32Record) String() string {
	return fmt.Sprintf("<SETI32 %d %s %d %d>", r.txNum, r.block, r.offset, r.value)
}

// Undo replaces the specified data value with the value saved in the log
// record, pinning the block, restoring the value, and unpinning it.
func (r *SetI32Record) Undo(tx *Transaction) error {
	if err := tx.Pin(r.block); err != nil {
		return err
	}
	defer tx.Unpin(r.block)
	return tx.SetInt(r.block, r.offset, int(r.value), false) // Don't log the undo
}

// WriteSetI32ToLog writes a before-image SETI32 record to the log: the
// transaction number, the block containing the changed value, the offset
// within the block, and the old value to restore on rollback.
// The method returns the LSN of the new log record.
func WriteSetI32ToLog(logManager *log.Manager, txNum int, block *file.BlockId, offset int, val int) (int64, error) {
	operationPos := 0
	txNumPos := operationPos + types.IntSize
	fileNamePos := txNumPos + types.IntSize
	fileName := block.Filename()

	blockNumPos := fileNamePos + file.MaxLength(len(fileName))
	blockNum := block.Number()

	offsetPos := blockNumPos + types.IntSize
	valuePos := offsetPos + types.IntSize
	recordLen := valuePos + types.IntSize

	recordBytes := make([]byte, recordLen)
	page := file.NewPageFromBytes(recordBytes)

	page.SetInt(operationPos, int32(SetI32))
	page.SetInt(txNumPos, int32(txNum))
	if err := page.SetString(fileNamePos, fileName); err != nil {
		return -1, err
	}
	page.SetInt(blockNumPos, int32(blockNum))
	page.SetInt(offsetPos, int32(offset))
	page.SetInt(valuePos, int32(val))

	return logManager.Append(recordBytes)
}
