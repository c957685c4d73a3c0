package buffer

import (
	"github.com/gopherdb/simpledb/file"
	"github.com/gopherdb/simpledb/log"
)

// Buffer pairs a page-sized memory frame with the block currently assigned
// to it, the number of clients pinning it, and enough transaction state to
// flush it safely: the id of the transaction that last modified it and the
// LSN of the log record describing that modification.
type Buffer struct {
	fileManager *file.Manager
	logManager  *log.Manager
	contents    *file.Page
	block       *file.BlockId
	pins        int
	txnum       int
	lsn         int64
}

// NewBuffer creates an unassigned buffer backed by a page of the file
// manager's block size.
func NewBuffer(fileManager *file.Manager, logManager *log.Manager) *Buffer {
	return &Buffer{
		fileManager: fileManager,
		logManager:  logManager,
		contents:    file.NewPage(fileManager.BlockSize()),
		txnum:       -1,
		lsn:         -1,
	}
}

// Contents returns the page holding this buffer's data.
func (b *Buffer) Contents() *file.Page {
	return b.contents
}

// Block returns the block currently assigned to this buffer, or nil.
func (b *Buffer) Block() *file.BlockId {
	return b.block
}

// SetModified records that txnum modified this buffer, with the log
// record at lsn describing the change. A negative lsn means the change
// was not logged.
func (b *Buffer) SetModified(txnum int, lsn int64) {
	b.txnum = txnum
	if lsn >= 0 {
		b.lsn = lsn
	}
}

// isPinned reports whether any client currently holds this buffer.
func (b *Buffer) isPinned() bool {
	return b.pins > 0
}

// modifyingTxn returns the id of the transaction that last modified this
// buffer, or -1 if it is clean.
func (b *Buffer) modifyingTxn() int {
	return b.txnum
}

// assignToBlock reads block into this buffer, flushing whatever it
// previously held first.
func (b *Buffer) assignToBlock(block *file.BlockId) error {
	if err := b.flush(); err != nil {
		return err
	}
	b.block = block
	if err := b.fileManager.Read(block, b.contents); err != nil {
		return err
	}
	b.pins = 0
	return nil
}

// flush writes this buffer to disk if it has been modified, first forcing
// the log record describing the modification to disk (write-ahead logging).
func (b *Buffer) flush() error {
	if b.txnum < 0 {
		return nil
	}
	if err := b.logManager.Flush(b.lsn); err != nil {
		return err
	}
	if err := b.fileManager.Write(b.block, b.contents); err != nil {
		return err
	}
	b.txnum = -1
	return nil
}

func (b *Buffer) pin() {
	b.pins++
}

func (b *Buffer) unpin() {
	b.pins--
}
