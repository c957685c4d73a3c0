package concurrency

import (
	"github.com/gopherdb/simpledb/file"
)

const (
	slocked = "S"
	xlocked = "X"
)

// Manager is a transaction's private view of the shared LockTable: it
// remembers which locks this transaction already holds so it never asks
// the table twice for the same block, and releases everything at once on
// commit or rollback.
type Manager struct {
	lockTable *LockTable
	locks     map[file.BlockId]string
}

// NewManager creates a concurrency manager bound to the given process-wide
// lock table. Every transaction in a Database shares the same LockTable so
// that their locks actually conflict with one another.
func NewManager(lockTable *LockTable) *Manager {
	return &Manager{
		lockTable: lockTable,
		locks:     make(map[file.BlockId]string),
	}
}

// SLock obtains a shared lock on block, if the transaction does not
// already have one.
func (m *Manager) SLock(block *file.BlockId) error {
	if _, ok := m.locks[*block]; ok {
		return nil
	}
	if err := m.lockTable.SLock(block); err != nil {
		return err
	}
	m.locks[*block] = slocked
	return nil
}

// XLock obtains an exclusive lock on block, upgrading from a shared lock
// this transaction already holds if necessary.
func (m *Manager) XLock(block *file.BlockId) error {
	if m.hasXLock(block) {
		return nil
	}
	if err := m.SLock(block); err != nil {
		return err
	}
	if err := m.lockTable.XLock(block); err != nil {
		return err
	}
	m.locks[*block] = xlocked
	return nil
}

// Release releases all locks held by this transaction.
func (m *Manager) Release() {
	for block := range m.locks {
		blk := block
		m.lockTable.Unlock(&blk)
	}
	m.locks = make(map[file.BlockId]string)
}

func (m *Manager) hasXLock(block *file.BlockId) bool {
	lockType, ok := m.locks[*block]
	return ok && lockType == xlocked
}
