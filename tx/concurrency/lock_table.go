package concurrency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gopherdb/simpledb/file"
	"github.com/gopherdb/simpledb/internal/dberrors"
)

// maxWaitTime bounds how long a transaction waits for a conflicting lock
// before it is presumed deadlocked and aborted.
const maxWaitTime = 10 * time.Second

// exclusiveLock is the lock-table value of an exclusively locked block; a
// positive value is the number of shared locks held on the block.
const exclusiveLock = -1

// LockTable is the single, process-wide record of which blocks are locked
// and how. Every Transaction's concurrency Manager shares one LockTable, so
// that locks taken by one transaction are visible to every other.
type LockTable struct {
	mu     sync.Mutex
	cond   *sync.Cond
	locks  map[file.BlockId]int
}

// NewLockTable creates an empty, shared lock table.
func NewLockTable() *LockTable {
	lt := &LockTable{locks: make(map[file.BlockId]int)}
	lt.cond = sync.NewCond(&lt.mu)
	return lt
}

// SLock grants a shared lock on block, blocking while an exclusive lock is
// held by someone else. It returns an error if no lock becomes available
// within maxWaitTime, which this implementation treats as the signal of a
// deadlock rather than running an explicit wait-for-graph detector.
func (lt *LockTable) SLock(block *file.BlockId) error {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	deadline := time.Now().Add(maxWaitTime)
	for lt.hasXLock(block) {
		if waitingTooLong(deadline) {
			return fmt.Errorf("timed out waiting for slock on %s: %w", block, dberrors.ErrLockAbort)
		}
		lt.waitWithDeadline(deadline)
	}
	lt.locks[*block]++
	return nil
}

// XLock grants an exclusive lock on block, blocking until no one else holds
// any lock on it (shared or exclusive). Callers are expected to already
// hold an SLock on block, per the usual 2PL lock-upgrade protocol.
func (lt *LockTable) XLock(block *file.BlockId) error {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	deadline := time.Now().Add(maxWaitTime)
	for lt.hasOtherSLocks(block) {
		if waitingTooLong(deadline) {
			return fmt.Errorf("timed out waiting for xlock on %s: %w", block, dberrors.ErrLockAbort)
		}
		lt.waitWithDeadline(deadline)
	}
	lt.locks[*block] = exclusiveLock
	return nil
}

// Unlock releases one lock on block. If more than one shared lock is held,
// the count is decremented; otherwise (a single shared lock or an exclusive
// lock) the entry is cleared and any waiters are woken.
func (lt *LockTable) Unlock(block *file.BlockId) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	val := lt.locks[*block]
	if val > 1 {
		lt.locks[*block] = val - 1
	} else {
		delete(lt.locks, *block)
		lt.cond.Broadcast()
	}
}

func (lt *LockTable) hasXLock(block *file.BlockId) bool {
	return lt.locks[*block] == exclusiveLock
}

func (lt *LockTable) hasOtherSLocks(block *file.BlockId) bool {
	return lt.locks[*block] > 1
}

func waitingTooLong(deadline time.Time) bool {
	return time.Now().After(deadline)
}

// waitWithDeadline waits on the condition variable, but never past
// deadline — sync.Cond has no native timeout, so a goroutine races the
// context's deadline against the broadcast to wake the waiter regardless.
func (lt *LockTable) waitWithDeadline(deadline time.Time) {
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			lt.mu.Lock()
			lt.cond.Broadcast()
			lt.mu.Unlock()
		case <-done:
		}
	}()
	lt.cond.Wait()
	close(done)
}
