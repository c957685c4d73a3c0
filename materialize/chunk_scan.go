package materialize

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gopherdb/simpledb/file"
	"github.com/gopherdb/simpledb/internal/dberrors"
	"github.com/gopherdb/simpledb/record"
	"github.com/gopherdb/simpledb/scan"
	"github.com/gopherdb/simpledb/tx"
	"github.com/gopherdb/simpledb/types"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

var _ scan.Scan = (*ChunkScan)(nil)

// ChunkScan pins a contiguous run of a table's blocks simultaneously and
// scans across all of them without unpinning in between, so the same chunk
// can be rewound and replayed against many outer records (as
// MultibufferProductScan does) without repinning its blocks each time.
type ChunkScan struct {
	transaction        *tx.Transaction
	fileName           string
	layout             *record.Layout
	startBNum, endBNum int
	currentBNum        int
	pages              []*record.Page
	currentPage        *record.Page
	currentSlot        int
}

// NewChunkScan pins blocks [startBNum, endBNum] of fileName and positions
// the scan before the first record of the chunk.
func NewChunkScan(transaction *tx.Transaction, fileName string, layout *record.Layout, startBNum, endBNum int) (*ChunkScan, error) {
	cs := &ChunkScan{
		transaction: transaction,
		fileName:    fileName,
		layout:      layout,
		startBNum:   startBNum,
		endBNum:     endBNum,
	}

	numBlocks := endBNum - startBNum + 1
	cs.pages = make([]*record.Page, numBlocks)

	// Pinning each block is independent work, but tx.Transaction's buffer
	// list is not safe for concurrent mutation, so the pin calls themselves
	// are serialized behind pinMu while the surrounding fan-out is bounded
	// by a real semaphore sized to the transaction's available buffers.
	available := int64(transaction.AvailableBuffers())
	if available < 1 {
		available = 1
	}
	sem := semaphore.NewWeighted(available)
	var pinMu sync.Mutex

	group, groupCtx := errgroup.WithContext(context.Background())
	for i := 0; i < numBlocks; i++ {
		i, bnum := i, startBNum+i
		group.Go(func() error {
			if err := sem.Acquire(groupCtx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			blk := file.NewBlockId(fileName, bnum)

			pinMu.Lock()
			page, err := record.NewPage(transaction, blk, layout)
			pinMu.Unlock()
			if err != nil {
				return err
			}
			cs.pages[i] = page
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		cs.Close()
		return nil, err
	}

	cs.moveToBlock(startBNum)
	return cs, nil
}

// Close unpins every block in the chunk.
func (cs *ChunkScan) Close() {
	for _, page := range cs.pages {
		if page != nil {
			cs.transaction.Unpin(page.Block())
		}
	}
}

// BeforeFirst repositions the scan before the first record of the chunk,
// without repinning any block.
func (cs *ChunkScan) BeforeFirst() error {
	cs.moveToBlock(cs.startBNum)
	return nil
}

// Next moves to the next used slot in the chunk, crossing block boundaries
// within the chunk as needed. It returns false once the chunk is exhausted.
func (cs *ChunkScan) Next() (bool, error) {
	slot, err := cs.currentPage.NextAfter(cs.currentSlot)
	for err != nil {
		if cs.currentBNum == cs.endBNum {
			return false, nil
		}
		cs.moveToBlock(cs.currentBNum + 1)
		slot, err = cs.currentPage.NextAfter(cs.currentSlot)
	}
	cs.currentSlot = slot
	return true, nil
}

func (cs *ChunkScan) moveToBlock(bnum int) {
	cs.currentBNum = bnum
	cs.currentPage = cs.pages[bnum-cs.startBNum]
	cs.currentSlot = -1
}

func (cs *ChunkScan) GetInt(fieldName string) (int, error) {
	return cs.currentPage.GetInt(cs.currentSlot, fieldName)
}

func (cs *ChunkScan) GetLong(fieldName string) (int64, error) {
	return cs.currentPage.GetLong(cs.currentSlot, fieldName)
}

func (cs *ChunkScan) GetShort(fieldName string) (int16, error) {
	return cs.currentPage.GetShort(cs.currentSlot, fieldName)
}

func (cs *ChunkScan) GetString(fieldName string) (string, error) {
	return cs.currentPage.GetString(cs.currentSlot, fieldName)
}

func (cs *ChunkScan) GetBool(fieldName string) (bool, error) {
	return cs.currentPage.GetBool(cs.currentSlot, fieldName)
}

func (cs *ChunkScan) GetDate(fieldName string) (time.Time, error) {
	return cs.currentPage.GetDate(cs.currentSlot, fieldName)
}

func (cs *ChunkScan) HasField(fieldName string) bool {
	return cs.layout.Schema().HasField(fieldName)
}

func (cs *ChunkScan) GetVal(fieldName string) (any, error) {
	switch cs.layout.Schema().Type(fieldName) {
	case types.Integer:
		return cs.GetInt(fieldName)
	case types.Long:
		return cs.GetLong(fieldName)
	case types.Short:
		return cs.GetShort(fieldName)
	case types.Varchar:
		return cs.GetString(fieldName)
	case types.Boolean:
		return cs.GetBool(fieldName)
	case types.Date:
		return cs.GetDate(fieldName)
	default:
		return nil, fmt.Errorf("unsupported field type for %s", fieldName)
	}
}
