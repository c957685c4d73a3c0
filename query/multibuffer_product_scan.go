package query

import (
	"github.com/gopherdb/simpledb/materialize"
	"github.com/gopherdb/simpledb/record"
	"github.com/gopherdb/simpledb/scan"
	"github.com/gopherdb/simpledb/tx"
	"time"
)

var _ scan.Scan = (*MultibufferProductScan)(nil)

// MultibufferProductScan computes the product of a left-hand scan and a
// materialized right-hand table by pinning the right side one chunk at a
// time instead of repinning a block per lhs record. Each chunk is paired
// with the lhs scan (rewound to its first record) via a plain ProductScan;
// once that chunk is exhausted the scan moves on to the next one.
type MultibufferProductScan struct {
	transaction *tx.Transaction
	lhsScan     scan.Scan
	fileName    string
	layout      *record.Layout
	chunkSize   int
	nextBNum    int
	fileSize    int
	rhsScan     *materialize.ChunkScan
	prodScan    *ProductScan
}

// NewMultibufferProductScan creates a product scan over lhsScan and the
// materialized table tblName, sizing its chunks to the transaction's
// available buffers.
func NewMultibufferProductScan(transaction *tx.Transaction, lhsScan scan.Scan, tblName string, layout *record.Layout) (*MultibufferProductScan, error) {
	fileName := tblName + ".tbl"
	fileSize, err := transaction.Size(fileName)
	if err != nil {
		return nil, err
	}

	mbps := &MultibufferProductScan{
		transaction: transaction,
		lhsScan:     lhsScan,
		fileName:    fileName,
		layout:      layout,
		fileSize:    fileSize,
		chunkSize:   materialize.BestChunkFactor(transaction.AvailableBuffers(), fileSize),
	}
	if err := mbps.BeforeFirst(); err != nil {
		return nil, err
	}
	return mbps, nil
}

// BeforeFirst positions the scan at the file's first chunk.
func (mbps *MultibufferProductScan) BeforeFirst() error {
	mbps.nextBNum = 0
	_, err := mbps.useNextChunk()
	return err
}

// Close closes the current chunk's product scan, which in turn closes both
// the lhs scan and the pinned chunk.
func (mbps *MultibufferProductScan) Close() {
	if mbps.prodScan != nil {
		mbps.prodScan.Close()
	}
}

// Next advances within the current chunk's product, moving to the next
// chunk whenever the current one is exhausted.
func (mbps *MultibufferProductScan) Next() (bool, error) {
	for {
		hasNext, err := mbps.prodScan.Next()
		if err != nil {
			return false, err
		}
		if hasNext {
			return true, nil
		}
		hasMore, err := mbps.useNextChunk()
		if err != nil {
			return false, err
		}
		if !hasMore {
			return false, nil
		}
	}
}

// useNextChunk pins the next run of blocks (sized by chunkSize) and rebuilds
// the product scan over it and the lhs scan. It returns false once the
// right-hand file is exhausted.
func (mbps *MultibufferProductScan) useNextChunk() (bool, error) {
	if mbps.nextBNum >= mbps.fileSize {
		return false, nil
	}
	if mbps.rhsScan != nil {
		mbps.rhsScan.Close()
	}

	end := mbps.nextBNum + mbps.chunkSize - 1
	if end >= mbps.fileSize {
		end = mbps.fileSize - 1
	}

	rhsScan, err := materialize.NewChunkScan(mbps.transaction, mbps.fileName, mbps.layout, mbps.nextBNum, end)
	if err != nil {
		return false, err
	}
	mbps.rhsScan = rhsScan

	if err := mbps.lhsScan.BeforeFirst(); err != nil {
		return false, err
	}
	mbps.prodScan = NewProductScan(mbps.lhsScan, rhsScan)
	mbps.nextBNum = end + 1
	return true, nil
}

func (mbps *MultibufferProductScan) GetInt(fieldName string) (int, error) {
	return mbps.prodScan.GetInt(fieldName)
}

func (mbps *MultibufferProductScan) GetLong(fieldName string) (int64, error) {
	return mbps.prodScan.GetLong(fieldName)
}

func (mbps *MultibufferProductScan) GetShort(fieldName string) (int16, error) {
	return mbps.prodScan.GetShort(fieldName)
}

func (mbps *MultibufferProductScan) GetString(fieldName string) (string, error) {
	return mbps.prodScan.GetString(fieldName)
}

func (mbps *MultibufferProductScan) GetBool(fieldName string) (bool, error) {
	return mbps.prodScan.GetBool(fieldName)
}

func (mbps *MultibufferProductScan) GetDate(fieldName string) (time.Time, error) {
	return mbps.prodScan.GetDate(fieldName)
}

func (mbps *MultibufferProductScan) GetVal(fieldName string) (any, error) {
	return mbps.prodScan.GetVal(fieldName)
}

func (mbps *MultibufferProductScan) HasField(fieldName string) bool {
	return mbps.prodScan.HasField(fieldName)
}
