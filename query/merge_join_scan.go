package query

import (
	"github.com/gopherdb/simpledb/record"
	"github.com/gopherdb/simpledb/scan"
	"github.com/gopherdb/simpledb/types"
	"time"
)

var _ scan.Scan = (*MergeJoinScan)(nil)

// MergeJoinScan implements the merge join operator over two scans that are
// each already sorted on their respective join field. It advances both
// scans in lockstep; whenever scan2 lands on a run of records matching the
// current joinValue, its position is saved so the run can be replayed
// against every scan1 record it matches.
type MergeJoinScan struct {
	scan1      scan.Scan
	scan2      *SortScan
	fieldName1 string
	fieldName2 string
	joinValue  any
}

// NewMergeJoinScan creates a merge join scan for the two underlying
// sorted scans, joining on fieldName1 (from s1) and fieldName2 (from s2).
func NewMergeJoinScan(s1 scan.Scan, s2 *SortScan, fieldName1, fieldName2 string) *MergeJoinScan {
	return &MergeJoinScan{
		scan1:      s1,
		scan2:      s2,
		fieldName1: fieldName1,
		fieldName2: fieldName2,
	}
}

// BeforeFirst positions the scan before the first record of each underlying scan.
func (mjs *MergeJoinScan) BeforeFirst() error {
	if err := mjs.scan1.BeforeFirst(); err != nil {
		return err
	}
	mjs.joinValue = nil
	return mjs.scan2.BeforeFirst()
}

// Close closes both underlying scans.
func (mjs *MergeJoinScan) Close() {
	mjs.scan1.Close()
	mjs.scan2.Close()
}

// Next moves to the next record satisfying the join condition. Both sides
// are pre-sorted on the join field, so it is sufficient to advance whichever
// side currently has the smaller value; when both sides agree, scan2's
// position is saved so the matching run can be re-walked for each scan1
// record carrying the same join value.
func (mjs *MergeJoinScan) Next() (bool, error) {
	hasMore2, err := mjs.scan2.Next()
	if err != nil {
		return false, err
	}
	if hasMore2 && mjs.joinValue != nil {
		val2, err := mjs.scan2.GetVal(mjs.fieldName2)
		if err != nil {
			return false, err
		}
		if equalValues(val2, mjs.joinValue) {
			return true, nil
		}
	}

	hasMore1, err := mjs.scan1.Next()
	if err != nil {
		return false, err
	}
	if hasMore1 {
		val1, err := mjs.scan1.GetVal(mjs.fieldName1)
		if err != nil {
			return false, err
		}
		if equalValues(val1, mjs.joinValue) {
			if err := mjs.scan2.RestorePosition(); err != nil {
				return false, err
			}
			return true, nil
		}
	}

	for hasMore1 && hasMore2 {
		val1, err := mjs.scan1.GetVal(mjs.fieldName1)
		if err != nil {
			return false, err
		}
		val2, err := mjs.scan2.GetVal(mjs.fieldName2)
		if err != nil {
			return false, err
		}

		switch {
		case types.CompareSupportedTypes(val1, val2, types.LT):
			hasMore1, err = mjs.scan1.Next()
			if err != nil {
				return false, err
			}
		case types.CompareSupportedTypes(val1, val2, types.GT):
			hasMore2, err = mjs.scan2.Next()
			if err != nil {
				return false, err
			}
		default:
			mjs.scan2.SavePosition()
			mjs.joinValue = val2
			return true, nil
		}
	}

	return false, nil
}

// equalValues reports whether two field values compare equal, treating a
// nil joinValue (no join value established yet) as never matching.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	return !types.CompareSupportedTypes(a, b, types.LT) && !types.CompareSupportedTypes(a, b, types.GT)
}

// GetInt returns the integer value of the specified field in the current record.
func (mjs *MergeJoinScan) GetInt(fieldName string) (int, error) {
	if mjs.scan1.HasField(fieldName) {
		return mjs.scan1.GetInt(fieldName)
	}
	return mjs.scan2.GetInt(fieldName)
}

// GetLong returns the long value of the specified field in the current record.
func (mjs *MergeJoinScan) GetLong(fieldName string) (int64, error) {
	if mjs.scan1.HasField(fieldName) {
		return mjs.scan1.GetLong(fieldName)
	}
	return mjs.scan2.GetLong(fieldName)
}

// GetShort returns the short value of the specified field in the current record.
func (mjs *MergeJoinScan) GetShort(fieldName string) (int16, error) {
	if mjs.scan1.HasField(fieldName) {
		return mjs.scan1.GetShort(fieldName)
	}
	return mjs.scan2.GetShort(fieldName)
}

// GetString returns the string value of the specified field in the current record.
func (mjs *MergeJoinScan) GetString(fieldName string) (string, error) {
	if mjs.scan1.HasField(fieldName) {
		return mjs.scan1.GetString(fieldName)
	}
	return mjs.scan2.GetString(fieldName)
}

// GetBool returns the boolean value of the specified field in the current record.
func (mjs *MergeJoinScan) GetBool(fieldName string) (bool, error) {
	if mjs.scan1.HasField(fieldName) {
		return mjs.scan1.GetBool(fieldName)
	}
	return mjs.scan2.GetBool(fieldName)
}

// GetDate returns the date value of the specified field in the current record.
func (mjs *MergeJoinScan) GetDate(fieldName string) (time.Time, error) {
	if mjs.scan1.HasField(fieldName) {
		return mjs.scan1.GetDate(fieldName)
	}
	return mjs.scan2.GetDate(fieldName)
}

// GetVal returns the value of the specified field in the current record.
func (mjs *MergeJoinScan) GetVal(fieldName string) (any, error) {
	if mjs.scan1.HasField(fieldName) {
		return mjs.scan1.GetVal(fieldName)
	}
	return mjs.scan2.GetVal(fieldName)
}

// HasField returns true if the specified field is in either of the underlying scans.
func (mjs *MergeJoinScan) HasField(fieldName string) bool {
	return mjs.scan1.HasField(fieldName) || mjs.scan2.HasField(fieldName)
}

// GetRecordID returns the record ID of the current record on scan2.
func (mjs *MergeJoinScan) GetRecordID() *record.ID {
	return mjs.scan2.GetRecordID()
}
