package utils

import (
	"fmt"
	"hash/fnv"
	"time"
)

// HashValue computes a 32-bit FNV-1a hash of v's canonical string form. It
// is used by the hash index to bucket search keys; any comparable scalar
// value can be hashed, but nil and types with no defined string form are
// rejected.
func HashValue(v interface{}) (uint32, error) {
	var s string
	switch val := v.(type) {
	case nil:
		return 0, fmt.Errorf("cannot hash nil value")
	case int16:
		s = fmt.Sprintf("%d", val)
	case int:
		s = fmt.Sprintf("%d", val)
	case int32:
		s = fmt.Sprintf("%d", val)
	case int64:
		s = fmt.Sprintf("%d", val)
	case string:
		s = val
	case bool:
		s = fmt.Sprintf("%t", val)
	case time.Time:
		s = val.UTC().Format(time.RFC3339Nano)
	default:
		return 0, fmt.Errorf("unsupported type for hashing: %T", v)
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32(), nil
}
