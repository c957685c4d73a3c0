package query

import "github.com/gopherdb/simpledb/scan"

// Scan is an alias for scan.Scan: the base interface every relational
// algebra operator's scan implements. Kept here so the rest of this
// package can refer to the bare name "Scan" the way it always has.
type Scan = scan.Scan
