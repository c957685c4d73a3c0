package utils

import "runtime"

// IntSize is the size of int in bytes: 4 on 386 and arm, 8 on every other architecture.
var IntSize = 8

func init() {
	if runtime.GOARCH == "386" || runtime.GOARCH == "arm" {
		IntSize = 4
	}
}
