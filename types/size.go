package types

// IntSize is the fixed width, in bytes, of an integer as stored on a Page.
// Page.GetInt/SetInt always encode 4-byte big-endian values regardless of
// host architecture, so record layouts must size integer fields against
// this constant rather than Go's platform-dependent int.
const IntSize = 4
