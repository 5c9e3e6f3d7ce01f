package bitvec

import "errors"

// ErrInvalidWidth is returned by New when width is not in 1..64.
var ErrInvalidWidth = errors.New("bitvec: invalid cell width")
