package trie

import "errors"

// ErrInvalidConfig is returned by the engine constructors when num_slots,
// alp_size, or the displacement/collision bit-width parameter cannot form
// a valid table.
var ErrInvalidConfig = errors.New("trie: invalid engine configuration")

// ErrSymbolRange is returned when a symbol presented to insert/search is
// not in [0, alp_size). This is a caller invariant: a well-sized
// deployment never triggers it.
var ErrSymbolRange = errors.New("trie: symbol out of alphabet range")

// ErrAlphabetExhausted is returned when an unseen byte brings the number of
// symbols assigned by the byte-key translation table up to alp_size. That
// byte keeps its assigned symbol, but the operation that met it stops with
// this error.
var ErrAlphabetExhausted = errors.New("trie: byte alphabet table exhausted")

// ErrInvariant is returned when an internal invariant that should never
// fire in well-sized deployments is observed to be violated, e.g. a
// computed quotient at or above empty_mark.
var ErrInvariant = errors.New("trie: internal invariant violated")
