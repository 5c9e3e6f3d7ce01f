// Package bitvec provides a fixed-length, fixed-width bit-packed integer
// vector: a dense array of 1..64-bit cells stored over a backing buffer of
// 64-bit chunks.
//
// It is the storage primitive the trie engines in [github.com/kampersanda/bonsaigo/pkg/trie]
// are built on. There is no bounds checking and no resizing: callers are
// trusted, and capacity is fixed at construction.
package bitvec
