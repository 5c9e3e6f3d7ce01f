// Package trie provides two compact dynamic trie engines that store a
// growing set of strings over a bounded alphabet in space close to the
// information-theoretic lower bound for the trie's node count:
//
//   - [DCWEngine] follows Darragh, Cleary and Witten's "virgin/change bit"
//     displacement scheme.
//   - [PREngine] follows Poyias and Raman's scheme of explicit
//     displacement values plus a small auxiliary overflow map.
//
// Both are hash-addressed, collision-resolving open-addressing tables
// built on [github.com/kampersanda/bonsaigo/pkg/bitvec]. Neither supports
// deletion, iteration, persistence, resizing, or concurrent mutation: an
// engine is sized once at construction and is safe for a single goroutine
// to drive to completion.
package trie
