// Package nodecount computes the exact trie node count implied by a sorted
// key set, independent of any particular trie engine's encoding. It is a
// direct port of the iterative stack-based counter from the original
// benchmark driver.
package nodecount

import (
	"sort"

	"github.com/kampersanda/bonsaigo/internal/keyio"
)

type span struct {
	begin, end, depth int
}

// Count returns the number of trie nodes that an uncompacted trie over
// keys would contain (one node per distinct byte prefix, plus the root),
// including one extra node per key for its implicit
// NUL terminator (counted separately, since the terminator is never itself
// part of the branching byte sequence).
func Count(keys []string) uint64 {
	if len(keys) == 0 {
		return 0
	}

	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	stack := []span{{0, len(sorted), 0}}
	numNodes := uint64(1)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for n.begin < n.end && len(sorted[n.begin]) == n.depth {
			n.begin++
		}
		if n.begin == n.end {
			continue
		}

		for i := n.begin + 1; i < n.end; i++ {
			if sorted[i-1][n.depth] != sorted[i][n.depth] {
				stack = append(stack, span{n.begin, i, n.depth + 1})
				n.begin = i
				numNodes++
			}
		}
		stack = append(stack, span{n.begin, n.end, n.depth + 1})
		numNodes++
	}

	return numNodes + uint64(len(sorted))
}

// CountFile loads keys from name and returns their node count, or (0, err)
// if the file could not be read.
func CountFile(name string) (uint64, error) {
	keys, err := keyio.ReadAll(name)
	if err != nil {
		return 0, err
	}
	return Count(keys), nil
}
