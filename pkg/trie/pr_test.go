package trie_test

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kampersanda/bonsaigo/pkg/trie"
)

func TestPR_InvalidConfig(t *testing.T) {
	_, err := trie.NewPREngine(1, 253, 4)
	require.ErrorIs(t, err, trie.ErrInvalidConfig)

	_, err = trie.NewPREngine(1024, 0, 4)
	require.ErrorIs(t, err, trie.ErrInvalidConfig)

	_, err = trie.NewPREngine(1024, 253, 0)
	require.ErrorIs(t, err, trie.ErrInvalidConfig)
}

// TestPR_RandomKeys inserts 100 distinct random 8-byte keys and confirms
// membership, then samples 100 random non-members and requires a
// false-positive rate under 1%.
func TestPR_RandomKeys(t *testing.T) {
	e, err := trie.NewPREngine(1024, 253, 4)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))

	seen := make(map[string]bool)
	keys := make([]string, 0, 100)

	for len(keys) < 100 {
		b := randomBytes(rng, 8)
		b = append(b, 0)
		if seen[string(b)] {
			continue
		}
		seen[string(b)] = true
		keys = append(keys, string(b))

		ok, err := e.Insert(b)
		require.NoError(t, err)
		require.True(t, ok)
	}

	require.EqualValues(t, 100, e.NumStrs())

	for _, key := range keys {
		found, err := e.Search([]byte(key))
		require.NoError(t, err)
		require.Truef(t, found, "expected %q present", key)
	}

	falsePositives := 0
	for i := 0; i < 100; i++ {
		b := randomBytes(rng, 8)
		b = append(b, 0)
		if seen[string(b)] {
			continue
		}

		found, err := e.Search(b)
		require.NoError(t, err)
		if found {
			falsePositives++
		}
	}

	require.Lessf(t, falsePositives, 1, "false positive rate not under 1%%: %d/100", falsePositives)
}

// TestPR_DisplacementOverflow uses a narrow width_1st to saturate the
// in-cell displacement field, forcing entries into the auxiliary map, and
// checks that search keeps working correctly for slots whose true
// displacement lives only in the map.
func TestPR_DisplacementOverflow(t *testing.T) {
	// width_1st=1 means max_dsp1st=1: any slot landing anywhere but its
	// exact home remainder overflows into the auxiliary map. Ten
	// single-symbol children of the root in a sixteen-slot table collide
	// at least once, while leaving empty slots so that probing for an
	// absent symbol terminates.
	e, err := trie.NewPREngine(16, 64, 1)
	require.NoError(t, err)

	var inserted []uint32
	for sym := uint32(0); sym < 10; sym++ {
		ok, err := e.InsertSymbols([]uint32{sym})
		require.NoError(t, err)
		require.True(t, ok)
		inserted = append(inserted, sym)
	}

	var buf strings.Builder
	require.NoError(t, e.ShowStat(&buf))

	re := regexp.MustCompile(`num auxs:\s+(\d+)`)
	m := re.FindStringSubmatch(buf.String())
	require.NotNil(t, m, "show_stat output: %s", buf.String())

	numAuxs, err := strconv.Atoi(m[1])
	require.NoError(t, err)
	require.Greaterf(t, numAuxs, 0, "expected at least one auxiliary displacement entry, show_stat: %s", buf.String())

	for _, sym := range inserted {
		found, err := e.SearchSymbols([]uint32{sym})
		require.NoError(t, err)
		require.Truef(t, found, "expected symbol %d present after displacement overflow", sym)
	}

	found, err := e.SearchSymbols([]uint32{60})
	require.NoError(t, err)
	require.False(t, found)
}

func TestPR_DuplicateInsert(t *testing.T) {
	e, err := trie.NewPREngine(1024, 253, 4)
	require.NoError(t, err)

	ok, err := e.Insert([]byte("hello\x00"))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = e.Insert([]byte("hello\x00"))
	require.NoError(t, err)
	require.False(t, ok)

	require.EqualValues(t, 1, e.NumStrs())
}

func TestPR_SymbolBoundary(t *testing.T) {
	e, err := trie.NewPREngine(64, 4, 2)
	require.NoError(t, err)

	_, err = e.InsertSymbols([]uint32{3})
	require.NoError(t, err)

	found, err := e.SearchSymbols([]uint32{3})
	require.NoError(t, err)
	require.True(t, found)

	_, err = e.InsertSymbols([]uint32{4})
	require.ErrorIs(t, err, trie.ErrSymbolRange)
}

func TestPR_ShowStat(t *testing.T) {
	e, err := trie.NewPREngine(64, 253, 4)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, e.ShowStat(&buf))
	require.Contains(t, buf.String(), "PREngine stat.")
	require.Contains(t, buf.String(), "num slots:   64")
}

// randomBytes draws n bytes from a 200-value range, comfortably under the
// 253-entry alphabet used in these tests, so the byte translation table
// never exhausts itself mid-run.
func randomBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(rng.Intn(200))
	}
	return b
}
