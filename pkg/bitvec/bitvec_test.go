package bitvec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_InvalidWidth(t *testing.T) {
	cases := []uint8{0, 65, 255}

	for _, width := range cases {
		_, err := New(10, width, 0)
		require.ErrorIs(t, err, ErrInvalidWidth)
	}
}

func TestNew_ZeroLength(t *testing.T) {
	v, err := New(0, 8, 0)
	require.NoError(t, err)
	require.EqualValues(t, 0, v.Len())
}

func TestGetSet_Basic(t *testing.T) {
	v, err := New(16, 5, 0)
	require.NoError(t, err)

	for i := uint64(0); i < 16; i++ {
		v.Set(i, i*3%31)
	}

	for i := uint64(0); i < 16; i++ {
		require.EqualValues(t, i*3%31, v.Get(i))
	}
}

func TestGetSet_MaskTruncates(t *testing.T) {
	v, err := New(4, 3, 0)
	require.NoError(t, err)

	v.Set(0, 0xFF)
	require.EqualValues(t, 0x7, v.Get(0))
}

func TestInit_AppliedToEveryCell(t *testing.T) {
	v, err := New(10, 4, 0xB)
	require.NoError(t, err)

	for i := uint64(0); i < 10; i++ {
		require.EqualValues(t, 0xB, v.Get(i))
	}
}

func TestSwap(t *testing.T) {
	a, err := New(4, 8, 1)
	require.NoError(t, err)

	b, err := New(4, 8, 2)
	require.NoError(t, err)

	a.Swap(b)

	require.EqualValues(t, 2, a.Get(0))
	require.EqualValues(t, 1, b.Get(0))
}

// TestRoundTrip_RandomWidths checks the bit-packed vector round-trip
// property: for a spread of widths, write and read back random values and
// assert equality.
func TestRoundTrip_RandomWidths(t *testing.T) {
	widths := []uint8{1, 7, 17, 33, 64}
	const n = 10000

	for _, width := range widths {
		width := width
		t.Run("", func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(width)*7 + 1))

			v, err := New(n, width, 0)
			require.NoError(t, err)

			expected := make([]uint64, n)
			m := mask(width)

			for i := range expected {
				val := rng.Uint64() & m
				expected[i] = val
				v.Set(uint64(i), val)
			}

			for i, want := range expected {
				require.Equalf(t, want, v.Get(uint64(i)), "width=%d index=%d", width, i)
			}
		})
	}
}

func FuzzGetSet(f *testing.F) {
	f.Add(uint8(8), uint64(5), uint64(200))
	f.Add(uint8(1), uint64(0), uint64(1))
	f.Add(uint8(64), uint64(3), ^uint64(0))

	f.Fuzz(func(t *testing.T, width uint8, idx uint64, val uint64) {
		if width == 0 || width > 64 {
			return
		}

		const length = 64
		idx %= length

		v, err := New(length, width, 0)
		require.NoError(t, err)

		v.Set(idx, val)
		require.Equal(t, val&mask(width), v.Get(idx))
	})
}
