package trie

import "testing"

func TestNumBits(t *testing.T) {
	cases := map[uint64]uint8{
		0: 1, 1: 1, 2: 2, 3: 2, 4: 3, 7: 3, 8: 4, 255: 8, 256: 9,
	}

	for n, want := range cases {
		if got := numBits(n); got != want {
			t.Errorf("numBits(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestIsPrime(t *testing.T) {
	primes := []uint64{2, 3, 5, 7, 11, 97, 7919}
	composites := []uint64{0, 1, 4, 6, 8, 9, 100, 7920}

	for _, p := range primes {
		if !isPrime(p) {
			t.Errorf("isPrime(%d) = false, want true", p)
		}
	}

	for _, c := range composites {
		if isPrime(c) {
			t.Errorf("isPrime(%d) = true, want false", c)
		}
	}
}

func TestGreaterPrime(t *testing.T) {
	cases := map[uint64]uint64{
		1:  2,
		2:  3,
		3:  5,
		10: 11,
		14: 17,
	}

	for n, want := range cases {
		if got := greaterPrime(n); got != want {
			t.Errorf("greaterPrime(%d) = %d, want %d", n, got, want)
		}
	}
}
