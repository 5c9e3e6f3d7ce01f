package trie

import "io"

// Engine is the contract shared by [DCWEngine] and [PREngine].
type Engine interface {
	// Insert stores key (a byte string) in the trie. It reports true if
	// the key was newly inserted, false if it was already present.
	Insert(key []byte) (bool, error)

	// Search reports whether key is present.
	Search(key []byte) (bool, error)

	// InsertSymbols is the wider-alphabet counterpart of Insert: it
	// inserts a sequence of raw symbol ids, bypassing the byte-key
	// translation table entirely.
	InsertSymbols(symbols []uint32) (bool, error)

	// SearchSymbols is the wider-alphabet counterpart of Search.
	SearchSymbols(symbols []uint32) (bool, error)

	// NumStrs returns the count of successful insertions so far.
	NumStrs() uint64

	// ShowStat writes human-readable diagnostic lines to w.
	ShowStat(w io.Writer) error
}

// unassigned marks a byte-table slot that has not yet been bound to an
// internal symbol id.
const unassigned = 0xFF

// byteTable is the lazily populated byte -> internal-symbol map shared,
// unexported infrastructure for both engines.
type byteTable struct {
	table [256]uint8
	count uint8
}

func newByteTable() byteTable {
	var t byteTable
	for i := range t.table {
		t.table[i] = unassigned
	}
	return t
}

// lookup returns the symbol bound to b, if any.
func (t *byteTable) lookup(b byte) (uint8, bool) {
	s := t.table[b]
	if s == unassigned {
		return 0, false
	}
	return s, true
}

// assign binds the next unused symbol id to b. alpSize bounds how many
// distinct bytes the table may ever hold; exceeding it is a fatal domain
// error, mirroring the original's check performed immediately after the
// assignment that fills the table's last slot.
func (t *byteTable) assign(b byte, alpSize uint64) (uint8, error) {
	id := t.count
	t.table[b] = id
	t.count++

	if alpSize <= uint64(t.count) {
		return id, ErrAlphabetExhausted
	}

	return id, nil
}
