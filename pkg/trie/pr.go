package trie

import (
	"fmt"
	"io"

	"github.com/kampersanda/bonsaigo/pkg/bitvec"
)

// PREngine is the Poyias-Raman compact dynamic trie. Each slot
// packs a quotient, an in-cell displacement, and a final bit; a node is
// identified by a single physical slot index. Displacements that saturate
// the in-cell field spill into an auxiliary map.
type PREngine struct {
	numStrs    uint64
	numSlots   uint64
	numNodes   uint64
	alpSize    uint64
	widthFirst uint8
	rootID     uint64
	emptyMark  uint64
	maxDsp1st  uint64
	prime      uint64
	multiplier uint64
	slots      *bitvec.Vector
	aux        map[uint64]uint64
	table      byteTable
}

var _ Engine = (*PREngine)(nil)

// NewPREngine constructs a PR engine with the given slot capacity,
// alphabet bound, and in-cell displacement field width.
func NewPREngine(numSlots, alpSize uint64, widthFirst uint8) (*PREngine, error) {
	if numSlots < 2 {
		return nil, fmt.Errorf("num_slots must be >= 2: %w", ErrInvalidConfig)
	}
	if alpSize == 0 {
		return nil, fmt.Errorf("alp_size must be > 0: %w", ErrInvalidConfig)
	}
	if widthFirst == 0 || widthFirst > 62 {
		return nil, fmt.Errorf("width_1st out of range: %w", ErrInvalidConfig)
	}

	rootID := numSlots / 2
	emptyMark := alpSize + 2
	maxDsp1st := (uint64(1) << widthFirst) - 1
	prime := greaterPrime(alpSize*numSlots + numSlots - 1)
	multiplier := ^uint64(0) / prime

	cellWidth := numBits(emptyMark) + widthFirst + 1
	if cellWidth > 64 {
		return nil, fmt.Errorf("cell width %d exceeds 64 bits: %w", cellWidth, ErrInvalidConfig)
	}

	slots, err := bitvec.New(numSlots, cellWidth, emptyMark<<(widthFirst+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrInvalidConfig)
	}

	return &PREngine{
		numSlots:   numSlots,
		numNodes:   1,
		alpSize:    alpSize,
		widthFirst: widthFirst,
		rootID:     rootID,
		emptyMark:  emptyMark,
		maxDsp1st:  maxDsp1st,
		prime:      prime,
		multiplier: multiplier,
		slots:      slots,
		aux:        make(map[uint64]uint64),
		table:      newByteTable(),
	}, nil
}

// Insert implements [Engine.Insert].
func (e *PREngine) Insert(key []byte) (bool, error) {
	node := e.rootID
	isTail := false

	for _, b := range key {
		sym, ok := e.table.lookup(b)
		if !ok {
			var err error
			sym, err = e.table.assign(b, e.alpSize)
			if err != nil {
				return false, err
			}
		}

		var err error
		isTail, err = e.addChild(&node, uint64(sym), isTail)
		if err != nil {
			return false, err
		}
	}

	if e.getFbit(node) {
		return false, nil
	}

	e.setFbit(node, true)
	e.numStrs++

	return true, nil
}

// Search implements [Engine.Search].
func (e *PREngine) Search(key []byte) (bool, error) {
	node := e.rootID

	for _, b := range key {
		sym, ok := e.table.lookup(b)
		if !ok {
			return false, nil
		}

		found, err := e.getChild(&node, uint64(sym))
		if err != nil {
			return false, err
		}
		if !found {
			return false, nil
		}
	}

	return e.getFbit(node), nil
}

// InsertSymbols implements [Engine.InsertSymbols].
func (e *PREngine) InsertSymbols(symbols []uint32) (bool, error) {
	node := e.rootID
	isTail := false

	for _, s := range symbols {
		var err error
		isTail, err = e.addChild(&node, uint64(s), isTail)
		if err != nil {
			return false, err
		}
	}

	if e.getFbit(node) {
		return false, nil
	}

	e.setFbit(node, true)
	e.numStrs++

	return true, nil
}

// SearchSymbols implements [Engine.SearchSymbols].
func (e *PREngine) SearchSymbols(symbols []uint32) (bool, error) {
	node := e.rootID

	for _, s := range symbols {
		found, err := e.getChild(&node, uint64(s))
		if err != nil {
			return false, err
		}
		if !found {
			return false, nil
		}
	}

	return e.getFbit(node), nil
}

// NumStrs implements [Engine.NumStrs].
func (e *PREngine) NumStrs() uint64 { return e.numStrs }

// ShowStat implements [Engine.ShowStat].
func (e *PREngine) ShowStat(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"PREngine stat.\nnum slots:   %d\nnum nodes:   %d\nload factor: %g\nnum auxs:    %d\nauxs rate:   %g\nalp size:    %d\nwidth 1st:   %d\nsize slots:  %d\naverage dsp: %g\n",
		e.numSlots, e.numNodes, float64(e.numNodes)/float64(e.numSlots),
		len(e.aux), float64(len(e.aux))/float64(e.numSlots),
		e.alpSize, e.widthFirst, e.slots.SizeBytes(), e.calcAveDsp())
	return err
}

// calcAveDsp returns the mean displacement across occupied slots,
// restoring BonsaiPR::calc_ave_dsp from the original source.
func (e *PREngine) calcAveDsp() float64 {
	var numUsed, sumDsp uint64

	for i := uint64(0); i < e.numSlots; i++ {
		if e.getQuo(i) != e.emptyMark {
			numUsed++
			sumDsp += e.getDsp(i)
		}
	}

	if numUsed == 0 {
		return 0
	}

	return float64(sumDsp) / float64(numUsed)
}

// hash computes the (remainder, quotient) pair for the edge labelled
// symbol from nodeID.
func (e *PREngine) hash(nodeID, symbol uint64) (rem, quo uint64) {
	c := symbol*e.numSlots + nodeID
	scramble := ((c % e.prime) * e.multiplier) % e.prime
	return scramble % e.numSlots, scramble / e.numSlots
}

// getChild probes for the edge labelled symbol from *nodeID. The home
// slot root_id is skipped during probing without advancing the
// displacement counter cnt.
func (e *PREngine) getChild(nodeID *uint64, symbol uint64) (bool, error) {
	if symbol >= e.alpSize {
		return false, fmt.Errorf("symbol %d >= alp_size %d: %w", symbol, e.alpSize, ErrSymbolRange)
	}

	rem, quo := e.hash(*nodeID, symbol)
	if quo >= e.emptyMark {
		return false, fmt.Errorf("quotient %d >= empty_mark %d: %w", quo, e.emptyMark, ErrInvariant)
	}

	pos := rem
	cnt := uint64(0)

	for {
		if pos == e.rootID {
			pos = e.right(pos)
			continue
		}

		q := e.getQuo(pos)
		if q == e.emptyMark {
			return false, nil
		}

		if q == quo && e.getDsp(pos) == cnt {
			*nodeID = pos
			return true, nil
		}

		pos = e.right(pos)
		cnt++
	}
}

// addChild inserts (or locates) the edge labelled symbol from *nodeID.
// isTail, once true, means every remaining symbol of the current key is
// guaranteed to land on a fresh slot, so probes place directly into the
// first empty slot without comparing quotients. It returns the isTail
// value to carry into the next symbol.
func (e *PREngine) addChild(nodeID *uint64, symbol uint64, isTail bool) (bool, error) {
	if symbol >= e.alpSize {
		return false, fmt.Errorf("symbol %d >= alp_size %d: %w", symbol, e.alpSize, ErrSymbolRange)
	}

	rem, quo := e.hash(*nodeID, symbol)
	if quo >= e.emptyMark {
		return false, fmt.Errorf("quotient %d >= empty_mark %d: %w", quo, e.emptyMark, ErrInvariant)
	}

	pos := rem
	cnt := uint64(0)

	for {
		if pos == e.rootID {
			pos = e.right(pos)
			continue
		}

		q := e.getQuo(pos)

		if q == e.emptyMark {
			e.updateSlot(pos, quo, cnt, false)
			*nodeID = pos
			e.numNodes++

			return true, nil
		}

		if isTail {
			pos = e.right(pos)
			cnt++

			continue
		}

		if q == quo && e.getDsp(pos) == cnt {
			*nodeID = pos
			return false, nil
		}

		pos = e.right(pos)
		cnt++
	}
}

func (e *PREngine) right(pos uint64) uint64 {
	pos++
	if pos >= e.numSlots {
		return 0
	}
	return pos
}

func (e *PREngine) getQuo(pos uint64) uint64 {
	return e.slots.Get(pos) >> (uint64(e.widthFirst) + 1)
}

// getDsp returns the true displacement recorded at pos, consulting the
// auxiliary map when the in-cell field has saturated. This should be
// unreachable when the map lacks an entry for a saturated slot; we treat
// that as an invariant violation rather than silently returning
// a sentinel.
func (e *PREngine) getDsp(pos uint64) uint64 {
	dsp := (e.slots.Get(pos) >> 1) & e.maxDsp1st
	if dsp < e.maxDsp1st {
		return dsp
	}

	v, ok := e.aux[pos]
	if !ok {
		panic(fmt.Sprintf("trie: slot %d saturated displacement has no auxiliary entry", pos))
	}

	return v
}

func (e *PREngine) getFbit(pos uint64) bool {
	return e.slots.Get(pos)&1 == 1
}

func (e *PREngine) setFbit(pos uint64, bit bool) {
	e.slots.Set(pos, (e.slots.Get(pos)&^uint64(1))|b2u64(bit))
}

func (e *PREngine) updateSlot(pos, quo, dsp uint64, fbit bool) {
	val := quo << (uint64(e.widthFirst) + 1)

	if dsp < e.maxDsp1st {
		val |= dsp << 1
	} else {
		val |= e.maxDsp1st << 1
		e.aux[pos] = dsp
	}

	e.slots.Set(pos, val|b2u64(fbit))
}
