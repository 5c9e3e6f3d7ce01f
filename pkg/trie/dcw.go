package trie

import (
	"fmt"
	"io"

	"github.com/kampersanda/bonsaigo/pkg/bitvec"
)

// dcwNode identifies a trie node in the DCW engine: the hash remainder
// that produced it (init_pos), its rank within that remainder's collision
// group (num_colls), and its physical slot (slot_pos).
type dcwNode struct {
	initPos  uint64
	numColls uint64
	slotPos  uint64
}

// DCWEngine is the Darragh-Cleary-Witten compact dynamic trie. Each slot
// packs a quotient, a virgin bit, a change bit, and a final bit.
type DCWEngine struct {
	numStrs     uint64
	numSlots    uint64
	numNodes    uint64
	alpSize     uint64
	collsLimit  uint64
	root        dcwNode
	emptyMark   uint64
	prime       uint64
	multiplier  uint64
	slots       *bitvec.Vector
	table       byteTable
}

var _ Engine = (*DCWEngine)(nil)

// NewDCWEngine constructs a DCW engine with the given slot capacity,
// alphabet bound, and collision-group bit-width (per-group capacity is
// 1<<collsBits).
func NewDCWEngine(numSlots, alpSize uint64, collsBits uint8) (*DCWEngine, error) {
	if numSlots < 2 {
		return nil, fmt.Errorf("num_slots must be >= 2: %w", ErrInvalidConfig)
	}
	if alpSize == 0 {
		return nil, fmt.Errorf("alp_size must be > 0: %w", ErrInvalidConfig)
	}
	if collsBits > 31 {
		return nil, fmt.Errorf("colls_bits too large: %w", ErrInvalidConfig)
	}

	collsLimit := uint64(1) << collsBits
	rootPos := numSlots / 2
	emptyMark := alpSize*collsLimit + 2
	prime := greaterPrime(alpSize*collsLimit*numSlots + numSlots - 1)
	multiplier := ^uint64(0) / prime

	cellWidth := numBits(emptyMark) + 3
	if cellWidth > 64 {
		return nil, fmt.Errorf("cell width %d exceeds 64 bits: %w", cellWidth, ErrInvalidConfig)
	}

	// Initialization artifact preserved from the original: every empty
	// slot's change bit starts set. Operations overwrite it on first use.
	slots, err := bitvec.New(numSlots, cellWidth, (emptyMark<<3)|(1<<1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrInvalidConfig)
	}

	e := &DCWEngine{
		numSlots:   numSlots,
		numNodes:   1,
		alpSize:    alpSize,
		collsLimit: collsLimit,
		emptyMark:  emptyMark,
		prime:      prime,
		multiplier: multiplier,
		slots:      slots,
		table:      newByteTable(),
	}

	e.setQuo(rootPos, 0)
	e.setVbit(rootPos, true)
	e.root = dcwNode{initPos: rootPos, numColls: 0, slotPos: rootPos}

	return e, nil
}

// Insert implements [Engine.Insert].
func (e *DCWEngine) Insert(key []byte) (bool, error) {
	node := e.root

	for _, b := range key {
		sym, ok := e.table.lookup(b)
		if !ok {
			var err error
			sym, err = e.table.assign(b, e.alpSize)
			if err != nil {
				return false, err
			}
		}

		if _, err := e.addChild(&node, uint64(sym)); err != nil {
			return false, err
		}
	}

	if e.getFbit(node.slotPos) {
		return false, nil
	}

	e.setFbit(node.slotPos, true)
	e.numStrs++

	return true, nil
}

// Search implements [Engine.Search].
func (e *DCWEngine) Search(key []byte) (bool, error) {
	node := e.root

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

	return e.getFbit(node.slotPos), nil
}

// InsertSymbols implements [Engine.InsertSymbols].
func (e *DCWEngine) InsertSymbols(symbols []uint32) (bool, error) {
	node := e.root

	for _, s := range symbols {
		if _, err := e.addChild(&node, uint64(s)); err != nil {
			return false, err
		}
	}

	if e.getFbit(node.slotPos) {
		return false, nil
	}

	e.setFbit(node.slotPos, true)
	e.numStrs++

	return true, nil
}

// SearchSymbols implements [Engine.SearchSymbols].
func (e *DCWEngine) SearchSymbols(symbols []uint32) (bool, error) {
	node := e.root

	for _, s := range symbols {
		found, err := e.getChild(&node, uint64(s))
		if err != nil {
			return false, err
		}
		if !found {
			return false, nil
		}
	}

	return e.getFbit(node.slotPos), nil
}

// NumStrs implements [Engine.NumStrs].
func (e *DCWEngine) NumStrs() uint64 { return e.numStrs }

// ShowStat implements [Engine.ShowStat].
func (e *DCWEngine) ShowStat(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"DCWEngine stat.\nnum slots:   %d\nnum nodes:   %d\nload factor: %g\nalp size:    %d\ncolls limit: %d\nsize slots:  %d\n",
		e.numSlots, e.numNodes, float64(e.numNodes)/float64(e.numSlots), e.alpSize, e.collsLimit, e.slots.SizeBytes())
	return err
}

// hash computes the (remainder, quotient) pair for the edge labelled
// symbol from node.
func (e *DCWEngine) hash(node dcwNode, symbol uint64) (rem, quo uint64) {
	c := (symbol*e.collsLimit + node.numColls) * e.numSlots + node.initPos
	scramble := ((c % e.prime) * e.multiplier) % e.prime
	return scramble % e.numSlots, scramble / e.numSlots
}

func (e *DCWEngine) getChild(node *dcwNode, symbol uint64) (bool, error) {
	if symbol >= e.alpSize {
		return false, fmt.Errorf("symbol %d >= alp_size %d: %w", symbol, e.alpSize, ErrSymbolRange)
	}

	rem, quo := e.hash(*node, symbol)
	if quo >= e.emptyMark {
		return false, fmt.Errorf("quotient %d >= empty_mark %d: %w", quo, e.emptyMark, ErrInvariant)
	}

	if !e.getVbit(rem) {
		return false, nil
	}

	pos, found, _ := e.findAssCbitPos(rem)
	if !found {
		return false, nil
	}

	matchPos, numColls, ok := e.findItem(pos, quo)
	if !ok {
		return false, nil
	}

	*node = dcwNode{initPos: rem, numColls: numColls, slotPos: matchPos}

	return true, nil
}

func (e *DCWEngine) addChild(node *dcwNode, symbol uint64) (bool, error) {
	if symbol >= e.alpSize {
		return false, fmt.Errorf("symbol %d >= alp_size %d: %w", symbol, e.alpSize, ErrSymbolRange)
	}

	rem, quo := e.hash(*node, symbol)
	if quo >= e.emptyMark {
		return false, fmt.Errorf("quotient %d >= empty_mark %d: %w", quo, e.emptyMark, ErrInvariant)
	}

	if e.getQuo(rem) == e.emptyMark {
		e.updateSlot(rem, quo, true, true, false)
		*node = dcwNode{initPos: rem, numColls: 0, slotPos: rem}
		e.numNodes++

		return true, nil
	}

	cbitPos, foundCbit, emptyPos := e.findAssCbitPos(rem)

	var numColls uint64

	if !e.getVbit(rem) {
		// No collision group owns this home yet.
		if foundCbit {
			p := cbitPos
			for {
				p = e.right(p)
				if e.getCbit(p) {
					break
				}
			}
			p = e.left(p) // rightmost slot of the neighboring group

			for emptyPos != p {
				emptyPos = e.copyFromRight(emptyPos)
			}
		}

		e.setVbit(rem, true)
		e.setCbit(emptyPos, true)
	} else {
		// Collision group already exists for this home.
		matchPos, count, ok := e.findItem(cbitPos, quo)
		if ok {
			*node = dcwNode{initPos: rem, numColls: count, slotPos: matchPos}
			return false, nil
		}

		numColls = count - e.collsLimit
		if numColls >= e.collsLimit {
			return false, fmt.Errorf("exceeding collisions: %w", ErrInvariant)
		}

		p := e.left(matchPos) // rightmost slot of the group

		for emptyPos != p {
			emptyPos = e.copyFromRight(emptyPos)
		}

		e.setCbit(emptyPos, false)
	}

	e.setQuo(emptyPos, quo)
	e.setFbit(emptyPos, false)

	*node = dcwNode{initPos: rem, numColls: numColls, slotPos: emptyPos}
	e.numNodes++

	return true, nil
}

// findAssCbitPos scans leftward from pos (assumed occupied) counting
// virgin bits until it reaches an empty slot, then scans rightward from
// there until it has seen as many change bits as virgin bits counted.
// Returns the change-bit slot of the group anchored at pos's home, found
// being false if pos's home owns no group yet, plus the leftmost empty
// slot encountered during the leftward scan.
func (e *DCWEngine) findAssCbitPos(pos uint64) (cbitPos uint64, found bool, emptyPos uint64) {
	numVbits := uint64(0)

	for {
		if e.getVbit(pos) {
			numVbits++
		}
		pos = e.left(pos)
		if e.getQuo(pos) == e.emptyMark {
			break
		}
	}

	emptyPos = pos

	if numVbits == 0 {
		return 0, false, emptyPos
	}

	numCbits := uint64(0)
	for numCbits < numVbits {
		pos = e.right(pos)
		if e.getCbit(pos) {
			numCbits++
		}
	}

	return pos, true, emptyPos
}

// findItem walks rightward from pos (a change-bit slot) looking for a
// slot whose quotient equals quo. If found, it returns that slot and its
// rank within the group. If not, it returns the final (change-bit) slot
// reached and a rank of colls+collsLimit, a sentinel meaning "absent, the
// group has colls members".
func (e *DCWEngine) findItem(pos, quo uint64) (finalPos, numColls uint64, ok bool) {
	numColls = 0

	for {
		if e.getQuo(pos) == quo {
			return pos, numColls, true
		}
		pos = e.right(pos)
		numColls++
		if e.getCbit(pos) {
			break
		}
	}

	return pos, numColls + e.collsLimit, false
}

// copyFromRight copies the quotient, change bit, and final bit from
// right(pos) into pos, preserving pos's own virgin bit, then returns
// right(pos) (the slot copying must continue from next).
func (e *DCWEngine) copyFromRight(pos uint64) uint64 {
	rpos := e.right(pos)
	origVbit := e.getVbit(pos)
	rightVal := e.slots.Get(rpos)

	newVal := (rightVal &^ (uint64(1) << 2)) | (b2u64(origVbit) << 2)
	e.slots.Set(pos, newVal)

	return rpos
}

func (e *DCWEngine) right(pos uint64) uint64 {
	if pos == e.numSlots-1 {
		return 0
	}
	return pos + 1
}

func (e *DCWEngine) left(pos uint64) uint64 {
	if pos == 0 {
		return e.numSlots - 1
	}
	return pos - 1
}

func (e *DCWEngine) getQuo(pos uint64) uint64 { return e.slots.Get(pos) >> 3 }
func (e *DCWEngine) getVbit(pos uint64) bool  { return (e.slots.Get(pos)>>2)&1 == 1 }
func (e *DCWEngine) getCbit(pos uint64) bool  { return (e.slots.Get(pos)>>1)&1 == 1 }
func (e *DCWEngine) getFbit(pos uint64) bool  { return e.slots.Get(pos)&1 == 1 }

func (e *DCWEngine) setQuo(pos, quo uint64) {
	e.slots.Set(pos, (e.slots.Get(pos)&7)|(quo<<3))
}

func (e *DCWEngine) setVbit(pos uint64, bit bool) {
	e.slots.Set(pos, (e.slots.Get(pos)&^(uint64(1)<<2))|(b2u64(bit)<<2))
}

func (e *DCWEngine) setCbit(pos uint64, bit bool) {
	e.slots.Set(pos, (e.slots.Get(pos)&^(uint64(1)<<1))|(b2u64(bit)<<1))
}

func (e *DCWEngine) setFbit(pos uint64, bit bool) {
	e.slots.Set(pos, (e.slots.Get(pos)&^uint64(1))|b2u64(bit))
}

func (e *DCWEngine) updateSlot(pos, quo uint64, vbit, cbit, fbit bool) {
	e.slots.Set(pos, (quo<<3)|(b2u64(vbit)<<2)|(b2u64(cbit)<<1)|b2u64(fbit))
}

func b2u64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
