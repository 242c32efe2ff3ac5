package bitio

import "errors"

// ErrIncompleteTree is returned when a non-sparse codebook's lengths do
// not form a complete (or single-leaf) prefix code.
var ErrIncompleteTree = errors.New("bitio: codebook tree is not complete")

// ErrBadCodeLength is returned when a non-sparse codebook contains a
// zero-length (unused) codeword -- only sparse codebooks may do that.
var ErrBadCodeLength = errors.New("bitio: zero-length codeword in non-sparse codebook")

// BitOrder selects how a canonically-generated codeword's bit sequence
// maps onto the order bits are actually read from the stream.
type BitOrder int

const (
	// Verbatim: the codeword's bits are read in the same order they
	// were generated (MSb of the canonical code read first).
	Verbatim BitOrder = iota
	// Reverse: the codeword's bits are read in the opposite order
	// (LSb of the canonical code read first). Vorbis uses this.
	Reverse
)

// trieNode is an intermediate construction-time node; never retained
// after BuildCodebook returns.
type trieNode struct {
	leaf     bool
	value    int32
	children [2]*trieNode
}

// BuildCodebook constructs a flat decode table from parallel arrays of
// code lengths (0 permitted only when sparse) and values, per the
// canonical-length procedure of spec §4.2. maxBitsPerBlock bounds the
// width of any single table block (Vorbis runtime uses 8).
func BuildCodebook(lengths []int, values []int32, order BitOrder, sparse bool, maxBitsPerBlock int) (*Codebook, error) {
	if len(lengths) != len(values) {
		return nil, errors.New("bitio: lengths/values length mismatch")
	}

	maxLen := 0
	usedCount := 0
	for _, l := range lengths {
		if l < 0 {
			return nil, ErrBadCodeLength
		}
		if l == 0 {
			if !sparse {
				return nil, ErrBadCodeLength
			}
			continue
		}
		usedCount++
		if l > maxLen {
			maxLen = l
		}
	}

	if usedCount == 0 {
		return &Codebook{table: []entry{makeJumpEntry(1, 0)}}, nil
	}

	// Canonical code assignment: the DEFLATE-style next_code recurrence.
	// next[len] is the next unused codeword of that length.
	next := make([]uint32, maxLen+2)
	counts := make([]int, maxLen+2)
	for _, l := range lengths {
		if l > 0 {
			counts[l]++
		}
	}
	code := uint32(0)
	for l := 1; l <= maxLen; l++ {
		code = (code + uint32(counts[l-1])) << 1
		next[l] = code
	}

	root := &trieNode{}
	coverage := 0.0
	for i, l := range lengths {
		if l == 0 {
			continue
		}
		if next[l] >= uint32(1)<<uint(l) {
			return nil, ErrIncompleteTree
		}
		canon := next[l]
		next[l]++

		var bits uint32
		switch order {
		case Reverse:
			bits = reverseBits(canon, uint(l))
		default:
			bits = canon
		}

		insertLeaf(root, bits, l, values[i])
		coverage += exp2(maxLen - l)
	}

	if usedCount > 1 && coverage != exp2(maxLen) {
		return nil, ErrIncompleteTree
	}

	table, err := flatten(root, maxLen, maxBitsPerBlock)
	if err != nil {
		return nil, err
	}
	return &Codebook{table: table}, nil
}

func exp2(n int) float64 {
	v := 1.0
	for i := 0; i < n; i++ {
		v *= 2
	}
	return v
}

func reverseBits(v uint32, n uint) uint32 {
	var r uint32
	for i := uint(0); i < n; i++ {
		r <<= 1
		r |= (v >> i) & 1
	}
	return r
}

func insertLeaf(root *trieNode, bits uint32, length int, value int32) {
	cur := root
	for i := 0; i < length-1; i++ {
		bit := (bits >> uint(i)) & 1
		if cur.children[bit] == nil {
			cur.children[bit] = &trieNode{}
		}
		cur = cur.children[bit]
	}
	bit := (bits >> uint(length-1)) & 1
	cur.children[bit] = &trieNode{leaf: true, value: value}
}

// depthBelow returns the longest path, in bits, from n down to any
// leaf, or 0 if n is itself a leaf or has no children.
func depthBelow(n *trieNode) int {
	if n == nil || n.leaf {
		return 0
	}
	best := 0
	for _, c := range n.children {
		if c == nil {
			continue
		}
		d := 1 + depthBelow(c)
		if d > best {
			best = d
		}
	}
	return best
}

type blockJob struct {
	node    *trieNode
	tableAt uint32 // absolute offset of this block's first slot
}

// flatten walks the trie breadth-first, carving it into fixed-width
// blocks (width <= maxBitsPerBlock) and emitting jump/value entries
// into one flat table. Slot 0 holds the sentinel giving the root
// block's width and offset.
func flatten(root *trieNode, maxLen, maxBitsPerBlock int) ([]entry, error) {
	if maxBitsPerBlock <= 0 {
		maxBitsPerBlock = 8
	}
	rootWidth := depthBelow(root)
	if rootWidth == 0 {
		// Degenerate: no leaves at all (unreachable given the
		// usedCount == 0 shortcut in the builder).
		rootWidth = 1
	}
	if rootWidth > maxBitsPerBlock {
		rootWidth = maxBitsPerBlock
	}

	table := make([]entry, 1+(1<<uint(rootWidth)))
	table[0] = makeJumpEntry(1, uint32(rootWidth))

	queue := []blockJob{{node: root, tableAt: 1}}
	for len(queue) > 0 {
		job := queue[0]
		queue = queue[1:]

		blockWidth := blockWidthFor(job.node, maxBitsPerBlock)
		if job.tableAt == 1 {
			blockWidth = rootWidth
		}

		n := 1 << uint(blockWidth)
		for slot := 0; slot < n; slot++ {
			node, consumed := descend(job.node, uint32(slot), blockWidth)
			idx := job.tableAt + uint32(slot)
			if int(idx) >= len(table) {
				grown := make([]entry, idx+1)
				copy(grown, table)
				table = grown
			}

			if node != nil && node.leaf {
				table[idx] = makeValueEntry(node.value, uint32(consumed))
				continue
			}

			if node == nil {
				// Unreachable prefix (shouldn't happen for a complete
				// tree, but sparse/degenerate inputs can leave gaps);
				// treat as a zero-width dead value entry.
				table[idx] = makeValueEntry(0, uint32(consumed))
				continue
			}

			// Internal node reached exactly at the block boundary:
			// start a new block for the remaining suffix.
			subWidth := blockWidthFor(node, maxBitsPerBlock)
			offset := uint32(len(table))
			table = append(table, make([]entry, 1<<uint(subWidth))...)
			table[idx] = makeJumpEntry(offset, uint32(subWidth))
			queue = append(queue, blockJob{node: node, tableAt: offset})
		}
	}

	if len(table) > int(entryPayloadMax) {
		return nil, ErrTableOverflow
	}
	return table, nil
}

func blockWidthFor(n *trieNode, maxBitsPerBlock int) int {
	d := depthBelow(n)
	if d == 0 {
		d = 1
	}
	if d > maxBitsPerBlock {
		d = maxBitsPerBlock
	}
	return d
}

// descend walks width bits (given as the low bits of slot, bit 0
// first) from n, returning the node reached and how many of those
// bits were actually consumed before hitting a leaf or running out of
// tree (consumed < width only at a leaf reached early).
func descend(n *trieNode, slot uint32, width int) (*trieNode, int) {
	cur := n
	for i := 0; i < width; i++ {
		if cur == nil {
			return nil, i
		}
		if cur.leaf {
			return cur, i
		}
		bit := (slot >> uint(i)) & 1
		cur = cur.children[bit]
	}
	if cur != nil && cur.leaf {
		return cur, width
	}
	return cur, width
}
