package vorbis

import (
	"github.com/vorbisdec/vorbis/internal/bitio"
	"github.com/vorbisdec/vorbis/internal/codecerr"
)

// maxResiduePasses bounds the number of coded passes a residue
// partition's class can carry; Vorbis caps this at 8.
const maxResiduePasses = 8

// Residue holds one residue setup block's static parameters, shared
// across every packet: partition geometry, the classbook used to
// select each partition's class, and the per-class, per-pass codebook
// matrix.
type Residue struct {
	Type int

	begin     int
	end       int
	partSize  int
	classBook int

	classifications int
	books           [][maxResiduePasses]int // [class][pass] -> codebook index, or -1 if unused
}

// ReadResidueSetup parses one residue setup block from the setup
// header, per the residue wire layout shared by types 0, 1, and 2.
func ReadResidueSetup(r *bitio.Reader, residueType int, codebookCount int) (*Residue, error) {
	res := &Residue{Type: residueType}

	begin, err := r.ReadBitsLEQ32(24)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	end, err := r.ReadBitsLEQ32(24)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	partSizeRaw, err := r.ReadBitsLEQ32(24)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	classCountRaw, err := r.ReadBitsLEQ32(6)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	classBookRaw, err := r.ReadBitsLEQ32(8)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}

	res.begin = int(begin)
	res.end = int(end)
	res.partSize = int(partSizeRaw) + 1
	res.classifications = int(classCountRaw) + 1
	res.classBook = int(classBookRaw)
	if res.classBook >= codebookCount {
		return nil, codecerr.ErrDecodeError
	}

	res.books = make([][maxResiduePasses]int, res.classifications)
	for c := 0; c < res.classifications; c++ {
		for p := 0; p < maxResiduePasses; p++ {
			res.books[c][p] = -1
		}
		lowBitsRaw, err := r.ReadBitsLEQ32(3)
		if err != nil {
			return nil, codecerr.ErrEndOfStream
		}
		hasHighBits, err := r.ReadBool()
		if err != nil {
			return nil, codecerr.ErrEndOfStream
		}
		bitmap := lowBitsRaw
		if hasHighBits {
			highBitsRaw, err := r.ReadBitsLEQ32(5)
			if err != nil {
				return nil, codecerr.ErrEndOfStream
			}
			bitmap |= highBitsRaw << 3
		}
		for p := 0; p < maxResiduePasses; p++ {
			if bitmap&(1<<uint(p)) == 0 {
				continue
			}
			bookRaw, err := r.ReadBitsLEQ32(8)
			if err != nil {
				return nil, codecerr.ErrEndOfStream
			}
			book := int(bookRaw)
			if book >= codebookCount {
				return nil, codecerr.ErrDecodeError
			}
			res.books[c][p] = book
		}
	}

	return res, nil
}

// Decode reads and additively mixes one residue vector into dst for
// every channel set in active (one vector per active channel, each of
// length n). classBook and partition codebooks are resolved against
// cbs. An EndOfStream mid-decode is tolerated: it means fewer passes
// were encoded than the maximum, not a malformed packet.
//
// Type 2's cross-channel interleave is handled by the caller, which
// passes a single-entry active/dst pair addressing a buffer of length
// n*channels; this method treats it identically to type 1.
func (res *Residue) Decode(r *bitio.Reader, cbs []*Codebook, active []bool, dst [][]float32, n int) error {
	classBook := cbs[res.classBook]

	begin := res.begin
	if begin > n {
		begin = n
	}
	end := res.end
	if end > n {
		end = n
	}
	if end < begin {
		end = begin
	}

	partitions := (end - begin) / res.partSize
	if partitions <= 0 {
		return nil
	}

	classDim := classBook.Dimensions
	partsPerGroup := classDim
	groups := (partitions + partsPerGroup - 1) / partsPerGroup

	partClass := make([][]int, len(active))
	for ch := range active {
		if !active[ch] {
			continue
		}
		partClass[ch] = make([]int, partitions)
	}

	for g := 0; g < groups; g++ {
		groupStart := g * partsPerGroup
		groupLen := partsPerGroup
		if groupStart+groupLen > partitions {
			groupLen = partitions - groupStart
		}
		for ch := range active {
			if !active[ch] {
				continue
			}
			v, err := classBook.Decode(r)
			if err != nil {
				if err == codecerr.ErrEndOfStream || err == bitio.ErrEndOfStream {
					return nil
				}
				return err
			}
			digits := make([]int, groupLen)
			val := int(v)
			for d := groupLen - 1; d >= 0; d-- {
				digits[d] = val % res.classifications
				val /= res.classifications
			}
			for d := 0; d < groupLen; d++ {
				partClass[ch][groupStart+d] = digits[d]
			}
		}
	}

	for pass := 0; pass < maxResiduePasses; pass++ {
		anyBookThisPass := false
		for c := 0; c < res.classifications; c++ {
			if res.books[c][pass] >= 0 {
				anyBookThisPass = true
				break
			}
		}
		if !anyBookThisPass {
			continue
		}
		for p := 0; p < partitions; p++ {
			offset := begin + p*res.partSize
			for ch := range active {
				if !active[ch] {
					continue
				}
				class := partClass[ch][p]
				book := res.books[class][pass]
				if book < 0 {
					continue
				}
				cb := cbs[book]
				if err := res.decodePartition(r, cb, dst[ch], offset); err != nil {
					if err == codecerr.ErrEndOfStream || err == bitio.ErrEndOfStream {
						return nil
					}
					return err
				}
			}
		}
	}
	return nil
}

func countActive(active []bool) int {
	n := 0
	for _, a := range active {
		if a {
			n++
		}
	}
	return n
}

// decodePartition reads and mixes in one partition's worth of VQ
// vectors at offset, per the residue type's element-scatter rule.
func (res *Residue) decodePartition(r *bitio.Reader, cb *Codebook, out []float32, offset int) error {
	dim := cb.Dimensions
	if dim <= 0 {
		return codecerr.ErrDecodeError
	}
	switch res.Type {
	case 0:
		step := res.partSize / dim
		for i := 0; i < step; i++ {
			v, err := cb.Decode(r)
			if err != nil {
				return err
			}
			vec := cb.VQVector(v)
			for j := 0; j < dim; j++ {
				idx := offset + i + j*step
				if idx < len(out) {
					out[idx] += vec[j]
				}
			}
		}
	case 1, 2:
		count := res.partSize / dim
		for i := 0; i < count; i++ {
			v, err := cb.Decode(r)
			if err != nil {
				return err
			}
			vec := cb.VQVector(v)
			base := offset + i*dim
			for j := 0; j < dim; j++ {
				idx := base + j
				if idx < len(out) {
					out[idx] += vec[j]
				}
			}
		}
	default:
		return codecerr.ErrDecodeError
	}
	return nil
}
