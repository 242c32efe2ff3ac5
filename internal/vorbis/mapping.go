package vorbis

import (
	"github.com/vorbisdec/vorbis/internal/bitio"
	"github.com/vorbisdec/vorbis/internal/codecerr"
)

// Submap pairs a floor and a residue; a mapping fans channels out to
// submaps via Multiplex.
type Submap struct {
	Floor   int
	Residue int
}

// Mapping is one mapping block from the setup header: per-channel
// submap assignment plus any magnitude/angle couplings applied before
// the dot product.
type Mapping struct {
	Submaps   []Submap
	Multiplex []int // per channel, index into Submaps
	Couplings []Coupling
}

// Mode pairs a block-size selector with the mapping it uses.
type Mode struct {
	BlockFlag int
	Mapping   int
}

// ReadMapping parses one mapping block. Only mapping type 0 is
// defined by Vorbis I; any other value is a setup error, not a
// per-packet one, since it can only come from a corrupt or
// non-Vorbis-I setup header.
func ReadMapping(r *bitio.Reader, channels int, floorCount, residueCount int) (*Mapping, error) {
	typeRaw, err := r.ReadBitsLEQ32(16)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	if typeRaw != 0 {
		return nil, ErrInvalidMapping
	}

	m := &Mapping{}

	hasSubmaps, err := r.ReadBool()
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	submapCount := 1
	if hasSubmaps {
		n, err := r.ReadBitsLEQ32(4)
		if err != nil {
			return nil, codecerr.ErrEndOfStream
		}
		submapCount = int(n) + 1
	}

	hasCoupling, err := r.ReadBool()
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	if hasCoupling {
		countRaw, err := r.ReadBitsLEQ32(8)
		if err != nil {
			return nil, codecerr.ErrEndOfStream
		}
		bits := ilog(uint32(channels - 1))
		m.Couplings = make([]Coupling, int(countRaw)+1)
		for i := range m.Couplings {
			mag, err := r.ReadBitsLEQ32(bits)
			if err != nil {
				return nil, codecerr.ErrEndOfStream
			}
			ang, err := r.ReadBitsLEQ32(bits)
			if err != nil {
				return nil, codecerr.ErrEndOfStream
			}
			if int(mag) == int(ang) {
				return nil, codecerr.ErrDecodeError
			}
			m.Couplings[i] = Coupling{Magnitude: int(mag), Angle: int(ang)}
		}
	}

	reserved, err := r.ReadBitsLEQ32(2)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	if reserved != 0 {
		return nil, codecerr.ErrDecodeError
	}

	m.Multiplex = make([]int, channels)
	if submapCount > 1 {
		for c := 0; c < channels; c++ {
			v, err := r.ReadBitsLEQ32(4)
			if err != nil {
				return nil, codecerr.ErrEndOfStream
			}
			if int(v) >= submapCount {
				return nil, codecerr.ErrDecodeError
			}
			m.Multiplex[c] = int(v)
		}
	}

	m.Submaps = make([]Submap, submapCount)
	for i := range m.Submaps {
		if _, err := r.ReadBitsLEQ32(8); err != nil { // unused placeholder field
			return nil, codecerr.ErrEndOfStream
		}
		floorRaw, err := r.ReadBitsLEQ32(8)
		if err != nil {
			return nil, codecerr.ErrEndOfStream
		}
		residueRaw, err := r.ReadBitsLEQ32(8)
		if err != nil {
			return nil, codecerr.ErrEndOfStream
		}
		if int(floorRaw) >= floorCount || int(residueRaw) >= residueCount {
			return nil, ErrMissingReference
		}
		m.Submaps[i] = Submap{Floor: int(floorRaw), Residue: int(residueRaw)}
	}

	return m, nil
}

// ReadMode parses one mode block: a 1-bit block flag, two reserved
// 16-bit windowtype/transformtype fields (both required to be zero in
// Vorbis I), and a mapping index.
func ReadMode(r *bitio.Reader, mappingCount int) (*Mode, error) {
	blockFlag, err := r.ReadBool()
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	windowType, err := r.ReadBitsLEQ32(16)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	transformType, err := r.ReadBitsLEQ32(16)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	if windowType != 0 || transformType != 0 {
		return nil, codecerr.ErrDecodeError
	}
	mappingRaw, err := r.ReadBitsLEQ32(8)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	if int(mappingRaw) >= mappingCount {
		return nil, ErrInvalidMode
	}

	flag := 0
	if blockFlag {
		flag = 1
	}
	return &Mode{BlockFlag: flag, Mapping: int(mappingRaw)}, nil
}

// channelsForSubmap returns the bitset (as a []bool over channel
// index) of channels multiplexed to submap sub.
func channelsForSubmap(mapping *Mapping, sub int) []bool {
	set := make([]bool, len(mapping.Multiplex))
	for c, s := range mapping.Multiplex {
		if s == sub {
			set[c] = true
		}
	}
	return set
}
