package vorbis

import (
	"github.com/vorbisdec/vorbis/internal/bitio"
	"github.com/vorbisdec/vorbis/internal/codecerr"
)

// floorTag distinguishes which Floor variant a setup's Floors entry
// holds, since Floor0 never decodes to a concrete curve and callers
// need to branch on it before touching ReadChannel.
type floorTag int

const (
	floorTagUnsupported floorTag = iota
	floorTag1
)

// FloorEntry is one tagged floor setup block.
type FloorEntry struct {
	Tag    floorTag
	Floor1 *Floor1
}

// Setup is the immutable result of parsing a Vorbis setup header:
// every codebook, floor, residue, mapping, and mode the stream's
// packets will reference by index. Once built it is never mutated.
type Setup struct {
	Codebooks []*Codebook
	Floors    []FloorEntry
	Residues  []*Residue
	Mappings  []*Mapping
	Modes     []*Mode

	Channels   int
	BlockSize0 int
	BlockSize1 int
}

// ParseSetupHeader parses the third Vorbis header packet (type 5)
// against an already-parsed ident header, building the immutable
// Setup every subsequent audio packet decodes against.
func ParseSetupHeader(data []byte, ident *IdentHeader) (*Setup, error) {
	r := bitio.NewReader(data)
	if err := checkPacketSignature(r, packetTypeSetup); err != nil {
		return nil, err
	}

	s := &Setup{Channels: ident.Channels, BlockSize0: ident.BlockSize0(), BlockSize1: ident.BlockSize1()}

	cbCountRaw, err := r.ReadBitsLEQ32(8)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	cbCount := int(cbCountRaw) + 1
	s.Codebooks = make([]*Codebook, cbCount)
	for i := 0; i < cbCount; i++ {
		cb, err := ReadCodebook(r)
		if err != nil {
			return nil, err
		}
		s.Codebooks[i] = cb
	}

	timeCountRaw, err := r.ReadBitsLEQ32(6)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	for i := 0; i < int(timeCountRaw)+1; i++ {
		// Time-domain transform placeholder; Vorbis I defines exactly
		// one transform type (0) and every entry must read as such.
		v, err := r.ReadBitsLEQ32(16)
		if err != nil {
			return nil, codecerr.ErrEndOfStream
		}
		if v != 0 {
			return nil, codecerr.ErrDecodeError
		}
	}

	floorCountRaw, err := r.ReadBitsLEQ32(6)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	floorCount := int(floorCountRaw) + 1
	s.Floors = make([]FloorEntry, floorCount)
	for i := 0; i < floorCount; i++ {
		typeRaw, err := r.ReadBitsLEQ32(16)
		if err != nil {
			return nil, codecerr.ErrEndOfStream
		}
		switch typeRaw {
		case 0:
			s.Floors[i] = FloorEntry{Tag: floorTagUnsupported}
		case 1:
			f1, err := ReadFloor1Setup(r)
			if err != nil {
				return nil, err
			}
			s.Floors[i] = FloorEntry{Tag: floorTag1, Floor1: f1}
		default:
			return nil, codecerr.ErrDecodeError
		}
	}

	residueCountRaw, err := r.ReadBitsLEQ32(6)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	residueCount := int(residueCountRaw) + 1
	s.Residues = make([]*Residue, residueCount)
	for i := 0; i < residueCount; i++ {
		typeRaw, err := r.ReadBitsLEQ32(16)
		if err != nil {
			return nil, codecerr.ErrEndOfStream
		}
		if typeRaw > 2 {
			return nil, codecerr.ErrDecodeError
		}
		res, err := ReadResidueSetup(r, int(typeRaw), cbCount)
		if err != nil {
			return nil, err
		}
		s.Residues[i] = res
	}

	mappingCountRaw, err := r.ReadBitsLEQ32(6)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	mappingCount := int(mappingCountRaw) + 1
	s.Mappings = make([]*Mapping, mappingCount)
	for i := 0; i < mappingCount; i++ {
		m, err := ReadMapping(r, ident.Channels, floorCount, residueCount)
		if err != nil {
			return nil, err
		}
		s.Mappings[i] = m
	}

	modeCountRaw, err := r.ReadBitsLEQ32(6)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	modeCount := int(modeCountRaw) + 1
	s.Modes = make([]*Mode, modeCount)
	for i := 0; i < modeCount; i++ {
		m, err := ReadMode(r, mappingCount)
		if err != nil {
			return nil, err
		}
		s.Modes[i] = m
	}

	framing, err := r.ReadBool()
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	if !framing {
		return nil, ErrBadFraming
	}

	return s, nil
}

// BlockSize returns the block size in samples for a mode's block
// flag (0 = short, 1 = long).
func (s *Setup) BlockSize(blockFlag int) int {
	if blockFlag == 1 {
		return s.BlockSize1
	}
	return s.BlockSize0
}
