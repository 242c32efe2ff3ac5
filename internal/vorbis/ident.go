package vorbis

import (
	"github.com/vorbisdec/vorbis/internal/bitio"
	"github.com/vorbisdec/vorbis/internal/codecerr"
)

const vorbisSignature = "vorbis"

const (
	packetTypeIdent   = 1
	packetTypeComment = 3
	packetTypeSetup   = 5
)

// IdentHeader is the first of the three Vorbis header packets.
type IdentHeader struct {
	Channels   int
	SampleRate uint32

	Blocksize0Exp uint
	Blocksize1Exp uint
}

// BlockSize0 returns the short block length in samples.
func (h *IdentHeader) BlockSize0() int { return 1 << h.Blocksize0Exp }

// BlockSize1 returns the long block length in samples.
func (h *IdentHeader) BlockSize1() int { return 1 << h.Blocksize1Exp }

func checkPacketSignature(r *bitio.Reader, wantType uint32) error {
	t, err := r.ReadBitsLEQ32(8)
	if err != nil {
		return codecerr.ErrEndOfStream
	}
	if t != wantType {
		return ErrBadPacketType
	}
	for i := 0; i < len(vorbisSignature); i++ {
		b, err := r.ReadBitsLEQ32(8)
		if err != nil {
			return codecerr.ErrEndOfStream
		}
		if byte(b) != vorbisSignature[i] {
			return ErrBadSignature
		}
	}
	return nil
}

// ParseIdentHeader parses the 30-byte identification header.
func ParseIdentHeader(data []byte) (*IdentHeader, error) {
	r := bitio.NewReader(data)
	if err := checkPacketSignature(r, packetTypeIdent); err != nil {
		return nil, err
	}

	version, err := r.ReadBitsLEQ32(32)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	if version != 0 {
		return nil, ErrBadVersion
	}

	channels, err := r.ReadBitsLEQ32(8)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	if channels == 0 {
		return nil, codecerr.ErrDecodeError
	}

	sampleRate, err := r.ReadBitsLEQ32(32)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	if sampleRate == 0 {
		return nil, codecerr.ErrDecodeError
	}

	// Three LE 32-bit bitrate fields: maximum, nominal, minimum.
	// Unused by decode.
	if err := r.IgnoreBits(96); err != nil {
		return nil, codecerr.ErrEndOfStream
	}

	blockSizes, err := r.ReadBitsLEQ32(8)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	bs0 := uint(blockSizes & 0x0f)
	bs1 := uint(blockSizes>>4) & 0x0f
	if bs0 < 6 || bs0 > 13 || bs1 < 6 || bs1 > 13 || bs0 > bs1 {
		return nil, ErrInvalidBlockSize
	}

	framing, err := r.ReadBitsLEQ32(8)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	if framing&1 == 0 {
		return nil, ErrBadFraming
	}

	return &IdentHeader{
		Channels:      int(channels),
		SampleRate:    sampleRate,
		Blocksize0Exp: bs0,
		Blocksize1Exp: bs1,
	}, nil
}
