package vorbis

import (
	"github.com/vorbisdec/vorbis/internal/bitio"
	"github.com/vorbisdec/vorbis/internal/codecerr"
)

// DurationParser computes a Vorbis audio packet's sample duration
// without decoding its spectral content, for page-timestamp probing
// and bisection seeking, per spec §4.12. It only needs each mode's
// block flag, cached once from Setup.
type DurationParser struct {
	blockFlags []int // indexed by mode number
	blockSize0 int
	blockSize1 int
}

// IsHeaderPacket reports whether a packet's leading bit marks it as a
// non-audio (header) packet, usable before a Setup (and therefore a
// DurationParser) exists — the identification and comment headers
// must be recognized and routed past before the setup header that
// would build one has even been parsed.
func IsHeaderPacket(packet []byte) bool {
	r := bitio.NewReader(packet)
	flag, err := r.ReadBool()
	if err != nil {
		return false
	}
	return flag
}

// NewDurationParser builds a parser from an already-parsed Setup.
func NewDurationParser(s *Setup) *DurationParser {
	flags := make([]int, len(s.Modes))
	for i, m := range s.Modes {
		flags[i] = m.BlockFlag
	}
	return &DurationParser{blockFlags: flags, blockSize0: s.BlockSize0, blockSize1: s.BlockSize1}
}

// PacketDuration reads a packet's mode number and returns the number
// of output samples it contributes, given the previous packet's block
// size (0 if there was none). It also returns the packet's own block
// size, for the caller to pass as prevBlockSize on the next call.
//
// isHeader reports whether the packet is not an audio packet at all
// (the leading bit is set), in which case duration is always 0 and
// the caller should route the packet to header parsing instead.
func (p *DurationParser) PacketDuration(packet []byte, prevBlockSize int) (duration int64, curBlockSize int, isHeader bool, err error) {
	r := bitio.NewReader(packet)

	audioFlag, err := r.ReadBool()
	if err != nil {
		return 0, 0, false, codecerr.ErrEndOfStream
	}
	if audioFlag {
		return 0, 0, true, nil
	}

	modeBits := ilog(uint32(len(p.blockFlags) - 1))
	modeRaw, err := r.ReadBitsLEQ32(modeBits)
	if err != nil {
		return 0, 0, false, codecerr.ErrEndOfStream
	}
	mode := int(modeRaw)
	if mode < 0 || mode >= len(p.blockFlags) {
		return 0, 0, false, codecerr.ErrDecodeError
	}

	curBlockSize = p.blockSize0
	if p.blockFlags[mode] == 1 {
		curBlockSize = p.blockSize1
	}

	if prevBlockSize == 0 {
		return 0, curBlockSize, false, nil
	}
	duration = int64(prevBlockSize/4) + int64(curBlockSize/4)
	return duration, curBlockSize, false, nil
}
