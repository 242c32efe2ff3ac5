package ogg

import "github.com/vorbisdec/vorbis/internal/codecerr"

// Mapper adapts the generic packet reassembly in LogicalStream to one
// codec's framing rules: recognizing a stream by its first packet, and
// turning a packet's own bits into a sample count so granule positions
// can be backfilled onto packets that complete mid-page.
type Mapper interface {
	// Name identifies the mapper for diagnostics.
	Name() string

	// Identify inspects a BOS page's first packet and reports whether
	// this mapper's codec produced it, by magic signature.
	Identify(firstPacket []byte) bool

	// PacketDuration returns the number of samples packet contributes
	// to the logical stream's sample clock. prevBlockSize carries
	// context needed by codecs whose packet duration depends on the
	// previous packet (Vorbis's short/long block overlap); it is 0 for
	// the first audio packet after the header packets.
	//
	// isHeader reports whether this was a header packet, which
	// contributes no samples.
	PacketDuration(packet []byte, prevBlockSize int) (duration int64, curBlockSize int, isHeader bool, err error)
}

// flacMapper and opusMapper are recognized but not decoded by this
// module; they exist so OggReader can demultiplex a file containing
// them without misidentifying their pages as an unknown track. Their
// PacketDuration reports ErrUnsupportedFeature, which LogicalStream.Feed
// treats as a zero duration: NextPacket still returns such a track's
// packets, undecoded, without an error.
type flacMapper struct{}

// NewFlacMapper returns a Mapper that recognizes but does not decode
// FLAC-in-Ogg streams.
func NewFlacMapper() Mapper { return flacMapper{} }

func (flacMapper) Name() string { return "flac" }

func (flacMapper) Identify(firstPacket []byte) bool {
	return len(firstPacket) >= 5 && firstPacket[0] == 0x7F && string(firstPacket[1:5]) == "FLAC"
}

func (flacMapper) PacketDuration([]byte, int) (int64, int, bool, error) {
	return 0, 0, false, codecerr.ErrUnsupportedFeature
}

type opusMapper struct{}

// NewOpusMapper returns a Mapper that recognizes but does not decode
// Opus-in-Ogg streams.
func NewOpusMapper() Mapper { return opusMapper{} }

func (opusMapper) Name() string { return "opus" }

func (opusMapper) Identify(firstPacket []byte) bool {
	return len(firstPacket) >= 8 && string(firstPacket[0:8]) == "OpusHead"
}

func (opusMapper) PacketDuration([]byte, int) (int64, int, bool, error) {
	return 0, 0, false, codecerr.ErrUnsupportedFeature
}
