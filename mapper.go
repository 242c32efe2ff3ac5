package vorbis

import (
	"github.com/vorbisdec/vorbis/internal/codecerr"
	"github.com/vorbisdec/vorbis/internal/vorbis"
)

// vorbisMapper adapts internal/vorbis's header-identification and
// duration-probing logic to container/ogg's Mapper interface, so
// OggReader can recognize a Vorbis logical stream and assign sample
// timestamps to its packets without knowing anything about codebooks
// or floors.
//
// duration starts nil: the setup header (the third packet) has to be
// parsed before a DurationParser can exist, since block-size-per-mode
// comes from it. Until then, PacketDuration recognizes the three
// header packets by their leading bit alone and reports zero duration
// for them; NewReader installs the real parser via setDuration
// once the setup header is parsed, before any audio packet arrives.
type vorbisMapper struct {
	duration *vorbis.DurationParser
}

func (m *vorbisMapper) setDuration(d *vorbis.DurationParser) { m.duration = d }

func (m *vorbisMapper) Name() string { return "vorbis" }

func (m *vorbisMapper) Identify(firstPacket []byte) bool {
	return len(firstPacket) >= 7 && firstPacket[0] == 1 && string(firstPacket[1:7]) == "vorbis"
}

func (m *vorbisMapper) PacketDuration(packet []byte, prevBlockSize int) (int64, int, bool, error) {
	if m.duration == nil {
		if vorbis.IsHeaderPacket(packet) {
			return 0, 0, true, nil
		}
		return 0, 0, false, codecerr.ErrUnsupportedFeature
	}
	return m.duration.PacketDuration(packet, prevBlockSize)
}
