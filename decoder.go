package vorbis

import (
	"github.com/vorbisdec/vorbis/internal/vorbis"
)

// Decoder turns reassembled Vorbis packets into planar PCM, once its
// three header packets have been parsed. It holds no container
// knowledge; Reader is what drives it from an Ogg stream.
type Decoder struct {
	ident   *vorbis.IdentHeader
	comment *vorbis.CommentHeader
	setup   *vorbis.Setup
	dec     *vorbis.Decoder

	buf *vorbis.PlanarAudioBuffer
}

// NewDecoder constructs a Decoder from the three raw Vorbis header
// packets, in order: identification, comment, setup.
func NewDecoder(identPacket, commentPacket, setupPacket []byte) (*Decoder, error) {
	ident, err := vorbis.ParseIdentHeader(identPacket)
	if err != nil {
		return nil, err
	}
	comment, err := vorbis.ParseCommentHeader(commentPacket)
	if err != nil {
		return nil, err
	}
	setup, err := vorbis.ParseSetupHeader(setupPacket, ident)
	if err != nil {
		return nil, err
	}

	return &Decoder{
		ident:   ident,
		comment: comment,
		setup:   setup,
		dec:     vorbis.NewDecoder(setup),
		buf:     vorbis.NewPlanarAudioBuffer(ident.Channels),
	}, nil
}

// Channels returns the stream's channel count.
func (d *Decoder) Channels() int { return d.ident.Channels }

// SampleRate returns the stream's sample rate in Hz.
func (d *Decoder) SampleRate() uint32 { return d.ident.SampleRate }

// Comments returns the parsed vendor string and tag map from the
// comment header.
func (d *Decoder) Comments() (vendor string, tags map[string]string) {
	return d.comment.Vendor, d.comment.Comments
}

// Reset clears lapping history, for use after a seek.
func (d *Decoder) Reset() { d.dec.Reset() }

// Decode decodes one audio packet, returning planar channel-major
// samples. The returned slices alias the Decoder's internal buffer
// and are only valid until the next call to Decode.
func (d *Decoder) Decode(p OggPacket) ([][]float32, error) {
	if err := d.dec.DecodePacket(p.Data, d.buf, p.TrimStart, p.TrimEnd); err != nil {
		return nil, err
	}
	return d.buf.Samples(), nil
}

// durationParser builds the lightweight mode-only duration probe
// backing container/ogg.Mapper.PacketDuration, once the setup header
// is known.
func (d *Decoder) durationParser() *vorbis.DurationParser {
	return vorbis.NewDurationParser(d.setup)
}
