package vorbis

import (
	"github.com/vorbisdec/vorbis/container/ogg"
	"github.com/vorbisdec/vorbis/internal/byteio"
	"github.com/vorbisdec/vorbis/internal/codecerr"
)

// Reader streams decoded audio from an Ogg-encapsulated Vorbis
// source, wrapping an ogg.OggReader and a Decoder the way the
// teacher's streaming wrapper sits on top of its frame-at-a-time
// decoder — here surfaced as NextFrame rather than an io.Reader,
// since planar float32 has no single natural byte encoding.
type Reader struct {
	opts   FormatOptions
	ogg    *ogg.OggReader
	mapper *vorbisMapper
	dec    *Decoder
}

// NewReader constructs a Reader over src, reading and parsing the
// three Vorbis header packets from the default track before
// returning. src must be seekable for Seek to later work, but a
// forward-only source is otherwise accepted.
func NewReader(src byteio.Source, opts ...Option) (*Reader, error) {
	mapper := &vorbisMapper{}
	oggReader := ogg.NewOggReader(src, mapper, ogg.NewFlacMapper(), ogg.NewOpusMapper())

	r := &Reader{opts: applyOptions(opts), ogg: oggReader, mapper: mapper}

	headers := make([][]byte, 0, 3)
	for len(headers) < 3 {
		pkt, err := oggReader.NextPacket()
		if err != nil {
			return nil, err
		}
		if _, ok := oggReader.DefaultTrack(); !ok {
			return nil, ErrNoDefaultTrack
		}
		headers = append(headers, pkt.Data)
	}

	dec, err := NewDecoder(headers[0], headers[1], headers[2])
	if err != nil {
		return nil, err
	}
	r.dec = dec
	mapper.setDuration(dec.durationParser())

	return r, nil
}

// SetWarnf installs a callback invoked when the reader discards data
// to recover from a stream anomaly (a non-monotonic or gapped page
// sequence, an orphan continuation page). It defaults to a no-op.
func (r *Reader) SetWarnf(fn func(format string, args ...any)) {
	r.ogg.SetWarnf(fn)
}

// Channels returns the stream's channel count.
func (r *Reader) Channels() int { return r.dec.Channels() }

// SampleRate returns the stream's sample rate in Hz.
func (r *Reader) SampleRate() uint32 { return r.dec.SampleRate() }

// Comments returns the stream's vendor string and comment tags.
func (r *Reader) Comments() (vendor string, tags map[string]string) {
	return r.dec.Comments()
}

// NextFrame decodes and returns the next packet's planar samples. It
// returns codecerr.ErrEndOfStream when the stream is exhausted.
func (r *Reader) NextFrame() ([][]float32, error) {
	pkt, err := r.ogg.NextPacket()
	if err != nil {
		if err == codecerr.ErrResetRequired {
			r.dec.Reset()
		}
		return nil, err
	}

	trimStart, trimEnd := 0, 0
	if r.opts.GaplessPlayback {
		trimStart, trimEnd = pkt.TrimStart, pkt.TrimEnd
	}

	return r.dec.Decode(OggPacket{
		Data:      pkt.Data,
		TS:        pkt.Granule - pkt.Dur,
		Dur:       pkt.Dur,
		TrimStart: trimStart,
		TrimEnd:   trimEnd,
		IsEOS:     pkt.IsEOS,
	})
}

// SeekMode selects how precisely Seek must land at or before the
// requested sample, per spec §6.
type SeekMode = ogg.SeekMode

const (
	// SeekCoarse is best-effort: cheap, but the next decoded frame may
	// start slightly after targetSample.
	SeekCoarse = ogg.SeekCoarse

	// SeekAccurate always lands at or before targetSample, at the cost
	// of consuming packets forward past the bisection result.
	SeekAccurate = ogg.SeekAccurate
)

// Seek repositions the reader so the next decoded frame surrounds
// targetSample, in samples at the stream's native sample rate.
func (r *Reader) Seek(mode SeekMode, targetSample int64) error {
	if err := r.ogg.Seek(mode, targetSample); err != nil {
		return err
	}
	r.dec.Reset()
	return nil
}
