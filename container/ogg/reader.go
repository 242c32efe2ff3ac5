package ogg

import (
	"errors"

	"github.com/vorbisdec/vorbis/internal/byteio"
	"github.com/vorbisdec/vorbis/internal/codecerr"
)

// Track is one logical bitstream multiplexed into the physical Ogg
// stream, together with the mapper that recognized it.
type Track struct {
	Serial uint32
	Mapper Mapper

	stream *LogicalStream
}

type queuedPacket struct {
	serial uint32
	packet DecodedPacket
}

// OggReader demultiplexes a physical Ogg stream into its logical
// tracks and hands back complete packets from the default track, in
// page order, skipping any other multiplexed track's pages.
type OggReader struct {
	pages *PageReader
	src   byteio.Source

	mappers []Mapper

	tracks      map[uint32]*Track
	order       []uint32
	defaultID   uint32
	haveDefault bool

	queue []queuedPacket
	atEOF bool

	warnf func(format string, args ...any)
}

// NewOggReader constructs a reader over src, recognizing tracks by
// probing each new logical stream's first packet against mappers in
// order.
func NewOggReader(src byteio.Source, mappers ...Mapper) *OggReader {
	return &OggReader{
		pages:   NewPageReader(src),
		src:     src,
		mappers: mappers,
		tracks:  make(map[uint32]*Track),
	}
}

// SetWarnf installs a callback invoked when a recoverable stream
// anomaly is discarded (§3's "discard ... and log a warning"
// invariant) — a non-monotonic or gapped page sequence, or an orphan
// continuation page. It defaults to a no-op; library code never logs
// directly, so a caller (e.g. a CLI driver) wires this to its own
// logger. Applies to every track, including ones identified later.
func (r *OggReader) SetWarnf(fn func(format string, args ...any)) {
	r.warnf = fn
	for _, t := range r.tracks {
		t.stream.SetWarnf(fn)
	}
}

// Tracks returns the serial numbers of every logical stream seen so
// far, in first-seen order.
func (r *OggReader) Tracks() []uint32 {
	return append([]uint32(nil), r.order...)
}

// DefaultTrack returns the serial number of the first track any
// supplied Mapper recognized, and whether one has been found yet.
func (r *OggReader) DefaultTrack() (uint32, bool) {
	return r.defaultID, r.haveDefault
}

// DefaultMapper returns the Mapper that identified the default track,
// so a caller can finish configuring it (e.g. installing duration
// logic once a codec's setup header has been parsed) after the track
// is known but before further packets are demultiplexed.
func (r *OggReader) DefaultMapper() (Mapper, bool) {
	if !r.haveDefault {
		return nil, false
	}
	t, ok := r.tracks[r.defaultID]
	if !ok {
		return nil, false
	}
	return t.Mapper, true
}

// NextPacket returns the next packet belonging to the default track.
// It returns codecerr.ErrEndOfStream once the source is exhausted and
// codecerr.ErrResetRequired if a new beginning-of-stream page for the
// default track's serial number arrives (a chained stream).
func (r *OggReader) NextPacket() (DecodedPacket, error) {
	for {
		for len(r.queue) > 0 {
			qp := r.queue[0]
			r.queue = r.queue[1:]
			if qp.serial == r.defaultID {
				return qp.packet, nil
			}
		}
		if r.atEOF {
			return DecodedPacket{}, codecerr.ErrEndOfStream
		}
		if err := r.advance(); err != nil {
			if errors.Is(err, codecerr.ErrEndOfStream) {
				r.atEOF = true
				continue
			}
			return DecodedPacket{}, err
		}
	}
}

// advance reads one more physical page and feeds it to its track,
// queuing any packets it completes.
func (r *OggReader) advance() error {
	page, err := r.pages.NextPage()
	if err != nil {
		return err
	}

	track, known := r.tracks[page.SerialNumber]
	if page.IsBOS() {
		if known && r.haveDefault && page.SerialNumber == r.defaultID {
			if track.stream.sawBOS {
				return codecerr.ErrResetRequired
			}
			// The default track's own BOS page read again after a seek
			// reset its stream: feed it to the existing track.
		} else {
			mapper := r.identify(page)
			track = &Track{
				Serial: page.SerialNumber,
				Mapper: mapper,
				stream: NewLogicalStream(page.SerialNumber, mapper),
			}
			track.stream.SetWarnf(r.warnf)
			r.tracks[page.SerialNumber] = track
			r.order = append(r.order, page.SerialNumber)
			if !r.haveDefault && mapper != nil {
				r.defaultID = page.SerialNumber
				r.haveDefault = true
			}
		}
	} else if !known {
		// A continuation page for a serial number we never saw a BOS
		// for: drop it rather than fail the whole read.
		return nil
	}

	packets, err := track.stream.Feed(page)
	if err != nil {
		return err
	}
	for _, pkt := range packets {
		r.queue = append(r.queue, queuedPacket{serial: page.SerialNumber, packet: pkt})
	}
	return nil
}

func (r *OggReader) identify(page *Page) Mapper {
	packets := page.Packets()
	if len(packets) == 0 {
		return nil
	}
	for _, m := range r.mappers {
		if m.Identify(packets[0]) {
			return m
		}
	}
	return nil
}

// SeekMode selects how much work Seek does after its bisection lands
// on a candidate page, per spec §6: "coarse is best-effort, accurate
// always seeks to <= required_ts".
type SeekMode int

const (
	// SeekCoarse stops after the bisection. Cheap, but the next packet
	// returned may start slightly after the requested position.
	SeekCoarse SeekMode = iota

	// SeekAccurate additionally consumes packets forward from the
	// bisection result until one satisfies packet.ts+packet.dur >=
	// required_ts (§4.13's final paragraph), guaranteeing the packet
	// NextPacket returns next starts at or before the request.
	SeekAccurate
)

// Seek repositions the reader so the next packets read from the
// default track surround targetGranule, using bisection over the
// underlying byte source. It requires a seekable source and at least
// one identified default track. Returns a *codecerr.SeekError with
// kind SeekOutOfRange if targetGranule exceeds the stream's last known
// granule position.
func (r *OggReader) Seek(mode SeekMode, targetGranule int64) error {
	if r.src.Len() < 0 {
		return codecerr.NewSeekError(codecerr.SeekUnseekable, nil)
	}
	if !r.haveDefault {
		return codecerr.NewSeekError(codecerr.SeekInvalidTrack, errors.New("no default track identified yet"))
	}
	if targetGranule < 0 {
		return codecerr.NewSeekError(codecerr.SeekForwardOnly, errors.New("negative target granule"))
	}

	last, err := r.lastGranule()
	if err != nil {
		return codecerr.NewSeekError(codecerr.SeekUnseekable, err)
	}
	if last >= 0 && targetGranule > last {
		return codecerr.NewSeekError(codecerr.SeekOutOfRange, nil)
	}

	lo, hi := int64(0), r.src.Len()
	bestPos := int64(0)
	for hi-lo > 65536 {
		mid := lo + (hi-lo)/2
		if _, err := r.src.Seek(byteio.SeekStart, mid); err != nil {
			return codecerr.NewSeekError(codecerr.SeekUnseekable, err)
		}
		page, err := r.pages.NextPage()
		if err != nil {
			hi = mid
			continue
		}
		if page.SerialNumber != r.defaultID || page.GranulePos == unsetGranule {
			lo = mid + 1
			continue
		}
		g := int64(page.GranulePos)
		if g <= targetGranule {
			bestPos = mid
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if _, err := r.src.Seek(byteio.SeekStart, bestPos); err != nil {
		return codecerr.NewSeekError(codecerr.SeekUnseekable, err)
	}

	// Landing mid-stream always lands mid-packet relative to whatever
	// page preceded the seek target; the default track's reassembly
	// state can't be trusted across the jump.
	if t, ok := r.tracks[r.defaultID]; ok {
		*t.stream = *NewLogicalStream(r.defaultID, t.Mapper)
		t.stream.SetWarnf(r.warnf)
	}
	r.queue = r.queue[:0]
	r.atEOF = false

	if mode == SeekAccurate {
		return r.consumeToward(targetGranule)
	}
	return nil
}

// lastGranule probes the tail of the stream for the default track's
// highest known granule position, used to reject an out-of-range seek
// target. Returns -1, nil if no page with a known granule position for
// the default track could be found in the tail window, in which case
// Seek does not reject any target on range grounds.
func (r *OggReader) lastGranule() (int64, error) {
	const tailWindow = 256 << 10

	total := r.src.Len()
	start := int64(0)
	if total > tailWindow {
		start = total - tailWindow
	}
	if _, err := r.src.Seek(byteio.SeekStart, start); err != nil {
		return -1, err
	}

	last := int64(-1)
	for {
		page, err := r.pages.NextPage()
		if err != nil {
			break
		}
		if page.SerialNumber == r.defaultID && page.GranulePos != unsetGranule {
			last = int64(page.GranulePos)
		}
	}
	return last, nil
}

// consumeToward drains packets from the default track, starting from
// wherever Seek's bisection landed, until one satisfies
// packet.ts+packet.dur >= requiredTs, leaving that packet at the front
// of the queue so the next NextPacket call returns it.
func (r *OggReader) consumeToward(requiredTs int64) error {
	for {
		for len(r.queue) > 0 {
			qp := r.queue[0]
			if qp.serial != r.defaultID {
				r.queue = r.queue[1:]
				continue
			}
			if qp.packet.Granule < 0 {
				r.queue = r.queue[1:]
				continue
			}
			ts := qp.packet.Granule - qp.packet.Dur
			if ts+qp.packet.Dur >= requiredTs {
				return nil
			}
			r.queue = r.queue[1:]
		}
		if r.atEOF {
			return nil
		}
		if err := r.advance(); err != nil {
			if errors.Is(err, codecerr.ErrEndOfStream) {
				r.atEOF = true
				continue
			}
			return err
		}
	}
}
