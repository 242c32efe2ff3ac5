package ogg

// maxPartialPacket bounds how large an in-flight, not-yet-terminated
// packet may grow before LogicalStream gives up on it. 8 MiB comfortably
// exceeds any legitimate Vorbis packet; beyond that a stream is either
// malformed or not actually Vorbis.
const maxPartialPacket = 8 << 20

// partialGrowIncrement is the granularity the partial-packet
// accumulator grows by when it needs more room, per §8's boundary
// behavior ("grows exactly to the next multiple of 8 KiB").
const partialGrowIncrement = 8 << 10

// appendPartial appends data to partial, growing partial's backing
// array to the next multiple of partialGrowIncrement when its current
// capacity is insufficient, and failing once the result would exceed
// maxPartialPacket.
func appendPartial(partial, data []byte) ([]byte, error) {
	newLen := len(partial) + len(data)
	if newLen > maxPartialPacket {
		return partial, ErrPartialPacketTooLarge
	}
	if newLen > cap(partial) {
		newCap := ((newLen + partialGrowIncrement - 1) / partialGrowIncrement) * partialGrowIncrement
		grown := make([]byte, len(partial), newCap)
		copy(grown, partial)
		partial = grown
	}
	return append(partial, data...), nil
}

// unsetGranule is the Ogg "granule position not meaningful on this
// page" sentinel: all bits set.
const unsetGranule uint64 = 1<<64 - 1

// DecodedPacket is one reassembled packet together with its sample
// position, backfilled from the page granule positions that bound it.
type DecodedPacket struct {
	Data    []byte
	Granule int64 // sample index at the end of this packet, -1 if unknown
	Dur     int64 // sample duration, as reported by the codec mapper

	// TrimStart and TrimEnd are gapless-playback trim counts (§4.11),
	// in codec-native samples, to be discarded from the decoded output
	// before it reaches a caller.
	TrimStart int
	TrimEnd   int

	IsEOS bool
}

// LogicalStream reassembles packets for one logical bitstream
// (identified by serial number) out of the pages fed to it in page
// order, and backfills each packet's granule position.
//
// Packet continuation across pages follows the segment table rule
// directly rather than through a shared queue, unlike an
// implementation that stashes partial packets in a package-level
// variable: each LogicalStream owns its own accumulator, so decoding
// two streams concurrently from two readers never cross-contaminates
// their partial packets.
type LogicalStream struct {
	serial uint32
	mapper Mapper

	partial []byte

	sawBOS bool
	sawEOS bool

	prevBlockSize int
	haveBlockSize bool

	lastPageSeq uint32
	haveLastSeq bool

	// warnf reports a recoverable stream anomaly (non-monotonic/gapped
	// page sequence, orphan continuation page) per §3's "discard ...
	// and log a warning" invariant. Defaults to a no-op; install one
	// with SetWarnf.
	warnf func(format string, args ...any)

	// cumSamples is the running total of every audio packet's own
	// decoded sample duration, independent of any page's granule
	// position. Comparing it against the EOS page's declared granule
	// position is how trim_end (§4.11) is detected: an encoder that
	// pads the final block beyond the logical stream's true sample
	// count sets the last page's granule position short of that
	// padding, and the shortfall is exactly the excess to trim.
	cumSamples int64
}

// Serial returns the logical bitstream's serial number.
func (ls *LogicalStream) Serial() uint32 { return ls.serial }

// SetWarnf installs the anomaly-reporting callback; nil restores the
// no-op default.
func (ls *LogicalStream) SetWarnf(fn func(format string, args ...any)) {
	ls.warnf = fn
}

func (ls *LogicalStream) warn(format string, args ...any) {
	if ls.warnf != nil {
		ls.warnf(format, args...)
	}
}

// NewLogicalStream constructs a reassembler for the given serial
// number, using mapper to compute packet durations. mapper may be nil
// for an unrecognized codec; packets are still reassembled, each with
// zero duration, so every packet on a page with a set granule position
// carries that page's granule.
func NewLogicalStream(serial uint32, mapper Mapper) *LogicalStream {
	return &LogicalStream{serial: serial, mapper: mapper}
}

// Feed processes one page belonging to this stream, returning the
// packets it completes, in order. It implements §4.11 steps 1-3:
// a non-monotonic or gapped page sequence drops any held partial, an
// orphan continuation page (marked continuation with nothing buffered)
// drops its leading fragment, and a non-continuation page arriving
// while a partial is held drops that stale partial. Each drop is
// reported through warn before the bytes are discarded.
func (ls *LogicalStream) Feed(p *Page) ([]DecodedPacket, error) {
	if p.IsBOS() {
		ls.sawBOS = true
	}
	if ls.haveLastSeq && (p.PageSequence < ls.lastPageSeq || p.PageSequence-ls.lastPageSeq > 1) {
		if len(ls.partial) > 0 {
			ls.warn("ogg: discarding %d buffered partial-packet bytes: page sequence %d -> %d is non-monotonic or gapped", len(ls.partial), ls.lastPageSeq, p.PageSequence)
		}
		ls.partial = ls.partial[:0]
	}
	ls.lastPageSeq = p.PageSequence
	ls.haveLastSeq = true

	dropLeading := false
	if p.IsContinuation() {
		if len(ls.partial) == 0 {
			dropLeading = true
			ls.warn("ogg: page %d marked continuation with nothing buffered, dropping its leading fragment", p.PageSequence)
		}
	} else if len(ls.partial) > 0 {
		ls.warn("ogg: discarding %d buffered partial-packet bytes: page %d is not marked continuation", len(ls.partial), p.PageSequence)
		ls.partial = ls.partial[:0]
	}

	var completed [][]byte
	offset, run := 0, 0
	for i, seg := range p.Segments {
		run += int(seg)
		if seg == 255 && i == len(p.Segments)-1 {
			if dropLeading {
				// Still more of the orphaned leading fragment; suppress
				// it rather than buffering garbage as a partial packet.
				offset += run
				continue
			}
			// Packet continues onto the next page.
			grown, err := appendPartial(ls.partial, p.Payload[offset:offset+run])
			if err != nil {
				return nil, err
			}
			ls.partial = grown
			offset += run
			continue
		}
		if seg < 255 {
			if dropLeading {
				// This terminates the orphaned leading fragment; still
				// garbage, so it's dropped instead of completed.
				dropLeading = false
			} else {
				var full []byte
				if len(ls.partial) > 0 {
					full = append(ls.partial, p.Payload[offset:offset+run]...)
					ls.partial = nil
				} else {
					full = p.Payload[offset : offset+run]
				}
				completed = append(completed, full)
			}
			offset += run
			run = 0
		}
	}

	durations := make([]int64, len(completed))
	for i, data := range completed {
		duration, blockSize, isHeader, err := ls.duration(data)
		if err != nil {
			duration = 0
		}
		if !isHeader {
			ls.prevBlockSize = blockSize
			ls.haveBlockSize = true
			ls.cumSamples += duration
		}
		durations[i] = duration
	}

	out := make([]DecodedPacket, len(completed))
	for i, data := range completed {
		out[i] = DecodedPacket{Data: data, Granule: -1, Dur: durations[i]}
	}

	if p.IsEOS() {
		ls.sawEOS = true
		if len(out) > 0 {
			last := len(out) - 1
			out[last].IsEOS = true
			if p.GranulePos != unsetGranule {
				if excess := ls.cumSamples - int64(p.GranulePos); excess > 0 {
					if excess > out[last].Dur {
						excess = out[last].Dur
					}
					out[last].TrimEnd = int(excess)
				}
			}
		}
	}

	// The page's granule position is authoritative for the sample
	// position at the end of the last packet *completed on this page*
	// (a packet that continues onto the next page contributes nothing
	// to it yet). Walk backward from there by each packet's own
	// duration to assign the rest. A page with an unset granule
	// position (legal mid-stream, e.g. on a page holding only header
	// packets) leaves every packet on it at -1; callers treat that as
	// "timestamp unknown" rather than failing.
	if p.GranulePos != unsetGranule && len(out) > 0 {
		running := int64(p.GranulePos)
		for i := len(out) - 1; i >= 0; i-- {
			out[i].Granule = running
			running -= durations[i]
		}
	}

	return out, nil
}

// duration computes one packet's sample contribution via the mapper,
// tolerating an unrecognized or unsupported mapper by reporting zero
// duration rather than failing reassembly.
func (ls *LogicalStream) duration(data []byte) (duration int64, blockSize int, isHeader bool, err error) {
	if ls.mapper == nil {
		return 0, 0, false, nil
	}
	prev := 0
	if ls.haveBlockSize {
		prev = ls.prevBlockSize
	}
	return ls.mapper.PacketDuration(data, prev)
}
