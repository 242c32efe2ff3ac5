package ogg

import (
	"encoding/binary"
)

// Page header flag constants.
const (
	// PageFlagContinuation indicates this page contains data from a packet
	// that began on a previous page.
	PageFlagContinuation = 0x01

	// PageFlagBOS (Beginning of Stream) indicates this is the first page
	// of a logical bitstream.
	PageFlagBOS = 0x02

	// PageFlagEOS (End of Stream) indicates this is the last page of a
	// logical bitstream.
	PageFlagEOS = 0x04
)

// Page header size constants.
const (
	// pageHeaderSize is the fixed portion of the page header (before segment table).
	pageHeaderSize = 27

	// oggMagic is the capture pattern that identifies an Ogg page.
	oggMagic = "OggS"
)

// Page represents a single Ogg page.
type Page struct {
	// Version is the stream structure version (always 0).
	Version byte

	// HeaderType contains page flags (continuation, BOS, EOS).
	HeaderType byte

	// GranulePos is the granule position, representing the number of
	// samples decoded (including this page) at the page's end.
	// For Opus, this is the sample count at 48kHz.
	GranulePos uint64

	// SerialNumber identifies the logical bitstream.
	SerialNumber uint32

	// PageSequence is the page sequence number within the bitstream.
	PageSequence uint32

	// Segments contains the segment table entries.
	// Each entry is the size of a segment (0-255).
	Segments []byte

	// Payload contains the concatenated packet data.
	Payload []byte
}

// BuildSegmentTable creates a segment table for a packet of the given length.
// Packets larger than 255 bytes span multiple segments (each 255 bytes except
// the final segment which contains the remainder).
func BuildSegmentTable(packetLen int) []byte {
	if packetLen == 0 {
		return []byte{0}
	}

	numSegments := packetLen / 255
	remainder := packetLen % 255

	// An exact multiple of 255 still needs a trailing zero-length
	// segment, otherwise the last 255 would read as "continues".
	if remainder == 0 {
		numSegments++
		segments := make([]byte, numSegments)
		for i := 0; i < numSegments-1; i++ {
			segments[i] = 255
		}
		segments[numSegments-1] = 0
		return segments
	}

	segments := make([]byte, numSegments+1)
	for i := 0; i < numSegments; i++ {
		segments[i] = 255
	}
	segments[numSegments] = byte(remainder)
	return segments
}

// ParseSegmentTable returns the length of each complete packet encoded
// by segments. A trailing run of 255s with no terminating value below
// 255 belongs to a packet that continues onto the next page and is not
// included in the result.
func ParseSegmentTable(segments []byte) []int {
	if len(segments) == 0 {
		return nil
	}

	var lengths []int
	currentLen := 0
	for _, seg := range segments {
		currentLen += int(seg)
		if seg < 255 {
			lengths = append(lengths, currentLen)
			currentLen = 0
		}
	}
	return lengths
}

// IsBOS returns true if this is a Beginning of Stream page.
func (p *Page) IsBOS() bool {
	return p.HeaderType&PageFlagBOS != 0
}

// IsEOS returns true if this is an End of Stream page.
func (p *Page) IsEOS() bool {
	return p.HeaderType&PageFlagEOS != 0
}

// IsContinuation returns true if this page continues a packet from a previous page.
func (p *Page) IsContinuation() bool {
	return p.HeaderType&PageFlagContinuation != 0
}

// PacketLengths extracts packet lengths from the segment table.
// This is equivalent to ParseSegmentTable(p.Segments).
func (p *Page) PacketLengths() []int {
	return ParseSegmentTable(p.Segments)
}

// Packets extracts individual packets from the payload.
// Uses PacketLengths() to split the payload into packets.
func (p *Page) Packets() [][]byte {
	lengths := p.PacketLengths()
	if len(lengths) == 0 {
		return nil
	}

	packets := make([][]byte, len(lengths))
	offset := 0
	for i, length := range lengths {
		if offset+length > len(p.Payload) {
			// Truncated payload
			packets[i] = p.Payload[offset:]
			break
		}
		packets[i] = p.Payload[offset : offset+length]
		offset += length
	}
	return packets
}

// Encode serializes the page to bytes: a 27-byte header, the segment
// table, then the payload, with the CRC field filled in over the
// result (computed with that field zeroed first).
func (p *Page) Encode() []byte {
	headerSize := pageHeaderSize + len(p.Segments)
	totalSize := headerSize + len(p.Payload)
	data := make([]byte, totalSize)

	copy(data[0:4], oggMagic)
	data[4] = p.Version
	data[5] = p.HeaderType
	binary.LittleEndian.PutUint64(data[6:14], p.GranulePos)
	binary.LittleEndian.PutUint32(data[14:18], p.SerialNumber)
	binary.LittleEndian.PutUint32(data[18:22], p.PageSequence)
	// bytes 22-25 (CRC) filled in below, once the rest of the page exists.
	data[26] = byte(len(p.Segments))
	copy(data[27:], p.Segments)
	copy(data[headerSize:], p.Payload)

	binary.LittleEndian.PutUint32(data[22:26], oggCRC(data))
	return data
}

// ParsePage parses one Ogg page from the front of data, returning the
// parsed page and the number of bytes consumed. Returns ErrInvalidPage
// if the capture pattern is missing, a reserved header bit is set, or
// data is truncated before the page's declared end; ErrBadCRC if the
// stored checksum doesn't match.
func ParsePage(data []byte) (*Page, int, error) {
	if len(data) < pageHeaderSize {
		return nil, 0, ErrInvalidPage
	}
	if string(data[0:4]) != oggMagic {
		return nil, 0, ErrInvalidPage
	}

	p := &Page{
		Version:      data[4],
		HeaderType:   data[5],
		GranulePos:   binary.LittleEndian.Uint64(data[6:14]),
		SerialNumber: binary.LittleEndian.Uint32(data[14:18]),
		PageSequence: binary.LittleEndian.Uint32(data[18:22]),
	}
	if p.Version != 0 || p.HeaderType&0xF8 != 0 {
		return nil, 0, ErrInvalidPage
	}

	storedCRC := binary.LittleEndian.Uint32(data[22:26])
	numSegments := int(data[26])

	headerSize := pageHeaderSize + numSegments
	if len(data) < headerSize {
		return nil, 0, ErrInvalidPage
	}
	p.Segments = make([]byte, numSegments)
	copy(p.Segments, data[27:27+numSegments])

	payloadSize := 0
	for _, seg := range p.Segments {
		payloadSize += int(seg)
	}
	totalSize := headerSize + payloadSize
	if len(data) < totalSize {
		return nil, 0, ErrInvalidPage
	}
	p.Payload = make([]byte, payloadSize)
	copy(p.Payload, data[headerSize:totalSize])

	// oggCRC is computed with the CRC field zeroed, so re-zero it on a
	// copy rather than mutating the caller's input slice.
	pageCopy := make([]byte, totalSize)
	copy(pageCopy, data[:totalSize])
	pageCopy[22], pageCopy[23], pageCopy[24], pageCopy[25] = 0, 0, 0, 0

	if oggCRC(pageCopy) != storedCRC {
		return nil, 0, ErrBadCRC
	}
	return p, totalSize, nil
}
