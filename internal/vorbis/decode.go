package vorbis

import (
	"github.com/vorbisdec/vorbis/internal/bitio"
	"github.com/vorbisdec/vorbis/internal/codecerr"
)

// Decoder is the per-packet audio orchestrator: given an immutable
// Setup, it walks the twelve-step decode described in §4.8, holding
// all the scratch and lapping state a stream's packets share.
type Decoder struct {
	setup    *Setup
	channels int

	dsp     []*DspChannel
	lapping []*LappingState
	windows *Windows

	channelToSlot []int

	havePrevBlockSize bool
	prevBlockSize     int
}

// NewDecoder builds a Decoder against an already-parsed Setup,
// allocating every channel's scratch arrays once against the
// stream's long block size.
func NewDecoder(setup *Setup) *Decoder {
	d := &Decoder{
		setup:    setup,
		channels: setup.Channels,
		dsp:      make([]*DspChannel, setup.Channels),
		lapping:  make([]*LappingState, setup.Channels),
		windows:  BuildWindows(setup.BlockSize0, setup.BlockSize1),
	}
	for c := 0; c < setup.Channels; c++ {
		d.dsp[c] = NewDspChannel(setup.BlockSize1)
		d.lapping[c] = &LappingState{}
	}

	order := ChannelOrder(setup.Channels)
	d.channelToSlot = make([]int, setup.Channels)
	for slot, ch := range order {
		d.channelToSlot[ch] = slot
	}
	return d
}

// Reset clears lapping history, used after a seek: the next decoded
// packet cannot assume continuity with whatever preceded the jump.
func (d *Decoder) Reset() {
	d.havePrevBlockSize = false
	for _, l := range d.lapping {
		l.Reset()
	}
}

// DecodePacket decodes one audio packet into buf (cleared first),
// applying trimStart/trimEnd from the packet's gapless metadata. On
// any failure the buffer is left cleared and the error is returned
// without touching lapping state.
func (d *Decoder) DecodePacket(packet []byte, buf *PlanarAudioBuffer, trimStart, trimEnd int) error {
	buf.Clear()

	if err := d.decodeInto(packet, buf); err != nil {
		buf.Clear()
		return err
	}
	buf.ClampAndTrim(trimStart, trimEnd)
	return nil
}

func (d *Decoder) decodeInto(packet []byte, buf *PlanarAudioBuffer) error {
	r := bitio.NewReader(packet)
	cbs := d.setup.Codebooks

	audioFlag, err := r.ReadBool()
	if err != nil {
		return codecerr.ErrEndOfStream
	}
	if audioFlag {
		return codecerr.ErrDecodeError
	}

	modeBits := ilog(uint32(len(d.setup.Modes) - 1))
	modeRaw, err := r.ReadBitsLEQ32(modeBits)
	if err != nil {
		return codecerr.ErrEndOfStream
	}
	modeIdx := int(modeRaw)
	if modeIdx < 0 || modeIdx >= len(d.setup.Modes) {
		return codecerr.ErrDecodeError
	}
	mode := d.setup.Modes[modeIdx]

	n := d.setup.BlockSize0
	if mode.BlockFlag == 1 {
		if err := r.IgnoreBits(2); err != nil {
			return codecerr.ErrEndOfStream
		}
		n = d.setup.BlockSize1
	}
	half := n / 2

	mapping := d.setup.Mappings[mode.Mapping]

	for c := 0; c < d.channels; c++ {
		d.dsp[c].Reset(half)
	}

	for c := 0; c < d.channels; c++ {
		sub := mapping.Submaps[mapping.Multiplex[c]]
		entry := d.setup.Floors[sub.Floor]
		var used bool
		var err error
		switch entry.Tag {
		case floorTag1:
			used, err = entry.Floor1.ReadChannel(r, cbs, d.dsp[c].Floor[:half])
		default:
			return codecerr.ErrUnsupportedFeature
		}
		if err != nil {
			return err
		}
		d.dsp[c].DoNotDecode = !used
	}

	for _, cpl := range mapping.Couplings {
		if cpl.Magnitude == cpl.Angle {
			return codecerr.ErrDecodeError
		}
		m, a := d.dsp[cpl.Magnitude], d.dsp[cpl.Angle]
		if m.DoNotDecode != a.DoNotDecode {
			m.DoNotDecode = false
			a.DoNotDecode = false
		}
	}

	for i, sub := range mapping.Submaps {
		if err := d.decodeSubmapResidue(r, cbs, mapping, i, sub, half); err != nil {
			return err
		}
	}

	for _, cpl := range mapping.Couplings {
		if err := applyInverseCoupling(d.dsp[cpl.Magnitude].Residue[:half], d.dsp[cpl.Angle].Residue[:half]); err != nil {
			return err
		}
	}

	for c := 0; c < d.channels; c++ {
		if !d.dsp[c].DoNotDecode {
			dotProduct(d.dsp[c].Floor[:half], d.dsp[c].Residue[:half])
		}
	}

	if d.havePrevBlockSize {
		buf.Reserve((d.prevBlockSize + n) / 4)
	}

	for c := 0; c < d.channels; c++ {
		InverseMDCT(d.dsp[c].Floor[:half], d.dsp[c].IMDCT[:n])
		slot := d.channelToSlot[c]
		out := buf.Channel(slot)
		d.lapping[c].OverlapAdd(d.windows, mode.BlockFlag, d.dsp[c].IMDCT[:n], &out)
		buf.SetChannel(slot, out)
	}

	d.havePrevBlockSize = true
	d.prevBlockSize = n
	return nil
}

// decodeSubmapResidue decodes one submap's residue for every channel
// multiplexed to it and not already marked do_not_decode. Residue
// type 2 is handled as a single interleaved channel, per §4.4.
func (d *Decoder) decodeSubmapResidue(r *bitio.Reader, cbs []*Codebook, mapping *Mapping, subIdx int, sub Submap, half int) error {
	active := channelsForSubmap(mapping, subIdx)
	for c := range active {
		if active[c] && d.dsp[c].DoNotDecode {
			active[c] = false
		}
	}
	residue := d.setup.Residues[sub.Residue]

	if residue.Type != 2 {
		dst := make([][]float32, d.channels)
		for c := range active {
			if active[c] {
				dst[c] = d.dsp[c].Residue[:half]
			}
		}
		return residue.Decode(r, cbs, active, dst, half)
	}

	var members []int
	for c, on := range active {
		if on {
			members = append(members, c)
		}
	}
	if len(members) == 0 {
		return nil
	}
	combined := make([]float32, half*len(members))
	err := residue.Decode(r, cbs, []bool{true}, [][]float32{combined}, half*len(members))
	if err != nil {
		return err
	}
	for idx, c := range members {
		for j := 0; j < half; j++ {
			d.dsp[c].Residue[j] = combined[j*len(members)+idx]
		}
	}
	return nil
}
