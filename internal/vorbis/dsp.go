package vorbis

// DspChannel is one channel's per-packet scratch state, sized once at
// decoder construction against the stream's long block size and
// reused for every packet regardless of the current block's size.
type DspChannel struct {
	Floor   []float32 // floor curve, length blockSize1/2
	Residue []float32 // residue vector, length blockSize1/2
	IMDCT   []float32 // IMDCT output, length blockSize1

	DoNotDecode bool
}

// NewDspChannel allocates one channel's scratch arrays against the
// stream's long block size.
func NewDspChannel(blockSize1 int) *DspChannel {
	return &DspChannel{
		Floor:   make([]float32, blockSize1/2),
		Residue: make([]float32, blockSize1/2),
		IMDCT:   make([]float32, blockSize1),
	}
}

// Reset zeroes a channel's floor and residue vectors for the first n
// elements (n is the current packet's half block size) ahead of a new
// packet's decode, per the per-packet scratch-reset lifecycle rule.
func (c *DspChannel) Reset(n int) {
	for i := 0; i < n; i++ {
		c.Floor[i] = 0
		c.Residue[i] = 0
	}
	c.DoNotDecode = false
}
