package vorbis

import "math"

// Windows holds the precomputed short and long half-windows used for
// overlap-add lapping. A half-window covers one block's left or right
// half; by symmetry the same array serves both (read forward for the
// rising left edge, backward for the falling right edge).
type Windows struct {
	short []float32 // length blockSize0/2
	long  []float32 // length blockSize1/2
}

// BuildWindows precomputes both half-windows for a stream's two block
// sizes, per spec §4.7: w[i] = sin((pi/2) * sin^2((pi/2)*(i+0.5)/len)).
func BuildWindows(blockSize0, blockSize1 int) *Windows {
	return &Windows{short: halfWindow(blockSize0 / 2), long: halfWindow(blockSize1 / 2)}
}

func halfWindow(length int) []float32 {
	w := make([]float32, length)
	for i := 0; i < length; i++ {
		s := math.Sin((math.Pi / 2) * (float64(i) + 0.5) / float64(length))
		w[i] = float32(math.Sin((math.Pi / 2) * s * s))
	}
	return w
}

// For returns the half-window for a block flag (0 = short, 1 = long).
func (w *Windows) For(blockFlag int) []float32 {
	if blockFlag == 1 {
		return w.long
	}
	return w.short
}

// LappingState carries the single bit of history overlap-add needs:
// the previous packet's block flag and its windowed trailing half.
type LappingState struct {
	havePrev      bool
	prevBlockFlag int
	prevRight     []float32 // windowed right half of the previous IMDCT output
}

// Reset clears lapping history, used after a seek or decoder error
// where the next packet cannot assume continuity with whatever came
// before.
func (l *LappingState) Reset() {
	l.havePrev = false
	l.prevRight = nil
}

// OverlapAdd combines this packet's IMDCT output with the saved
// trailing half of the previous packet's output, appending the
// resulting samples to out, and saves this packet's trailing half for
// the next call. It returns the number of frames appended, which is
// zero for the very first packet (per spec §4.8 step 9).
func (l *LappingState) OverlapAdd(win *Windows, blockFlag int, imdctOut []float32, out *[]float32) int {
	curHalf := len(imdctOut) / 2
	curWin := win.For(blockFlag)

	if !l.havePrev {
		l.prevRight = append([]float32(nil), imdctOut[curHalf:]...)
		applyWindowRight(l.prevRight, curWin)
		l.havePrev = true
		l.prevBlockFlag = blockFlag
		return 0
	}

	prevHalf := len(l.prevRight)
	lo, hi := prevHalf, curHalf
	if lo > hi {
		lo, hi = hi, lo
	}
	overlapLen := lo
	passthroughLen := (hi - lo) / 2

	frames := overlapLen + passthroughLen
	start := len(*out)
	*out = append(*out, make([]float32, frames)...)
	dst := (*out)[start:]

	curLeft := imdctOut[:curHalf]

	switch {
	case prevHalf == curHalf:
		for i := 0; i < overlapLen; i++ {
			dst[i] = l.prevRight[i] + curLeft[i]*curWin[i]
		}
	case prevHalf > curHalf:
		// Previous block was longer: its saved tail already decayed to
		// (near) silence over its own passthrough stretch, so the
		// leading samples are copied as-is, then the remaining
		// overlapLen samples overlap-add against the current block's
		// windowed left half.
		copy(dst[:passthroughLen], l.prevRight[:passthroughLen])
		for i := 0; i < overlapLen; i++ {
			dst[passthroughLen+i] = l.prevRight[passthroughLen+i] + curLeft[i]*curWin[i]
		}
	default:
		// Current block is longer: the short previous tail overlaps
		// against the centered portion of the current block, and the
		// remaining tail of the IMDCT output passes through verbatim
		// (it lies outside the short block's span entirely). The taper
		// applied to that overlap must follow the short block's rate —
		// a slice of the long window taken at an offset is a different
		// curve — so win.short (exactly overlapLen samples here) is used
		// directly rather than curWin[passthroughLen:].
		short := win.short
		for i := 0; i < overlapLen; i++ {
			dst[i] = l.prevRight[i] + curLeft[passthroughLen+i]*short[i]
		}
		copy(dst[overlapLen:], curLeft[passthroughLen+overlapLen:])
	}

	l.prevRight = append(l.prevRight[:0], imdctOut[curHalf:]...)
	applyWindowRight(l.prevRight, curWin)
	l.prevBlockFlag = blockFlag
	return frames
}

// applyWindowRight multiplies a right-half buffer by the falling edge
// of a half-window (the window read back-to-front).
func applyWindowRight(right []float32, win []float32) {
	n := len(win)
	for i := range right {
		right[i] *= win[n-1-i]
	}
}
