package vorbis

import (
	"math"

	"github.com/vorbisdec/vorbis/internal/bitio"
	"github.com/vorbisdec/vorbis/internal/codecerr"
	"github.com/vorbisdec/vorbis/util"
)

// floor1Range maps multiplier (1-4) to the quantization range used
// for floor1_y[0] and floor1_y[1] and for the step-1 room computation.
var floor1Range = [4]int{256, 128, 86, 64}

// inverseDBTable approximates the fixed 256-entry curve that converts
// a quantized floor amplitude index into a linear-scale multiplier,
// spanning roughly -140 dB to 0 dB.
var inverseDBTable = buildInverseDBTable()

func buildInverseDBTable() [256]float32 {
	var t [256]float32
	const dBRange = 140.0
	for i := range t {
		db := -dBRange + float64(i)*(dBRange/255.0)
		t[i] = float32(math.Pow(10, db/20.0))
	}
	return t
}

// Floor1 holds one mapping's floor-1 setup: partition classes, the
// x-list of breakpoints, and the neighbor/sort-order tables needed to
// synthesize a curve from a packet's decoded values.
type Floor1 struct {
	partitionClass []int
	classDim       []int
	classSubBits   []int
	classMasterBk  []int // -1 if the class has no subclass selector book
	classSubBooks  [][]int

	multiplier int
	rangeBits  int

	xList        []int
	neighborLow  []int
	neighborHigh []int
	sortOrder    []int
}

// ReadFloor1Setup parses a floor-1 setup block from the setup header.
func ReadFloor1Setup(r *bitio.Reader) (*Floor1, error) {
	f := &Floor1{}

	partitionsRaw, err := r.ReadBitsLEQ32(5)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	partitions := int(partitionsRaw)
	f.partitionClass = make([]int, partitions)
	maxClass := -1
	for i := 0; i < partitions; i++ {
		c, err := r.ReadBitsLEQ32(4)
		if err != nil {
			return nil, codecerr.ErrEndOfStream
		}
		f.partitionClass[i] = int(c)
		if int(c) > maxClass {
			maxClass = int(c)
		}
	}

	numClasses := maxClass + 1
	f.classDim = make([]int, numClasses)
	f.classSubBits = make([]int, numClasses)
	f.classMasterBk = make([]int, numClasses)
	f.classSubBooks = make([][]int, numClasses)

	for c := 0; c < numClasses; c++ {
		dim, err := r.ReadBitsLEQ32(3)
		if err != nil {
			return nil, codecerr.ErrEndOfStream
		}
		f.classDim[c] = int(dim) + 1

		subBits, err := r.ReadBitsLEQ32(2)
		if err != nil {
			return nil, codecerr.ErrEndOfStream
		}
		f.classSubBits[c] = int(subBits)

		f.classMasterBk[c] = -1
		if subBits != 0 {
			book, err := r.ReadBitsLEQ32(8)
			if err != nil {
				return nil, codecerr.ErrEndOfStream
			}
			f.classMasterBk[c] = int(book)
		}

		subCount := 1 << f.classSubBits[c]
		f.classSubBooks[c] = make([]int, subCount)
		for k := 0; k < subCount; k++ {
			v, err := r.ReadBitsLEQ32(8)
			if err != nil {
				return nil, codecerr.ErrEndOfStream
			}
			f.classSubBooks[c][k] = int(v) - 1
		}
	}

	multRaw, err := r.ReadBitsLEQ32(2)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	f.multiplier = int(multRaw) + 1

	rangeBitsRaw, err := r.ReadBitsLEQ32(4)
	if err != nil {
		return nil, codecerr.ErrEndOfStream
	}
	f.rangeBits = int(rangeBitsRaw)

	f.xList = append(f.xList, 0, 1<<uint(f.rangeBits))
	for i := 0; i < partitions; i++ {
		c := f.partitionClass[i]
		for j := 0; j < f.classDim[c]; j++ {
			x, err := r.ReadBitsLEQ32(uint(f.rangeBits))
			if err != nil {
				return nil, codecerr.ErrEndOfStream
			}
			f.xList = append(f.xList, int(x))
		}
	}

	f.precompute()
	return f, nil
}

func (f *Floor1) precompute() {
	n := len(f.xList)
	f.neighborLow = make([]int, n)
	f.neighborHigh = make([]int, n)
	for i := 2; i < n; i++ {
		low, high := 0, 1
		lowX, highX := f.xList[0], f.xList[1]
		for j := 0; j < i; j++ {
			xj := f.xList[j]
			if xj < f.xList[i] && (j == 0 || xj > lowX) {
				lowX, low = xj, j
			}
			if xj > f.xList[i] && (j == 1 || xj < highX) {
				highX, high = xj, j
			}
		}
		f.neighborLow[i] = low
		f.neighborHigh[i] = high
	}

	f.sortOrder = make([]int, n)
	for i := range f.sortOrder {
		f.sortOrder[i] = i
	}
	// Stable insertion sort by x value; n is small (partition count
	// bounded well under a hundred), so this need not be fancier.
	for i := 1; i < n; i++ {
		for j := i; j > 0 && f.xList[f.sortOrder[j-1]] > f.xList[f.sortOrder[j]]; j-- {
			f.sortOrder[j-1], f.sortOrder[j] = f.sortOrder[j], f.sortOrder[j-1]
		}
	}
}

// ReadChannel decodes and synthesizes one channel's floor curve,
// implementing spec §4.3's two-step process: predict-and-correct
// (step 1) then line-render between drawn points (step 2).
func (f *Floor1) ReadChannel(r *bitio.Reader, cbs []*Codebook, out []float32) (bool, error) {
	used, err := r.ReadBool()
	if err != nil {
		return false, codecerr.ErrEndOfStream
	}
	if !used {
		return false, nil
	}

	rangeVal := floor1Range[f.multiplier-1]
	bits := ceilLog2(uint32(rangeVal))

	n := len(f.xList)
	finalY := make([]int, n)
	drawn := make([]bool, n)

	y0, err := r.ReadBitsLEQ32(bits)
	if err != nil {
		return false, codecerr.ErrEndOfStream
	}
	y1, err := r.ReadBitsLEQ32(bits)
	if err != nil {
		return false, codecerr.ErrEndOfStream
	}
	finalY[0], finalY[1] = int(y0), int(y1)
	drawn[0], drawn[1] = true, true

	rawY := make([]int, n)
	offset := 2
	for _, c := range f.partitionClass {
		dims := f.classDim[c]
		cval := 0
		if f.classSubBits[c] > 0 {
			v, err := cbs[f.classMasterBk[c]].Decode(r)
			if err != nil {
				return false, err
			}
			cval = int(v)
		}
		mask := (1 << f.classSubBits[c]) - 1
		for j := 0; j < dims; j++ {
			book := f.classSubBooks[c][cval&mask]
			cval >>= f.classSubBits[c]
			val := 0
			if book >= 0 {
				v, err := cbs[book].Decode(r)
				if err != nil {
					return false, err
				}
				val = int(v)
			}
			rawY[offset+j] = val
		}
		offset += dims
	}

	for i := 2; i < n; i++ {
		low, high := f.neighborLow[i], f.neighborHigh[i]
		predicted := renderPoint(f.xList[low], finalY[low], f.xList[high], finalY[high], f.xList[i])

		val := rawY[i]
		highroom := rangeVal - predicted
		lowroom := predicted
		var room int
		if highroom < lowroom {
			room = highroom * 2
		} else {
			room = lowroom * 2
		}

		if val != 0 {
			drawn[low] = true
			drawn[high] = true
			drawn[i] = true
			if val >= room {
				if highroom > lowroom {
					finalY[i] = val - lowroom + predicted
				} else {
					finalY[i] = predicted - val + highroom - 1
				}
			} else if val&1 != 0 {
				finalY[i] = predicted - (val+1)/2
			} else {
				finalY[i] = predicted + val/2
			}
		} else {
			finalY[i] = predicted
		}
	}

	f.render(finalY, drawn, out)
	return true, nil
}

func (f *Floor1) render(finalY []int, drawn []bool, out []float32) {
	n := len(out)
	started := false
	var ilx, ily int
	for _, idx := range f.sortOrder {
		if !drawn[idx] {
			continue
		}
		hx := f.xList[idx]
		hy := clampInt(finalY[idx]*f.multiplier, 0, 255)
		if started {
			renderLine(ilx, ily, hx, hy, out)
		}
		ilx, ily = hx, hy
		started = true
	}
	if started && ilx < n {
		renderLine(ilx, ily, n, ily, out)
	}
}

// renderPoint linearly interpolates the y value at x, given two known
// points, using the same integer error-accumulation Bresenham uses so
// the same x always renders the same y regardless of direction.
func renderPoint(x0, y0, x1, y1, x int) int {
	dy := y1 - y0
	adx := x1 - x0
	if adx == 0 {
		return y0
	}
	ady := util.Abs(dy)
	errAmt := ady * (x - x0)
	off := errAmt / adx
	if dy < 0 {
		return y0 - off
	}
	return y0 + off
}

// renderLine fills out[x0:x1) by Bresenham-stepping the integer y
// index from y0 at x0 to y1 at x1, looking up inverseDBTable at every
// step. inverseDBTable is exponential, so interpolating the *looked-up*
// amplitudes between the two endpoints (rather than stepping the index
// and looking each step up) would give wrong values at every interior
// sample whenever y0 != y1.
func renderLine(x0, y0, x1, y1 int, out []float32) {
	if x1 <= x0 {
		return
	}
	n := len(out)
	end := x1
	if end > n {
		end = n
	}

	dy := y1 - y0
	adx := x1 - x0
	ady := util.Abs(dy)
	base := dy / adx
	sy := base + 1
	if dy < 0 {
		sy = base - 1
	}
	ady -= util.Abs(base) * adx

	x, y, errAmt := x0, y0, 0
	if x < end {
		out[x] = inverseDBTable[clampInt(y, 0, 255)]
	}
	for x++; x < end; x++ {
		errAmt += ady
		if errAmt >= adx {
			errAmt -= adx
			y += sy
		} else {
			y += base
		}
		out[x] = inverseDBTable[clampInt(y, 0, 255)]
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ceilLog2 returns the number of bits needed to represent values in
// [0, n), i.e. ceil(log2(n)).
func ceilLog2(n uint32) uint {
	if n <= 1 {
		return 0
	}
	bits := uint(0)
	v := n - 1
	for v > 0 {
		bits++
		v >>= 1
	}
	return bits
}
