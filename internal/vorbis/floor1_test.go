package vorbis

import (
	"testing"

	"github.com/vorbisdec/vorbis/internal/bitio"
)

func TestReadFloor1SetupNoPartitions(t *testing.T) {
	w := &bitWriter{}
	w.WriteBits(0, 5) // partitions = 0
	w.WriteBits(0, 2) // multiplier - 1
	w.WriteBits(2, 4) // rangeBits = 2 -> range 4

	r := bitio.NewReader(w.Bytes())
	f, err := ReadFloor1Setup(r)
	if err != nil {
		t.Fatalf("ReadFloor1Setup: %v", err)
	}
	if len(f.xList) != 2 || f.xList[0] != 0 || f.xList[1] != 4 {
		t.Fatalf("xList = %v, want [0 4]", f.xList)
	}
	if f.multiplier != 1 {
		t.Errorf("multiplier = %d, want 1", f.multiplier)
	}
}

func TestFloor1ReadChannelUnusedFlag(t *testing.T) {
	w := &bitWriter{}
	w.WriteBits(0, 5)
	w.WriteBits(0, 2)
	w.WriteBits(2, 4)
	r := bitio.NewReader(w.Bytes())
	f, err := ReadFloor1Setup(r)
	if err != nil {
		t.Fatalf("ReadFloor1Setup: %v", err)
	}

	chw := &bitWriter{}
	chw.WriteBool(false) // not used this frame
	cr := bitio.NewReader(chw.Bytes())

	out := make([]float32, 4)
	used, err := f.ReadChannel(cr, nil, out)
	if err != nil {
		t.Fatalf("ReadChannel: %v", err)
	}
	if used {
		t.Errorf("used = true, want false")
	}
}

func TestFloor1ReadChannelFlatCurve(t *testing.T) {
	w := &bitWriter{}
	w.WriteBits(0, 5) // no partitions
	w.WriteBits(0, 2) // multiplier 1
	w.WriteBits(2, 4) // rangeBits 2 -> x in [0,4]
	r := bitio.NewReader(w.Bytes())
	f, err := ReadFloor1Setup(r)
	if err != nil {
		t.Fatalf("ReadFloor1Setup: %v", err)
	}

	chw := &bitWriter{}
	chw.WriteBool(true) // used
	chw.WriteBits(100, 8)
	chw.WriteBits(100, 8)
	cr := bitio.NewReader(chw.Bytes())

	out := make([]float32, 4)
	used, err := f.ReadChannel(cr, nil, out)
	if err != nil {
		t.Fatalf("ReadChannel: %v", err)
	}
	if !used {
		t.Fatalf("used = false, want true")
	}
	for i, v := range out {
		if v != out[0] {
			t.Errorf("out[%d] = %v, want flat curve matching out[0] = %v", i, v, out[0])
		}
	}
}

// referenceRenderLine is an independent transcription of libvorbis's
// render_line: step the integer y index along the line with Bresenham
// and look the table up at every step, rather than interpolating
// already-looked-up amplitudes. It exists so the production
// renderLine can be checked against it rather than against itself.
func referenceRenderLine(x0, y0, x1, y1 int, out []float32) {
	dy := y1 - y0
	adx := x1 - x0
	ady := dy
	if ady < 0 {
		ady = -ady
	}
	base := dy / adx
	sy := base + 1
	if dy < 0 {
		sy = base - 1
	}
	absBase := base
	if absBase < 0 {
		absBase = -absBase
	}
	ady -= absBase * adx

	x, y, err := x0, y0, 0
	out[x] = inverseDBTable[clampInt(y, 0, 255)]
	for x++; x < x1; x++ {
		err += ady
		if err >= adx {
			err -= adx
			y += sy
		} else {
			y += base
		}
		out[x] = inverseDBTable[clampInt(y, 0, 255)]
	}
}

func TestRenderLineStepsIndexNotAmplitude(t *testing.T) {
	// A steep slope (y0=10, y1=200 over x in [0,17)) where the table's
	// exponential curve makes interpolated-amplitude and stepped-index
	// results diverge sharply at interior samples.
	const x0, y0, x1, y1 = 0, 10, 17, 200

	got := make([]float32, x1)
	renderLine(x0, y0, x1, y1, got)

	want := make([]float32, x1)
	referenceRenderLine(x0, y0, x1, y1, want)

	for x := x0; x < x1; x++ {
		if got[x] != want[x] {
			t.Errorf("renderLine[%d] = %v, want %v (reference stepped-lookup)", x, got[x], want[x])
		}
	}

	// Sanity check this test would actually catch the regression: naive
	// linear interpolation of the post-lookup amplitudes must disagree
	// with the stepped-index reference at some interior sample.
	loY, hiY := inverseDBTable[clampInt(y0, 0, 255)], inverseDBTable[clampInt(y1, 0, 255)]
	diverges := false
	for x := x0 + 1; x < x1-1; x++ {
		t := float32(x-x0) / float32(x1-x0)
		naive := loY + (hiY-loY)*t
		if naive != want[x] {
			diverges = true
			break
		}
	}
	if !diverges {
		t.Fatalf("test fixture too weak: naive amplitude interpolation matched the stepped-lookup reference everywhere")
	}
}
