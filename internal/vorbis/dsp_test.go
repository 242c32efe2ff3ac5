package vorbis

import "testing"

func TestNewDspChannelSizes(t *testing.T) {
	c := NewDspChannel(1024)
	if len(c.Floor) != 512 {
		t.Errorf("len(Floor) = %d, want 512", len(c.Floor))
	}
	if len(c.Residue) != 512 {
		t.Errorf("len(Residue) = %d, want 512", len(c.Residue))
	}
	if len(c.IMDCT) != 1024 {
		t.Errorf("len(IMDCT) = %d, want 1024", len(c.IMDCT))
	}
}

func TestDspChannelReset(t *testing.T) {
	c := NewDspChannel(16)
	for i := range c.Floor {
		c.Floor[i] = 1
		c.Residue[i] = 2
	}
	c.DoNotDecode = true

	c.Reset(4)

	for i := 0; i < 4; i++ {
		if c.Floor[i] != 0 || c.Residue[i] != 0 {
			t.Errorf("index %d not reset: Floor=%v Residue=%v", i, c.Floor[i], c.Residue[i])
		}
	}
	for i := 4; i < len(c.Floor); i++ {
		if c.Floor[i] != 1 || c.Residue[i] != 2 {
			t.Errorf("index %d reset beyond n: Floor=%v Residue=%v", i, c.Floor[i], c.Residue[i])
		}
	}
	if c.DoNotDecode {
		t.Errorf("DoNotDecode still true after Reset")
	}
}
