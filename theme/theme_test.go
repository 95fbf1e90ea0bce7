package theme

import (
	"strings"
	"testing"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	if p.Name != "plasma" || len(p.Colors) != 15 {
		t.Fatalf("palette %q with %d colors", p.Name, len(p.Colors))
	}
	if got := p.Lookup(0); got != (RGB{13, 8, 135}) {
		t.Errorf("Lookup(0) = %v", got)
	}
	if got := p.Lookup(1); got != (RGB{240, 249, 33}) {
		t.Errorf("Lookup(1) = %v", got)
	}
}

func TestParseGPLErrors(t *testing.T) {
	if _, err := ParseGPL(strings.NewReader("GIMP Palette\nName: empty\n")); err == nil {
		t.Error("expected error for palette without colors")
	}
}

func TestSampleColors(t *testing.T) {
	th := New(DefaultPalette())
	if got := th.SampleRGB("bd"); got != (RGB{0x08, 0x91, 0xb2}) {
		t.Errorf("bd = %v", got)
	}
	if a, b := th.SampleRGB("mystery"), th.SampleRGB("mystery"); a != b {
		t.Errorf("unknown sample color unstable: %v %v", a, b)
	}
	if got := string(th.SampleColor("hh")); got != "#60a5fa" {
		t.Errorf("hh color = %s", got)
	}
}
