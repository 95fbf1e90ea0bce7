package theme

import (
	"fmt"
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Grid states (no cursor)
	StepEmpty    rune // · inactive step
	StepActive   rune // ● has hit
	StepPlayhead rune // ▶ current playing, empty

	// Grid states (with cursor)
	CursorEmpty  rune // ○ cursor on empty
	CursorActive rune // ◉ cursor on active

	Pad rune // ■ launchpad preview
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			StepEmpty:    '·',
			StepActive:   '●',
			StepPlayhead: '▶',

			CursorEmpty:  '○',
			CursorActive: '◉',

			Pad: '■',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleSurface = 0.1 // dark purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleCursor  = 0.6 // rose pink
	RoleActive  = 0.7 // soft red
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // bright yellow
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) Surface() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSurface))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// RGB returns raw RGB for any normalized value (for Launchpad)
func (t *Theme) RGB(norm float64) RGB {
	return t.Palette.Lookup(norm)
}

// SampleRGB returns the color of a sample. Library samples have fixed
// colors; anything else gets a stable palette color derived from its name.
func (t *Theme) SampleRGB(id string) RGB {
	if c, ok := sampleColors[id]; ok {
		return c
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	return t.Palette.Lookup(float64(h.Sum32()%1000) / 999)
}

// SampleColor returns the lipgloss color of a sample
func (t *Theme) SampleColor(id string) lipgloss.Color {
	return rgbToLipgloss(t.SampleRGB(id))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}

func hex(v uint32) RGB {
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

// sampleColors groups the library by hue: core drums cool, 808 warm,
// instruments purple, fx red and neutral
var sampleColors = map[string]RGB{
	"bd":        hex(0x0891b2),
	"sd":        hex(0x059669),
	"hh":        hex(0x60a5fa),
	"cp":        hex(0x14b8a6),
	"drumtraks": hex(0x6366f1),
	"gretsch":   hex(0x0284c7),
	"linnhats":  hex(0x155e75),
	"tok":       hex(0x1d4ed8),
	"odx":       hex(0x3b82f6),

	"808bd": hex(0x65a30d),
	"808sd": hex(0xeab308),
	"808oh": hex(0xfbbf24),
	"808cy": hex(0xfb923c),
	"808hc": hex(0xd97706),
	"808ht": hex(0xf97316),
	"808lc": hex(0xca8a04),
	"808mc": hex(0xc2410c),

	"bass":     hex(0x9333ea),
	"jungbass": hex(0xa21caf),
	"arpy":     hex(0x8b5cf6),
	"house":    hex(0xec4899),
	"techno":   hex(0xf43f5e),
	"moog":     hex(0x6b21a8),
	"juno":     hex(0x4f46e5),
	"sax":      hex(0xbe185d),
	"sitar":    hex(0xfb7185),
	"casio":    hex(0xe879f9),

	"gabbaloud":  hex(0xb91c1c),
	"glitch":     hex(0xef4444),
	"metal":      hex(0x52525b),
	"can":        hex(0x57534e),
	"bottle":     hex(0x15803d),
	"wind":       hex(0x64748b),
	"rave":       hex(0xbe123c),
	"toys":       hex(0xf59e0b),
	"industrial": hex(0x374151),
	"print":      hex(0xa8a29e),
	"amencutup":  hex(0xc2410c),
}
