package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Palette provides color schemes for graph visualization
type Palette struct {
	NodeColors []string
	EdgeColors []string
	Background string
}

// DefaultPalette returns the palette interactive nodes cycle through
func DefaultPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#5FB49C",
			"#F2B134",
			"#F93943",
			"#6EF9F5",
			"#B33C86",
			"#E4FF1A",
			"#FFB800",
			"#FF5714",
			"#FFEECF",
			"#4D9078",
			"#D5F2E3",
			"#FBF5F3",
			"#C6CAED",
			"#A288E3",
			"#CCFFCB",
		},
		EdgeColors: []string{
			"#00FF00",
		},
		Background: "#1A1A1A",
	}
}

// MutedPalette returns a low-contrast palette for light backgrounds
func MutedPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#4285F4",
			"#EA4335",
			"#FBBC05",
			"#34A853",
			"#673AB7",
			"#3F51B5",
			"#00BCD4",
			"#009688",
			"#FF5722",
		},
		EdgeColors: []string{
			"#666666",
			"#888888",
			"#AAAAAA",
		},
		Background: "#f8f8f8",
	}
}

// PaletteByName looks up a palette by name
func PaletteByName(name string) (*Palette, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return DefaultPalette(), nil
	case "muted":
		return MutedPalette(), nil
	default:
		return nil, fmt.Errorf("unknown palette: %s", name)
	}
}

// NodeColor returns the i-th node color, wrapping around
func (p *Palette) NodeColor(i int) string {
	return p.NodeColors[i%len(p.NodeColors)]
}

// EdgeColor returns the i-th edge color, wrapping around
func (p *Palette) EdgeColor(i int) string {
	return p.EdgeColors[i%len(p.EdgeColors)]
}

// ColorCycle hands out node colors in palette order, wrapping around. It
// is safe for concurrent use.
type ColorCycle struct {
	mu      sync.Mutex
	palette *Palette
	idx     int
}

// NewColorCycle returns a cycle over p's node colors
func NewColorCycle(p *Palette) *ColorCycle {
	if p == nil {
		p = DefaultPalette()
	}
	return &ColorCycle{palette: p}
}

// Next returns the next color
func (c *ColorCycle) Next() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	color := c.palette.NodeColor(c.idx)
	c.idx++
	return color
}

// ParseHexColor parses "#RRGGBB", "RRGGBB" or the short "#RGB" form
func ParseHexColor(s string) (r, g, b uint8, err error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
