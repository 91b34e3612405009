package terminal

import (
	"os"
	"strings"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

// ParseColorMode maps a config value to a mode; "auto" and "" detect from the environment
func ParseColorMode(s string) (ColorMode, bool) {
	switch strings.ToLower(s) {
	case "", "auto":
		return DetectColorMode(), true
	case "256":
		return ColorMode256, true
	case "truecolor", "24bit":
		return ColorModeTrueColor, true
	}
	return ColorMode256, false
}

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// ColorKind discriminates Color variants
type ColorKind uint8

const (
	ColorUnset   ColorKind = iota // leaves the existing color when patching
	ColorReset                    // terminal default color
	ColorIndexed                  // 256-palette index
	ColorRGB                      // 24-bit
)

// Color is a terminal color; the zero value is unset
type Color struct {
	Kind  ColorKind
	Index uint8
	RGB   RGB
}

// Indexed returns a 256-palette color
func Indexed(i uint8) Color {
	return Color{Kind: ColorIndexed, Index: i}
}

// NewRGB returns a 24-bit color
func NewRGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, RGB: RGB{R: r, G: g, B: b}}
}

// IsSet reports whether the color overrides when patched onto another style
func (c Color) IsSet() bool {
	return c.Kind != ColorUnset
}

// Default is the terminal's own foreground/background
var Default = Color{Kind: ColorReset}

// ANSI 16-color palette
var (
	Black        = Indexed(0)
	Red          = Indexed(1)
	Green        = Indexed(2)
	Yellow       = Indexed(3)
	Blue         = Indexed(4)
	Magenta      = Indexed(5)
	Cyan         = Indexed(6)
	Gray         = Indexed(7)
	DarkGray     = Indexed(8)
	LightRed     = Indexed(9)
	LightGreen   = Indexed(10)
	LightYellow  = Indexed(11)
	LightBlue    = Indexed(12)
	LightMagenta = Indexed(13)
	LightCyan    = Indexed(14)
	White        = Indexed(15)
)

// Color cube values for 6x6x6 palette (indices 16-231)
// Levels: 0, 95, 135, 175, 215, 255
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// cubeIndex maps 0-255 to nearest cube index 0-5
var cubeIndex [256]uint8

func init() {
	for i := 0; i < 256; i++ {
		best := 0
		bestDist := abs(i - int(cubeValues[0]))
		for j := 1; j < 6; j++ {
			d := abs(i - int(cubeValues[j]))
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		cubeIndex[i] = uint8(best)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// RGBTo256 converts RGB to the nearest 256-color palette index
func RGBTo256(c RGB) uint8 {
	r, g, b := int(c.R), int(c.G), int(c.B)

	// Grayscale ramp 232-255 maps to luminance 8, 18, ..., 238
	gray := (r + g + b) / 3
	maxDiff := max(abs(r-gray), abs(g-gray), abs(b-gray))

	cr, cg, cb := cubeIndex[c.R], cubeIndex[c.G], cubeIndex[c.B]

	if maxDiff < 10 {
		if gray < 4 {
			return 16
		}
		if gray > 243 {
			return 231
		}
		grayIdx := min(232+(gray-8)/10, 255)
		grayLevel := 8 + (grayIdx-232)*10
		grayDist := abs(r-grayLevel) + abs(g-grayLevel) + abs(b-grayLevel)
		cubeDist := abs(r-int(cubeValues[cr])) + abs(g-int(cubeValues[cg])) + abs(b-int(cubeValues[cb]))
		if grayDist < cubeDist {
			return uint8(grayIdx)
		}
	}

	return 16 + 36*cr + 6*cg + cb
}

// DetectColorMode determines terminal color capability from environment
func DetectColorMode() ColorMode {
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" ||
		os.Getenv("KONSOLE_VERSION") != "" ||
		os.Getenv("ITERM_SESSION_ID") != "" ||
		os.Getenv("ALACRITTY_WINDOW_ID") != "" ||
		os.Getenv("WEZTERM_PANE") != "" {
		return ColorModeTrueColor
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		return ColorModeTrueColor
	}

	return ColorMode256
}
