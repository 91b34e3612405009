package terminal

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone          Attr = 0
	AttrBold          Attr = 1 << 0
	AttrDim           Attr = 1 << 1
	AttrItalic        Attr = 1 << 2
	AttrUnderline     Attr = 1 << 3
	AttrBlink         Attr = 1 << 4
	AttrReverse       Attr = 1 << 5
	AttrHidden        Attr = 1 << 6
	AttrStrikethrough Attr = 1 << 7
)

// Style is a set of color and attribute changes
// Add and Sub record attributes switched on and off, so a style can be patched
// onto another without losing the other's independent attributes
type Style struct {
	Fg  Color
	Bg  Color
	Add Attr
	Sub Attr
}

// Patch layers other on top of s: set colors override, attribute
// additions and removals accumulate with other taking precedence
func (s Style) Patch(other Style) Style {
	if other.Fg.IsSet() {
		s.Fg = other.Fg
	}
	if other.Bg.IsSet() {
		s.Bg = other.Bg
	}
	s.Add = (s.Add &^ other.Sub) | other.Add
	s.Sub = (s.Sub &^ other.Add) | other.Sub
	return s
}

// Attrs returns the attributes in effect
func (s Style) Attrs() Attr {
	return s.Add &^ s.Sub
}
