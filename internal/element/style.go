package element

import "image/color"

// ArrowHeadStyle selects the arrow terminator painted at the drag end point.
type ArrowHeadStyle int

const (
	ArrowHeadOpen ArrowHeadStyle = iota
	ArrowHeadFilled
	ArrowHeadNone
)

// Style carries the paint attributes attached to every element. Styles are
// plain values and restyling a selection replaces the whole struct.
type Style struct {
	Stroke      color.RGBA     `json:"stroke"`
	Fill        color.RGBA     `json:"fill"`
	HasFill     bool           `json:"hasFill,omitempty"`
	StrokeWidth float64        `json:"strokeWidth"`
	Opacity     float64        `json:"opacity"`
	FontSize    float64        `json:"fontSize,omitempty"`
	Bold        bool           `json:"bold,omitempty"`
	Italic      bool           `json:"italic,omitempty"`
	ArrowHead   ArrowHeadStyle `json:"arrowHead,omitempty"`

	// Effect parameters for Blur and Pixelate regions.
	BlurRadius int `json:"blurRadius,omitempty"`
	PixelSize  int `json:"pixelSize,omitempty"`
}

// DefaultStyle returns the baseline style applied to new elements when the
// settings file does not override it.
func DefaultStyle() Style {
	return Style{
		Stroke:      color.RGBA{255, 0, 0, 255},
		StrokeWidth: 2,
		Opacity:     1,
		FontSize:    16,
		BlurRadius:  10,
		PixelSize:   15,
	}
}

// ForKind adapts a base style to a kind's conventions: highlighters render
// wide and translucent, erasers render wide and opaque white.
func (s Style) ForKind(k Kind) Style {
	out := s
	switch k {
	case Highlighter:
		out.Opacity = 0.35
		out.StrokeWidth = s.StrokeWidth * 3
	case Eraser:
		out.Stroke = color.RGBA{255, 255, 255, 255}
		out.StrokeWidth = s.StrokeWidth * 3
		out.Opacity = 1
	}
	return out
}
