// Package element defines the closed set of annotation element kinds and the
// operations valid on each. Elements are immutable value objects: every
// mutation helper returns a new value so command history can keep prior
// versions for undo without deep-copying the scene.
package element

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/example/snipmark/internal/geom"
)

// Kind identifies an annotation element type.
type Kind int

const (
	Freehand Kind = iota
	Highlighter
	Line
	Arrow
	Rectangle
	Ellipse
	Text
	Blur
	Pixelate
	Eraser
	Measure
	Number
	Stamp
	Callout
	Group
)

var kindNames = map[Kind]string{
	Freehand:    "freehand",
	Highlighter: "highlighter",
	Line:        "line",
	Arrow:       "arrow",
	Rectangle:   "rectangle",
	Ellipse:     "ellipse",
	Text:        "text",
	Blur:        "blur",
	Pixelate:    "pixelate",
	Eraser:      "eraser",
	Measure:     "measure",
	Number:      "number",
	Stamp:       "stamp",
	Callout:     "callout",
	Group:       "group",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// KindFromName resolves a kind by its serialized name.
func KindFromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// MarshalJSON serializes the kind by name so the clipboard interchange form
// stays readable and stable across releases.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON resolves a kind from its serialized name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	kind, ok := KindFromName(name)
	if !ok {
		return fmt.Errorf("unknown element kind %q", name)
	}
	*k = kind
	return nil
}

// IsStroke reports whether the kind stores its geometry as a raw point list.
func (k Kind) IsStroke() bool {
	return k == Freehand || k == Highlighter || k == Eraser
}

// IsSegment reports whether the kind stores two endpoints.
func (k Kind) IsSegment() bool {
	return k == Line || k == Arrow || k == Measure
}

// IsRegion reports whether the kind stores a rectangle.
func (k Kind) IsRegion() bool {
	return k == Rectangle || k == Ellipse || k == Blur || k == Pixelate || k == Callout
}

// IsEffect reports whether rendering the kind samples the backing bitmap
// instead of painting a stroke.
func (k Kind) IsEffect() bool { return k == Blur || k == Pixelate }

// Element is one annotation object. Which geometry fields are meaningful
// depends on Kind: stroke kinds use Points, segment kinds use Points[0] and
// Points[1], region kinds use Rect, and anchored kinds (Text, Number, Stamp)
// use Points[0]. Group elements carry member ids; their bounds derive from
// the members and are maintained by the scene.
type Element struct {
	ID     string       `json:"id"`
	Kind   Kind         `json:"kind"`
	Points []geom.Point `json:"points,omitempty"`
	Rect   geom.Rect    `json:"rect,omitempty"`
	Text   string       `json:"text,omitempty"`
	Number int          `json:"number,omitempty"`
	Stamp  string       `json:"stamp,omitempty"`
	Style  Style        `json:"style"`
	Z      int          `json:"z"`
	Locked bool         `json:"locked,omitempty"`

	// GroupID back-references the owning group element, if any. It is a weak
	// reference: the member exists in the scene in its own right.
	GroupID string `json:"groupId,omitempty"`
	// Members lists grouped element ids, only meaningful when Kind == Group.
	Members []string `json:"members,omitempty"`

	// Selected is transient UI state and is never persisted.
	Selected bool `json:"-"`
}

// NewID returns a fresh element id.
func NewID() string { return uuid.NewString() }

// Anchor returns the element's anchor point: the first geometry point, or
// the rect origin for region kinds.
func (e Element) Anchor() geom.Point {
	if e.Kind.IsRegion() || e.Kind == Group {
		return geom.Pt(e.Rect.X, e.Rect.Y)
	}
	if len(e.Points) > 0 {
		return e.Points[0]
	}
	return geom.Point{}
}

// Bounds returns the element's axis-aligned bounding box, padded by half the
// stroke width for stroked kinds so thick strokes hit-test sensibly.
func (e Element) Bounds() geom.Rect {
	switch {
	case e.Kind == Group, e.Kind.IsRegion():
		return e.Rect.Canon()
	case e.Kind.IsStroke(), e.Kind.IsSegment():
		pad := e.Style.StrokeWidth / 2
		return geom.BoundsOf(e.Points).Inset(-pad)
	case e.Kind == Text:
		if len(e.Points) == 0 {
			return geom.Rect{}
		}
		return textExtent(e.Points[0], e.Text, e.Style.FontSize)
	case e.Kind == Number:
		if len(e.Points) == 0 {
			return geom.Rect{}
		}
		r := NumberRadius(e.Number)
		p := e.Points[0]
		return geom.Rect{X: p.X - r, Y: p.Y - r, W: 2 * r, H: 2 * r}
	case e.Kind == Stamp:
		if len(e.Points) == 0 {
			return geom.Rect{}
		}
		s := stampSize(e.Style.FontSize)
		p := e.Points[0]
		return geom.Rect{X: p.X - s/2, Y: p.Y - s/2, W: s, H: s}
	}
	return geom.Rect{}
}

// NumberRadius returns the marker circle radius for a number value. Wider
// numbers get a larger circle so multi-digit labels stay inside it.
func NumberRadius(n int) float64 {
	digits := 1
	for n >= 10 || n <= -10 {
		n /= 10
		digits++
	}
	r := 10 + 4*float64(digits)
	if r < 14 {
		r = 14
	}
	return r
}

func stampSize(fontSize float64) float64 {
	s := fontSize * 2
	if s < 24 {
		s = 24
	}
	return s
}

// textExtent estimates the painted region of a text run anchored at its
// baseline origin. The estimate mirrors the renderer's font metrics closely
// enough for hit testing and marquee selection.
func textExtent(anchor geom.Point, text string, fontSize float64) geom.Rect {
	if fontSize <= 0 {
		fontSize = 16
	}
	w := float64(len([]rune(text))) * fontSize * 0.6
	ascent := fontSize * 0.8
	descent := fontSize * 0.25
	return geom.Rect{X: anchor.X, Y: anchor.Y - ascent, W: w, H: ascent + descent}
}

// HitTest reports whether p hits the element within tolerance pixels.
// Stroke and segment kinds measure distance to the polyline including the
// stroke's own half-width; region and anchored kinds test the bounding box
// grown by the tolerance.
func (e Element) HitTest(p geom.Point, tolerance float64) bool {
	switch {
	case e.Kind.IsStroke(), e.Kind.IsSegment():
		reach := e.Style.StrokeWidth/2 + tolerance
		return geom.PolylineDist(p, e.Points) <= reach
	default:
		return e.Bounds().Inset(-tolerance).Contains(p)
	}
}

// Clone returns a copy with a fresh id, detached from any group. It is used
// by duplicate and paste.
func (e Element) Clone() Element {
	out := e
	out.ID = NewID()
	out.GroupID = ""
	out.Selected = false
	out.Points = append([]geom.Point(nil), e.Points...)
	out.Members = nil
	return out
}

// Translate returns the element moved by (dx, dy).
func (e Element) Translate(dx, dy float64) Element {
	return e.ApplyDelta(geom.Translation(dx, dy))
}

// ApplyDelta returns the element transformed by m. Geometry is rewritten
// per kind: point lists are transformed point-wise, rects become the
// bounding box of their transformed corners, and text reacts to scale by
// adjusting its font size rather than distorting glyphs.
func (e Element) ApplyDelta(m geom.Matrix) Element {
	out := e
	out.Points = make([]geom.Point, len(e.Points))
	for i, p := range e.Points {
		out.Points[i] = m.Apply(p)
	}
	if e.Kind.IsRegion() || e.Kind == Group {
		out.Rect = m.ApplyRect(e.Rect)
	}
	if !m.IsTranslation() {
		scale := math.Sqrt(math.Abs(m.Det()))
		switch e.Kind {
		case Text, Stamp, Callout:
			out.Style.FontSize = clampFontSize(e.Style.FontSize * scale)
		case Number:
			// Marker radius derives from the number value; scaling a
			// number marker only moves its center.
		default:
			if e.Style.StrokeWidth > 0 {
				out.Style.StrokeWidth = e.Style.StrokeWidth * scale
			}
		}
	}
	return out
}

// ClipTo returns the element with its stored geometry rewritten to the part
// inside clip, and reports whether anything remains. Strokes keep only the
// points inside the clip region; segments move their endpoints to the
// boundary crossings; regions shrink to the intersection.
func (e Element) ClipTo(clip geom.Rect) (Element, bool) {
	clip = clip.Canon()
	switch {
	case e.Kind.IsRegion():
		r := e.Rect.Canon().Intersect(clip)
		if r.Empty() {
			return e, false
		}
		out := e
		out.Rect = r
		return out, true
	case e.Kind.IsSegment():
		if len(e.Points) < 2 {
			return e, false
		}
		a, b, ok := geom.ClipSegment(e.Points[0], e.Points[1], clip)
		if !ok {
			return e, false
		}
		out := e
		out.Points = []geom.Point{a, b}
		return out, true
	case e.Kind.IsStroke():
		kept := make([]geom.Point, 0, len(e.Points))
		for _, p := range e.Points {
			if clip.Contains(p) {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			return e, false
		}
		out := e
		out.Points = kept
		return out, true
	default:
		if !e.Bounds().Overlaps(clip) {
			return e, false
		}
		return e, true
	}
}

func clampFontSize(size float64) float64 {
	if size < 8 {
		return 8
	}
	if size > 144 {
		return 144
	}
	return size
}
