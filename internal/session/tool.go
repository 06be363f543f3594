package session

import "github.com/example/snipmark/internal/element"

// Tool identifies the active editing tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolCrop
	ToolZoom
	ToolPicker
	ToolFreehand
	ToolHighlighter
	ToolLine
	ToolArrow
	ToolRect
	ToolEllipse
	ToolText
	ToolBlur
	ToolPixelate
	ToolEraser
	ToolMeasure
	ToolNumber
	ToolStamp
	ToolCallout
)

var toolNames = map[Tool]string{
	ToolSelect:      "select",
	ToolCrop:        "crop",
	ToolZoom:        "zoom",
	ToolPicker:      "picker",
	ToolFreehand:    "freehand",
	ToolHighlighter: "highlighter",
	ToolLine:        "line",
	ToolArrow:       "arrow",
	ToolRect:        "rectangle",
	ToolEllipse:     "ellipse",
	ToolText:        "text",
	ToolBlur:        "blur",
	ToolPixelate:    "pixelate",
	ToolEraser:      "eraser",
	ToolMeasure:     "measure",
	ToolNumber:      "number",
	ToolStamp:       "stamp",
	ToolCallout:     "callout",
}

func (t Tool) String() string {
	if name, ok := toolNames[t]; ok {
		return name
	}
	return "unknown"
}

// ToolFromName resolves a tool by its settings-file name.
func ToolFromName(name string) (Tool, bool) {
	for t, n := range toolNames {
		if n == name {
			return t, true
		}
	}
	return ToolSelect, false
}

// Kind returns the element kind a drawing tool produces. The second return
// is false for non-drawing tools.
func (t Tool) Kind() (element.Kind, bool) {
	switch t {
	case ToolFreehand:
		return element.Freehand, true
	case ToolHighlighter:
		return element.Highlighter, true
	case ToolLine:
		return element.Line, true
	case ToolArrow:
		return element.Arrow, true
	case ToolRect:
		return element.Rectangle, true
	case ToolEllipse:
		return element.Ellipse, true
	case ToolText:
		return element.Text, true
	case ToolBlur:
		return element.Blur, true
	case ToolPixelate:
		return element.Pixelate, true
	case ToolEraser:
		return element.Eraser, true
	case ToolMeasure:
		return element.Measure, true
	case ToolNumber:
		return element.Number, true
	case ToolStamp:
		return element.Stamp, true
	case ToolCallout:
		return element.Callout, true
	}
	return 0, false
}
