package session

import (
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/snipmark/internal/align"
	"github.com/example/snipmark/internal/command"
)

// HandleKey consumes a key event. Text entry swallows printable runes while
// a text element is being edited; everything else dispatches shortcuts.
func (s *Session) HandleKey(ev key.Event) {
	if ev.Direction == key.DirRelease {
		return
	}
	if s.state == stateTexting {
		s.handleTextKey(ev)
		return
	}

	if ev.Modifiers&key.ModControl != 0 {
		s.handleControlKey(ev)
		return
	}

	switch ev.Code {
	case key.CodeEscape:
		s.cancelInteraction()
		s.ClearSelection()
		s.changed()
		return
	case key.CodeDeleteForward, key.CodeDeleteBackspace:
		s.DeleteSelection()
		return
	case key.CodeLeftArrow:
		s.NudgeSelection(-nudge(ev.Modifiers), 0)
		return
	case key.CodeRightArrow:
		s.NudgeSelection(nudge(ev.Modifiers), 0)
		return
	case key.CodeUpArrow:
		s.NudgeSelection(0, -nudge(ev.Modifiers))
		return
	case key.CodeDownArrow:
		s.NudgeSelection(0, nudge(ev.Modifiers))
		return
	case key.CodePageUp:
		s.RaiseSelection()
		return
	case key.CodePageDown:
		s.LowerSelection()
		return
	}

	// Single-letter tool shortcuts.
	switch unicode.ToLower(ev.Rune) {
	case 's':
		s.SetTool(ToolSelect)
	case 'r':
		s.SetTool(ToolCrop)
	case 'b':
		s.SetTool(ToolFreehand)
	case 'h':
		s.SetTool(ToolHighlighter)
	case 'l':
		s.SetTool(ToolLine)
	case 'a':
		s.SetTool(ToolArrow)
	case 'x':
		s.SetTool(ToolRect)
	case 'o':
		s.SetTool(ToolEllipse)
	case 't':
		s.SetTool(ToolText)
	case 'u':
		s.SetTool(ToolBlur)
	case 'p':
		s.SetTool(ToolPixelate)
	case 'e':
		s.SetTool(ToolEraser)
	case 'm':
		s.SetTool(ToolMeasure)
	case 'n':
		s.SetTool(ToolNumber)
	case 'k':
		s.SetTool(ToolStamp)
	case 'c':
		s.SetTool(ToolCallout)
	case 'z':
		s.SetTool(ToolZoom)
	case 'i':
		s.SetTool(ToolPicker)
	}
}

func nudge(mods key.Modifiers) float64 {
	if mods&key.ModShift != 0 {
		return nudgeStepLarge
	}
	return nudgeStep
}

func (s *Session) handleControlKey(ev key.Event) {
	shift := ev.Modifiers&key.ModShift != 0
	switch unicode.ToLower(ev.Rune) {
	case 'z':
		if shift {
			s.Redo()
		} else {
			s.Undo()
		}
	case 'y':
		s.Redo()
	case 'a':
		s.SelectAll()
		s.changed()
	case 'd':
		s.DuplicateSelection()
	case 'g':
		if shift {
			s.UngroupSelection()
		} else {
			s.GroupSelection()
		}
	case 'l':
		s.AlignSelection(align.Left)
	case 'r':
		s.AlignSelection(align.Right)
	case 't':
		s.AlignSelection(align.Top)
	case 'b':
		s.AlignSelection(align.Bottom)
	}
}

func (s *Session) handleTextKey(ev key.Event) {
	live := s.live
	if live == nil {
		s.state = stateIdle
		return
	}
	switch ev.Code {
	case key.CodeEscape:
		s.live = nil
		s.state = stateIdle
		s.changed()
		return
	case key.CodeReturnEnter:
		if ev.Modifiers&key.ModShift != 0 {
			live.Text += "\n"
			s.changed()
			return
		}
		s.live = nil
		s.state = stateIdle
		if live.Text == "" {
			s.changed()
			return
		}
		s.push(&command.Add{Element: *live})
		return
	case key.CodeDeleteBackspace:
		if live.Text != "" {
			runes := []rune(live.Text)
			live.Text = string(runes[:len(runes)-1])
			s.changed()
		}
		return
	}
	if ev.Rune > 0 && unicode.IsPrint(ev.Rune) {
		live.Text += string(ev.Rune)
		s.changed()
	}
}
