package theme

import "image/color"

// Theme defines the color palette for the editor chrome. Annotation colors
// come from the style configuration, not the theme.
type Theme struct {
	Name string

	Backdrop    color.RGBA // canvas surround behind the document
	Toolbar     color.RGBA
	ToolbarText color.RGBA
	Accent      color.RGBA // active tool row and width highlight

	Guide          color.RGBA // snap guide lines
	SelectionLight color.RGBA // dashed outline alternating colors
	SelectionDark  color.RGBA
	HandleFill     color.RGBA
	HandleStroke   color.RGBA
}

// Default returns the dark editor theme.
func Default() *Theme {
	return &Theme{
		Name:           "default",
		Backdrop:       color.RGBA{40, 40, 40, 255},
		Toolbar:        color.RGBA{60, 60, 60, 255},
		ToolbarText:    color.RGBA{255, 255, 255, 255},
		Accent:         color.RGBA{100, 100, 160, 255},
		Guide:          color.RGBA{255, 64, 192, 255},
		SelectionLight: color.RGBA{255, 255, 255, 255},
		SelectionDark:  color.RGBA{0, 0, 0, 255},
		HandleFill:     color.RGBA{255, 255, 255, 255},
		HandleStroke:   color.RGBA{0, 0, 0, 255},
	}
}

// Light returns a light editor theme.
func Light() *Theme {
	return &Theme{
		Name:           "light",
		Backdrop:       color.RGBA{220, 220, 220, 255},
		Toolbar:        color.RGBA{200, 200, 200, 255},
		ToolbarText:    color.RGBA{0, 0, 0, 255},
		Accent:         color.RGBA{140, 170, 220, 255},
		Guide:          color.RGBA{200, 0, 140, 255},
		SelectionLight: color.RGBA{0, 0, 0, 255},
		SelectionDark:  color.RGBA{255, 255, 255, 255},
		HandleFill:     color.RGBA{255, 255, 255, 255},
		HandleStroke:   color.RGBA{0, 0, 0, 255},
	}
}

// HighContrast returns a theme for low-vision use.
func HighContrast() *Theme {
	return &Theme{
		Name:           "high_contrast",
		Backdrop:       color.RGBA{0, 0, 0, 255},
		Toolbar:        color.RGBA{0, 0, 0, 255},
		ToolbarText:    color.RGBA{255, 255, 0, 255},
		Accent:         color.RGBA{0, 0, 255, 255},
		Guide:          color.RGBA{0, 255, 0, 255},
		SelectionLight: color.RGBA{255, 255, 0, 255},
		SelectionDark:  color.RGBA{0, 0, 0, 255},
		HandleFill:     color.RGBA{255, 255, 0, 255},
		HandleStroke:   color.RGBA{0, 0, 0, 255},
	}
}

// BuiltinNames lists the compiled-in theme names.
func BuiltinNames() []string {
	return []string{"default", "light", "high_contrast"}
}

// Builtin resolves one of the compiled-in themes by name.
func Builtin(name string) (*Theme, bool) {
	switch name {
	case "", "default":
		return Default(), true
	case "light":
		return Light(), true
	case "high_contrast":
		return HighContrast(), true
	}
	return nil, false
}
