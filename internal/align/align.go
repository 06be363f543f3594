// Package align computes alignment, distribution and snapping for selected
// elements. All operations return commands; nothing here mutates the scene.
package align

import (
	"fmt"
	"sort"

	"github.com/example/snipmark/internal/command"
	"github.com/example/snipmark/internal/element"
	"github.com/example/snipmark/internal/geom"
	"github.com/example/snipmark/internal/scene"
)

// Edge selects which edge or axis an alignment targets.
type Edge int

const (
	Left Edge = iota
	Right
	Top
	Bottom
	CenterH
	CenterV
)

func (e Edge) String() string {
	switch e {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case CenterH:
		return "center horizontal"
	case CenterV:
		return "center vertical"
	}
	return "unknown"
}

// Axis selects the direction of a distribution.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Align moves every selected element so the chosen edge (or center axis)
// coincides with that of the selection's overall bounding box. Grouped
// members move with their group as one unit.
func Align(s *scene.Scene, ids []string, edge Edge) (command.Command, error) {
	units, err := selectionUnits(s, ids)
	if err != nil {
		return nil, err
	}
	if len(units) < 2 {
		return nil, fmt.Errorf("align: need at least 2 elements")
	}
	overall := units[0].bounds
	for _, u := range units[1:] {
		overall = overall.Union(u.bounds)
	}
	var cmds []command.Command
	for _, u := range units {
		var dx, dy float64
		switch edge {
		case Left:
			dx = overall.X - u.bounds.X
		case Right:
			dx = overall.MaxX() - u.bounds.MaxX()
		case Top:
			dy = overall.Y - u.bounds.Y
		case Bottom:
			dy = overall.MaxY() - u.bounds.MaxY()
		case CenterH:
			dx = overall.Center().X - u.bounds.Center().X
		case CenterV:
			dy = overall.Center().Y - u.bounds.Center().Y
		}
		if dx == 0 && dy == 0 {
			continue
		}
		cmds = append(cmds, &command.Transform{
			IDs:   u.memberIDs,
			Delta: geom.Translation(dx, dy),
		})
	}
	return &command.Compound{Label: "align " + edge.String(), Commands: cmds}, nil
}

// Distribute spreads the selected elements so their centers fall at even
// intervals along an axis. The two extreme elements stay fixed and the ones
// between move to evenly spaced center positions.
func Distribute(s *scene.Scene, ids []string, axis Axis) (command.Command, error) {
	units, err := selectionUnits(s, ids)
	if err != nil {
		return nil, err
	}
	if len(units) < 3 {
		return nil, fmt.Errorf("distribute: need at least 3 elements")
	}
	center := func(u unit) float64 {
		if axis == Horizontal {
			return u.bounds.Center().X
		}
		return u.bounds.Center().Y
	}
	sort.SliceStable(units, func(i, j int) bool {
		return center(units[i]) < center(units[j])
	})
	lo := center(units[0])
	step := (center(units[len(units)-1]) - lo) / float64(len(units)-1)
	var cmds []command.Command
	for i, u := range units[1 : len(units)-1] {
		d := lo + float64(i+1)*step - center(u)
		if d == 0 {
			continue
		}
		var dx, dy float64
		if axis == Horizontal {
			dx = d
		} else {
			dy = d
		}
		cmds = append(cmds, &command.Transform{
			IDs:   u.memberIDs,
			Delta: geom.Translation(dx, dy),
		})
	}
	label := "distribute horizontal"
	if axis == Vertical {
		label = "distribute vertical"
	}
	return &command.Compound{Label: label, Commands: cmds}, nil
}

// MatchSize resizes every selected element to the dimensions of the first
// one, scaling about each element's own top-left corner so anchors stay put.
func MatchSize(s *scene.Scene, ids []string, width, height bool) (command.Command, error) {
	units, err := selectionUnits(s, ids)
	if err != nil {
		return nil, err
	}
	if len(units) < 2 {
		return nil, fmt.Errorf("match size: need at least 2 elements")
	}
	if !width && !height {
		return nil, fmt.Errorf("match size: nothing to match")
	}
	target := units[0].bounds
	var cmds []command.Command
	for _, u := range units[1:] {
		sx, sy := 1.0, 1.0
		if width && u.bounds.W > 0 {
			sx = target.W / u.bounds.W
		}
		if height && u.bounds.H > 0 {
			sy = target.H / u.bounds.H
		}
		if sx == 1 && sy == 1 {
			continue
		}
		anchor := geom.Pt(u.bounds.X, u.bounds.Y)
		cmds = append(cmds, &command.Transform{
			IDs:   u.memberIDs,
			Delta: geom.ScaleAbout(sx, sy, anchor),
		})
	}
	return &command.Compound{Label: "match size", Commands: cmds}, nil
}

// unit is one independently movable selection entry: a lone element, or a
// group with all its members.
type unit struct {
	bounds    geom.Rect
	memberIDs []string
}

// selectionUnits resolves ids into movable units. An id belonging to a group
// promotes the whole group; duplicates collapse.
func selectionUnits(s *scene.Scene, ids []string) ([]unit, error) {
	seen := make(map[string]bool)
	var units []unit
	for _, id := range ids {
		e, ok := s.Get(id)
		if !ok {
			return nil, fmt.Errorf("align: no element %s", id)
		}
		if e.GroupID != "" {
			if g, ok := s.Get(e.GroupID); ok {
				e = g
			}
		}
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		if e.Kind == element.Group {
			members := append([]string(nil), e.Members...)
			members = append(members, e.ID)
			units = append(units, unit{bounds: s.GroupBounds(e.ID), memberIDs: members})
			continue
		}
		units = append(units, unit{bounds: e.Bounds(), memberIDs: []string{e.ID}})
	}
	return units, nil
}
