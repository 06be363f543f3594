package scene

import (
	"encoding/json"
	"fmt"

	"github.com/example/snipmark/internal/element"
	"github.com/example/snipmark/internal/geom"
)

// document is the interchange form handed to the clipboard collaborator.
// Elements are stored in paint order; z indexes are re-derived on decode.
type document struct {
	Version    int               `json:"version"`
	ClipBounds geom.Rect         `json:"clipBounds"`
	Elements   []element.Element `json:"elements"`
}

const codecVersion = 1

// Encode serializes the scene for copy-paste across editor sessions.
// Transient state (selection) is not persisted.
func (s *Scene) Encode() ([]byte, error) {
	doc := document{
		Version:    codecVersion,
		ClipBounds: s.ClipBounds,
		Elements:   s.InZOrder(),
	}
	return json.MarshalIndent(doc, "", "  ")
}

// EncodeElements serializes a subset of elements (by id, in paint order) as
// a scene fragment for clipboard copy of a selection.
func (s *Scene) EncodeElements(ids []string) ([]byte, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var els []element.Element
	for _, e := range s.InZOrder() {
		if want[e.ID] {
			els = append(els, e)
		}
	}
	doc := document{Version: codecVersion, Elements: els}
	return json.Marshal(doc)
}

// Decode rebuilds a scene from its serialized form.
func Decode(data []byte) (*Scene, error) {
	els, clip, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	s := New(clip)
	for _, e := range els {
		e.Z = 0 // append in document order
		if err := s.Insert(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// DecodeElements extracts the elements of a serialized scene or fragment in
// paint order, ready for pasting into another scene.
func DecodeElements(data []byte) ([]element.Element, error) {
	els, _, err := decodeDocument(data)
	return els, err
}

func decodeDocument(data []byte) ([]element.Element, geom.Rect, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, geom.Rect{}, fmt.Errorf("decode scene: %w", err)
	}
	if doc.Version != codecVersion {
		return nil, geom.Rect{}, fmt.Errorf("decode scene: unsupported version %d", doc.Version)
	}
	return doc.Elements, doc.ClipBounds, nil
}
