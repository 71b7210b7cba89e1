// Package diagram synthesizes renderable diagram documents from
// architecture snapshots.
//
// The output format is an Excalidraw scene: a fixed type/version tag plus a
// flat list of independently positioned elements (shapes, text, arrows).
// Stored documents are handed to the rendering surface verbatim, so the
// serialization here must stay byte-compatible across releases: a cached
// document from a previous round must remain loadable without re-synthesis.
package diagram

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is one renderable diagram scene.
type Document struct {
	Type     string    `json:"type"`
	Version  int       `json:"version"`
	Source   string    `json:"source"`
	Elements []Element `json:"elements"`
}

// Scene format tag values.
const (
	DocumentType    = "excalidraw"
	DocumentVersion = 2
	DocumentSource  = "https://excalidraw.com"
)

// Element kinds. Shapes and text are positioned boxes; arrows carry a
// point list relative to their origin.
const (
	KindRectangle = "rectangle"
	KindEllipse   = "ellipse"
	KindDiamond   = "diamond"
	KindText      = "text"
	KindArrow     = "arrow"
)

// Roundness selects the corner-rounding algorithm of a shape.
type Roundness struct {
	Type int `json:"type"`
}

// Element is one drawable primitive. Elements are flat and independent:
// beyond the traceability ID they carry no reference to the node or edge
// they originated from. Kind-specific fields are zero/omitted for other
// kinds.
//
// The null-able fields (FrameID, Roundness, Link, StartArrowhead) and the
// always-present empty collections (GroupIDs, BoundElements) mirror the
// scene format expected by the rendering surface.
type Element struct {
	ID              string     `json:"id"`
	Kind            string     `json:"type"`
	X               float64    `json:"x"`
	Y               float64    `json:"y"`
	Width           float64    `json:"width"`
	Height          float64    `json:"height"`
	Angle           float64    `json:"angle"`
	StrokeColor     string     `json:"strokeColor"`
	BackgroundColor string     `json:"backgroundColor,omitempty"`
	FillStyle       string     `json:"fillStyle"`
	StrokeWidth     int        `json:"strokeWidth"`
	StrokeStyle     string     `json:"strokeStyle"`
	Roughness       int        `json:"roughness"`
	Opacity         int        `json:"opacity"`
	GroupIDs        []string   `json:"groupIds"`
	FrameID         *string    `json:"frameId"`
	Roundness       *Roundness `json:"roundness"`
	Seed            int        `json:"seed"`
	BoundElements   []string   `json:"boundElements"`
	Updated         int        `json:"updated"`
	Link            *string    `json:"link"`
	Locked          bool       `json:"locked"`

	// Text fields
	Text          string  `json:"text,omitempty"`
	FontSize      int     `json:"fontSize,omitempty"`
	FontFamily    int     `json:"fontFamily,omitempty"`
	TextAlign     string  `json:"textAlign,omitempty"`
	VerticalAlign string  `json:"verticalAlign,omitempty"`
	Baseline      int     `json:"baseline,omitempty"`
	FontStyle     string  `json:"fontStyle,omitempty"`
	LineHeight    float64 `json:"lineHeight,omitempty"`

	// Arrow fields. Points are relative to (X, Y).
	Points         [][2]float64 `json:"points,omitempty"`
	StartArrowhead *string      `json:"startArrowhead,omitempty"`
	EndArrowhead   string       `json:"endArrowhead,omitempty"`
}

// IsShape reports whether the element is a node body primitive.
func (e *Element) IsShape() bool {
	return e.Kind == KindRectangle || e.Kind == KindEllipse || e.Kind == KindDiamond
}

// baseElement fills the boilerplate every element shares.
func baseElement(id, kind string) Element {
	return Element{
		ID:            id,
		Kind:          kind,
		FillStyle:     "solid",
		StrokeWidth:   2,
		StrokeStyle:   "solid",
		Roughness:     1,
		Opacity:       100,
		GroupIDs:      []string{},
		BoundElements: []string{},
		Seed:          1,
		Updated:       1,
	}
}

// MarshalDocument serializes a Document to pretty-printed JSON bytes.
func MarshalDocument(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDocument deserializes JSON bytes into a Document.
// It checks the format tag so a non-scene payload fails early instead of
// producing an empty scene.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	if d.Type != DocumentType {
		return Document{}, fmt.Errorf("unexpected document type %q", d.Type)
	}
	return d, nil
}

// WriteDocumentFile writes a Document to a JSON file.
func WriteDocumentFile(d Document, path string) error {
	data, err := MarshalDocument(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadDocumentFile reads a Document from a JSON file.
func ReadDocumentFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalDocument(data)
}
