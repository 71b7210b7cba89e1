package diagram

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestMarshalDocumentRoundTrip(t *testing.T) {
	doc := Document{
		Type:    DocumentType,
		Version: DocumentVersion,
		Source:  DocumentSource,
		Elements: []Element{
			baseElement("shape_a", KindRectangle),
			baseElement("element_1", KindText),
		},
	}
	data, err := MarshalDocument(doc)
	if err != nil {
		t.Fatalf("MarshalDocument() error = %v", err)
	}

	got, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("UnmarshalDocument() error = %v", err)
	}
	if got.Type != DocumentType || got.Version != DocumentVersion {
		t.Errorf("round trip header = %q/%d", got.Type, got.Version)
	}
	if len(got.Elements) != 2 {
		t.Fatalf("round trip elements = %d, want 2", len(got.Elements))
	}
	if got.Elements[0].ID != "shape_a" || got.Elements[0].Kind != KindRectangle {
		t.Errorf("element[0] = %q/%q", got.Elements[0].ID, got.Elements[0].Kind)
	}
}

func TestUnmarshalDocumentRejectsWrongType(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"wrong type tag", `{"type":"drawio","version":2,"elements":[]}`},
		{"missing type tag", `{"version":2,"elements":[]}`},
		{"not json", `]]]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := UnmarshalDocument([]byte(tc.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDocumentFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.excalidraw.json")
	doc := Document{
		Type:     DocumentType,
		Version:  DocumentVersion,
		Source:   DocumentSource,
		Elements: []Element{baseElement("shape_a", KindEllipse)},
	}
	if err := WriteDocumentFile(doc, path); err != nil {
		t.Fatalf("WriteDocumentFile() error = %v", err)
	}
	got, err := ReadDocumentFile(path)
	if err != nil {
		t.Fatalf("ReadDocumentFile() error = %v", err)
	}
	if len(got.Elements) != 1 || got.Elements[0].Kind != KindEllipse {
		t.Errorf("round trip elements = %+v", got.Elements)
	}
}

func TestElementJSONFieldNames(t *testing.T) {
	e := baseElement("shape_a", KindRectangle)
	e.BackgroundColor = "#d3f9d8"
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	for _, key := range []string{`"type":"rectangle"`, `"strokeWidth":2`, `"backgroundColor":"#d3f9d8"`, `"frameId":null`, `"locked":false`} {
		if !strings.Contains(s, key) {
			t.Errorf("marshaled element missing %s in %s", key, s)
		}
	}
}

func TestBaseElementDefaults(t *testing.T) {
	e := baseElement("x", KindText)
	if e.FillStyle != "solid" || e.StrokeStyle != "solid" {
		t.Errorf("styles = %q/%q", e.FillStyle, e.StrokeStyle)
	}
	if e.Opacity != 100 || e.Roughness != 1 {
		t.Errorf("opacity/roughness = %d/%d", e.Opacity, e.Roughness)
	}
	if e.GroupIDs == nil || e.BoundElements == nil {
		t.Error("slice fields must marshal as [], not null")
	}
	if e.IsShape() {
		t.Error("text element reported as shape")
	}
	d := baseElement("y", KindDiamond)
	if !d.IsShape() {
		t.Error("diamond element not reported as shape")
	}
}
