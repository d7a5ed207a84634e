package opc

import (
	"errors"
	"strings"
	"testing"
)

const contentTypesFixture = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="XML" ContentType="application/xml"/>
<Default Extension="jpeg" ContentType="image/jpeg"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>
</Types>`

func TestParseContentTypes(t *testing.T) {
	ct, err := ParseContentTypes([]byte(contentTypesFixture))
	if err != nil {
		t.Fatalf("Failed to parse content types: %v", err)
	}

	tests := []struct {
		uri      PartURI
		expected string
		found    bool
	}{
		{MainDocumentURI, ContentTypeMainDocument, true},
		{NumberingURI, ContentTypeNumbering, true},
		{StylesURI, ContentTypeXML, true},
		{"/word/media/photo.JPEG", "image/jpeg", true},
		{"/word/_rels/document.xml.rels", ContentTypeRelationships, true},
		{"/word/media/image1.png", "", false},
		{"/word/noext", "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.uri), func(t *testing.T) {
			got, ok := ct.Get(tt.uri)
			if ok != tt.found {
				t.Fatalf("Expected found=%v, got %v", tt.found, ok)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestParseContentTypesMissingAttribute(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		element string
	}{
		{"default", `<Types><Default ContentType="application/xml"/></Types>`, "Default"},
		{"override", `<Types><Override ContentType="application/xml"/></Types>`, "Override"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseContentTypes([]byte(tt.input))
			var missing *MissingAttributeError
			if !errors.As(err, &missing) {
				t.Fatalf("Expected *MissingAttributeError, got %v", err)
			}
			if missing.Element != tt.element {
				t.Errorf("Expected element %s, got %s", tt.element, missing.Element)
			}
		})
	}
}

func TestContentTypesMarshal(t *testing.T) {
	ct := NewContentTypes()
	ct.AddDefault(".SVG", "image/svg+xml")
	ct.AddOverride(NumberingURI, ContentTypeNumbering)
	ct.AddOverride(MainDocumentURI, ContentTypeMainDocument)
	ct.AddOverride(StylesURI, ContentTypeStyles)
	ct.RemoveOverride(StylesURI)

	data, err := ct.Marshal()
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `<Default Extension="svg" ContentType="image/svg+xml"/>`) {
		t.Errorf("Expected normalized svg default, got %s", out)
	}
	if strings.Contains(out, "/word/styles.xml") {
		t.Errorf("Expected removed override to be absent, got %s", out)
	}
	doc := strings.Index(out, `PartName="/word/document.xml"`)
	num := strings.Index(out, `PartName="/word/numbering.xml"`)
	if doc < 0 || num < 0 || doc > num {
		t.Errorf("Expected sorted overrides, got %s", out)
	}

	again, err := ct.Marshal()
	if err != nil {
		t.Fatalf("Failed to marshal again: %v", err)
	}
	if string(again) != out {
		t.Error("Expected identical output for an unchanged table")
	}

	reparsed, err := ParseContentTypes(data)
	if err != nil {
		t.Fatalf("Failed to reparse: %v", err)
	}
	if len(reparsed.Overrides) != 2 || len(reparsed.Defaults) != len(ct.Defaults) {
		t.Errorf("Expected %d defaults and 2 overrides, got %d and %d",
			len(ct.Defaults), len(reparsed.Defaults), len(reparsed.Overrides))
	}
}
