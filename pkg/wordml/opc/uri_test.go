package opc

import (
	"errors"
	"testing"
)

func TestNewPartURI(t *testing.T) {
	tests := []struct {
		in       string
		expected PartURI
		wantErr  bool
	}{
		{"word/document.xml", "/word/document.xml", false},
		{"/word/document.xml", "/word/document.xml", false},
		{" /word/media/ ", "/word/media", false},
		{"[Content_Types].xml", ContentTypesURI, false},
		{"", "", true},
		{"/", "", true},
		{"word//document.xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NewPartURI(tt.in)
			if tt.wantErr {
				var uriErr *InvalidPartURIError
				if !errors.As(err, &uriErr) {
					t.Errorf("Expected *InvalidPartURIError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestPartURIRelationships(t *testing.T) {
	tests := []struct {
		uri      PartURI
		expected PartURI
	}{
		{MainDocumentURI, "/word/_rels/document.xml.rels"},
		{"/customXml/item1.xml", "/customXml/_rels/item1.xml.rels"},
		{"/top.xml", "/_rels/top.xml.rels"},
	}
	for _, tt := range tests {
		rels := tt.uri.RelationshipsURI()
		if rels != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, rels)
		}
		if !rels.IsRelationships() {
			t.Errorf("Expected %s to be a relationships part", rels)
		}
		if src := sourceOf(rels); src != tt.uri {
			t.Errorf("Expected source %s, got %s", tt.uri, src)
		}
	}
	if MainDocumentURI.IsRelationships() {
		t.Error("Expected the main document not to be a relationships part")
	}
	if sourceOf(PackageRelsURI) != packageRootSources {
		t.Error("Expected package relationships to belong to the root")
	}
}

func TestPartURIResolve(t *testing.T) {
	tests := []struct {
		target   string
		expected PartURI
	}{
		{"numbering.xml", NumberingURI},
		{"./styles.xml", StylesURI},
		{"../customXml/item1.xml", "/customXml/item1.xml"},
		{"/docProps/core.xml", CorePropertiesURI},
		{"media/image1.png", "/word/media/image1.png"},
	}
	for _, tt := range tests {
		got, err := MainDocumentURI.Resolve(tt.target)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", tt.target, err)
		}
		if got != tt.expected {
			t.Errorf("Resolve(%q): expected %s, got %s", tt.target, tt.expected, got)
		}
	}
}

func TestPartURIParts(t *testing.T) {
	u := MustPartURI("word/media/Image1.PNG")
	if u.Extension() != "png" {
		t.Errorf("Expected png, got %s", u.Extension())
	}
	if u.Base() != "Image1.PNG" || u.Dir() != "/word/media" {
		t.Errorf("Unexpected base/dir: %s %s", u.Base(), u.Dir())
	}
	if u.ZipName() != "word/media/Image1.PNG" {
		t.Errorf("Unexpected zip name: %s", u.ZipName())
	}
	if MustPartURI("/word/noext").Extension() != "" {
		t.Error("Expected no extension")
	}
}

func TestRelativeTarget(t *testing.T) {
	tests := []struct {
		dir      string
		target   PartURI
		expected string
	}{
		{"/", MainDocumentURI, "word/document.xml"},
		{"/word", NumberingURI, "numbering.xml"},
		{"/word", "/word/media/a.png", "media/a.png"},
		{"/word", CorePropertiesURI, "/docProps/core.xml"},
	}
	for _, tt := range tests {
		if got := relativeTarget(tt.dir, tt.target); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}
