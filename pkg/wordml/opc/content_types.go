package opc

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	wml "github.com/benjaminschreck/go-wordml/pkg/wordml/xml"
)

// NamespaceContentTypes is the namespace of [Content_Types].xml.
const NamespaceContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"

// Content types used by WordprocessingML packages.
const (
	ContentTypeRelationships  = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeXML            = "application/xml"
	ContentTypeOctetStream    = "application/octet-stream"
	ContentTypeMainDocument   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ContentTypeStyles         = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ContentTypeNumbering      = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	ContentTypeSettings       = "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"
	ContentTypeCoreProperties = "application/vnd.openxmlformats-package.core-properties+xml"
	ContentTypeAppProperties  = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

var (
	defaultExpr  = xpath.MustCompile("//*[local-name()='Types']/*[local-name()='Default']")
	overrideExpr = xpath.MustCompile("//*[local-name()='Types']/*[local-name()='Override']")
)

// ContentTypes maps parts to media types by extension defaults and per-part
// overrides.
type ContentTypes struct {
	Defaults  map[string]string
	Overrides map[PartURI]string
}

// NewContentTypes creates a table with the standard defaults.
func NewContentTypes() *ContentTypes {
	ct := &ContentTypes{
		Defaults:  make(map[string]string),
		Overrides: make(map[PartURI]string),
	}
	ct.AddDefault("rels", ContentTypeRelationships)
	ct.AddDefault("xml", ContentTypeXML)
	ct.AddDefault("png", "image/png")
	ct.AddDefault("jpeg", "image/jpeg")
	ct.AddDefault("jpg", "image/jpeg")
	ct.AddDefault("gif", "image/gif")
	ct.AddDefault("bmp", "image/bmp")
	return ct
}

// ParseContentTypes decodes [Content_Types].xml.
func ParseContentTypes(data []byte) (*ContentTypes, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse content types: %w", err)
	}

	ct := &ContentTypes{
		Defaults:  make(map[string]string),
		Overrides: make(map[PartURI]string),
	}
	for _, n := range xmlquery.QuerySelectorAll(doc, defaultExpr) {
		ext, ok := nodeAttr(n, "Extension")
		if !ok {
			return nil, &MissingAttributeError{Element: "Default", Attribute: "Extension"}
		}
		typ, ok := nodeAttr(n, "ContentType")
		if !ok {
			return nil, &MissingAttributeError{Element: "Default", Attribute: "ContentType"}
		}
		ct.AddDefault(ext, typ)
	}
	for _, n := range xmlquery.QuerySelectorAll(doc, overrideExpr) {
		name, ok := nodeAttr(n, "PartName")
		if !ok {
			return nil, &MissingAttributeError{Element: "Override", Attribute: "PartName"}
		}
		typ, ok := nodeAttr(n, "ContentType")
		if !ok {
			return nil, &MissingAttributeError{Element: "Override", Attribute: "ContentType"}
		}
		uri, err := NewPartURI(name)
		if err != nil {
			return nil, err
		}
		ct.Overrides[uri] = typ
	}
	return ct, nil
}

// AddDefault maps an extension (case-insensitive) to a content type.
func (ct *ContentTypes) AddDefault(ext, contentType string) {
	ct.Defaults[strings.ToLower(strings.TrimPrefix(ext, "."))] = contentType
}

// AddOverride sets the content type of one part.
func (ct *ContentTypes) AddOverride(uri PartURI, contentType string) {
	ct.Overrides[uri] = contentType
}

// RemoveOverride drops the override of one part.
func (ct *ContentTypes) RemoveOverride(uri PartURI) {
	delete(ct.Overrides, uri)
}

// Get returns the content type of a part: its override, else the default
// for its extension.
func (ct *ContentTypes) Get(uri PartURI) (string, bool) {
	if typ, ok := ct.Overrides[uri]; ok {
		return typ, true
	}
	typ, ok := ct.Defaults[uri.Extension()]
	return typ, ok
}

// Marshal serializes the table with the XML declaration. Entries are sorted
// so identical tables produce identical bytes.
func (ct *ContentTypes) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	e := wml.NewEncoder(&buf)
	e.Declaration()
	e.Start("Types", wml.Attr{Name: "xmlns", Value: NamespaceContentTypes})

	exts := make([]string, 0, len(ct.Defaults))
	for ext := range ct.Defaults {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		e.Empty("Default",
			wml.Attr{Name: "Extension", Value: ext},
			wml.Attr{Name: "ContentType", Value: ct.Defaults[ext]})
	}

	uris := make([]string, 0, len(ct.Overrides))
	for uri := range ct.Overrides {
		uris = append(uris, string(uri))
	}
	sort.Strings(uris)
	for _, uri := range uris {
		e.Empty("Override",
			wml.Attr{Name: "PartName", Value: uri},
			wml.Attr{Name: "ContentType", Value: ct.Overrides[PartURI(uri)]})
	}

	e.End("Types")
	if err := e.Flush(); err != nil {
		return nil, fmt.Errorf("failed to encode content types: %w", err)
	}
	return buf.Bytes(), nil
}
