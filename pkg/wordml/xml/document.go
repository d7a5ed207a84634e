package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// defaultDocumentNamespaces are written on a document root that was not
// parsed from a source part.
var defaultDocumentNamespaces = []Attr{
	{Name: "xmlns:w", Value: NamespaceW},
	{Name: "xmlns:r", Value: NamespaceR},
	{Name: "xmlns:wp", Value: "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"},
	{Name: "xmlns:a", Value: "http://schemas.openxmlformats.org/drawingml/2006/main"},
	{Name: "xmlns:pic", Value: "http://schemas.openxmlformats.org/drawingml/2006/picture"},
}

const (
	// NamespaceW is the main WordprocessingML namespace.
	NamespaceW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	// NamespaceR is the officeDocument relationships namespace.
	NamespaceR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Document represents the root w:document element of the main part
type Document struct {
	// Name is the root element name as written, normally "w:document"
	Name string
	// Attrs preserves the root attributes (namespace declarations,
	// mc:Ignorable) so preserved elements keep resolving their prefixes
	Attrs []Attr
	Body  *Body
	// Unknown keeps root children other than the body (w:background, ...)
	Unknown []*RawElement
}

// Body represents the document body
type Body struct {
	// Content holds paragraphs, tables and preserved blocks in order
	Content []BodyElement
	// SectionProperties is the last w:sectPr of the body
	SectionProperties *RawElement
}

// NewDocument creates an empty document with the default namespaces.
func NewDocument() *Document {
	return &Document{
		Name:  "w:document",
		Attrs: append([]Attr(nil), defaultDocumentNamespaces...),
		Body:  &Body{},
	}
}

// ParseDocument decodes a main document part. ErrMissingBody is returned
// when the root has no body.
func ParseDocument(data []byte) (*Document, error) {
	return DecodeDocument(bytes.NewReader(data))
}

// DecodeDocument decodes a main document part from r.
func DecodeDocument(r io.Reader) (*Document, error) {
	d := NewDecoder(r)
	start, err := readRoot(d)
	if err == io.EOF {
		return nil, ErrMissingBody
	}
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Name:  qualifiedName(start.Name),
		Attrs: convertAttrs(start.Attr),
	}
	if start.Name.Local == "body" {
		// A bare body fragment without the document wrapper.
		doc.Name = "w:document"
		doc.Attrs = append([]Attr(nil), defaultDocumentNamespaces...)
		body, err := ParseBody(d, start)
		if err != nil {
			return nil, err
		}
		doc.Body = body
		return doc, nil
	}

	err = decodeChildren(d, start, func(t xml.StartElement) error {
		if t.Name.Local == "body" && doc.Body == nil {
			body, err := ParseBody(d, t)
			if err != nil {
				return err
			}
			doc.Body = body
			return nil
		}
		raw, err := ParseRawElement(d, t)
		if err != nil {
			return err
		}
		doc.Unknown = append(doc.Unknown, raw)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if doc.Body == nil {
		return nil, ErrMissingBody
	}
	return doc, nil
}

// ParseBody decodes a w:body element. Only the last w:sectPr is kept as the
// section properties; earlier ones stay in Content at their position.
func ParseBody(d *Decoder, start xml.StartElement) (*Body, error) {
	b := &Body{}
	last := -1
	err := decodeContent(d, start, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "p":
			p, err := ParseParagraph(d, t)
			if err != nil {
				return err
			}
			b.Content = append(b.Content, p)
		case "tbl":
			tbl, err := ParseTable(d, t)
			if err != nil {
				return err
			}
			b.Content = append(b.Content, tbl)
		case "sectPr":
			raw, err := ParseRawElement(d, t)
			if err != nil {
				return err
			}
			last = len(b.Content)
			b.Content = append(b.Content, raw)
		default:
			raw, err := ParseRawElement(d, t)
			if err != nil {
				return err
			}
			b.Content = append(b.Content, raw)
		}
		return nil
	}, func(c RawComment) {
		b.Content = append(b.Content, c)
	})
	if err != nil {
		return nil, err
	}
	if last >= 0 {
		b.SectionProperties = b.Remove(last).(*RawElement)
	}
	return b, nil
}

// EncodeXML writes the body.
func (b *Body) EncodeXML(e *Encoder) {
	e.Start("w:body")
	for _, el := range b.Content {
		switch v := el.(type) {
		case *Paragraph:
			v.EncodeXML(e)
		case *Table:
			v.EncodeXML(e)
		case *RawElement:
			v.EncodeXML(e)
		case RawComment:
			v.encodeRaw(e)
		}
	}
	if b.SectionProperties != nil {
		b.SectionProperties.EncodeXML(e)
	}
	e.End("w:body")
}

// EncodeXML writes the root element and everything below it.
func (doc *Document) EncodeXML(e *Encoder) {
	name := doc.Name
	if name == "" {
		name = "w:document"
	}
	e.Start(name, doc.Attrs...)
	if doc.Body != nil {
		doc.Body.EncodeXML(e)
	} else {
		(&Body{}).EncodeXML(e)
	}
	encodeRawList(e, doc.Unknown)
	e.End(name)
}

// Marshal serializes the part with the XML declaration.
func (doc *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the part with the XML declaration to w.
func (doc *Document) Encode(w io.Writer) error {
	e := NewEncoder(w)
	e.Declaration()
	doc.EncodeXML(e)
	if err := e.Flush(); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// Paragraphs returns the top-level paragraphs in order.
func (b *Body) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, el := range b.Content {
		if p, ok := el.(*Paragraph); ok {
			paras = append(paras, p)
		}
	}
	return paras
}

// Tables returns the top-level tables in order.
func (b *Body) Tables() []*Table {
	var tables []*Table
	for _, el := range b.Content {
		if t, ok := el.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// AddParagraph appends a paragraph and returns it.
func (b *Body) AddParagraph(p *Paragraph) *Paragraph {
	b.Content = append(b.Content, p)
	return p
}

// AddTable appends a table and returns it.
func (b *Body) AddTable(t *Table) *Table {
	b.Content = append(b.Content, t)
	return t
}

// Insert places an element before index; an index past the end appends.
func (b *Body) Insert(index int, el BodyElement) {
	if index < 0 {
		index = 0
	}
	if index >= len(b.Content) {
		b.Content = append(b.Content, el)
		return
	}
	b.Content = append(b.Content, nil)
	copy(b.Content[index+1:], b.Content[index:])
	b.Content[index] = el
}

// Remove deletes and returns the element at index, or nil when out of range.
func (b *Body) Remove(index int) BodyElement {
	if index < 0 || index >= len(b.Content) {
		return nil
	}
	el := b.Content[index]
	b.Content = append(b.Content[:index], b.Content[index+1:]...)
	return el
}

// Text returns the text of the top-level paragraphs joined by '\n'.
func (b *Body) Text() string {
	paras := b.Paragraphs()
	texts := make([]string, len(paras))
	for i, p := range paras {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n")
}
