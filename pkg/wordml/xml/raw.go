package xml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// RawNode is one node of a preserved XML subtree: *RawElement, RawText or
// RawComment.
type RawNode interface {
	encodeRaw(e *Encoder)
	cloneRaw() RawNode
}

// RawText is character data inside a preserved element, stored decoded.
type RawText string

// RawComment is a comment inside a preserved element.
type RawComment string

func (t RawText) encodeRaw(e *Encoder)    { e.Text(string(t)) }
func (t RawText) cloneRaw() RawNode       { return t }
func (c RawComment) encodeRaw(e *Encoder) { e.Comment(string(c)) }
func (c RawComment) cloneRaw() RawNode    { return c }
func (c RawComment) isBodyElement()       {}
func (c RawComment) isParagraphContent()  {}

// RawElement represents an XML element that is kept but not interpreted.
// It round-trips its name, attributes, children and self-closing form.
type RawElement struct {
	Name        string
	Attrs       []Attr
	Children    []RawNode
	SelfClosing bool
}

func (r *RawElement) isBodyElement()      {}
func (r *RawElement) isParagraphContent() {}
func (r *RawElement) isRunContent()       {}

// NewRawElement creates an element that serializes as a self-closing tag
// until children are added.
func NewRawElement(name string, attrs ...Attr) *RawElement {
	return &RawElement{Name: name, Attrs: attrs, SelfClosing: true}
}

// ParseRawElement reads the element opened by start, including every
// descendant, until its matching close tag.
func ParseRawElement(d *Decoder, start xml.StartElement) (*RawElement, error) {
	raw := &RawElement{
		Name:  qualifiedName(start.Name),
		Attrs: convertAttrs(start.Attr),
	}

	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("<%s> not closed: %w", raw.Name, ErrTruncatedInput)
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := ParseRawElement(d, t)
			if err != nil {
				return nil, err
			}
			raw.Children = append(raw.Children, child)
		case xml.CharData:
			if len(t) > 0 {
				raw.Children = append(raw.Children, RawText(t))
			}
		case xml.Comment:
			raw.Children = append(raw.Children, RawComment(t))
		case xml.EndElement:
			if t.Name != start.Name {
				return nil, &DecodeError{
					Element: raw.Name,
					Offset:  d.Offset(),
					Err:     fmt.Errorf("unexpected </%s>", qualifiedName(t.Name)),
				}
			}
			raw.SelfClosing = d.SelfClosed()
			return raw, nil
		}
	}
}

// EncodeXML writes the element. A self-closing tag is written only when the
// element has no children and was self-closing in the source.
func (r *RawElement) EncodeXML(e *Encoder) {
	if len(r.Children) == 0 && r.SelfClosing {
		e.Empty(r.Name, r.Attrs...)
		return
	}
	e.Start(r.Name, r.Attrs...)
	for _, c := range r.Children {
		c.encodeRaw(e)
	}
	e.End(r.Name)
}

func (r *RawElement) encodeRaw(e *Encoder) { r.EncodeXML(e) }
func (r *RawElement) cloneRaw() RawNode    { return r.Clone() }

// Clone returns a deep copy.
func (r *RawElement) Clone() *RawElement {
	if r == nil {
		return nil
	}
	c := &RawElement{
		Name:        r.Name,
		SelfClosing: r.SelfClosing,
	}
	if r.Attrs != nil {
		c.Attrs = append([]Attr(nil), r.Attrs...)
	}
	for _, child := range r.Children {
		c.Children = append(c.Children, child.cloneRaw())
	}
	return c
}

// LocalName returns the element name without its prefix.
func (r *RawElement) LocalName() string {
	if i := strings.IndexByte(r.Name, ':'); i >= 0 {
		return r.Name[i+1:]
	}
	return r.Name
}

// Attr returns the value of the attribute with the given qualified name.
func (r *RawElement) Attr(name string) (string, bool) {
	for _, a := range r.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// String renders the element as markup.
func (r *RawElement) String() string {
	var sb strings.Builder
	e := NewEncoder(&sb)
	r.EncodeXML(e)
	_ = e.Flush()
	return sb.String()
}

func encodeRawList(e *Encoder, list []*RawElement) {
	for _, r := range list {
		r.EncodeXML(e)
	}
}
