package xml

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Declaration is the XML declaration written at the top of every generated part.
const Declaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

var (
	// ErrTruncatedInput is returned when the stream ends before a preserved
	// element is closed.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrMissingBody is returned when a document part has no body element.
	ErrMissingBody = errors.New("missing body element")
)

// DecodeError reports a malformed token stream.
type DecodeError struct {
	Element string
	Offset  int64
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("xml decode error in <%s> at offset %d: %v", e.Element, e.Offset, e.Err)
	}
	return fmt.Sprintf("xml decode error at offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder reads WordprocessingML markup without namespace translation, so
// element and attribute names keep the prefixes they were written with.
type Decoder struct {
	d          *xml.Decoder
	selfClosed bool
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	d := xml.NewDecoder(r)
	d.Entity = map[string]string{}
	return &Decoder{d: d}
}

// Token returns the next token. The token is a copy and stays valid after
// subsequent calls. io.EOF is returned unwrapped at the end of the stream.
func (d *Decoder) Token() (xml.Token, error) {
	before := d.d.InputOffset()
	tok, err := d.d.RawToken()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &DecodeError{Offset: d.d.InputOffset(), Err: err}
	}
	d.selfClosed = false
	if _, ok := tok.(xml.EndElement); ok {
		// The end token of <a/> is synthesized without consuming input.
		d.selfClosed = d.d.InputOffset() == before
	}
	return xml.CopyToken(tok), nil
}

// SelfClosed reports whether the most recent end element came from a
// self-closing tag.
func (d *Decoder) SelfClosed() bool {
	return d.selfClosed
}

// Offset returns the current byte offset in the input.
func (d *Decoder) Offset() int64 {
	return d.d.InputOffset()
}

// Skip consumes tokens up to and including the end element matching start.
// A truncated stream is treated as an implicit close.
func (d *Decoder) Skip(start xml.StartElement) error {
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

// decodeChildren runs the shared container loop: child is invoked for every
// direct child element and must consume it completely. The loop ends on the
// matching close tag or at end of stream.
func decodeChildren(d *Decoder, start xml.StartElement, child func(t xml.StartElement) error) error {
	return decodeChildrenWithText(d, start, child, nil, nil)
}

// decodeContent is decodeChildren for containers with ordered content: the
// comments between children are reported to comment in document order.
func decodeContent(d *Decoder, start xml.StartElement, child func(t xml.StartElement) error, comment func(c RawComment)) error {
	return decodeChildrenWithText(d, start, child, nil, comment)
}

// readText collects the character data of a leaf element such as w:t.
func readText(d *Decoder, start xml.StartElement) (string, error) {
	var sb strings.Builder
	err := decodeChildrenWithText(d, start, func(t xml.StartElement) error {
		return d.Skip(t)
	}, func(text []byte) {
		sb.Write(text)
	}, nil)
	return sb.String(), err
}

func decodeChildrenWithText(d *Decoder, start xml.StartElement, child func(t xml.StartElement) error, text func([]byte), comment func(c RawComment)) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := child(t); err != nil {
				return err
			}
		case xml.CharData:
			if text != nil {
				text(t)
			}
		case xml.Comment:
			if comment != nil {
				comment(RawComment(t))
			}
		case xml.EndElement:
			if t.Name != start.Name {
				return &DecodeError{
					Element: qualifiedName(start.Name),
					Offset:  d.Offset(),
					Err:     fmt.Errorf("unexpected </%s>", qualifiedName(t.Name)),
				}
			}
			return nil
		}
	}
}

// readRoot advances to the first start element of a part, skipping the
// declaration, comments and whitespace.
func readRoot(d *Decoder) (xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if t, ok := tok.(xml.StartElement); ok {
			return t, nil
		}
	}
}

// Encoder writes markup. The first write error is kept and returned by Flush;
// later writes become no-ops.
type Encoder struct {
	w   *bufio.Writer
	err error
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

func (e *Encoder) writeString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s)
}

// Declaration writes the standard part declaration followed by a line break.
func (e *Encoder) Declaration() {
	e.writeString(Declaration)
	e.writeString("\n")
}

func (e *Encoder) tag(name string, attrs []Attr) {
	e.writeString("<")
	e.writeString(name)
	for _, a := range attrs {
		e.writeString(" ")
		e.writeString(a.Name)
		e.writeString(`="`)
		e.writeString(attrEscaper.Replace(a.Value))
		e.writeString(`"`)
	}
}

// Start writes an opening tag.
func (e *Encoder) Start(name string, attrs ...Attr) {
	e.tag(name, attrs)
	e.writeString(">")
}

// Empty writes a self-closing tag.
func (e *Encoder) Empty(name string, attrs ...Attr) {
	e.tag(name, attrs)
	e.writeString("/>")
}

// End writes a closing tag.
func (e *Encoder) End(name string) {
	e.writeString("</")
	e.writeString(name)
	e.writeString(">")
}

// Text writes escaped character data.
func (e *Encoder) Text(s string) {
	e.writeString(textEscaper.Replace(s))
}

// Comment writes a comment node.
func (e *Encoder) Comment(s string) {
	e.writeString("<!--")
	e.writeString(s)
	e.writeString("-->")
}

// Err returns the first write error, if any.
func (e *Encoder) Err() error {
	return e.err
}

// Flush writes buffered output and returns the first error encountered.
func (e *Encoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	e.err = e.w.Flush()
	return e.err
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#xD;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\n", "&#xA;",
		"\r", "&#xD;",
		"\t", "&#x9;",
	)
)
