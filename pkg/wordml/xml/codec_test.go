package xml

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"
)

// decodeFragment positions a decoder on the root element of src.
func decodeFragment(t *testing.T, src string) (*Decoder, xml.StartElement) {
	t.Helper()
	d := NewDecoder(strings.NewReader(src))
	start, err := readRoot(d)
	if err != nil {
		t.Fatalf("failed to read root of %q: %v", src, err)
	}
	return d, start
}

// encodeString runs fn against a fresh encoder and returns the output.
func encodeString(t *testing.T, fn func(e *Encoder)) string {
	t.Helper()
	var sb strings.Builder
	e := NewEncoder(&sb)
	fn(e)
	if err := e.Flush(); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return sb.String()
}

func TestRawElementRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "Self-closing element",
			src:  `<w:drawing/>`,
		},
		{
			name: "Explicit empty element stays open/close",
			src:  `<w:customXml></w:customXml>`,
		},
		{
			name: "Nested with attributes",
			src:  `<mc:AlternateContent><mc:Choice Requires="wps"><w:drawing w14:anchorId="1A2B"/></mc:Choice></mc:AlternateContent>`,
		},
		{
			name: "Whitespace text kept verbatim",
			src:  `<w:instrText xml:space="preserve">  PAGE  \* MERGEFORMAT </w:instrText>`,
		},
		{
			name: "Comment captured",
			src:  `<w:sdt><!-- content control --><w:sdtPr/></w:sdt>`,
		},
		{
			name: "Escaped text and attributes",
			src:  `<w:fldSimple w:instr="IF &quot;a&quot; &lt; b">a &amp; b</w:fldSimple>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, start := decodeFragment(t, tt.src)
			raw, err := ParseRawElement(d, start)
			if err != nil {
				t.Fatalf("ParseRawElement failed: %v", err)
			}
			got := encodeString(t, raw.EncodeXML)
			if got != tt.src {
				t.Errorf("Expected %q, got %q", tt.src, got)
			}
		})
	}
}

func TestRawElementSelfClosingFlag(t *testing.T) {
	d, start := decodeFragment(t, `<a><b/><c></c></a>`)
	raw, err := ParseRawElement(d, start)
	if err != nil {
		t.Fatalf("ParseRawElement failed: %v", err)
	}
	if len(raw.Children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(raw.Children))
	}
	b := raw.Children[0].(*RawElement)
	c := raw.Children[1].(*RawElement)
	if !b.SelfClosing {
		t.Error("Expected <b/> to be self-closing")
	}
	if c.SelfClosing {
		t.Error("Expected <c></c> not to be self-closing")
	}
	if raw.SelfClosing {
		t.Error("Expected <a> not to be self-closing")
	}
}

func TestRawElementAddedChildrenForceOpenClose(t *testing.T) {
	raw := NewRawElement("w:sectPr")
	if got := raw.String(); got != `<w:sectPr/>` {
		t.Errorf("Expected self-closing tag, got %q", got)
	}
	raw.Children = append(raw.Children, NewRawElement("w:pgSz", Attr{Name: "w:w", Value: "11906"}))
	want := `<w:sectPr><w:pgSz w:w="11906"/></w:sectPr>`
	if got := raw.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRawElementClone(t *testing.T) {
	d, start := decodeFragment(t, `<x a="1"><y>text</y></x>`)
	raw, err := ParseRawElement(d, start)
	if err != nil {
		t.Fatalf("ParseRawElement failed: %v", err)
	}
	c := raw.Clone()
	c.Attrs[0].Value = "2"
	c.Children[0].(*RawElement).Name = "z"

	if v, _ := raw.Attr("a"); v != "1" {
		t.Errorf("Expected original attribute 1, got %s", v)
	}
	if got := raw.Children[0].(*RawElement).Name; got != "y" {
		t.Errorf("Expected original child y, got %s", got)
	}
	if raw.LocalName() != "x" {
		t.Errorf("Expected local name x, got %s", raw.LocalName())
	}
}

func TestRawElementTruncated(t *testing.T) {
	d, start := decodeFragment(t, `<w:sdt><w:sdtContent><w:p>`)
	_, err := ParseRawElement(d, start)
	if err == nil {
		t.Fatal("Expected an error for truncated input")
	}
	if !errors.Is(err, ErrTruncatedInput) {
		t.Errorf("Expected ErrTruncatedInput, got %v", err)
	}
}

func TestRawElementMismatchedClose(t *testing.T) {
	d, start := decodeFragment(t, `<a><b></a>`)
	_, err := ParseRawElement(d, start)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("Expected *DecodeError, got %v", err)
	}
	if decErr.Element != "b" {
		t.Errorf("Expected error in <b>, got <%s>", decErr.Element)
	}
}

func TestContainerTreatsEndOfStreamAsClose(t *testing.T) {
	d, start := decodeFragment(t, `<w:p><w:r><w:t>partial</w:t></w:r>`)
	p, err := ParseParagraph(d, start)
	if err != nil {
		t.Fatalf("Expected no error for truncated container, got %v", err)
	}
	if p.Text() != "partial" {
		t.Errorf("Expected text 'partial', got %q", p.Text())
	}
}

func TestDecoderMalformedInput(t *testing.T) {
	d := NewDecoder(strings.NewReader(`<w:p><w:r`))
	_, err := readRoot(d)
	if err != nil {
		t.Fatalf("Expected root to be read, got %v", err)
	}
	_, err = d.Token()
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Errorf("Expected *DecodeError, got %v", err)
	}
}

func TestToggleParsing(t *testing.T) {
	tests := []struct {
		src      string
		expected bool
	}{
		{`<w:b/>`, true},
		{`<w:b w:val="1"/>`, true},
		{`<w:b w:val="true"/>`, true},
		{`<w:b w:val="on"/>`, true},
		{`<w:b w:val="0"/>`, false},
		{`<w:b w:val="false"/>`, false},
		{`<w:b w:val="off"/>`, false},
		{`<w:b w:val="TRUE"/>`, false},
		{`<w:b val="1"/>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, start := decodeFragment(t, tt.src)
			if got := parseToggle(start); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestEncoderEscaping(t *testing.T) {
	got := encodeString(t, func(e *Encoder) {
		e.Start("w:t", Attr{Name: "a", Value: `"<&>"`})
		e.Text("a < b & c > d")
		e.End("w:t")
	})
	want := `<w:t a="&quot;&lt;&amp;&gt;&quot;">a &lt; b &amp; c &gt; d</w:t>`
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEncoderStickyError(t *testing.T) {
	e := NewEncoder(failingWriter{})
	e.Declaration()
	e.Start("w:document")
	e.End("w:document")
	if err := e.Flush(); err == nil {
		t.Error("Expected flush to report the write error")
	}
	if e.Err() == nil {
		t.Error("Expected the error to be kept")
	}
}
