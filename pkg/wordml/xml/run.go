package xml

import (
	"encoding/xml"
	"math"
	"strings"
)

// Run represents a run of text with uniform formatting
type Run struct {
	// Attrs holds the run's own attributes (revision ids and similar)
	Attrs []Attr
	// Properties is the optional w:rPr bag
	Properties *RunProperties
	// Content holds text, tabs, breaks and preserved elements in order
	Content []RunContent
}

func (r *Run) isParagraphContent() {}

// Text is a w:t item. The value is stored decoded.
type Text struct {
	Value string
}

// Tab is a w:tab item.
type Tab struct{}

// CarriageReturn is a w:cr item.
type CarriageReturn struct{}

// SoftHyphen is a w:softHyphen item.
type SoftHyphen struct{}

// NoBreakHyphen is a w:noBreakHyphen item.
type NoBreakHyphen struct{}

// BreakType is the value of w:br/@w:type. Values outside the known set are
// kept verbatim.
type BreakType string

const (
	BreakTextWrapping BreakType = "textWrapping"
	BreakPage         BreakType = "page"
	BreakColumn       BreakType = "column"
)

// Break is a w:br item. An empty Type means a text-wrapping break.
type Break struct {
	Type  BreakType
	Clear string
}

func (Text) isRunContent()           {}
func (Tab) isRunContent()            {}
func (CarriageReturn) isRunContent() {}
func (SoftHyphen) isRunContent()     {}
func (NoBreakHyphen) isRunContent()  {}
func (Break) isRunContent()          {}

// IsLineBreak reports whether the break moves text to the next line. Any
// type other than page or column is a text-wrapping break.
func (b Break) IsLineBreak() bool {
	return b.Type != BreakPage && b.Type != BreakColumn
}

// RunProperties represents run formatting properties
type RunProperties struct {
	Style         string
	Fonts         *RunFonts
	Bold          *bool
	Italic        *bool
	Strike        *bool
	DoubleStrike  *bool
	Underline     string
	Color         string
	Size          *int // half-points
	Highlight     string
	VerticalAlign string
	// Unknown keeps property elements that are not modeled
	Unknown []*RawElement
}

// RunFonts represents w:rFonts.
type RunFonts struct {
	ASCII    string
	HAnsi    string
	EastAsia string
	CS       string
	Hint     string
	// Other keeps theme font attributes and anything else on the element
	Other []Attr
}

// NewRun creates a run holding text. An empty string yields an empty run.
func NewRun(text string) *Run {
	r := &Run{}
	if text != "" {
		r.Content = []RunContent{Text{Value: text}}
	}
	return r
}

// ParseRun decodes a w:r element.
func ParseRun(d *Decoder, start xml.StartElement) (*Run, error) {
	r := &Run{Attrs: convertAttrs(start.Attr)}
	err := decodeChildren(d, start, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "rPr":
			props, err := ParseRunProperties(d, t)
			if err != nil {
				return err
			}
			r.Properties = props
		case "t":
			text, err := readText(d, t)
			if err != nil {
				return err
			}
			r.Content = append(r.Content, Text{Value: text})
		case "tab":
			r.Content = append(r.Content, Tab{})
			return d.Skip(t)
		case "br":
			br := Break{}
			if v, ok := attrValue(t, "w:type", "type"); ok {
				br.Type = BreakType(v)
			}
			if v, ok := attrValue(t, "w:clear", "clear"); ok {
				br.Clear = v
			}
			r.Content = append(r.Content, br)
			return d.Skip(t)
		case "cr":
			r.Content = append(r.Content, CarriageReturn{})
			return d.Skip(t)
		case "softHyphen":
			r.Content = append(r.Content, SoftHyphen{})
			return d.Skip(t)
		case "noBreakHyphen":
			r.Content = append(r.Content, NoBreakHyphen{})
			return d.Skip(t)
		default:
			raw, err := ParseRawElement(d, t)
			if err != nil {
				return err
			}
			r.Content = append(r.Content, raw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ParseRunProperties decodes a w:rPr element.
func ParseRunProperties(d *Decoder, start xml.StartElement) (*RunProperties, error) {
	p := &RunProperties{}
	err := decodeChildren(d, start, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "rStyle":
			p.Style, _ = valAttr(t)
		case "rFonts":
			p.Fonts = parseRunFonts(t)
		case "b":
			p.Bold = boolPtr(parseToggle(t))
		case "i":
			p.Italic = boolPtr(parseToggle(t))
		case "strike":
			p.Strike = boolPtr(parseToggle(t))
		case "dstrike":
			p.DoubleStrike = boolPtr(parseToggle(t))
		case "u":
			if v, ok := valAttr(t); ok {
				p.Underline = v
			} else {
				p.Underline = "single"
			}
		case "color":
			p.Color, _ = valAttr(t)
		case "sz":
			p.Size = intVal(t)
		case "highlight":
			p.Highlight, _ = valAttr(t)
		case "vertAlign":
			p.VerticalAlign, _ = valAttr(t)
		default:
			raw, err := ParseRawElement(d, t)
			if err != nil {
				return err
			}
			p.Unknown = append(p.Unknown, raw)
			return nil
		}
		return d.Skip(t)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func parseRunFonts(t xml.StartElement) *RunFonts {
	f := &RunFonts{}
	f.ASCII, _ = attrValue(t, "w:ascii", "ascii")
	f.HAnsi, _ = attrValue(t, "w:hAnsi", "hAnsi")
	f.EastAsia, _ = attrValue(t, "w:eastAsia", "eastAsia")
	f.CS, _ = attrValue(t, "w:cs", "cs")
	f.Hint, _ = attrValue(t, "w:hint", "hint")
	f.Other = otherAttrs(t,
		"w:ascii", "ascii", "w:hAnsi", "hAnsi", "w:eastAsia", "eastAsia",
		"w:cs", "cs", "w:hint", "hint")
	return f
}

// IsEmpty reports whether no property is set.
func (p *RunProperties) IsEmpty() bool {
	return p == nil || (p.Style == "" && p.Fonts == nil && p.Bold == nil && p.Italic == nil &&
		p.Strike == nil && p.DoubleStrike == nil && p.Underline == "" && p.Color == "" &&
		p.Size == nil && p.Highlight == "" && p.VerticalAlign == "" && len(p.Unknown) == 0)
}

// EncodeXML writes w:rPr. Nothing is written for an empty bag.
func (p *RunProperties) EncodeXML(e *Encoder) {
	if p.IsEmpty() {
		return
	}
	e.Start("w:rPr")
	if p.Style != "" {
		valElement(e, "w:rStyle", p.Style)
	}
	if p.Fonts != nil {
		p.Fonts.EncodeXML(e)
	}
	toggleElement(e, "w:b", p.Bold)
	toggleElement(e, "w:i", p.Italic)
	toggleElement(e, "w:strike", p.Strike)
	toggleElement(e, "w:dstrike", p.DoubleStrike)
	if p.Underline != "" {
		valElement(e, "w:u", p.Underline)
	}
	if p.Color != "" {
		valElement(e, "w:color", p.Color)
	}
	if p.Size != nil {
		intElement(e, "w:sz", *p.Size)
	}
	if p.Highlight != "" {
		valElement(e, "w:highlight", p.Highlight)
	}
	if p.VerticalAlign != "" {
		valElement(e, "w:vertAlign", p.VerticalAlign)
	}
	encodeRawList(e, p.Unknown)
	e.End("w:rPr")
}

// EncodeXML writes w:rFonts.
func (f *RunFonts) EncodeXML(e *Encoder) {
	var attrs []Attr
	add := func(name, val string) {
		if val != "" {
			attrs = append(attrs, Attr{Name: name, Value: val})
		}
	}
	add("w:ascii", f.ASCII)
	add("w:hAnsi", f.HAnsi)
	add("w:eastAsia", f.EastAsia)
	add("w:cs", f.CS)
	add("w:hint", f.Hint)
	attrs = append(attrs, f.Other...)
	e.Empty("w:rFonts", attrs...)
}

// EncodeXML writes the run. A run with nothing inside is self-closing.
func (r *Run) EncodeXML(e *Encoder) {
	if r.Properties.IsEmpty() && len(r.Content) == 0 {
		e.Empty("w:r", r.Attrs...)
		return
	}
	e.Start("w:r", r.Attrs...)
	if r.Properties != nil {
		r.Properties.EncodeXML(e)
	}
	for _, c := range r.Content {
		switch v := c.(type) {
		case Text:
			if needsSpacePreserve(v.Value) {
				e.Start("w:t", Attr{Name: "xml:space", Value: "preserve"})
			} else {
				e.Start("w:t")
			}
			e.Text(v.Value)
			e.End("w:t")
		case Tab:
			e.Empty("w:tab")
		case Break:
			var attrs []Attr
			if v.Type != "" {
				attrs = append(attrs, Attr{Name: "w:type", Value: string(v.Type)})
			}
			if v.Clear != "" {
				attrs = append(attrs, Attr{Name: "w:clear", Value: v.Clear})
			}
			e.Empty("w:br", attrs...)
		case CarriageReturn:
			e.Empty("w:cr")
		case SoftHyphen:
			e.Empty("w:softHyphen")
		case NoBreakHyphen:
			e.Empty("w:noBreakHyphen")
		case *RawElement:
			v.EncodeXML(e)
		}
	}
	e.End("w:r")
}

func needsSpacePreserve(s string) bool {
	if s == "" {
		return false
	}
	return strings.TrimSpace(s) != s || strings.Contains(s, "  ")
}

// Text returns the visible text of the run. Tabs become '\t', line breaks
// and carriage returns become '\n'; hyphen markers, page and column breaks
// and preserved elements contribute nothing.
func (r *Run) Text() string {
	var sb strings.Builder
	for _, c := range r.Content {
		switch v := c.(type) {
		case Text:
			sb.WriteString(v.Value)
		case Tab:
			sb.WriteByte('\t')
		case Break:
			if v.IsLineBreak() {
				sb.WriteByte('\n')
			}
		case CarriageReturn:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// IsEmpty reports whether the run has neither properties nor content.
func (r *Run) IsEmpty() bool {
	return r.Properties.IsEmpty() && len(r.Content) == 0
}

// HasOnlyText reports whether every content item is a Text.
func (r *Run) HasOnlyText() bool {
	for _, c := range r.Content {
		if _, ok := c.(Text); !ok {
			return false
		}
	}
	return len(r.Content) > 0
}

// SetText replaces the content with a single text item.
func (r *Run) SetText(text string) {
	r.Content = []RunContent{Text{Value: text}}
}

// AddText appends a text item.
func (r *Run) AddText(text string) {
	r.Content = append(r.Content, Text{Value: text})
}

// AddTab appends a tab.
func (r *Run) AddTab() {
	r.Content = append(r.Content, Tab{})
}

// AddBreak appends a break of the given type.
func (r *Run) AddBreak(t BreakType) {
	r.Content = append(r.Content, Break{Type: t})
}

func (r *Run) props() *RunProperties {
	if r.Properties == nil {
		r.Properties = &RunProperties{}
	}
	return r.Properties
}

func toggleValue(b *bool) bool {
	return b != nil && *b
}

// Bold reports whether the run is bold; unset means false.
func (r *Run) Bold() bool {
	return r.Properties != nil && toggleValue(r.Properties.Bold)
}

// Italic reports whether the run is italic; unset means false.
func (r *Run) Italic() bool {
	return r.Properties != nil && toggleValue(r.Properties.Italic)
}

// Strike reports whether the run is struck through; unset means false.
func (r *Run) Strike() bool {
	return r.Properties != nil && toggleValue(r.Properties.Strike)
}

// DoubleStrike reports whether the run is double struck; unset means false.
func (r *Run) DoubleStrike() bool {
	return r.Properties != nil && toggleValue(r.Properties.DoubleStrike)
}

// Underline returns the underline style, or "" when unset.
func (r *Run) Underline() string {
	if r.Properties == nil {
		return ""
	}
	return r.Properties.Underline
}

// Style returns the character style id, or "" when unset.
func (r *Run) Style() string {
	if r.Properties == nil {
		return ""
	}
	return r.Properties.Style
}

// Color returns the hex color, or "" when unset.
func (r *Run) Color() string {
	if r.Properties == nil {
		return ""
	}
	return r.Properties.Color
}

// Highlight returns the highlight color name, or "" when unset.
func (r *Run) Highlight() string {
	if r.Properties == nil {
		return ""
	}
	return r.Properties.Highlight
}

// VerticalAlign returns superscript/subscript/baseline, or "" when unset.
func (r *Run) VerticalAlign() string {
	if r.Properties == nil {
		return ""
	}
	return r.Properties.VerticalAlign
}

// FontASCII returns the ASCII font name, or "" when unset.
func (r *Run) FontASCII() string {
	if r.Properties == nil || r.Properties.Fonts == nil {
		return ""
	}
	return r.Properties.Fonts.ASCII
}

// FontEastAsia returns the East Asian font name, or "" when unset.
func (r *Run) FontEastAsia() string {
	if r.Properties == nil || r.Properties.Fonts == nil {
		return ""
	}
	return r.Properties.Fonts.EastAsia
}

// FontSizePt returns the font size in points and whether it is set.
func (r *Run) FontSizePt() (float64, bool) {
	if r.Properties == nil || r.Properties.Size == nil {
		return 0, false
	}
	return float64(*r.Properties.Size) / 2, true
}

// SetFontSizePt stores the size in half-points, rounding to the nearest
// half point.
func (r *Run) SetFontSizePt(pt float64) {
	r.props().Size = intPtr(int(math.Round(pt * 2)))
}

func (r *Run) SetBold(on bool)         { r.props().Bold = boolPtr(on) }
func (r *Run) SetItalic(on bool)       { r.props().Italic = boolPtr(on) }
func (r *Run) SetStrike(on bool)       { r.props().Strike = boolPtr(on) }
func (r *Run) SetDoubleStrike(on bool) { r.props().DoubleStrike = boolPtr(on) }
func (r *Run) SetUnderline(s string)   { r.props().Underline = s }
func (r *Run) SetStyle(id string)      { r.props().Style = id }
func (r *Run) SetColor(hex string)     { r.props().Color = hex }
func (r *Run) SetHighlight(c string)   { r.props().Highlight = c }
func (r *Run) SetVerticalAlign(v string) {
	r.props().VerticalAlign = v
}

// SetFontASCII sets the ASCII and high-ANSI font.
func (r *Run) SetFontASCII(name string) {
	p := r.props()
	if p.Fonts == nil {
		p.Fonts = &RunFonts{}
	}
	p.Fonts.ASCII = name
	p.Fonts.HAnsi = name
}

// SetFontEastAsia sets the East Asian font.
func (r *Run) SetFontEastAsia(name string) {
	p := r.props()
	if p.Fonts == nil {
		p.Fonts = &RunFonts{}
	}
	p.Fonts.EastAsia = name
}
