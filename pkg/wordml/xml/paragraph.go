package xml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Paragraph represents a paragraph in the document
type Paragraph struct {
	// Attrs holds paragraph attributes such as w14:paraId
	Attrs []Attr
	// Properties is the optional w:pPr bag
	Properties *ParagraphProperties
	// Content holds runs, hyperlinks, bookmarks and preserved elements in order
	Content []ParagraphContent
}

func (p *Paragraph) isBodyElement() {}

// ParagraphProperties represents paragraph formatting properties
type ParagraphProperties struct {
	Style         string
	Justification string
	// NumID and NumLevel come from w:numPr; either may be absent
	NumID    *int
	NumLevel *int
	// NumUnknown keeps the other children of w:numPr, such as w:ins
	NumUnknown   []*RawElement
	OutlineLevel *int
	Unknown      []*RawElement
}

// NumberingRef is a paragraph's reference into the numbering part.
type NumberingRef struct {
	NumID int
	Level int
}

// Hyperlink represents a hyperlink wrapper around runs
type Hyperlink struct {
	// RelID is the r:id of an external target
	RelID string
	// Anchor is the bookmark name of an internal target
	Anchor  string
	Attrs   []Attr
	Runs    []*Run
	Unknown []*RawElement
}

func (h *Hyperlink) isParagraphContent() {}

// BookmarkStart marks the start of a named range. Ids are kept as strings.
type BookmarkStart struct {
	ID    string
	Name  string
	Attrs []Attr
}

// BookmarkEnd marks the end of a named range.
type BookmarkEnd struct {
	ID    string
	Attrs []Attr
}

func (b *BookmarkStart) isParagraphContent() {}
func (b *BookmarkEnd) isParagraphContent()   {}

// NewParagraph creates a paragraph with a single run of text. An empty
// string yields an empty paragraph.
func NewParagraph(text string) *Paragraph {
	p := &Paragraph{}
	if text != "" {
		p.Content = []ParagraphContent{NewRun(text)}
	}
	return p
}

// ParseParagraph decodes a w:p element.
func ParseParagraph(d *Decoder, start xml.StartElement) (*Paragraph, error) {
	p := &Paragraph{Attrs: convertAttrs(start.Attr)}
	err := decodeContent(d, start, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "pPr":
			props, err := ParseParagraphProperties(d, t)
			if err != nil {
				return err
			}
			p.Properties = props
		case "r":
			run, err := ParseRun(d, t)
			if err != nil {
				return err
			}
			p.Content = append(p.Content, run)
		case "hyperlink":
			link, err := ParseHyperlink(d, t)
			if err != nil {
				return err
			}
			p.Content = append(p.Content, link)
		case "bookmarkStart":
			id, _ := attrValue(t, "w:id", "id")
			name, _ := attrValue(t, "w:name", "name")
			p.Content = append(p.Content, &BookmarkStart{
				ID:    id,
				Name:  name,
				Attrs: otherAttrs(t, "w:id", "id", "w:name", "name"),
			})
			return d.Skip(t)
		case "bookmarkEnd":
			id, _ := attrValue(t, "w:id", "id")
			p.Content = append(p.Content, &BookmarkEnd{
				ID:    id,
				Attrs: otherAttrs(t, "w:id", "id"),
			})
			return d.Skip(t)
		default:
			raw, err := ParseRawElement(d, t)
			if err != nil {
				return err
			}
			p.Content = append(p.Content, raw)
		}
		return nil
	}, func(c RawComment) {
		p.Content = append(p.Content, c)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ParseParagraphProperties decodes a w:pPr element.
func ParseParagraphProperties(d *Decoder, start xml.StartElement) (*ParagraphProperties, error) {
	pp := &ParagraphProperties{}
	err := decodeChildren(d, start, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "pStyle":
			pp.Style, _ = valAttr(t)
		case "jc":
			pp.Justification, _ = valAttr(t)
		case "outlineLvl":
			pp.OutlineLevel = intVal(t)
		case "numPr":
			return decodeChildren(d, t, func(n xml.StartElement) error {
				switch n.Name.Local {
				case "ilvl":
					pp.NumLevel = intVal(n)
				case "numId":
					pp.NumID = intVal(n)
				default:
					raw, err := ParseRawElement(d, n)
					if err != nil {
						return err
					}
					pp.NumUnknown = append(pp.NumUnknown, raw)
					return nil
				}
				return d.Skip(n)
			})
		default:
			raw, err := ParseRawElement(d, t)
			if err != nil {
				return err
			}
			pp.Unknown = append(pp.Unknown, raw)
			return nil
		}
		return d.Skip(t)
	})
	if err != nil {
		return nil, err
	}
	return pp, nil
}

// ParseHyperlink decodes a w:hyperlink element.
func ParseHyperlink(d *Decoder, start xml.StartElement) (*Hyperlink, error) {
	h := &Hyperlink{}
	h.RelID, _ = attrValue(start, "r:id")
	h.Anchor, _ = attrValue(start, "w:anchor", "anchor")
	h.Attrs = otherAttrs(start, "r:id", "w:anchor", "anchor")
	err := decodeChildren(d, start, func(t xml.StartElement) error {
		if t.Name.Local == "r" {
			run, err := ParseRun(d, t)
			if err != nil {
				return err
			}
			h.Runs = append(h.Runs, run)
			return nil
		}
		raw, err := ParseRawElement(d, t)
		if err != nil {
			return err
		}
		h.Unknown = append(h.Unknown, raw)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// IsEmpty reports whether no property is set.
func (pp *ParagraphProperties) IsEmpty() bool {
	return pp == nil || (pp.Style == "" && pp.Justification == "" && pp.NumID == nil &&
		pp.NumLevel == nil && len(pp.NumUnknown) == 0 && pp.OutlineLevel == nil && len(pp.Unknown) == 0)
}

// EncodeXML writes w:pPr. Nothing is written for an empty bag.
func (pp *ParagraphProperties) EncodeXML(e *Encoder) {
	if pp.IsEmpty() {
		return
	}
	e.Start("w:pPr")
	if pp.Style != "" {
		valElement(e, "w:pStyle", pp.Style)
	}
	if pp.NumID != nil || pp.NumLevel != nil || len(pp.NumUnknown) > 0 {
		e.Start("w:numPr")
		if pp.NumLevel != nil {
			intElement(e, "w:ilvl", *pp.NumLevel)
		}
		if pp.NumID != nil {
			intElement(e, "w:numId", *pp.NumID)
		}
		encodeRawList(e, pp.NumUnknown)
		e.End("w:numPr")
	}
	if pp.Justification != "" {
		valElement(e, "w:jc", pp.Justification)
	}
	if pp.OutlineLevel != nil {
		intElement(e, "w:outlineLvl", *pp.OutlineLevel)
	}
	encodeRawList(e, pp.Unknown)
	e.End("w:pPr")
}

// EncodeXML writes the hyperlink.
func (h *Hyperlink) EncodeXML(e *Encoder) {
	var attrs []Attr
	if h.RelID != "" {
		attrs = append(attrs, Attr{Name: "r:id", Value: h.RelID})
	}
	if h.Anchor != "" {
		attrs = append(attrs, Attr{Name: "w:anchor", Value: h.Anchor})
	}
	attrs = append(attrs, h.Attrs...)
	if len(h.Runs) == 0 && len(h.Unknown) == 0 {
		e.Empty("w:hyperlink", attrs...)
		return
	}
	e.Start("w:hyperlink", attrs...)
	for _, r := range h.Runs {
		r.EncodeXML(e)
	}
	encodeRawList(e, h.Unknown)
	e.End("w:hyperlink")
}

// EncodeXML writes the paragraph. A paragraph with nothing inside is
// self-closing.
func (p *Paragraph) EncodeXML(e *Encoder) {
	if p.Properties.IsEmpty() && len(p.Content) == 0 {
		e.Empty("w:p", p.Attrs...)
		return
	}
	e.Start("w:p", p.Attrs...)
	if p.Properties != nil {
		p.Properties.EncodeXML(e)
	}
	for _, c := range p.Content {
		switch v := c.(type) {
		case *Run:
			v.EncodeXML(e)
		case *Hyperlink:
			v.EncodeXML(e)
		case *BookmarkStart:
			attrs := []Attr{{Name: "w:id", Value: v.ID}, {Name: "w:name", Value: v.Name}}
			e.Empty("w:bookmarkStart", append(attrs, v.Attrs...)...)
		case *BookmarkEnd:
			attrs := []Attr{{Name: "w:id", Value: v.ID}}
			e.Empty("w:bookmarkEnd", append(attrs, v.Attrs...)...)
		case *RawElement:
			v.EncodeXML(e)
		case RawComment:
			v.encodeRaw(e)
		}
	}
	e.End("w:p")
}

// Text returns the text of all runs, including runs inside hyperlinks, in
// document order.
func (h *Hyperlink) Text() string {
	var sb strings.Builder
	for _, r := range h.Runs {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// Text returns the paragraph text. Bookmarks and preserved elements
// contribute nothing.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, c := range p.Content {
		switch v := c.(type) {
		case *Run:
			sb.WriteString(v.Text())
		case *Hyperlink:
			sb.WriteString(v.Text())
		}
	}
	return sb.String()
}

// Runs returns the runs that are direct children of the paragraph.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, c := range p.Content {
		if r, ok := c.(*Run); ok {
			runs = append(runs, r)
		}
	}
	return runs
}

// AllRuns returns direct runs and hyperlink runs in document order.
func (p *Paragraph) AllRuns() []*Run {
	var runs []*Run
	for _, c := range p.Content {
		switch v := c.(type) {
		case *Run:
			runs = append(runs, v)
		case *Hyperlink:
			runs = append(runs, v.Runs...)
		}
	}
	return runs
}

// Hyperlinks returns the paragraph's hyperlinks.
func (p *Paragraph) Hyperlinks() []*Hyperlink {
	var links []*Hyperlink
	for _, c := range p.Content {
		if h, ok := c.(*Hyperlink); ok {
			links = append(links, h)
		}
	}
	return links
}

// Bookmarks returns the names of bookmarks started in the paragraph.
func (p *Paragraph) Bookmarks() []string {
	var names []string
	for _, c := range p.Content {
		if b, ok := c.(*BookmarkStart); ok {
			names = append(names, b.Name)
		}
	}
	return names
}

// AddRun appends a run.
func (p *Paragraph) AddRun(r *Run) *Run {
	p.Content = append(p.Content, r)
	return r
}

// AddText appends a new run holding text and returns it.
func (p *Paragraph) AddText(text string) *Run {
	return p.AddRun(NewRun(text))
}

// AddHyperlink appends a link to an external relationship id with one run of
// text and returns it.
func (p *Paragraph) AddHyperlink(relID, text string) *Hyperlink {
	h := &Hyperlink{RelID: relID, Runs: []*Run{NewRun(text)}}
	p.Content = append(p.Content, h)
	return h
}

// AddBookmark wraps nothing with a start/end pair carrying id and name.
func (p *Paragraph) AddBookmark(id int, name string) {
	sid := strconv.Itoa(id)
	p.Content = append(p.Content, &BookmarkStart{ID: sid, Name: name}, &BookmarkEnd{ID: sid})
}

// IsEmpty reports whether the paragraph has neither properties nor content.
func (p *Paragraph) IsEmpty() bool {
	return p.Properties.IsEmpty() && len(p.Content) == 0
}

func (p *Paragraph) props() *ParagraphProperties {
	if p.Properties == nil {
		p.Properties = &ParagraphProperties{}
	}
	return p.Properties
}

// Style returns the paragraph style id, or "" when unset.
func (p *Paragraph) Style() string {
	if p.Properties == nil {
		return ""
	}
	return p.Properties.Style
}

// SetStyle sets the paragraph style id.
func (p *Paragraph) SetStyle(id string) {
	p.props().Style = id
}

// Justification returns the w:jc value, or "" when unset.
func (p *Paragraph) Justification() string {
	if p.Properties == nil {
		return ""
	}
	return p.Properties.Justification
}

// SetJustification sets w:jc (left, center, right, both, ...).
func (p *Paragraph) SetJustification(jc string) {
	p.props().Justification = jc
}

// OutlineLevel returns the outline level and whether it is set.
func (p *Paragraph) OutlineLevel() (int, bool) {
	if p.Properties == nil || p.Properties.OutlineLevel == nil {
		return 0, false
	}
	return *p.Properties.OutlineLevel, true
}

// SetOutlineLevel sets the outline level.
func (p *Paragraph) SetOutlineLevel(level int) {
	p.props().OutlineLevel = intPtr(level)
}

// IsHeading reports whether the paragraph has an outline level or a style id
// starting with "Heading" or "heading".
func (p *Paragraph) IsHeading() bool {
	if _, ok := p.OutlineLevel(); ok {
		return true
	}
	style := p.Style()
	return strings.HasPrefix(style, "Heading") || strings.HasPrefix(style, "heading")
}

// HeadingLevel returns the 1-based heading level derived from the outline
// level or from a trailing digit in the style id, and whether one was found.
func (p *Paragraph) HeadingLevel() (int, bool) {
	if lvl, ok := p.OutlineLevel(); ok {
		return lvl + 1, true
	}
	if !p.IsHeading() {
		return 0, false
	}
	digits := strings.TrimLeft(p.Style()[len("heading"):], " ")
	if n, err := strconv.Atoi(digits); err == nil && n > 0 {
		return n, true
	}
	return 0, false
}

// Numbering returns the paragraph's numbering reference. The level defaults
// to 0 when only a num id is present.
func (p *Paragraph) Numbering() (NumberingRef, bool) {
	if p.Properties == nil || p.Properties.NumID == nil {
		return NumberingRef{}, false
	}
	ref := NumberingRef{NumID: *p.Properties.NumID}
	if p.Properties.NumLevel != nil {
		ref.Level = *p.Properties.NumLevel
	}
	return ref, true
}

// SetNumbering points the paragraph at a numbering instance and level.
func (p *Paragraph) SetNumbering(numID, level int) {
	pp := p.props()
	pp.NumID = intPtr(numID)
	pp.NumLevel = intPtr(level)
}

// ClearNumbering removes the numbering reference.
func (p *Paragraph) ClearNumbering() {
	if p.Properties == nil {
		return
	}
	p.Properties.NumID = nil
	p.Properties.NumLevel = nil
	p.Properties.NumUnknown = nil
}
