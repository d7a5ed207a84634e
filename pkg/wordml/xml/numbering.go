package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// NumberFormat is the w:numFmt value of a numbering level. Values outside the
// known set are kept verbatim.
type NumberFormat string

const (
	NumFmtDecimal                   NumberFormat = "decimal"
	NumFmtUpperRoman                NumberFormat = "upperRoman"
	NumFmtLowerRoman                NumberFormat = "lowerRoman"
	NumFmtUpperLetter               NumberFormat = "upperLetter"
	NumFmtLowerLetter               NumberFormat = "lowerLetter"
	NumFmtBullet                    NumberFormat = "bullet"
	NumFmtChineseCounting           NumberFormat = "chineseCounting"
	NumFmtChineseCountingThousand   NumberFormat = "chineseCountingThousand"
	NumFmtIdeographLegalTraditional NumberFormat = "ideographLegalTraditional"
	NumFmtIdeographTraditional      NumberFormat = "ideographTraditional"
	NumFmtIdeographEnclosedCircle   NumberFormat = "ideographEnclosedCircle"
	NumFmtDecimalZero               NumberFormat = "decimalZero"
	NumFmtTaiwaneseCounting         NumberFormat = "taiwaneseCounting"
	NumFmtNone                      NumberFormat = "none"
)

var knownNumberFormats = map[NumberFormat]bool{
	NumFmtDecimal: true, NumFmtUpperRoman: true, NumFmtLowerRoman: true,
	NumFmtUpperLetter: true, NumFmtLowerLetter: true, NumFmtBullet: true,
	NumFmtChineseCounting: true, NumFmtChineseCountingThousand: true,
	NumFmtIdeographLegalTraditional: true, NumFmtIdeographTraditional: true,
	NumFmtIdeographEnclosedCircle: true, NumFmtDecimalZero: true,
	NumFmtTaiwaneseCounting: true, NumFmtNone: true,
}

// Known reports whether the format is one of the modeled values.
func (f NumberFormat) Known() bool {
	return knownNumberFormats[f]
}

// IsBullet reports whether the format is a bullet.
func (f NumberFormat) IsBullet() bool {
	return f == NumFmtBullet
}

// IsNumbered reports whether the format produces a counter.
func (f NumberFormat) IsNumbered() bool {
	return f != "" && f != NumFmtBullet && f != NumFmtNone
}

// Numbering represents the numbering part (w:numbering)
type Numbering struct {
	// Attrs preserves root attributes of a parsed part
	Attrs        []Attr
	AbstractNums map[int]*AbstractNum
	Nums         map[int]*Num
	// Unknown keeps w:numPicBullet, w:numIdMacAtCleanup and the like
	Unknown []*RawElement

	nextAbstractID int
	nextNumID      int
}

// AbstractNum is a numbering template (w:abstractNum)
type AbstractNum struct {
	ID             int
	Attrs          []Attr
	MultiLevelType string
	// Levels is keyed by ilvl
	Levels  map[int]*Level
	Unknown []*RawElement
}

// Num is a numbering instance referenced by paragraphs (w:num)
type Num struct {
	ID            int
	AbstractNumID int
	Attrs         []Attr
	Overrides     []*LevelOverride
	Unknown       []*RawElement
}

// Level is the definition of one indent depth (w:lvl)
type Level struct {
	ILvl                int
	Attrs               []Attr
	Start               *int
	NumFmt              NumberFormat
	LevelText           *string
	Justification       string
	ParagraphProperties *LevelParagraphProperties
	RunProperties       *RunProperties
	Unknown             []*RawElement
}

// LevelParagraphProperties is the w:pPr of a level.
type LevelParagraphProperties struct {
	Indent  *Indent
	Unknown []*RawElement
}

// Indent is w:ind; Left and Hanging are in twips. LeftName is the
// attribute Left was read from (w:left or w:start); empty means w:left.
type Indent struct {
	Left     *int
	LeftName string
	Hanging  *int
	Other    []Attr
}

var indentLeftNames = []string{"w:left", "w:start", "left", "start"}

func parseIndent(start xml.StartElement) *Indent {
	ind := &Indent{Hanging: intAttr(start, "w:hanging", "hanging")}
	known := []string{"w:hanging", "hanging"}
	if ind.Hanging == nil {
		known = nil
	}
	for _, name := range indentLeftNames {
		if n := intAttr(start, name); n != nil {
			ind.Left = n
			ind.LeftName = name
			known = append(known, name)
			break
		}
	}
	ind.Other = otherAttrs(start, known...)
	return ind
}

// LevelOverride is a per-level override of a Num (w:lvlOverride)
type LevelOverride struct {
	ILvl          int
	StartOverride *int
	Level         *Level
	Unknown       []*RawElement
}

// NewNumbering creates an empty numbering part.
func NewNumbering() *Numbering {
	return &Numbering{
		AbstractNums: make(map[int]*AbstractNum),
		Nums:         make(map[int]*Num),
	}
}

// NewAbstractNum creates a hybrid multilevel template without levels.
func NewAbstractNum(id int) *AbstractNum {
	return &AbstractNum{
		ID:             id,
		MultiLevelType: "hybridMultilevel",
		Levels:         make(map[int]*Level),
	}
}

// NewLevel creates a level starting at 1.
func NewLevel(ilvl int, format NumberFormat, text, jc string) *Level {
	return &Level{
		ILvl:          ilvl,
		Start:         intPtr(1),
		NumFmt:        format,
		LevelText:     stringPtr(text),
		Justification: jc,
	}
}

// AddLevel stores a level under its ilvl, replacing any previous one.
func (a *AbstractNum) AddLevel(l *Level) {
	if a.Levels == nil {
		a.Levels = make(map[int]*Level)
	}
	a.Levels[l.ILvl] = l
}

// ParseNumbering decodes a numbering part.
func ParseNumbering(data []byte) (*Numbering, error) {
	return DecodeNumbering(bytes.NewReader(data))
}

// DecodeNumbering decodes a numbering part from r.
func DecodeNumbering(r io.Reader) (*Numbering, error) {
	d := NewDecoder(r)
	start, err := readRoot(d)
	if err == io.EOF {
		return NewNumbering(), nil
	}
	if err != nil {
		return nil, err
	}

	n := NewNumbering()
	n.Attrs = convertAttrs(start.Attr)
	err = decodeChildren(d, start, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "abstractNum":
			a, err := parseAbstractNum(d, t)
			if err != nil {
				return err
			}
			n.AbstractNums[a.ID] = a
		case "num":
			num, err := parseNum(d, t)
			if err != nil {
				return err
			}
			n.Nums[num.ID] = num
		default:
			raw, err := ParseRawElement(d, t)
			if err != nil {
				return err
			}
			n.Unknown = append(n.Unknown, raw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	n.resetCounters()
	return n, nil
}

func (n *Numbering) resetCounters() {
	n.nextAbstractID, n.nextNumID = 0, 0
	for id := range n.AbstractNums {
		if id+1 > n.nextAbstractID {
			n.nextAbstractID = id + 1
		}
	}
	for id := range n.Nums {
		if id+1 > n.nextNumID {
			n.nextNumID = id + 1
		}
	}
}

func parseAbstractNum(d *Decoder, start xml.StartElement) (*AbstractNum, error) {
	a := &AbstractNum{
		ID:     idAttr(start, "w:abstractNumId", "abstractNumId"),
		Attrs:  otherAttrs(start, "w:abstractNumId", "abstractNumId"),
		Levels: make(map[int]*Level),
	}
	err := decodeChildren(d, start, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "multiLevelType":
			a.MultiLevelType, _ = valAttr(t)
			return d.Skip(t)
		case "lvl":
			l, err := parseLevel(d, t)
			if err != nil {
				return err
			}
			a.Levels[l.ILvl] = l
		default:
			raw, err := ParseRawElement(d, t)
			if err != nil {
				return err
			}
			a.Unknown = append(a.Unknown, raw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func parseNum(d *Decoder, start xml.StartElement) (*Num, error) {
	num := &Num{
		ID:    idAttr(start, "w:numId", "numId"),
		Attrs: otherAttrs(start, "w:numId", "numId"),
	}
	err := decodeChildren(d, start, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "abstractNumId":
			if v := intVal(t); v != nil {
				num.AbstractNumID = *v
			}
			return d.Skip(t)
		case "lvlOverride":
			o, err := parseLevelOverride(d, t)
			if err != nil {
				return err
			}
			num.Overrides = append(num.Overrides, o)
		default:
			raw, err := ParseRawElement(d, t)
			if err != nil {
				return err
			}
			num.Unknown = append(num.Unknown, raw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return num, nil
}

func parseLevelOverride(d *Decoder, start xml.StartElement) (*LevelOverride, error) {
	o := &LevelOverride{ILvl: idAttr(start, "w:ilvl", "ilvl")}
	err := decodeChildren(d, start, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "startOverride":
			o.StartOverride = intVal(t)
			return d.Skip(t)
		case "lvl":
			l, err := parseLevel(d, t)
			if err != nil {
				return err
			}
			o.Level = l
		default:
			raw, err := ParseRawElement(d, t)
			if err != nil {
				return err
			}
			o.Unknown = append(o.Unknown, raw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func parseLevel(d *Decoder, start xml.StartElement) (*Level, error) {
	l := &Level{
		ILvl:  idAttr(start, "w:ilvl", "ilvl"),
		Attrs: otherAttrs(start, "w:ilvl", "ilvl"),
	}
	err := decodeChildren(d, start, func(t xml.StartElement) error {
		switch t.Name.Local {
		case "start":
			l.Start = intVal(t)
		case "numFmt":
			v, _ := valAttr(t)
			l.NumFmt = NumberFormat(v)
		case "lvlText":
			if v, ok := valAttr(t); ok {
				l.LevelText = stringPtr(v)
			}
		case "lvlJc":
			l.Justification, _ = valAttr(t)
		case "pPr":
			pp, err := parseLevelParagraphProperties(d, t)
			if err != nil {
				return err
			}
			l.ParagraphProperties = pp
			return nil
		case "rPr":
			rp, err := ParseRunProperties(d, t)
			if err != nil {
				return err
			}
			l.RunProperties = rp
			return nil
		default:
			raw, err := ParseRawElement(d, t)
			if err != nil {
				return err
			}
			l.Unknown = append(l.Unknown, raw)
			return nil
		}
		return d.Skip(t)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func parseLevelParagraphProperties(d *Decoder, start xml.StartElement) (*LevelParagraphProperties, error) {
	pp := &LevelParagraphProperties{}
	err := decodeChildren(d, start, func(t xml.StartElement) error {
		if t.Name.Local == "ind" {
			pp.Indent = parseIndent(t)
			return d.Skip(t)
		}
		raw, err := ParseRawElement(d, t)
		if err != nil {
			return err
		}
		pp.Unknown = append(pp.Unknown, raw)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pp, nil
}

// EncodeXML writes the level.
func (l *Level) EncodeXML(e *Encoder) {
	attrs := append([]Attr{{Name: "w:ilvl", Value: strconv.Itoa(l.ILvl)}}, l.Attrs...)
	e.Start("w:lvl", attrs...)
	if l.Start != nil {
		intElement(e, "w:start", *l.Start)
	}
	if l.NumFmt != "" {
		valElement(e, "w:numFmt", string(l.NumFmt))
	}
	if l.LevelText != nil {
		valElement(e, "w:lvlText", *l.LevelText)
	}
	if l.Justification != "" {
		valElement(e, "w:lvlJc", l.Justification)
	}
	if pp := l.ParagraphProperties; pp != nil && (pp.Indent != nil || len(pp.Unknown) > 0) {
		e.Start("w:pPr")
		if pp.Indent != nil {
			var ind []Attr
			if pp.Indent.Left != nil {
				name := pp.Indent.LeftName
				if name == "" {
					name = "w:left"
				}
				ind = append(ind, Attr{Name: name, Value: strconv.Itoa(*pp.Indent.Left)})
			}
			if pp.Indent.Hanging != nil {
				ind = append(ind, Attr{Name: "w:hanging", Value: strconv.Itoa(*pp.Indent.Hanging)})
			}
			e.Empty("w:ind", append(ind, pp.Indent.Other...)...)
		}
		encodeRawList(e, pp.Unknown)
		e.End("w:pPr")
	}
	if l.RunProperties != nil {
		l.RunProperties.EncodeXML(e)
	}
	encodeRawList(e, l.Unknown)
	e.End("w:lvl")
}

// EncodeXML writes the abstract numbering with levels in ilvl order.
func (a *AbstractNum) EncodeXML(e *Encoder) {
	attrs := append([]Attr{{Name: "w:abstractNumId", Value: strconv.Itoa(a.ID)}}, a.Attrs...)
	e.Start("w:abstractNum", attrs...)
	if a.MultiLevelType != "" {
		valElement(e, "w:multiLevelType", a.MultiLevelType)
	}
	for _, ilvl := range sortedKeys(a.Levels) {
		a.Levels[ilvl].EncodeXML(e)
	}
	encodeRawList(e, a.Unknown)
	e.End("w:abstractNum")
}

// EncodeXML writes the numbering instance.
func (num *Num) EncodeXML(e *Encoder) {
	attrs := append([]Attr{{Name: "w:numId", Value: strconv.Itoa(num.ID)}}, num.Attrs...)
	e.Start("w:num", attrs...)
	intElement(e, "w:abstractNumId", num.AbstractNumID)
	for _, o := range num.Overrides {
		e.Start("w:lvlOverride", Attr{Name: "w:ilvl", Value: strconv.Itoa(o.ILvl)})
		if o.StartOverride != nil {
			intElement(e, "w:startOverride", *o.StartOverride)
		}
		if o.Level != nil {
			o.Level.EncodeXML(e)
		}
		encodeRawList(e, o.Unknown)
		e.End("w:lvlOverride")
	}
	encodeRawList(e, num.Unknown)
	e.End("w:num")
}

// EncodeXML writes w:numbering: abstract definitions by id, then instances
// by id, then preserved elements.
func (n *Numbering) EncodeXML(e *Encoder) {
	attrs := n.Attrs
	if attrs == nil {
		attrs = []Attr{
			{Name: "xmlns:w", Value: NamespaceW},
			{Name: "xmlns:r", Value: NamespaceR},
		}
	}
	e.Start("w:numbering", attrs...)
	for _, id := range sortedKeys(n.AbstractNums) {
		n.AbstractNums[id].EncodeXML(e)
	}
	for _, id := range sortedKeys(n.Nums) {
		n.Nums[id].EncodeXML(e)
	}
	encodeRawList(e, n.Unknown)
	e.End("w:numbering")
}

// Marshal serializes the part with the XML declaration.
func (n *Numbering) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	e.Declaration()
	n.EncodeXML(e)
	if err := e.Flush(); err != nil {
		return nil, fmt.Errorf("failed to encode numbering: %w", err)
	}
	return buf.Bytes(), nil
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// AbstractNumFor returns the template a numbering instance points to.
func (n *Numbering) AbstractNumFor(numID int) (*AbstractNum, bool) {
	if n == nil {
		return nil, false
	}
	num, ok := n.Nums[numID]
	if !ok {
		return nil, false
	}
	a, ok := n.AbstractNums[num.AbstractNumID]
	return a, ok
}

// Level returns the level definition for (numID, ilvl). It looks through
// Num -> AbstractNum -> Level and reports false at any missing hop.
func (n *Numbering) Level(numID, ilvl int) (*Level, bool) {
	a, ok := n.AbstractNumFor(numID)
	if !ok {
		return nil, false
	}
	l, ok := a.Levels[ilvl]
	return l, ok
}

// Format returns the number format for (numID, ilvl).
func (n *Numbering) Format(numID, ilvl int) (NumberFormat, bool) {
	l, ok := n.Level(numID, ilvl)
	if !ok || l.NumFmt == "" {
		return "", false
	}
	return l.NumFmt, true
}

// LevelText returns the level-text template for (numID, ilvl).
func (n *Numbering) LevelText(numID, ilvl int) (string, bool) {
	l, ok := n.Level(numID, ilvl)
	if !ok || l.LevelText == nil {
		return "", false
	}
	return *l.LevelText, true
}

// IsBulletList reports whether level 0 of the referenced template is a bullet.
func (n *Numbering) IsBulletList(numID int) bool {
	f, ok := n.Format(numID, 0)
	return ok && f.IsBullet()
}

// StartOverride returns the start override of a numbering instance level.
func (n *Numbering) StartOverride(numID, ilvl int) (int, bool) {
	if n == nil {
		return 0, false
	}
	num, ok := n.Nums[numID]
	if !ok {
		return 0, false
	}
	for _, o := range num.Overrides {
		if o.ILvl != ilvl {
			continue
		}
		if o.StartOverride != nil {
			return *o.StartOverride, true
		}
		if o.Level != nil && o.Level.Start != nil {
			return *o.Level.Start, true
		}
	}
	return 0, false
}

// AddAbstractNum stores a template under a fresh id, creates an instance
// pointing to it and returns the instance id.
func (n *Numbering) AddAbstractNum(a *AbstractNum) int {
	if n.AbstractNums == nil {
		n.AbstractNums = make(map[int]*AbstractNum)
	}
	if n.Nums == nil {
		n.Nums = make(map[int]*Num)
	}
	a.ID = n.nextAbstractID
	n.nextAbstractID++
	n.AbstractNums[a.ID] = a

	num := &Num{ID: n.nextNumID, AbstractNumID: a.ID}
	n.nextNumID++
	n.Nums[num.ID] = num
	return num.ID
}

// AddBulletList adds a single-level bullet list and returns its num id.
func (n *Numbering) AddBulletList() int {
	a := NewAbstractNum(0)
	a.AddLevel(NewLevel(0, NumFmtBullet, "•", "left"))
	return n.AddAbstractNum(a)
}

// AddDecimalList adds a single-level "1." list and returns its num id.
func (n *Numbering) AddDecimalList() int {
	a := NewAbstractNum(0)
	a.AddLevel(NewLevel(0, NumFmtDecimal, "%1.", "left"))
	return n.AddAbstractNum(a)
}

// AddChineseList adds a single-level "一、" list and returns its num id.
func (n *Numbering) AddChineseList() int {
	a := NewAbstractNum(0)
	a.AddLevel(NewLevel(0, NumFmtChineseCounting, "%1、", "left"))
	return n.AddAbstractNum(a)
}
