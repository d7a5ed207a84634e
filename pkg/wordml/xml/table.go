package xml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Table represents a table in the document
type Table struct {
	Attrs      []Attr
	Properties *TableProperties
	// Grid holds one entry per w:gridCol
	Grid []GridColumn
	// GridAttrs and GridUnknown keep the rest of w:tblGrid, such as
	// w:tblGridChange
	GridAttrs   []Attr
	GridUnknown []*RawElement
	Rows        []*TableRow
	Unknown     []*RawElement
}

func (t *Table) isBodyElement() {}

// TableProperties represents table formatting properties
type TableProperties struct {
	Style         string
	Justification TableAlignment
	Width         *TableWidth
	Unknown       []*RawElement
}

// TableWidth is a measurement with its unit type (auto, pct, dxa). Raw
// holds a w:w value that is not an integer, such as "50%".
type TableWidth struct {
	Value int
	Type  string
	Raw   string
}

// GridColumn is one column of the table grid. Width is in twips.
type GridColumn struct {
	Width *int
}

// TableRow represents a row in a table
type TableRow struct {
	Attrs []Attr
	// Properties keeps w:trPr verbatim
	Properties *RawElement
	Cells      []*TableCell
	Unknown    []*RawElement
}

// TableCell represents a cell in a table row
type TableCell struct {
	Attrs      []Attr
	Properties *TableCellProperties
	Paragraphs []*Paragraph
	// Unknown keeps nested tables and other block content
	Unknown []*RawElement
}

// TableCellProperties represents cell formatting properties
type TableCellProperties struct {
	Width     *int
	WidthType string
	// WidthRaw holds a w:w value that is not an integer
	WidthRaw string
	GridSpan *int
	VMerge   VerticalMerge
	VAlign   VerticalAlignment
	Unknown  []*RawElement
}

// VerticalMerge is the w:vMerge state of a cell; "" means not merged.
type VerticalMerge string

const (
	VMergeRestart  VerticalMerge = "restart"
	VMergeContinue VerticalMerge = "continue"
)

// VerticalAlignment is the w:vAlign value of a cell. Unrecognized values are
// kept verbatim.
type VerticalAlignment string

const (
	VAlignTop    VerticalAlignment = "top"
	VAlignCenter VerticalAlignment = "center"
	VAlignBottom VerticalAlignment = "bottom"
)

// TableAlignment is the w:jc value of a table. Unrecognized values are kept
// verbatim.
type TableAlignment string

const (
	TableAlignLeft   TableAlignment = "left"
	TableAlignCenter TableAlignment = "center"
	TableAlignRight  TableAlignment = "right"
)

// Normalize maps the bidi-neutral start/end spellings onto left/right.
func (a TableAlignment) Normalize() TableAlignment {
	switch a {
	case "start":
		return TableAlignLeft
	case "end":
		return TableAlignRight
	}
	return a
}

// NewTable creates a rows x cols table of empty cells with an unset-width grid.
func NewTable(rows, cols int) *Table {
	t := &Table{Grid: make([]GridColumn, cols)}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, NewTableRow(cols))
	}
	return t
}

// NewTableFromData creates a table whose cells hold the given texts. The
// grid follows the first row.
func NewTableFromData(data [][]string) *Table {
	t := &Table{}
	if len(data) > 0 {
		t.Grid = make([]GridColumn, len(data[0]))
	}
	for _, texts := range data {
		t.Rows = append(t.Rows, NewTableRowFromTexts(texts))
	}
	return t
}

// NewTableRow creates a row of n empty cells.
func NewTableRow(n int) *TableRow {
	row := &TableRow{Cells: make([]*TableCell, n)}
	for i := range row.Cells {
		row.Cells[i] = NewTableCell("")
	}
	return row
}

// NewTableRowFromTexts creates a row with one cell per text.
func NewTableRowFromTexts(texts []string) *TableRow {
	row := &TableRow{Cells: make([]*TableCell, len(texts))}
	for i, text := range texts {
		row.Cells[i] = NewTableCell(text)
	}
	return row
}

// NewTableCell creates a cell holding one paragraph of text.
func NewTableCell(text string) *TableCell {
	return &TableCell{Paragraphs: []*Paragraph{NewParagraph(text)}}
}

// ParseTable decodes a w:tbl element.
func ParseTable(d *Decoder, start xml.StartElement) (*Table, error) {
	t := &Table{Attrs: convertAttrs(start.Attr)}
	err := decodeChildren(d, start, func(c xml.StartElement) error {
		switch c.Name.Local {
		case "tblPr":
			props, err := ParseTableProperties(d, c)
			if err != nil {
				return err
			}
			t.Properties = props
		case "tblGrid":
			t.GridAttrs = convertAttrs(c.Attr)
			return decodeChildren(d, c, func(g xml.StartElement) error {
				if g.Name.Local == "gridCol" {
					t.Grid = append(t.Grid, GridColumn{Width: intAttr(g, "w:w", "w")})
					return d.Skip(g)
				}
				raw, err := ParseRawElement(d, g)
				if err != nil {
					return err
				}
				t.GridUnknown = append(t.GridUnknown, raw)
				return nil
			})
		case "tr":
			row, err := ParseTableRow(d, c)
			if err != nil {
				return err
			}
			t.Rows = append(t.Rows, row)
		default:
			raw, err := ParseRawElement(d, c)
			if err != nil {
				return err
			}
			t.Unknown = append(t.Unknown, raw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ParseTableProperties decodes a w:tblPr element.
func ParseTableProperties(d *Decoder, start xml.StartElement) (*TableProperties, error) {
	p := &TableProperties{}
	err := decodeChildren(d, start, func(c xml.StartElement) error {
		switch c.Name.Local {
		case "tblStyle":
			p.Style, _ = valAttr(c)
		case "jc":
			v, _ := valAttr(c)
			p.Justification = TableAlignment(v)
		case "tblW":
			w := &TableWidth{}
			if n := intAttr(c, "w:w", "w"); n != nil {
				w.Value = *n
			} else if v, ok := attrValue(c, "w:w", "w"); ok {
				w.Raw = v
			}
			w.Type, _ = attrValue(c, "w:type", "type")
			p.Width = w
		default:
			raw, err := ParseRawElement(d, c)
			if err != nil {
				return err
			}
			p.Unknown = append(p.Unknown, raw)
			return nil
		}
		return d.Skip(c)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ParseTableRow decodes a w:tr element.
func ParseTableRow(d *Decoder, start xml.StartElement) (*TableRow, error) {
	row := &TableRow{Attrs: convertAttrs(start.Attr)}
	err := decodeChildren(d, start, func(c xml.StartElement) error {
		switch c.Name.Local {
		case "trPr":
			raw, err := ParseRawElement(d, c)
			if err != nil {
				return err
			}
			row.Properties = raw
		case "tc":
			cell, err := ParseTableCell(d, c)
			if err != nil {
				return err
			}
			row.Cells = append(row.Cells, cell)
		default:
			raw, err := ParseRawElement(d, c)
			if err != nil {
				return err
			}
			row.Unknown = append(row.Unknown, raw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// ParseTableCell decodes a w:tc element.
func ParseTableCell(d *Decoder, start xml.StartElement) (*TableCell, error) {
	cell := &TableCell{Attrs: convertAttrs(start.Attr)}
	err := decodeChildren(d, start, func(c xml.StartElement) error {
		switch c.Name.Local {
		case "tcPr":
			props, err := ParseTableCellProperties(d, c)
			if err != nil {
				return err
			}
			cell.Properties = props
		case "p":
			para, err := ParseParagraph(d, c)
			if err != nil {
				return err
			}
			cell.Paragraphs = append(cell.Paragraphs, para)
		default:
			raw, err := ParseRawElement(d, c)
			if err != nil {
				return err
			}
			cell.Unknown = append(cell.Unknown, raw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cell, nil
}

// ParseTableCellProperties decodes a w:tcPr element.
func ParseTableCellProperties(d *Decoder, start xml.StartElement) (*TableCellProperties, error) {
	p := &TableCellProperties{}
	err := decodeChildren(d, start, func(c xml.StartElement) error {
		switch c.Name.Local {
		case "tcW":
			p.Width = intAttr(c, "w:w", "w")
			if p.Width == nil {
				p.WidthRaw, _ = attrValue(c, "w:w", "w")
			}
			p.WidthType, _ = attrValue(c, "w:type", "type")
		case "gridSpan":
			p.GridSpan = intVal(c)
		case "vMerge":
			if v, _ := valAttr(c); v == string(VMergeRestart) {
				p.VMerge = VMergeRestart
			} else {
				p.VMerge = VMergeContinue
			}
		case "vAlign":
			v, _ := valAttr(c)
			p.VAlign = VerticalAlignment(v)
		default:
			raw, err := ParseRawElement(d, c)
			if err != nil {
				return err
			}
			p.Unknown = append(p.Unknown, raw)
			return nil
		}
		return d.Skip(c)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// IsEmpty reports whether no property is set.
func (p *TableProperties) IsEmpty() bool {
	return p == nil || (p.Style == "" && p.Justification == "" && p.Width == nil && len(p.Unknown) == 0)
}

// EncodeXML writes w:tblPr.
func (p *TableProperties) EncodeXML(e *Encoder) {
	if p.IsEmpty() {
		return
	}
	e.Start("w:tblPr")
	if p.Style != "" {
		valElement(e, "w:tblStyle", p.Style)
	}
	if p.Width != nil {
		value := p.Width.Raw
		if value == "" {
			value = strconv.Itoa(p.Width.Value)
		}
		attrs := []Attr{{Name: "w:w", Value: value}}
		if p.Width.Type != "" {
			attrs = append(attrs, Attr{Name: "w:type", Value: p.Width.Type})
		}
		e.Empty("w:tblW", attrs...)
	}
	if p.Justification != "" {
		valElement(e, "w:jc", string(p.Justification))
	}
	encodeRawList(e, p.Unknown)
	e.End("w:tblPr")
}

// IsEmpty reports whether no property is set.
func (p *TableCellProperties) IsEmpty() bool {
	return p == nil || (!p.hasWidth() && p.GridSpan == nil && p.VMerge == "" &&
		p.VAlign == "" && len(p.Unknown) == 0)
}

func (p *TableCellProperties) hasWidth() bool {
	return p.Width != nil || p.WidthRaw != "" || p.WidthType != ""
}

// EncodeXML writes w:tcPr.
func (p *TableCellProperties) EncodeXML(e *Encoder) {
	if p.IsEmpty() {
		return
	}
	e.Start("w:tcPr")
	if p.hasWidth() {
		var attrs []Attr
		switch {
		case p.Width != nil:
			attrs = append(attrs, Attr{Name: "w:w", Value: strconv.Itoa(*p.Width)})
		case p.WidthRaw != "":
			attrs = append(attrs, Attr{Name: "w:w", Value: p.WidthRaw})
		}
		wt := p.WidthType
		if wt == "" {
			wt = "dxa"
		}
		attrs = append(attrs, Attr{Name: "w:type", Value: wt})
		e.Empty("w:tcW", attrs...)
	}
	if p.GridSpan != nil {
		intElement(e, "w:gridSpan", *p.GridSpan)
	}
	switch p.VMerge {
	case VMergeRestart:
		valElement(e, "w:vMerge", string(VMergeRestart))
	case VMergeContinue:
		e.Empty("w:vMerge")
	}
	if p.VAlign != "" {
		valElement(e, "w:vAlign", string(p.VAlign))
	}
	encodeRawList(e, p.Unknown)
	e.End("w:tcPr")
}

// EncodeXML writes the table.
func (t *Table) EncodeXML(e *Encoder) {
	e.Start("w:tbl", t.Attrs...)
	if t.Properties != nil {
		t.Properties.EncodeXML(e)
	}
	if len(t.Grid) > 0 || len(t.GridAttrs) > 0 || len(t.GridUnknown) > 0 {
		e.Start("w:tblGrid", t.GridAttrs...)
		for _, col := range t.Grid {
			if col.Width != nil {
				e.Empty("w:gridCol", Attr{Name: "w:w", Value: strconv.Itoa(*col.Width)})
			} else {
				e.Empty("w:gridCol")
			}
		}
		encodeRawList(e, t.GridUnknown)
		e.End("w:tblGrid")
	}
	for _, row := range t.Rows {
		row.EncodeXML(e)
	}
	encodeRawList(e, t.Unknown)
	e.End("w:tbl")
}

// EncodeXML writes the row.
func (row *TableRow) EncodeXML(e *Encoder) {
	e.Start("w:tr", row.Attrs...)
	if row.Properties != nil {
		row.Properties.EncodeXML(e)
	}
	for _, cell := range row.Cells {
		cell.EncodeXML(e)
	}
	encodeRawList(e, row.Unknown)
	e.End("w:tr")
}

// EncodeXML writes the cell. A cell always carries at least one paragraph.
func (cell *TableCell) EncodeXML(e *Encoder) {
	e.Start("w:tc", cell.Attrs...)
	if cell.Properties != nil {
		cell.Properties.EncodeXML(e)
	}
	if len(cell.Paragraphs) == 0 {
		e.Empty("w:p")
	}
	for _, p := range cell.Paragraphs {
		p.EncodeXML(e)
	}
	encodeRawList(e, cell.Unknown)
	e.End("w:tc")
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the cell count of the first row. Rows with merged
// cells may hold fewer cells.
func (t *Table) ColumnCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0].Cells)
}

// Row returns the row at index, or nil when out of range.
func (t *Table) Row(index int) *TableRow {
	if index < 0 || index >= len(t.Rows) {
		return nil
	}
	return t.Rows[index]
}

// Cell returns the cell at (row, col), or nil when out of range.
func (t *Table) Cell(row, col int) *TableCell {
	r := t.Row(row)
	if r == nil {
		return nil
	}
	return r.Cell(col)
}

// AddRow appends a row.
func (t *Table) AddRow(row *TableRow) {
	t.Rows = append(t.Rows, row)
}

// AddEmptyRow appends a row of empty cells sized to ColumnCount and returns it.
func (t *Table) AddEmptyRow() *TableRow {
	cols := t.ColumnCount()
	if cols == 0 {
		cols = len(t.Grid)
	}
	row := NewTableRow(cols)
	t.Rows = append(t.Rows, row)
	return row
}

// InsertRow inserts a row before index. It reports false when index is
// greater than RowCount.
func (t *Table) InsertRow(index int, row *TableRow) bool {
	if index < 0 || index > len(t.Rows) {
		return false
	}
	t.Rows = append(t.Rows, nil)
	copy(t.Rows[index+1:], t.Rows[index:])
	t.Rows[index] = row
	return true
}

// RemoveRow removes and returns the row at index, or nil when out of range.
func (t *Table) RemoveRow(index int) *TableRow {
	if index < 0 || index >= len(t.Rows) {
		return nil
	}
	row := t.Rows[index]
	t.Rows = append(t.Rows[:index], t.Rows[index+1:]...)
	return row
}

// AddColumn appends a grid column and an empty cell to every row.
func (t *Table) AddColumn() {
	t.Grid = append(t.Grid, GridColumn{})
	for _, row := range t.Rows {
		row.AddCell(NewTableCell(""))
	}
}

// InsertColumn inserts a grid column and an empty cell in every row before
// index. It reports false when index is greater than the grid length. Grid
// spans are not adjusted.
func (t *Table) InsertColumn(index int) bool {
	if index < 0 || index > len(t.Grid) {
		return false
	}
	t.Grid = append(t.Grid, GridColumn{})
	copy(t.Grid[index+1:], t.Grid[index:])
	t.Grid[index] = GridColumn{}
	for _, row := range t.Rows {
		row.InsertCell(index, NewTableCell(""))
	}
	return true
}

// RemoveColumn removes the grid column at index and the cell at index from
// every row that has one. Grid spans are not adjusted.
func (t *Table) RemoveColumn(index int) bool {
	if index < 0 || index >= len(t.Grid) {
		return false
	}
	t.Grid = append(t.Grid[:index], t.Grid[index+1:]...)
	for _, row := range t.Rows {
		row.RemoveCell(index)
	}
	return true
}

// SetCellText replaces the text of the cell at (row, col) if it exists.
func (t *Table) SetCellText(row, col int, text string) {
	if cell := t.Cell(row, col); cell != nil {
		cell.SetText(text)
	}
}

// SetColumnWidth sets the grid width of a column in twips.
func (t *Table) SetColumnWidth(col, width int) {
	if col >= 0 && col < len(t.Grid) {
		t.Grid[col].Width = intPtr(width)
	}
}

// Text returns the cell texts, tab-separated per row, one row per line.
func (t *Table) Text() string {
	lines := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.Text()
		}
		lines[i] = strings.Join(cells, "\t")
	}
	return strings.Join(lines, "\n")
}

// Paragraphs returns the paragraphs of every cell in row order.
func (t *Table) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			paras = append(paras, cell.Paragraphs...)
		}
	}
	return paras
}

// Cell returns the cell at index, or nil when out of range.
func (row *TableRow) Cell(index int) *TableCell {
	if index < 0 || index >= len(row.Cells) {
		return nil
	}
	return row.Cells[index]
}

// AddCell appends a cell.
func (row *TableRow) AddCell(cell *TableCell) {
	row.Cells = append(row.Cells, cell)
}

// InsertCell inserts a cell before index; an index past the end appends.
func (row *TableRow) InsertCell(index int, cell *TableCell) {
	if index < 0 {
		index = 0
	}
	if index >= len(row.Cells) {
		row.Cells = append(row.Cells, cell)
		return
	}
	row.Cells = append(row.Cells, nil)
	copy(row.Cells[index+1:], row.Cells[index:])
	row.Cells[index] = cell
}

// RemoveCell removes and returns the cell at index, or nil when out of range.
func (row *TableRow) RemoveCell(index int) *TableCell {
	if index < 0 || index >= len(row.Cells) {
		return nil
	}
	cell := row.Cells[index]
	row.Cells = append(row.Cells[:index], row.Cells[index+1:]...)
	return cell
}

// Text returns the paragraph texts joined by '\n'.
func (cell *TableCell) Text() string {
	texts := make([]string, len(cell.Paragraphs))
	for i, p := range cell.Paragraphs {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n")
}

// SetText replaces all paragraphs with one paragraph of text.
func (cell *TableCell) SetText(text string) {
	cell.Paragraphs = []*Paragraph{NewParagraph(text)}
}

// Clear replaces all paragraphs with one empty paragraph.
func (cell *TableCell) Clear() {
	cell.Paragraphs = []*Paragraph{{}}
}

// AddParagraph appends a paragraph.
func (cell *TableCell) AddParagraph(p *Paragraph) {
	cell.Paragraphs = append(cell.Paragraphs, p)
}

func (cell *TableCell) props() *TableCellProperties {
	if cell.Properties == nil {
		cell.Properties = &TableCellProperties{}
	}
	return cell.Properties
}

// Width returns the cell width in twips and whether it is set.
func (cell *TableCell) Width() (int, bool) {
	if cell.Properties == nil || cell.Properties.Width == nil {
		return 0, false
	}
	return *cell.Properties.Width, true
}

// SetWidth sets the cell width in twips.
func (cell *TableCell) SetWidth(twips int) {
	p := cell.props()
	p.Width = intPtr(twips)
	p.WidthRaw = ""
	p.WidthType = "dxa"
}

// GridSpan returns the number of grid columns the cell spans (1 when unset).
func (cell *TableCell) GridSpan() int {
	if cell.Properties == nil || cell.Properties.GridSpan == nil {
		return 1
	}
	return *cell.Properties.GridSpan
}

// SetGridSpan sets the horizontal span; spans below 2 clear it.
func (cell *TableCell) SetGridSpan(span int) {
	if span < 2 {
		if cell.Properties != nil {
			cell.Properties.GridSpan = nil
		}
		return
	}
	cell.props().GridSpan = intPtr(span)
}

// VerticalMerge returns the vertical merge state, "" when not merged.
func (cell *TableCell) VerticalMerge() VerticalMerge {
	if cell.Properties == nil {
		return ""
	}
	return cell.Properties.VMerge
}

// SetVerticalMerge sets the vertical merge state; "" clears it.
func (cell *TableCell) SetVerticalMerge(m VerticalMerge) {
	cell.props().VMerge = m
}

// VerticalAlignment returns the cell's vertical alignment, "" when unset.
func (cell *TableCell) VerticalAlignment() VerticalAlignment {
	if cell.Properties == nil {
		return ""
	}
	return cell.Properties.VAlign
}

// SetVerticalAlignment sets the cell's vertical alignment.
func (cell *TableCell) SetVerticalAlignment(a VerticalAlignment) {
	cell.props().VAlign = a
}

// IsMergeStart reports whether the cell spans more than one grid column.
func (cell *TableCell) IsMergeStart() bool {
	return cell.GridSpan() > 1
}

// IsVMergeStart reports whether the cell starts a vertical merge group.
func (cell *TableCell) IsVMergeStart() bool {
	return cell.VerticalMerge() == VMergeRestart
}

// IsVMergeContinue reports whether the cell continues a vertical merge group.
func (cell *TableCell) IsVMergeContinue() bool {
	return cell.VerticalMerge() == VMergeContinue
}
