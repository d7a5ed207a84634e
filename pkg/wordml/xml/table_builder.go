package xml

// TableWidthMode selects how a built table's overall width is expressed.
type TableWidthMode int

const (
	WidthAuto TableWidthMode = iota
	WidthPercent
	WidthTwips
)

// TableBuilder assembles a table step by step.
//
//	tbl := xml.NewTableBuilder(2, 3).
//	    Alignment(xml.TableAlignCenter).
//	    ColumnWidths(2000, 3000, 2000).
//	    Build()
type TableBuilder struct {
	rows, cols   int
	widthMode    TableWidthMode
	widthValue   float64
	hasWidth     bool
	alignment    TableAlignment
	style        string
	data         [][]string
	columnWidths []*int
}

// NewTableBuilder starts a rows x cols table.
func NewTableBuilder(rows, cols int) *TableBuilder {
	return &TableBuilder{
		rows:         rows,
		cols:         cols,
		columnWidths: make([]*int, cols),
	}
}

// Width sets the overall table width. For WidthPercent, value is a
// percentage (50 means half the text width); for WidthTwips, twips.
func (b *TableBuilder) Width(mode TableWidthMode, value float64) *TableBuilder {
	b.widthMode = mode
	b.widthValue = value
	b.hasWidth = true
	return b
}

// Alignment sets the table justification.
func (b *TableBuilder) Alignment(a TableAlignment) *TableBuilder {
	b.alignment = a
	return b
}

// Style sets the table style id.
func (b *TableBuilder) Style(id string) *TableBuilder {
	b.style = id
	return b
}

// ColumnWidths sets grid widths in twips; extra values are ignored.
func (b *TableBuilder) ColumnWidths(widths ...int) *TableBuilder {
	for i, w := range widths {
		if i < len(b.columnWidths) {
			b.columnWidths[i] = intPtr(w)
		}
	}
	return b
}

// Data fills the cells and resizes the table to the data's shape.
func (b *TableBuilder) Data(data [][]string) *TableBuilder {
	b.data = data
	b.rows = len(data)
	b.cols = 0
	if len(data) > 0 {
		b.cols = len(data[0])
	}
	widths := make([]*int, b.cols)
	copy(widths, b.columnWidths)
	b.columnWidths = widths
	return b
}

// Build returns the table.
func (b *TableBuilder) Build() *Table {
	var t *Table
	if b.data != nil {
		t = NewTableFromData(b.data)
	} else {
		t = NewTable(b.rows, b.cols)
	}
	for i, w := range b.columnWidths {
		if w != nil {
			t.SetColumnWidth(i, *w)
		}
	}

	props := &TableProperties{Style: b.style, Justification: b.alignment}
	if b.hasWidth {
		switch b.widthMode {
		case WidthPercent:
			// pct is expressed in fiftieths of a percent
			props.Width = &TableWidth{Value: int(b.widthValue * 50), Type: "pct"}
		case WidthTwips:
			props.Width = &TableWidth{Value: int(b.widthValue), Type: "dxa"}
		default:
			props.Width = &TableWidth{Value: 0, Type: "auto"}
		}
	}
	if !props.IsEmpty() {
		t.Properties = props
	}
	return t
}
