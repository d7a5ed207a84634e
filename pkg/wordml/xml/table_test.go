package xml

import (
	"testing"
)

func parseTableString(t *testing.T, src string) *Table {
	t.Helper()
	d, start := decodeFragment(t, src)
	tbl, err := ParseTable(d, start)
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	return tbl
}

func TestNewTableShape(t *testing.T) {
	tests := []struct {
		rows, cols int
	}{
		{0, 0},
		{1, 1},
		{3, 4},
		{10, 2},
	}

	for _, tt := range tests {
		tbl := NewTable(tt.rows, tt.cols)
		if tbl.RowCount() != tt.rows {
			t.Errorf("Expected %d rows, got %d", tt.rows, tbl.RowCount())
		}
		if len(tbl.Grid) != tt.cols {
			t.Errorf("Expected %d grid columns, got %d", tt.cols, len(tbl.Grid))
		}
		for i, row := range tbl.Rows {
			if len(row.Cells) != tt.cols {
				t.Errorf("Row %d: expected %d cells, got %d", i, tt.cols, len(row.Cells))
			}
			for j, cell := range row.Cells {
				if cell.Text() != "" {
					t.Errorf("Cell (%d,%d): expected empty text, got %q", i, j, cell.Text())
				}
			}
		}
		for i, col := range tbl.Grid {
			if col.Width != nil {
				t.Errorf("Grid column %d: expected unset width", i)
			}
		}
	}
}

func TestTableParse(t *testing.T) {
	src := `<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="5000" w:type="pct"/><w:jc w:val="center"/><w:tblLook w:val="04A0"/></w:tblPr>` +
		`<w:tblGrid><w:gridCol w:w="2000"/><w:gridCol w:w="3000"/></w:tblGrid>` +
		`<w:tr><w:trPr><w:tblHeader/></w:trPr>` +
		`<w:tc><w:tcPr><w:tcW w:w="4000" w:type="dxa"/><w:gridSpan w:val="2"/></w:tcPr><w:p><w:r><w:t>Header</w:t></w:r></w:p></w:tc></w:tr>` +
		`<w:tr><w:tc><w:tcPr><w:vMerge w:val="restart"/><w:vAlign w:val="center"/></w:tcPr><w:p><w:r><w:t>A</w:t></w:r></w:p><w:p><w:r><w:t>B</w:t></w:r></w:p></w:tc>` +
		`<w:tc><w:p/></w:tc></w:tr>` +
		`<w:tr><w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc><w:tc><w:p><w:r><w:t>C</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`
	tbl := parseTableString(t, src)

	if tbl.RowCount() != 3 {
		t.Fatalf("Expected 3 rows, got %d", tbl.RowCount())
	}
	if tbl.ColumnCount() != 1 {
		t.Errorf("Expected first-row column count 1, got %d", tbl.ColumnCount())
	}
	if tbl.Properties.Style != "TableGrid" || tbl.Properties.Justification != TableAlignCenter {
		t.Errorf("Unexpected table properties: %+v", tbl.Properties)
	}
	if w := tbl.Properties.Width; w == nil || w.Value != 5000 || w.Type != "pct" {
		t.Errorf("Unexpected table width: %+v", w)
	}
	if len(tbl.Properties.Unknown) != 1 {
		t.Errorf("Expected tblLook preserved, got %d unknowns", len(tbl.Properties.Unknown))
	}
	if len(tbl.Grid) != 2 || *tbl.Grid[1].Width != 3000 {
		t.Errorf("Unexpected grid: %+v", tbl.Grid)
	}

	header := tbl.Cell(0, 0)
	if !header.IsMergeStart() || header.GridSpan() != 2 {
		t.Errorf("Expected header to span 2 columns, got %d", header.GridSpan())
	}
	if w, ok := header.Width(); !ok || w != 4000 {
		t.Errorf("Expected width 4000, got %d", w)
	}

	merged := tbl.Cell(1, 0)
	if !merged.IsVMergeStart() {
		t.Error("Expected vertical merge start")
	}
	if merged.VerticalAlignment() != VAlignCenter {
		t.Errorf("Expected center alignment, got %q", merged.VerticalAlignment())
	}
	if merged.Text() != "A\nB" {
		t.Errorf("Expected 'A\\nB', got %q", merged.Text())
	}
	if !tbl.Cell(2, 0).IsVMergeContinue() {
		t.Error("Expected vertical merge continuation")
	}
	if tbl.Cell(2, 1).Text() != "C" {
		t.Errorf("Expected C, got %q", tbl.Cell(2, 1).Text())
	}
	if tbl.Cell(5, 5) != nil {
		t.Error("Expected nil for out-of-range cell")
	}

	got := encodeString(t, tbl.EncodeXML)
	if got != src {
		t.Errorf("Expected round trip\n%s\ngot\n%s", src, got)
	}
}

func TestTableColumnMutations(t *testing.T) {
	tbl := NewTableFromData([][]string{
		{"a", "b"},
		{"c", "d"},
	})

	tbl.AddColumn()
	if tbl.ColumnCount() != 3 || len(tbl.Grid) != 3 {
		t.Fatalf("Expected 3 columns after AddColumn, got %d cells / %d grid", tbl.ColumnCount(), len(tbl.Grid))
	}

	if !tbl.InsertColumn(0) {
		t.Fatal("Expected InsertColumn(0) to succeed")
	}
	if tbl.Cell(0, 1).Text() != "a" || tbl.Cell(0, 0).Text() != "" {
		t.Errorf("Expected inserted empty column before 'a', got %q", tbl.Text())
	}
	if tbl.InsertColumn(10) {
		t.Error("Expected InsertColumn past the end to fail")
	}

	if !tbl.RemoveColumn(0) {
		t.Fatal("Expected RemoveColumn(0) to succeed")
	}
	if tbl.RemoveColumn(3) {
		t.Error("Expected RemoveColumn out of range to fail")
	}
	for i, row := range tbl.Rows {
		if len(row.Cells) != len(tbl.Grid) {
			t.Errorf("Row %d: expected %d cells, got %d", i, len(tbl.Grid), len(row.Cells))
		}
	}
	if tbl.Cell(1, 1).Text() != "d" {
		t.Errorf("Expected d, got %q", tbl.Cell(1, 1).Text())
	}
}

func TestTableRowMutations(t *testing.T) {
	tbl := NewTable(2, 2)
	tbl.SetCellText(0, 0, "first")

	row := tbl.AddEmptyRow()
	if len(row.Cells) != 2 || tbl.RowCount() != 3 {
		t.Fatalf("Expected a 2-cell row appended, got %d cells / %d rows", len(row.Cells), tbl.RowCount())
	}

	if !tbl.InsertRow(0, NewTableRowFromTexts([]string{"x", "y"})) {
		t.Fatal("Expected InsertRow(0) to succeed")
	}
	if tbl.Cell(0, 1).Text() != "y" || tbl.Cell(1, 0).Text() != "first" {
		t.Errorf("Unexpected table after insert: %q", tbl.Text())
	}
	if tbl.InsertRow(9, NewTableRow(2)) {
		t.Error("Expected InsertRow past the end to fail")
	}

	removed := tbl.RemoveRow(0)
	if removed == nil || removed.Cell(0).Text() != "x" {
		t.Error("Expected the inserted row to be removed")
	}
	if tbl.RemoveRow(-1) != nil {
		t.Error("Expected nil for out-of-range RemoveRow")
	}
}

func TestTableCellEditing(t *testing.T) {
	cell := NewTableCell("old")
	cell.SetText("new")
	if cell.Text() != "new" || len(cell.Paragraphs) != 1 {
		t.Errorf("Expected single paragraph 'new', got %q", cell.Text())
	}
	cell.AddParagraph(NewParagraph("second"))
	if cell.Text() != "new\nsecond" {
		t.Errorf("Expected 'new\\nsecond', got %q", cell.Text())
	}

	cell.Clear()
	if got := encodeString(t, cell.EncodeXML); got != `<w:tc><w:p/></w:tc>` {
		t.Errorf("Expected a synthesized empty paragraph, got %q", got)
	}

	cell.SetWidth(1440)
	cell.SetGridSpan(3)
	cell.SetVerticalMerge(VMergeContinue)
	cell.SetVerticalAlignment(VAlignBottom)
	want := `<w:tc><w:tcPr><w:tcW w:w="1440" w:type="dxa"/><w:gridSpan w:val="3"/><w:vMerge/><w:vAlign w:val="bottom"/></w:tcPr><w:p/></w:tc>`
	if got := encodeString(t, cell.EncodeXML); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestTableBuilder(t *testing.T) {
	tbl := NewTableBuilder(0, 0).
		Data([][]string{{"Name", "Qty"}, {"Apple", "3"}}).
		Width(WidthPercent, 100).
		Alignment(TableAlignCenter).
		Style("TableGrid").
		ColumnWidths(3000, 1000).
		Build()

	if tbl.RowCount() != 2 || tbl.ColumnCount() != 2 {
		t.Fatalf("Expected 2x2 table, got %dx%d", tbl.RowCount(), tbl.ColumnCount())
	}
	if tbl.Cell(1, 0).Text() != "Apple" {
		t.Errorf("Expected Apple, got %q", tbl.Cell(1, 0).Text())
	}
	want := `<w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="5000" w:type="pct"/><w:jc w:val="center"/></w:tblPr>` +
		`<w:tblGrid><w:gridCol w:w="3000"/><w:gridCol w:w="1000"/></w:tblGrid>`
	got := encodeString(t, tbl.EncodeXML)
	if len(got) < len(want)+len(`<w:tbl>`) || got[len(`<w:tbl>`):len(`<w:tbl>`)+len(want)] != want {
		t.Errorf("Expected table to start with %q, got %q", want, got)
	}
}

func TestTableAlignmentNormalize(t *testing.T) {
	tests := []struct {
		in, expected TableAlignment
	}{
		{"start", TableAlignLeft},
		{"end", TableAlignRight},
		{TableAlignCenter, TableAlignCenter},
		{"distribute", "distribute"},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.expected {
			t.Errorf("Normalize(%q): expected %q, got %q", tt.in, tt.expected, got)
		}
	}
}

func TestTableKeepsUnmodeledMarkup(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, tbl *Table)
	}{
		{
			name: "grid change and grid attributes",
			src: `<w:tbl><w:tblGrid w14:id="7"><w:gridCol w:w="2000"/>` +
				`<w:tblGridChange w:id="1"><w:tblGrid><w:gridCol w:w="1000"/></w:tblGrid></w:tblGridChange></w:tblGrid>` +
				`<w:tr><w:tc><w:p/></w:tc></w:tr></w:tbl>`,
			check: func(t *testing.T, tbl *Table) {
				if len(tbl.Grid) != 1 || len(tbl.GridUnknown) != 1 || len(tbl.GridAttrs) != 1 {
					t.Errorf("Expected 1 column, 1 unknown and 1 attr, got %d, %d and %d",
						len(tbl.Grid), len(tbl.GridUnknown), len(tbl.GridAttrs))
				}
			},
		},
		{
			name: "cell attributes",
			src:  `<w:tbl><w:tr><w:tc w14:paraId="1A2B3C4D"><w:p/></w:tc></w:tr></w:tbl>`,
			check: func(t *testing.T, tbl *Table) {
				attrs := tbl.Cell(0, 0).Attrs
				if len(attrs) != 1 || attrs[0].Name != "w14:paraId" {
					t.Errorf("Expected w14:paraId on the cell, got %+v", attrs)
				}
			},
		},
		{
			name: "percentage cell width",
			src:  `<w:tbl><w:tr><w:tc><w:tcPr><w:tcW w:w="50%" w:type="pct"/></w:tcPr><w:p/></w:tc></w:tr></w:tbl>`,
			check: func(t *testing.T, tbl *Table) {
				if _, ok := tbl.Cell(0, 0).Width(); ok {
					t.Error("Expected no twip width for a percentage")
				}
				if raw := tbl.Cell(0, 0).Properties.WidthRaw; raw != "50%" {
					t.Errorf("Expected raw width 50%%, got %q", raw)
				}
			},
		},
		{
			name: "percentage table width",
			src:  `<w:tbl><w:tblPr><w:tblW w:w="50%" w:type="pct"/></w:tblPr><w:tr><w:tc><w:p/></w:tc></w:tr></w:tbl>`,
			check: func(t *testing.T, tbl *Table) {
				if w := tbl.Properties.Width; w == nil || w.Raw != "50%" || w.Type != "pct" {
					t.Errorf("Unexpected table width: %+v", w)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := parseTableString(t, tt.src)
			tt.check(t, tbl)
			got := encodeString(t, tbl.EncodeXML)
			if got != tt.src {
				t.Errorf("Expected round trip\n%s\ngot\n%s", tt.src, got)
			}
		})
	}
}

func TestTableSetWidthReplacesRawWidth(t *testing.T) {
	tbl := parseTableString(t, `<w:tbl><w:tr><w:tc><w:tcPr><w:tcW w:w="50%" w:type="pct"/></w:tcPr><w:p/></w:tc></w:tr></w:tbl>`)
	cell := tbl.Cell(0, 0)
	cell.SetWidth(1200)
	expected := `<w:tbl><w:tr><w:tc><w:tcPr><w:tcW w:w="1200" w:type="dxa"/></w:tcPr><w:p/></w:tc></w:tr></w:tbl>`
	if got := encodeString(t, tbl.EncodeXML); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}
