package render

import (
	"strings"

	wml "github.com/benjaminschreck/go-wordml/pkg/wordml/xml"
)

func walkTableParagraphs(t *wml.Table, fn func(p *wml.Paragraph) bool) bool {
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			for _, p := range cell.Paragraphs {
				if !fn(p) {
					return false
				}
			}
		}
	}
	return true
}

// tableText renders one line per row. Paragraphs within a cell are joined
// by a space and list items in cells advance the shared counters.
func tableText(labeler *Labeler, t *wml.Table) []string {
	lines := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			texts := make([]string, len(cell.Paragraphs))
			for k, p := range cell.Paragraphs {
				texts[k] = labeledText(labeler, p)
			}
			cells[j] = strings.Join(texts, " ")
		}
		lines[i] = strings.Join(cells, "\t")
	}
	return lines
}
