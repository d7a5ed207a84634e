package render

import (
	"strings"

	wml "github.com/benjaminschreck/go-wordml/pkg/wordml/xml"
)

// WalkParagraphs calls fn for every paragraph of the body in document
// order, descending into table cells. Walking stops when fn returns false.
func WalkParagraphs(body *wml.Body, fn func(p *wml.Paragraph) bool) {
	if body == nil {
		return
	}
	for _, el := range body.Content {
		switch v := el.(type) {
		case *wml.Paragraph:
			if !fn(v) {
				return
			}
		case *wml.Table:
			if !walkTableParagraphs(v, fn) {
				return
			}
		}
	}
}

// MergeBodyRuns applies MergeConsecutiveRuns to every paragraph of the body
// and returns the total number of runs removed.
func MergeBodyRuns(body *wml.Body) int {
	removed := 0
	WalkParagraphs(body, func(p *wml.Paragraph) bool {
		removed += MergeConsecutiveRuns(p)
		return true
	})
	return removed
}

// PlainText returns the body text with list labels. Each paragraph is a
// line; a list item is prefixed by its label and a tab. Table rows are
// lines of tab-separated cells. Preserved blocks contribute nothing.
func PlainText(body *wml.Body, numbering *wml.Numbering) string {
	if body == nil {
		return ""
	}
	labeler := NewLabeler(numbering)
	lines := make([]string, 0, len(body.Content))
	for _, el := range body.Content {
		switch v := el.(type) {
		case *wml.Paragraph:
			lines = append(lines, labeledText(labeler, v))
		case *wml.Table:
			lines = append(lines, tableText(labeler, v)...)
		}
	}
	return strings.Join(lines, "\n")
}

func labeledText(labeler *Labeler, p *wml.Paragraph) string {
	label, ok := labeler.Next(p)
	if !ok {
		return p.Text()
	}
	return label + "\t" + p.Text()
}
