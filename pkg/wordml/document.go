package wordml

import (
	"github.com/benjaminschreck/go-wordml/pkg/wordml/render"
	wml "github.com/benjaminschreck/go-wordml/pkg/wordml/xml"
)

// Body returns the document body for direct editing.
func (d *Document) Body() *wml.Body {
	return d.main.Body
}

// Root returns the parsed main part.
func (d *Document) Root() *wml.Document {
	return d.main
}

// Paragraphs returns the top-level paragraphs in order.
func (d *Document) Paragraphs() []*wml.Paragraph {
	return d.main.Body.Paragraphs()
}

// ParagraphCount returns the number of top-level paragraphs.
func (d *Document) ParagraphCount() int {
	n := 0
	for _, el := range d.main.Body.Content {
		if _, ok := el.(*wml.Paragraph); ok {
			n++
		}
	}
	return n
}

// Paragraph returns the top-level paragraph at index, or nil.
func (d *Document) Paragraph(index int) *wml.Paragraph {
	paras := d.Paragraphs()
	if index < 0 || index >= len(paras) {
		return nil
	}
	return paras[index]
}

// Tables returns the top-level tables in order.
func (d *Document) Tables() []*wml.Table {
	return d.main.Body.Tables()
}

// TableCount returns the number of top-level tables.
func (d *Document) TableCount() int {
	n := 0
	for _, el := range d.main.Body.Content {
		if _, ok := el.(*wml.Table); ok {
			n++
		}
	}
	return n
}

// Table returns the top-level table at index, or nil.
func (d *Document) Table(index int) *wml.Table {
	tables := d.Tables()
	if index < 0 || index >= len(tables) {
		return nil
	}
	return tables[index]
}

// Text returns the text of the top-level paragraphs joined by '\n'.
func (d *Document) Text() string {
	return d.main.Body.Text()
}

// LabeledText returns the document text with list labels and table rows.
func (d *Document) LabeledText() string {
	return render.PlainText(d.main.Body, d.numbering)
}

// AddParagraph appends a paragraph holding text.
func (d *Document) AddParagraph(text string) *wml.Paragraph {
	return d.main.Body.AddParagraph(wml.NewParagraph(text))
}

// AddEmptyParagraph appends an empty paragraph.
func (d *Document) AddEmptyParagraph() *wml.Paragraph {
	return d.main.Body.AddParagraph(&wml.Paragraph{})
}

// AddTable appends a table.
func (d *Document) AddTable(t *wml.Table) *wml.Table {
	return d.main.Body.AddTable(t)
}

// AddTableWithSize appends a table of empty cells.
func (d *Document) AddTableWithSize(rows, cols int) *wml.Table {
	return d.AddTable(wml.NewTable(rows, cols))
}

// MergeRuns folds adjacent runs with equal formatting across the whole body
// and returns the number of runs removed.
func (d *Document) MergeRuns() int {
	return render.MergeBodyRuns(d.main.Body)
}

// Numbering returns the numbering definitions, or nil when the document has
// none.
func (d *Document) Numbering() *wml.Numbering {
	return d.numbering
}

// EnsureNumbering returns the numbering definitions, creating an empty set
// when the document has none. A created set is saved as a new part.
func (d *Document) EnsureNumbering() *wml.Numbering {
	if d.numbering == nil {
		d.numbering = wml.NewNumbering()
	}
	return d.numbering
}

// IsListItem reports whether p carries a numbering reference.
func (d *Document) IsListItem(p *wml.Paragraph) bool {
	_, ok := p.Numbering()
	return ok
}

// IsBulletListItem reports whether p refers to a list whose first level is
// a bullet.
func (d *Document) IsBulletListItem(p *wml.Paragraph) bool {
	ref, ok := p.Numbering()
	return ok && d.numbering.IsBulletList(ref.NumID)
}

// ListLevel returns the list level of p (0 when only a num id is present).
func (d *Document) ListLevel(p *wml.Paragraph) (int, bool) {
	ref, ok := p.Numbering()
	if !ok {
		return 0, false
	}
	return ref.Level, true
}

// ListFormat returns the number format of the level p refers to.
func (d *Document) ListFormat(p *wml.Paragraph) (wml.NumberFormat, bool) {
	ref, ok := p.Numbering()
	if !ok {
		return "", false
	}
	return d.numbering.Format(ref.NumID, ref.Level)
}

// ListLabel returns the label Word would show before p, counting every list
// paragraph that precedes it in the body.
func (d *Document) ListLabel(p *wml.Paragraph) (string, bool) {
	labeler := render.NewLabeler(d.numbering)
	var (
		label string
		found bool
	)
	render.WalkParagraphs(d.main.Body, func(q *wml.Paragraph) bool {
		l, ok := labeler.Next(q)
		if q == p {
			label, found = l, ok
			return false
		}
		return true
	})
	return label, found
}
