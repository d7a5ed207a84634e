// Package xml provides the WordprocessingML document object model and the
// codec that reads and writes it.
//
// Parts are decoded in raw-token mode so element and attribute names keep the
// prefixes they were written with. Every container knows a fixed set of child
// elements; anything else is kept as a RawElement and written back unchanged,
// so a document survives a parse and serialize cycle even when it uses markup
// this package does not model.
//
// # Structure Organization
//
//   - codec.go: Decoder, Encoder and the shared container loop
//   - raw.go: RawElement, the preservation primitive
//   - types.go: content interfaces and attribute helpers
//   - run.go: Run, its content items and RunProperties
//   - paragraph.go: Paragraph, Hyperlink and bookmarks
//   - table.go, table_builder.go: Table, TableRow, TableCell
//   - numbering.go: the numbering part
//   - document.go: the document root and Body
//
// # Ordering
//
// Known children are written in a fixed schema order and preserved unknown
// children follow them as a block. Paragraph, run and body content are single
// ordered lists, so their interleaving survives a round trip; property bags
// do not keep the relative order of known and unknown children.
//
// # Usage
//
//	doc, err := xml.ParseDocument(data)
//	if err != nil {
//	    return err
//	}
//	for _, p := range doc.Body.Paragraphs() {
//	    fmt.Println(p.Text())
//	}
//	doc.Body.AddParagraph(xml.NewParagraph("Hello, world!"))
//	out, err := doc.Marshal()
package xml
