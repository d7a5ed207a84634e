// Package wordml reads, edits and writes Microsoft Word documents (DOCX)
// without losing the markup it does not understand.
//
// Paragraphs, runs, tables and numbering definitions are parsed into typed
// values; every other element is kept as raw XML and written back in place.
// Parts of the package that are never parsed (styles, images, headers) are
// written back byte for byte.
//
// # Quick Start
//
//	doc, err := wordml.Open("report.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, p := range doc.Paragraphs() {
//	    if p.IsHeading() {
//	        fmt.Println("#", p.Text())
//	    }
//	}
//
//	doc.AddParagraph("Appendix")
//	if err := doc.Save("report-out.docx"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Lists
//
// List membership comes from the paragraph's numbering reference and the
// numbering part:
//
//	numbering := doc.EnsureNumbering()
//	numID := numbering.AddDecimalList()
//	item := doc.AddParagraph("first step")
//	item.SetNumbering(numID, 0)
//
//	label, _ := doc.ListLabel(item) // "1."
//
// A document without a numbering part gets one on save once EnsureNumbering
// has been called; the relationship and content type are registered then.
//
// # Architecture
//
// The package is organized into several sub-packages:
//
//   - xml: the element model and its codec (Document, Body, Paragraph, Run, Table, Numbering)
//   - opc: the ZIP package, its relationships and content types
//   - render: derived views (list labels, plain text, run merging)
//
// The main package provides:
//   - Document loading and saving (Open, FromBytes, New, Save)
//   - Query and mutation helpers over the body and numbering
//   - Configuration and logging
//   - Error handling
//
// # Configuration
//
// Settings come from DefaultConfig, WORDML_* environment variables or a YAML
// file:
//
//	config, err := wordml.ConfigFromFile("wordml.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	wordml.SetGlobalConfig(config)
//
// # Error Handling
//
//   - DocumentError: an operation on a path failed
//   - ParseError: a part's XML could not be decoded
//   - MissingPartError: a required part or relationship is absent
//   - ValidationError: configuration problems
//
// errors.Is(err, wordml.ErrMissingBody) and errors.Is(err, wordml.ErrPartNotFound)
// work through every wrapper.
//
// # Thread Safety
//
// A Document is not safe for concurrent mutation. Separate documents can be
// opened and saved from separate goroutines.
package wordml
