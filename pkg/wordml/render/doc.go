// Package render computes derived views of a parsed document: list labels,
// plain text and normalized runs.
//
// The package works on the types of the xml package directly and never
// imports the wordml facade, so the facade can depend on it.
//
// # Structure Organization
//
//   - level_text.go: the w:lvlText grammar ("%1.%2.", "%1、", "•")
//   - format.go: counter formatting for each w:numFmt value
//   - labeler.go: per-num counters and label computation
//   - helpers.go: merging of adjacent runs with equal formatting
//   - body.go: body walking and plain-text output
//   - table.go: table walking and row text
//
// # Labels
//
// A Labeler must see paragraphs in document order. Each num id keeps its own
// counters; when a level advances every deeper level of the same num starts
// over. The first value of a level is the num's w:startOverride when present,
// otherwise the level's w:start:
//
//	labeler := render.NewLabeler(numbering)
//	for _, p := range body.Paragraphs() {
//	    if label, ok := labeler.Next(p); ok {
//	        fmt.Println(label, p.Text())
//	    }
//	}
//
// # Run merging
//
// Word splits text into many runs as a document is edited. MergeConsecutiveRuns
// folds adjacent text-only runs with equal properties into one:
//
//	removed := render.MergeConsecutiveRuns(para)
package render
