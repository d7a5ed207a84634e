package render

import (
	"reflect"

	wml "github.com/benjaminschreck/go-wordml/pkg/wordml/xml"
)

// runPropertiesEquivalent checks if two run properties are equivalent for merging purposes
func runPropertiesEquivalent(p1, p2 *wml.RunProperties) bool {
	if p1.IsEmpty() && p2.IsEmpty() {
		return true
	}
	if (p1 == nil) != (p2 == nil) {
		return false
	}
	return reflect.DeepEqual(p1, p2)
}

// mergeable reports whether next can be folded into current.
func mergeable(current, next *wml.Run) bool {
	return current.HasOnlyText() && next.HasOnlyText() &&
		runPropertiesEquivalent(current.Properties, next.Properties)
}

// MergeConsecutiveRuns merges adjacent text-only runs with equal properties.
// Runs inside a hyperlink are merged among themselves; a hyperlink,
// bookmark or preserved element always ends a sequence. The first run of a
// merged sequence keeps its attributes. It returns the number of runs
// removed.
func MergeConsecutiveRuns(para *wml.Paragraph) int {
	if para == nil || len(para.Content) < 1 {
		return 0
	}

	removed := 0
	merged := make([]wml.ParagraphContent, 0, len(para.Content))
	var current *wml.Run

	for _, content := range para.Content {
		switch c := content.(type) {
		case *wml.Run:
			if current != nil && mergeable(current, c) {
				current.SetText(current.Text() + c.Text())
				removed++
				continue
			}
			current = c
			merged = append(merged, c)

		case *wml.Hyperlink:
			current = nil
			var n int
			c.Runs, n = mergeRunSlice(c.Runs)
			removed += n
			merged = append(merged, c)

		default:
			current = nil
			merged = append(merged, content)
		}
	}

	para.Content = merged
	return removed
}

// mergeRunSlice merges a slice of runs
func mergeRunSlice(runs []*wml.Run) ([]*wml.Run, int) {
	if len(runs) <= 1 {
		return runs, 0
	}

	merged := make([]*wml.Run, 0, len(runs))
	var current *wml.Run
	removed := 0

	for _, run := range runs {
		if current != nil && mergeable(current, run) {
			current.SetText(current.Text() + run.Text())
			removed++
			continue
		}
		current = run
		merged = append(merged, run)
	}
	return merged, removed
}
