package render

import (
	wml "github.com/benjaminschreck/go-wordml/pkg/wordml/xml"
)

// maxLevels is the number of levels an abstract numbering can define.
const maxLevels = 9

// counterState tracks the current value of each level of one num instance.
type counterState struct {
	values [maxLevels]int
	seen   [maxLevels]bool
}

// Labeler computes list labels for paragraphs visited in document order.
// Counters are kept per num id; advancing a level restarts every deeper
// level of the same num.
type Labeler struct {
	numbering *wml.Numbering
	counters  map[int]*counterState
}

// NewLabeler creates a Labeler over a numbering part. A nil numbering yields
// no labels.
func NewLabeler(numbering *wml.Numbering) *Labeler {
	return &Labeler{
		numbering: numbering,
		counters:  make(map[int]*counterState),
	}
}

// Reset clears all counters.
func (l *Labeler) Reset() {
	l.counters = make(map[int]*counterState)
}

// Next advances the counters for p and returns its label. The second result
// is false when p is not a list item or refers to a definition that does not
// exist; counters are untouched in that case.
func (l *Labeler) Next(p *wml.Paragraph) (string, bool) {
	ref, ok := p.Numbering()
	if !ok || ref.Level < 0 || ref.Level >= maxLevels {
		return "", false
	}
	level, ok := l.numbering.Level(ref.NumID, ref.Level)
	if !ok {
		return "", false
	}

	state, ok := l.counters[ref.NumID]
	if !ok {
		state = &counterState{}
		l.counters[ref.NumID] = state
	}
	if state.seen[ref.Level] {
		state.values[ref.Level]++
	} else {
		state.values[ref.Level] = l.start(ref.NumID, ref.Level)
		state.seen[ref.Level] = true
	}
	for deeper := ref.Level + 1; deeper < maxLevels; deeper++ {
		state.seen[deeper] = false
	}

	if level.LevelText == nil {
		return FormatNumber(state.values[ref.Level], level.NumFmt), true
	}
	tmpl, err := ParseLevelText(*level.LevelText)
	if err != nil {
		return *level.LevelText, true
	}
	return tmpl.Render(func(ilvl int) string {
		if ilvl >= maxLevels {
			return ""
		}
		value := state.values[ilvl]
		if !state.seen[ilvl] {
			value = l.start(ref.NumID, ilvl)
		}
		format, _ := l.numbering.Format(ref.NumID, ilvl)
		return FormatNumber(value, format)
	}), true
}

// start returns the first value of a level: the num's override when present,
// else the level's w:start, else 0.
func (l *Labeler) start(numID, ilvl int) int {
	if v, ok := l.numbering.StartOverride(numID, ilvl); ok {
		return v
	}
	if level, ok := l.numbering.Level(numID, ilvl); ok && level.Start != nil {
		return *level.Start
	}
	return 0
}

// Labels returns the label of every paragraph in order; entries for
// paragraphs that are not list items are "".
func Labels(paragraphs []*wml.Paragraph, numbering *wml.Numbering) []string {
	l := NewLabeler(numbering)
	labels := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		labels[i], _ = l.Next(p)
	}
	return labels
}
