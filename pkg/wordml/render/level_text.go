package render

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// LevelTemplate is a parsed w:lvlText value such as "%1.%2." or "•".
type LevelTemplate struct {
	Segments []Segment
}

// Segment is either literal text or a placeholder for the counter of a
// level. Level is 0-based and -1 for literal segments.
type Segment struct {
	Literal string
	Level   int
}

// IsPlaceholder reports whether the segment refers to a level counter.
func (s Segment) IsPlaceholder() bool {
	return s.Level >= 0
}

//nolint:govet
type levelTextAST struct {
	Parts []*levelTextPart `parser:"@@*"`
}

//nolint:govet
type levelTextPart struct {
	Placeholder *string `parser:"  @Placeholder"`
	Literal     *string `parser:"| @(Literal | Percent)"`
}

var levelTextLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Placeholder", Pattern: `%[1-9]`},
	{Name: "Percent", Pattern: `%`},
	{Name: "Literal", Pattern: `[^%]+`},
})

var levelTextParser = participle.MustBuild[levelTextAST](
	participle.Lexer(levelTextLexer),
)

var templateCache sync.Map

// ParseLevelText parses a level text template. A '%' not followed by a
// digit 1-9 is literal.
func ParseLevelText(s string) (*LevelTemplate, error) {
	if cached, ok := templateCache.Load(s); ok {
		return cached.(*LevelTemplate), nil
	}

	ast, err := levelTextParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid level text %q: %w", s, err)
	}

	tmpl := &LevelTemplate{}
	for _, part := range ast.Parts {
		if part.Placeholder != nil {
			n, _ := strconv.Atoi((*part.Placeholder)[1:])
			tmpl.Segments = append(tmpl.Segments, Segment{Level: n - 1})
			continue
		}
		tmpl.appendLiteral(*part.Literal)
	}
	templateCache.Store(s, tmpl)
	return tmpl, nil
}

func (t *LevelTemplate) appendLiteral(s string) {
	if n := len(t.Segments); n > 0 && !t.Segments[n-1].IsPlaceholder() {
		t.Segments[n-1].Literal += s
		return
	}
	t.Segments = append(t.Segments, Segment{Literal: s, Level: -1})
}

// Levels returns the levels referenced by placeholders, in template order.
func (t *LevelTemplate) Levels() []int {
	var levels []int
	for _, s := range t.Segments {
		if s.IsPlaceholder() {
			levels = append(levels, s.Level)
		}
	}
	return levels
}

// Render substitutes each placeholder with value(level).
func (t *LevelTemplate) Render(value func(level int) string) string {
	var sb strings.Builder
	for _, s := range t.Segments {
		if s.IsPlaceholder() {
			sb.WriteString(value(s.Level))
		} else {
			sb.WriteString(s.Literal)
		}
	}
	return sb.String()
}

// String returns the template in lvlText form.
func (t *LevelTemplate) String() string {
	return t.Render(func(level int) string {
		return "%" + strconv.Itoa(level+1)
	})
}
