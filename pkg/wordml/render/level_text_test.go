package render

import (
	"reflect"
	"strconv"
	"testing"
)

func TestParseLevelText(t *testing.T) {
	tests := []struct {
		input    string
		segments []Segment
		levels   []int
	}{
		{
			input:    "%1.",
			segments: []Segment{{Level: 0}, {Literal: ".", Level: -1}},
			levels:   []int{0},
		},
		{
			input:    "%1.%2.%3",
			segments: []Segment{{Level: 0}, {Literal: ".", Level: -1}, {Level: 1}, {Literal: ".", Level: -1}, {Level: 2}},
			levels:   []int{0, 1, 2},
		},
		{
			input:    "%1、",
			segments: []Segment{{Level: 0}, {Literal: "、", Level: -1}},
			levels:   []int{0},
		},
		{
			input:    "•",
			segments: []Segment{{Literal: "•", Level: -1}},
		},
		{
			input:    "(%9)",
			segments: []Segment{{Literal: "(", Level: -1}, {Level: 8}, {Literal: ")", Level: -1}},
			levels:   []int{8},
		},
		{
			// '%' without a level digit is literal and joins its neighbours
			input:    "100% %0",
			segments: []Segment{{Literal: "100% %0", Level: -1}},
		},
		{
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tmpl, err := ParseLevelText(tt.input)
			if err != nil {
				t.Fatalf("ParseLevelText(%q) failed: %v", tt.input, err)
			}
			if !reflect.DeepEqual(tmpl.Segments, tt.segments) {
				t.Errorf("Expected segments %+v, got %+v", tt.segments, tmpl.Segments)
			}
			if !reflect.DeepEqual(tmpl.Levels(), tt.levels) {
				t.Errorf("Expected levels %v, got %v", tt.levels, tmpl.Levels())
			}
			if tmpl.String() != tt.input {
				t.Errorf("Expected %q to print back unchanged, got %q", tt.input, tmpl.String())
			}
		})
	}
}

func TestLevelTemplateRender(t *testing.T) {
	tmpl, err := ParseLevelText("Article %1.%2 -")
	if err != nil {
		t.Fatalf("ParseLevelText failed: %v", err)
	}
	got := tmpl.Render(func(level int) string {
		return strconv.Itoa((level + 1) * 10)
	})
	if got != "Article 10.20 -" {
		t.Errorf("Expected %q, got %q", "Article 10.20 -", got)
	}

	again, err := ParseLevelText("Article %1.%2 -")
	if err != nil {
		t.Fatalf("Second parse failed: %v", err)
	}
	if again != tmpl {
		t.Error("Expected the parsed template to be reused")
	}
}
