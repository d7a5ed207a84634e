package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/benjaminschreck/go-wordml/pkg/wordml"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	original := stdout
	var buf bytes.Buffer
	stdout = &buf
	t.Cleanup(func() { stdout = original })
	return &buf
}

func writeSample(t *testing.T) string {
	t.Helper()
	doc := wordml.New()
	numbering := doc.EnsureNumbering()
	decimal := numbering.AddDecimalList()

	heading := doc.AddParagraph("Plan")
	heading.SetStyle("Heading1")
	for _, text := range []string{"first", "second"} {
		p := doc.AddParagraph(text)
		p.SetNumbering(decimal, 0)
	}
	split := doc.AddParagraph("one ")
	split.AddText("two")

	path := filepath.Join(t.TempDir(), "sample.docx")
	if err := doc.Save(path); err != nil {
		t.Fatalf("Failed to save sample: %v", err)
	}
	return path
}

func TestTextCommand(t *testing.T) {
	path := writeSample(t)

	tests := []struct {
		name     string
		labels   bool
		expected string
	}{
		{name: "plain", expected: "Plan\nfirst\nsecond\none two\n"},
		{name: "labels", labels: true, expected: "Plan\n1.\tfirst\n2.\tsecond\none two\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t)
			cmd := &TextCmd{Path: path, Labels: tt.labels}
			if err := cmd.Run(); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if out.String() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, out.String())
			}
		})
	}
}

func TestInfoCommandJSON(t *testing.T) {
	path := writeSample(t)
	out := captureOutput(t)

	if err := (&InfoCmd{Path: path, JSON: true}).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	var info DocumentInfo
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", out.String(), err)
	}
	if info.Paragraphs != 4 || info.Headings != 1 || info.ListItems != 2 || info.BulletItems != 0 {
		t.Errorf("Unexpected info: %+v", info)
	}
	if !info.HasNumbering {
		t.Error("Expected numbering to be reported")
	}
}

func TestPartsCommand(t *testing.T) {
	path := writeSample(t)
	out := captureOutput(t)

	if err := (&PartsCmd{Path: path}).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, expected := range []string{"/word/document.xml", "/word/numbering.xml"} {
		if !strings.Contains(out.String(), expected) {
			t.Errorf("Expected %s in output, got:\n%s", expected, out.String())
		}
	}
}

func TestNumberingCommand(t *testing.T) {
	path := writeSample(t)
	out := captureOutput(t)

	if err := (&NumberingCmd{Path: path}).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "num 0 -> abstractNum 0") {
		t.Errorf("Expected num listing, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), `e.g. "1."`) {
		t.Errorf("Expected sample label, got:\n%s", out.String())
	}
}

func TestNormalizeCommand(t *testing.T) {
	path := writeSample(t)
	out := captureOutput(t)
	target := filepath.Join(t.TempDir(), "normalized.docx")

	if err := (&NormalizeCmd{In: path, Out: target}).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "merged 1 runs") {
		t.Errorf("Unexpected output %q", out.String())
	}
	doc, err := wordml.Open(target)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	if n := len(doc.Paragraph(3).Runs()); n != 1 {
		t.Errorf("Expected 1 run after normalize, got %d", n)
	}
}

func TestRoundtripCommand(t *testing.T) {
	path := writeSample(t)
	captureOutput(t)
	target := filepath.Join(t.TempDir(), "copy.docx")

	if err := (&RoundtripCmd{In: path, Out: target}).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	doc, err := wordml.Open(target)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	if doc.Text() != "Plan\nfirst\nsecond\none two" {
		t.Errorf("Unexpected text %q", doc.Text())
	}
}

func TestLoadConfig(t *testing.T) {
	original := wordml.GetGlobalConfig()
	t.Cleanup(func() { wordml.SetGlobalConfig(original) })

	dir := t.TempDir()
	file := filepath.Join(dir, "wordml.yaml")
	if err := os.WriteFile(file, []byte("log_level: warn\nmax_part_size: 2048\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("log_format: xml\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	tests := []struct {
		name       string
		global     *wordml.Config
		path       string
		level      string
		wantLevel  string
		wantFormat string
		wantSize   int64
		wantErr    bool
	}{
		{
			name:       "unset fields get defaults",
			global:     &wordml.Config{LogLevel: "error", MaxPartSize: 10},
			wantLevel:  "error",
			wantFormat: "text",
			wantSize:   10,
		},
		{
			name:       "flag overrides global",
			global:     &wordml.Config{MaxPartSize: 10},
			level:      "debug",
			wantLevel:  "debug",
			wantFormat: "text",
			wantSize:   10,
		},
		{
			name:       "file replaces global",
			global:     &wordml.Config{LogLevel: "error", MaxPartSize: 10},
			path:       file,
			wantLevel:  "warn",
			wantFormat: "text",
			wantSize:   2048,
		},
		{
			name:    "invalid level",
			global:  wordml.DefaultConfig(),
			level:   "loud",
			wantErr: true,
		},
		{
			name:    "invalid file",
			global:  wordml.DefaultConfig(),
			path:    bad,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wordml.SetGlobalConfig(tt.global)
			config, err := loadConfig(tt.path, tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if config.LogLevel != tt.wantLevel || config.LogFormat != tt.wantFormat || config.MaxPartSize != tt.wantSize {
				t.Errorf("Expected %s/%s/%d, got %s/%s/%d", tt.wantLevel, tt.wantFormat, tt.wantSize,
					config.LogLevel, config.LogFormat, config.MaxPartSize)
			}
		})
	}
}
