// Command wordml inspects and rewrites .docx files.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/alecthomas/kong"
	json "github.com/goccy/go-json"

	"github.com/benjaminschreck/go-wordml/pkg/wordml"
	"github.com/benjaminschreck/go-wordml/pkg/wordml/render"
	wml "github.com/benjaminschreck/go-wordml/pkg/wordml/xml"
)

const version = "0.1.0"

var stdout io.Writer = os.Stdout

// CLI defines the command-line interface for wordml.
var CLI struct {
	Config   string `name:"config" short:"c" help:"YAML configuration file" type:"existingfile"`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error, off)"`

	Text      TextCmd      `cmd:"" help:"Print the document text"`
	Info      InfoCmd      `cmd:"" help:"Summarize the document structure"`
	Parts     PartsCmd     `cmd:"" help:"List package parts with content types and digests"`
	Numbering NumberingCmd `cmd:"" help:"Print the numbering definitions"`
	Roundtrip RoundtripCmd `cmd:"" help:"Read a document and write it back"`
	Normalize NormalizeCmd `cmd:"" help:"Merge adjacent runs with equal formatting"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// TextCmd prints paragraph text, optionally with list labels.
type TextCmd struct {
	Path   string `arg:"" help:"Input .docx" type:"existingfile"`
	Labels bool   `help:"Prefix list items with their labels and include tables"`
}

func (c *TextCmd) Run() error {
	doc, err := wordml.Open(c.Path)
	if err != nil {
		return err
	}
	if c.Labels {
		fmt.Fprintln(stdout, doc.LabeledText())
	} else {
		fmt.Fprintln(stdout, doc.Text())
	}
	return nil
}

// InfoCmd prints counts of the main document's structures.
type InfoCmd struct {
	Path string `arg:"" help:"Input .docx" type:"existingfile"`
	JSON bool   `name:"json" help:"Print JSON"`
}

// DocumentInfo is the summary InfoCmd prints.
type DocumentInfo struct {
	Path         string `json:"path"`
	Parts        int    `json:"parts"`
	Paragraphs   int    `json:"paragraphs"`
	Tables       int    `json:"tables"`
	Headings     int    `json:"headings"`
	ListItems    int    `json:"list_items"`
	BulletItems  int    `json:"bullet_items"`
	Hyperlinks   int    `json:"hyperlinks"`
	HasNumbering bool   `json:"has_numbering"`
	Characters   int    `json:"characters"`
}

func (c *InfoCmd) Run() error {
	doc, err := wordml.Open(c.Path)
	if err != nil {
		return err
	}
	info := collectInfo(c.Path, doc)

	if c.JSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode info: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	fmt.Fprintf(stdout, "Document: %s\n", info.Path)
	fmt.Fprintf(stdout, "  Parts:       %d\n", info.Parts)
	fmt.Fprintf(stdout, "  Paragraphs:  %d\n", info.Paragraphs)
	fmt.Fprintf(stdout, "  Tables:      %d\n", info.Tables)
	fmt.Fprintf(stdout, "  Headings:    %d\n", info.Headings)
	fmt.Fprintf(stdout, "  List items:  %d (%d bullets)\n", info.ListItems, info.BulletItems)
	fmt.Fprintf(stdout, "  Hyperlinks:  %d\n", info.Hyperlinks)
	fmt.Fprintf(stdout, "  Numbering:   %v\n", info.HasNumbering)
	fmt.Fprintf(stdout, "  Characters:  %d\n", info.Characters)
	return nil
}

func collectInfo(path string, doc *wordml.Document) DocumentInfo {
	info := DocumentInfo{
		Path:         path,
		Parts:        len(doc.Package().Parts()),
		Tables:       doc.TableCount(),
		HasNumbering: doc.Numbering() != nil,
	}
	render.WalkParagraphs(doc.Body(), func(p *wml.Paragraph) bool {
		info.Paragraphs++
		info.Characters += len([]rune(p.Text()))
		info.Hyperlinks += len(p.Hyperlinks())
		if p.IsHeading() {
			info.Headings++
		}
		if doc.IsListItem(p) {
			info.ListItems++
			if doc.IsBulletListItem(p) {
				info.BulletItems++
			}
		}
		return true
	})
	return info
}

// PartsCmd lists every part of the package.
type PartsCmd struct {
	Path     string `arg:"" help:"Input .docx" type:"existingfile"`
	Modified bool   `help:"Only list parts that would change on save"`
}

func (c *PartsCmd) Run() error {
	doc, err := wordml.Open(c.Path)
	if err != nil {
		return err
	}
	pkg := doc.Package()
	uris := pkg.Parts()
	if c.Modified {
		if _, err := doc.Bytes(); err != nil {
			return err
		}
		uris = pkg.ModifiedParts()
	}
	for _, uri := range uris {
		part, err := pkg.Part(uri)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s  %8d  %-40s  %s\n", part.Digest()[:16], len(part.Data), uri, part.ContentType)
	}
	return nil
}

// NumberingCmd prints abstract numbering definitions and their instances.
type NumberingCmd struct {
	Path string `arg:"" help:"Input .docx" type:"existingfile"`
}

func (c *NumberingCmd) Run() error {
	doc, err := wordml.Open(c.Path)
	if err != nil {
		return err
	}
	writeNumbering(stdout, doc.Numbering())
	return nil
}

func writeNumbering(w io.Writer, numbering *wml.Numbering) {
	if numbering == nil {
		fmt.Fprintln(w, "no numbering part")
		return
	}
	for _, id := range sortedIDs(numbering.Nums) {
		num := numbering.Nums[id]
		fmt.Fprintf(w, "num %d -> abstractNum %d\n", num.ID, num.AbstractNumID)
		abstract, ok := numbering.AbstractNums[num.AbstractNumID]
		if !ok {
			fmt.Fprintln(w, "  (undefined)")
			continue
		}
		for _, ilvl := range sortedIDs(abstract.Levels) {
			level := abstract.Levels[ilvl]
			start := 0
			if s, ok := numbering.StartOverride(id, ilvl); ok {
				start = s
			} else if level.Start != nil {
				start = *level.Start
			}
			text := ""
			if level.LevelText != nil {
				text = *level.LevelText
			}
			fmt.Fprintf(w, "  lvl %d  %-24s start=%-3d %q  e.g. %q\n",
				ilvl, level.NumFmt, start, text, sampleLabel(text, level.NumFmt, start))
		}
	}
}

// sampleLabel renders a level's first label with every placeholder taking
// the start value.
func sampleLabel(text string, format wml.NumberFormat, start int) string {
	tmpl, err := render.ParseLevelText(text)
	if err != nil {
		return text
	}
	return tmpl.Render(func(int) string {
		return render.FormatNumber(start, format)
	})
}

func sortedIDs[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// RoundtripCmd reads a document and writes it back unchanged.
type RoundtripCmd struct {
	In  string `arg:"" help:"Input .docx" type:"existingfile"`
	Out string `arg:"" help:"Output .docx" type:"path"`
}

func (c *RoundtripCmd) Run() error {
	doc, err := wordml.Open(c.In)
	if err != nil {
		return err
	}
	return doc.Save(c.Out)
}

// NormalizeCmd merges runs and writes the result.
type NormalizeCmd struct {
	In  string `arg:"" help:"Input .docx" type:"existingfile"`
	Out string `arg:"" help:"Output .docx" type:"path"`
}

func (c *NormalizeCmd) Run() error {
	doc, err := wordml.Open(c.In)
	if err != nil {
		return err
	}
	removed := doc.MergeRuns()
	if err := doc.Save(c.Out); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "merged %d runs\n", removed)
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Fprintf(stdout, "wordml version %s\n", version)
	return nil
}

// applyGlobals loads the configuration file and log level flag into the
// package configuration.
func applyGlobals() error {
	config, err := loadConfig(CLI.Config, CLI.LogLevel)
	if err != nil {
		return err
	}
	wordml.SetGlobalConfig(config)
	return nil
}

// loadConfig layers the configuration file and the log level over the
// current configuration and fills anything left unset with defaults.
func loadConfig(path, level string) (*wordml.Config, error) {
	base := wordml.GetGlobalConfig()
	if path != "" {
		loaded, err := wordml.ConfigFromFile(path)
		if err != nil {
			return nil, err
		}
		base = loaded
	}
	if level != "" {
		base.LogLevel = level
	}
	config := wordml.NewConfigWithDefaults(base)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("wordml"),
		kong.Description("Inspect and rewrite WordprocessingML (.docx) documents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	ctx.FatalIfErrorf(applyGlobals())
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
