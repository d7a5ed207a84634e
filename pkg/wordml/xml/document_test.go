package xml

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

const documentFixture = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006" mc:Ignorable="w14">
  <w:body>
    <w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Title</w:t></w:r></w:p>
    <w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>First item</w:t></w:r></w:p>
    <w:p><w:pPr><w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr></w:pPr></w:p>
    <w:sectPr><w:type w:val="nextPage"/></w:sectPr>
    <w:tbl>
      <w:tblGrid><w:gridCol w:w="4000"/><w:gridCol w:w="4000"/></w:tblGrid>
      <w:tr><w:tc><w:p><w:r><w:t>a</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>b</w:t></w:r></w:p></w:tc></w:tr>
    </w:tbl>
    <w:sdt><w:sdtContent><w:p><w:r><w:t>in a control</w:t></w:r></w:p></w:sdtContent></w:sdt>
    <w:p><w:r><w:t xml:space="preserve">Last  line</w:t></w:r></w:p>
    <w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr>
  </w:body>
</w:document>`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(documentFixture))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	paras := doc.Body.Paragraphs()
	if len(paras) != 4 {
		t.Fatalf("Expected 4 top-level paragraphs, got %d", len(paras))
	}
	if !paras[0].IsHeading() {
		t.Error("Expected the first paragraph to be a heading")
	}
	if ref, ok := paras[1].Numbering(); !ok || ref.NumID != 1 {
		t.Errorf("Expected list item with num id 1, got %+v (%v)", ref, ok)
	}
	tables := doc.Body.Tables()
	if len(tables) != 1 || tables[0].Text() != "a\tb" {
		t.Fatalf("Expected one table 'a\\tb', got %d", len(tables))
	}

	want := "Title\nFirst item\n\nLast  line"
	if got := doc.Body.Text(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	sect := doc.Body.SectionProperties
	if sect == nil {
		t.Fatal("Expected section properties")
	}
	if got := sect.String(); got != `<w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr>` {
		t.Errorf("Expected the last sectPr, got %s", got)
	}

	// The earlier body-level sectPr stays in place as a preserved block.
	raw, ok := doc.Body.Content[3].(*RawElement)
	if !ok || raw.LocalName() != "sectPr" {
		t.Errorf("Expected the first sectPr at index 3, got %T", doc.Body.Content[3])
	}
	if _, ok := doc.Body.Content[5].(*RawElement); !ok {
		t.Errorf("Expected the content control preserved at index 5, got %T", doc.Body.Content[5])
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	first, err := ParseDocument([]byte(documentFixture))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	out, err := first.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.HasPrefix(string(out), Declaration+"\n") {
		t.Errorf("Expected declaration line, got %q", string(out[:60]))
	}
	if !strings.Contains(string(out), `mc:Ignorable="w14"`) {
		t.Error("Expected root attributes to be preserved")
	}

	second, err := ParseDocument(out)
	if err != nil {
		t.Fatalf("Reparse failed: %v", err)
	}
	if first.Body.Text() != second.Body.Text() {
		t.Errorf("Expected text %q, got %q", first.Body.Text(), second.Body.Text())
	}
	if len(first.Body.Paragraphs()) != len(second.Body.Paragraphs()) {
		t.Errorf("Expected %d paragraphs, got %d", len(first.Body.Paragraphs()), len(second.Body.Paragraphs()))
	}
	t1, t2 := first.Body.Tables()[0], second.Body.Tables()[0]
	if t1.RowCount() != t2.RowCount() || t1.ColumnCount() != t2.ColumnCount() {
		t.Errorf("Expected %dx%d table, got %dx%d", t1.RowCount(), t1.ColumnCount(), t2.RowCount(), t2.ColumnCount())
	}

	again, err := second.Marshal()
	if err != nil {
		t.Fatalf("Second marshal failed: %v", err)
	}
	if string(again) != string(out) {
		t.Error("Expected serialization to be stable after the first round trip")
	}
}

func TestDecodeDocumentMissingBody(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"Empty input", ``},
		{"Declaration only", `<?xml version="1.0"?>`},
		{"Root without body", `<w:document xmlns:w="x"><w:background/></w:document>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.src))
			if !errors.Is(err, ErrMissingBody) {
				t.Errorf("Expected ErrMissingBody, got %v", err)
			}
		})
	}
}

func TestDecodeDocumentCorrupt(t *testing.T) {
	_, err := ParseDocument([]byte(`<w:document><w:body><w:p></w:r></w:body></w:document>`))
	if err == nil {
		t.Fatal("Expected an error")
	}
	if errors.Is(err, ErrMissingBody) {
		t.Error("Expected a decode error, not ErrMissingBody")
	}
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Errorf("Expected *DecodeError, got %T", err)
	}
}

func TestDecodeDocumentBareBody(t *testing.T) {
	doc, err := ParseDocument([]byte(`<w:body><w:p><w:r><w:t>x</w:t></w:r></w:p></w:body>`))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if doc.Name != "w:document" || doc.Body.Text() != "x" {
		t.Errorf("Unexpected document: %s %q", doc.Name, doc.Body.Text())
	}
}

func TestNewDocumentMarshal(t *testing.T) {
	doc := NewDocument()
	doc.Body.AddParagraph(NewParagraph("Hello"))
	doc.Body.AddTable(NewTable(1, 1))
	out, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(out)
	for _, want := range []string{
		`xmlns:w="` + NamespaceW + `"`,
		`xmlns:r="` + NamespaceR + `"`,
		`<w:body><w:p><w:r><w:t>Hello</w:t></w:r></w:p>`,
		`<w:tbl><w:tblGrid><w:gridCol/></w:tblGrid><w:tr><w:tc><w:p/></w:tc></w:tr></w:tbl></w:body></w:document>`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected output to contain %q, got %s", want, s)
		}
	}
}

func TestBodyInsertRemove(t *testing.T) {
	b := &Body{}
	b.AddParagraph(NewParagraph("a"))
	b.AddParagraph(NewParagraph("c"))
	b.Insert(1, NewParagraph("b"))
	b.Insert(99, NewParagraph("d"))
	if got := b.Text(); got != "a\nb\nc\nd" {
		t.Errorf("Expected a,b,c,d, got %q", got)
	}
	if el := b.Remove(0); el == nil {
		t.Error("Expected removed element")
	}
	if b.Remove(10) != nil {
		t.Error("Expected nil for out-of-range remove")
	}
	if got := b.Text(); got != "b\nc\nd" {
		t.Errorf("Expected b,c,d, got %q", got)
	}
}

func TestBodyUnknownBlockOrderingIsPreserved(t *testing.T) {
	doc, err := ParseDocument([]byte(`<w:body><w:p/><w:customXml w:element="x"/><w:p><w:r><w:t>z</w:t></w:r></w:p></w:body>`))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	var sb strings.Builder
	e := NewEncoder(&sb)
	doc.Body.EncodeXML(e)
	if err := e.Flush(); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	want := `<w:body><w:p/><w:customXml w:element="x"/><w:p><w:r><w:t>z</w:t></w:r></w:p></w:body>`
	if sb.String() != want {
		t.Errorf("Expected %q, got %q", want, sb.String())
	}
}

func TestBodyCommentsArePreserved(t *testing.T) {
	src := `<w:body><!-- keep --><w:p><w:r><w:t>a</w:t></w:r></w:p><!--tail--><w:sectPr/></w:body>`
	doc, err := ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if n := len(doc.Body.Paragraphs()); n != 1 {
		t.Errorf("Expected 1 paragraph, got %d", n)
	}
	var sb strings.Builder
	e := NewEncoder(&sb)
	doc.Body.EncodeXML(e)
	if err := e.Flush(); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if sb.String() != src {
		t.Errorf("Expected %q, got %q", src, sb.String())
	}
}

func TestParseDocumentConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := ParseDocument([]byte(documentFixture))
			if err != nil {
				errs <- err
				return
			}
			doc.Body.AddParagraph(NewParagraph("mine"))
			if _, err := doc.Marshal(); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Concurrent parse failed: %v", err)
	}
}
