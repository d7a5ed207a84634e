package xml

import (
	"encoding/xml"
	"strconv"
)

// BodyElement represents any block that can appear in a document body:
// *Paragraph, *Table, *RawElement or RawComment.
type BodyElement interface {
	isBodyElement()
}

// ParagraphContent represents any inline item of a paragraph: *Run,
// *Hyperlink, *BookmarkStart, *BookmarkEnd, *RawElement or RawComment.
type ParagraphContent interface {
	isParagraphContent()
}

// RunContent represents any item inside a run: Text, Tab, Break,
// CarriageReturn, SoftHyphen, NoBreakHyphen or *RawElement.
type RunContent interface {
	isRunContent()
}

// Attr is an attribute with its name as written, prefix included.
type Attr struct {
	Name  string
	Value string
}

// qualifiedName joins a raw token name back into prefix:local form.
func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// convertAttrs turns raw token attributes into Attrs, keeping order.
func convertAttrs(attrs []xml.Attr) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(attrs))
	for i, a := range attrs {
		out[i] = Attr{Name: qualifiedName(a.Name), Value: a.Value}
	}
	return out
}

// attrValue returns the first attribute matching one of the qualified names.
func attrValue(start xml.StartElement, names ...string) (string, bool) {
	for _, name := range names {
		for _, a := range start.Attr {
			if qualifiedName(a.Name) == name {
				return a.Value, true
			}
		}
	}
	return "", false
}

// valAttr reads w:val, falling back to an unprefixed val.
func valAttr(start xml.StartElement) (string, bool) {
	return attrValue(start, "w:val", "val")
}

// parseToggle applies the OOXML on/off rule: a missing value means on,
// otherwise only "1", "true" and "on" mean on.
func parseToggle(start xml.StartElement) bool {
	val, ok := valAttr(start)
	if !ok {
		return true
	}
	return val == "1" || val == "true" || val == "on"
}

// intVal parses w:val as an integer. Unparsable or missing values yield nil.
func intVal(start xml.StartElement) *int {
	val, ok := valAttr(start)
	if !ok {
		return nil
	}
	return parseIntPtr(val)
}

func intAttr(start xml.StartElement, names ...string) *int {
	val, ok := attrValue(start, names...)
	if !ok {
		return nil
	}
	return parseIntPtr(val)
}

func parseIntPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// idAttr parses a required integer id; a malformed value degrades to 0.
func idAttr(start xml.StartElement, names ...string) int {
	if n := intAttr(start, names...); n != nil {
		return *n
	}
	return 0
}

// otherAttrs returns the attributes not listed in known.
func otherAttrs(start xml.StartElement, known ...string) []Attr {
	var out []Attr
outer:
	for _, a := range start.Attr {
		name := qualifiedName(a.Name)
		for _, k := range known {
			if name == k {
				continue outer
			}
		}
		out = append(out, Attr{Name: name, Value: a.Value})
	}
	return out
}

func valElement(e *Encoder, name, val string) {
	e.Empty(name, Attr{Name: "w:val", Value: val})
}

func intElement(e *Encoder, name string, val int) {
	valElement(e, name, strconv.Itoa(val))
}

func toggleElement(e *Encoder, name string, on *bool) {
	if on == nil {
		return
	}
	if *on {
		e.Empty(name)
		return
	}
	valElement(e, name, "0")
}

func intPtr(n int) *int {
	return &n
}

func boolPtr(b bool) *bool {
	return &b
}

func stringPtr(s string) *string {
	return &s
}
