package opc

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	wml "github.com/benjaminschreck/go-wordml/pkg/wordml/xml"
)

// NamespaceRelationships is the namespace of relationships parts.
const NamespaceRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"

const officeRel = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"

// Relationship types used by WordprocessingML packages.
const (
	RelOfficeDocument     = officeRel + "officeDocument"
	RelStyles             = officeRel + "styles"
	RelSettings           = officeRel + "settings"
	RelNumbering          = officeRel + "numbering"
	RelFontTable          = officeRel + "fontTable"
	RelFootnotes          = officeRel + "footnotes"
	RelEndnotes           = officeRel + "endnotes"
	RelHeader             = officeRel + "header"
	RelFooter             = officeRel + "footer"
	RelImage              = officeRel + "image"
	RelHyperlink          = officeRel + "hyperlink"
	RelTheme              = officeRel + "theme"
	RelExtendedProperties = officeRel + "extended-properties"
	RelCoreProperties     = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
)

// TargetModeExternal marks a relationship pointing outside the package.
const TargetModeExternal = "External"

var relationshipExpr = xpath.MustCompile("//*[local-name()='Relationship']")

// Relationship is a typed link from a source part to a target.
type Relationship struct {
	ID         string
	Type       string
	Target     string
	TargetMode string
}

// IsExternal reports whether the target lies outside the package.
func (r *Relationship) IsExternal() bool {
	return r.TargetMode == TargetModeExternal
}

// Relationships is the ordered relationship list of one source.
type Relationships struct {
	list   []*Relationship
	nextID int
}

// NewRelationships creates an empty list; the first generated id is rId1.
func NewRelationships() *Relationships {
	return &Relationships{nextID: 1}
}

// ParseRelationships decodes a relationships part.
func ParseRelationships(data []byte) (*Relationships, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}

	rels := NewRelationships()
	for _, n := range xmlquery.QuerySelectorAll(doc, relationshipExpr) {
		r := &Relationship{}
		var ok bool
		if r.ID, ok = nodeAttr(n, "Id"); !ok {
			return nil, &MissingAttributeError{Element: "Relationship", Attribute: "Id"}
		}
		if r.Type, ok = nodeAttr(n, "Type"); !ok {
			return nil, &MissingAttributeError{Element: "Relationship", Attribute: "Type"}
		}
		if r.Target, ok = nodeAttr(n, "Target"); !ok {
			return nil, &MissingAttributeError{Element: "Relationship", Attribute: "Target"}
		}
		r.TargetMode, _ = nodeAttr(n, "TargetMode")
		rels.insert(r)
	}
	return rels, nil
}

// nodeAttr returns an unprefixed attribute and whether it is present.
func nodeAttr(n *xmlquery.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (rels *Relationships) insert(r *Relationship) {
	for i, existing := range rels.list {
		if existing.ID == r.ID {
			rels.list[i] = r
			return
		}
	}
	rels.list = append(rels.list, r)
	if n, ok := numericID(r.ID); ok && n >= rels.nextID {
		rels.nextID = n + 1
	}
}

func numericID(id string) (int, bool) {
	if !strings.HasPrefix(id, "rId") {
		return 0, false
	}
	n, err := strconv.Atoi(id[len("rId"):])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (rels *Relationships) newID() string {
	if rels.nextID < 1 {
		rels.nextID = 1
	}
	id := "rId" + strconv.Itoa(rels.nextID)
	rels.nextID++
	return id
}

// Marshal serializes the list with the XML declaration.
func (rels *Relationships) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	e := wml.NewEncoder(&buf)
	e.Declaration()
	e.Start("Relationships", wml.Attr{Name: "xmlns", Value: NamespaceRelationships})
	for _, r := range rels.All() {
		attrs := []wml.Attr{
			{Name: "Id", Value: r.ID},
			{Name: "Type", Value: r.Type},
			{Name: "Target", Value: r.Target},
		}
		if r.TargetMode != "" {
			attrs = append(attrs, wml.Attr{Name: "TargetMode", Value: r.TargetMode})
		}
		e.Empty("Relationship", attrs...)
	}
	e.End("Relationships")
	if err := e.Flush(); err != nil {
		return nil, fmt.Errorf("failed to encode relationships: %w", err)
	}
	return buf.Bytes(), nil
}

// All returns the relationships in order.
func (rels *Relationships) All() []*Relationship {
	if rels == nil {
		return nil
	}
	return rels.list
}

// Len returns the number of relationships.
func (rels *Relationships) Len() int {
	if rels == nil {
		return 0
	}
	return len(rels.list)
}

// Get returns the relationship with the given id.
func (rels *Relationships) Get(id string) (*Relationship, bool) {
	for _, r := range rels.All() {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// ByType returns the first relationship of the given type.
func (rels *Relationships) ByType(relType string) (*Relationship, bool) {
	for _, r := range rels.All() {
		if r.Type == relType {
			return r, true
		}
	}
	return nil, false
}

// AllByType returns every relationship of the given type.
func (rels *Relationships) AllByType(relType string) []*Relationship {
	var out []*Relationship
	for _, r := range rels.All() {
		if r.Type == relType {
			out = append(out, r)
		}
	}
	return out
}

// Add appends an internal relationship and returns its new id.
func (rels *Relationships) Add(relType, target string) string {
	id := rels.newID()
	rels.list = append(rels.list, &Relationship{ID: id, Type: relType, Target: target})
	return id
}

// AddExternal appends an external relationship and returns its new id.
func (rels *Relationships) AddExternal(relType, target string) string {
	id := rels.newID()
	rels.list = append(rels.list, &Relationship{
		ID:         id,
		Type:       relType,
		Target:     target,
		TargetMode: TargetModeExternal,
	})
	return id
}

// Remove deletes the relationship with the given id.
func (rels *Relationships) Remove(id string) (*Relationship, bool) {
	for i, r := range rels.All() {
		if r.ID == id {
			rels.list = append(rels.list[:i], rels.list[i+1:]...)
			return r, true
		}
	}
	return nil, false
}
