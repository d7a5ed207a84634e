package opc

import (
	"path"
	"strings"
)

// PartURI is a normalized part name: it starts with '/', has no trailing
// '/' and no empty segments.
type PartURI string

// Well-known part names.
const (
	ContentTypesURI    PartURI = "/[Content_Types].xml"
	PackageRelsURI     PartURI = "/_rels/.rels"
	MainDocumentURI    PartURI = "/word/document.xml"
	StylesURI          PartURI = "/word/styles.xml"
	NumberingURI       PartURI = "/word/numbering.xml"
	CorePropertiesURI  PartURI = "/docProps/core.xml"
	AppPropertiesURI   PartURI = "/docProps/app.xml"
	packageRootSources PartURI = "/"
)

// NewPartURI normalizes p into a part name.
func NewPartURI(p string) (PartURI, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", &InvalidPartURIError{URI: p, Reason: "empty"}
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	if strings.Contains(p, "//") {
		return "", &InvalidPartURIError{URI: p, Reason: "empty segment"}
	}
	if p == "/" {
		return "", &InvalidPartURIError{URI: p, Reason: "no part name"}
	}
	return PartURI(p), nil
}

// MustPartURI is like NewPartURI but panics on an invalid name.
func MustPartURI(p string) PartURI {
	u, err := NewPartURI(p)
	if err != nil {
		panic(err)
	}
	return u
}

func (u PartURI) String() string {
	return string(u)
}

// ZipName returns the entry name inside the archive (no leading slash).
func (u PartURI) ZipName() string {
	return strings.TrimPrefix(string(u), "/")
}

// Dir returns the directory holding the part, "/" for top-level parts.
func (u PartURI) Dir() string {
	return path.Dir(string(u))
}

// Base returns the last segment of the name.
func (u PartURI) Base() string {
	return path.Base(string(u))
}

// Extension returns the lower-cased extension without the dot, or "".
func (u PartURI) Extension() string {
	base := u.Base()
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// RelationshipsURI returns the name of the part's relationships part,
// /dir/_rels/name.rels.
func (u PartURI) RelationshipsURI() PartURI {
	return PartURI(path.Join(u.Dir(), "_rels", u.Base()+".rels"))
}

// IsRelationships reports whether u names a relationships part.
func (u PartURI) IsRelationships() bool {
	return strings.Contains(string(u), "/_rels/") && strings.HasSuffix(string(u), ".rels")
}

// Resolve resolves a relationship target relative to the part's directory.
// Absolute targets are taken as is.
func (u PartURI) Resolve(target string) (PartURI, error) {
	return resolveTarget(u.Dir(), target)
}

// sourceOf returns the part a relationships part belongs to, or
// packageRootSources for the package relationships.
func sourceOf(rels PartURI) PartURI {
	if rels == PackageRelsURI {
		return packageRootSources
	}
	dir := path.Dir(path.Dir(string(rels)))
	name := strings.TrimSuffix(path.Base(string(rels)), ".rels")
	return PartURI(path.Join(dir, name))
}

func resolveTarget(dir, target string) (PartURI, error) {
	if strings.HasPrefix(target, "/") {
		return NewPartURI(target)
	}
	return NewPartURI(path.Join(dir, target))
}

// relativeTarget expresses target relative to dir the way Word writes
// relationship targets.
func relativeTarget(dir string, target PartURI) string {
	if dir == "/" {
		return target.ZipName()
	}
	if prefix := dir + "/"; strings.HasPrefix(string(target), prefix) {
		return strings.TrimPrefix(string(target), prefix)
	}
	return string(target)
}
