package opc

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/flate"
)

// Options controls archive reading and writing.
type Options struct {
	// CompressionLevel is the deflate level used when writing (-2..9)
	CompressionLevel int
	// MaxPartSize limits the uncompressed size of any part; 0 disables it
	MaxPartSize int64
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		CompressionLevel: flate.DefaultCompression,
		MaxPartSize:      256 << 20,
	}
}

// Package is an in-memory OPC package: parts, their relationships and the
// content types table.
type Package struct {
	opts     Options
	parts    map[PartURI]*Part
	rels     *Relationships
	partRels map[PartURI]*Relationships
	types    *ContentTypes
}

// New creates an empty package with the standard content type defaults.
func New(opts ...Options) *Package {
	return &Package{
		opts:     pickOptions(opts),
		parts:    make(map[PartURI]*Part),
		rels:     NewRelationships(),
		partRels: make(map[PartURI]*Relationships),
		types:    NewContentTypes(),
	}
}

func pickOptions(opts []Options) Options {
	if len(opts) > 0 {
		return opts[0]
	}
	return DefaultOptions()
}

// Open reads a package from a file.
func Open(path string, opts ...Options) (*Package, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return FromBytes(content, opts...)
}

// FromBytes reads a package held in memory.
func FromBytes(data []byte, opts ...Options) (*Package, error) {
	return OpenReader(bytes.NewReader(data), int64(len(data)), opts...)
}

// OpenReader reads a package from r. [Content_Types].xml must be present;
// every other non-directory entry that is not a relationships part becomes a
// part.
func OpenReader(r io.ReaderAt, size int64, opts ...Options) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}
	zr.RegisterDecompressor(zip.Deflate, flate.NewReader)

	pkg := New(opts...)
	entries := make(map[PartURI]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		uri, err := NewPartURI(f.Name)
		if err != nil {
			return nil, err
		}
		entries[uri] = f
	}

	ctFile, ok := entries[ContentTypesURI]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, ContentTypesURI)
	}
	data, err := pkg.readEntry(ctFile)
	if err != nil {
		return nil, err
	}
	if pkg.types, err = ParseContentTypes(data); err != nil {
		return nil, err
	}

	// every part is read before failing so one error lists all bad parts
	var failed []error
	var relsParts []PartURI
	for _, uri := range sortedURIs(entries) {
		switch {
		case uri == ContentTypesURI:
		case uri.IsRelationships():
			relsParts = append(relsParts, uri)
		default:
			data, err := pkg.readEntry(entries[uri])
			if err != nil {
				failed = append(failed, err)
				continue
			}
			ct, ok := pkg.types.Get(uri)
			if !ok {
				ct = ContentTypeOctetStream
			}
			pkg.parts[uri] = &Part{URI: uri, ContentType: ct, Data: data, loaded: Digest(data)}
		}
	}

	for _, uri := range relsParts {
		data, err := pkg.readEntry(entries[uri])
		if err != nil {
			failed = append(failed, err)
			continue
		}
		rels, err := ParseRelationships(data)
		if err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", uri, err))
			continue
		}
		source := sourceOf(uri)
		if source == packageRootSources {
			pkg.rels = rels
		} else {
			pkg.partRels[source] = rels
		}
	}
	if len(failed) > 0 {
		return nil, errors.Join(failed...)
	}
	return pkg, nil
}

func sortedURIs(entries map[PartURI]*zip.File) []PartURI {
	uris := make([]PartURI, 0, len(entries))
	for uri := range entries {
		uris = append(uris, uri)
	}
	sort.Slice(uris, func(i, j int) bool { return uris[i] < uris[j] })
	return uris
}

func (pkg *Package) readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", f.Name, err)
	}
	defer rc.Close()

	var src io.Reader = rc
	limit := pkg.opts.MaxPartSize
	if limit > 0 {
		src = io.LimitReader(rc, limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", f.Name, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrPartTooLarge, f.Name, limit)
	}
	return data, nil
}

// Part returns the part with the given name.
func (pkg *Package) Part(uri PartURI) (*Part, error) {
	p, ok := pkg.parts[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, uri)
	}
	return p, nil
}

// PutPart creates or replaces a part and records its content type override.
// A replaced part keeps its loaded digest so Modified stays accurate.
func (pkg *Package) PutPart(uri PartURI, contentType string, data []byte) *Part {
	p, ok := pkg.parts[uri]
	if !ok {
		p = &Part{URI: uri}
		pkg.parts[uri] = p
	}
	p.ContentType = contentType
	p.Data = data
	pkg.types.AddOverride(uri, contentType)
	return p
}

// RemovePart deletes a part, its relationships and its override.
func (pkg *Package) RemovePart(uri PartURI) error {
	if _, ok := pkg.parts[uri]; !ok {
		return fmt.Errorf("%w: %s", ErrPartNotFound, uri)
	}
	delete(pkg.parts, uri)
	delete(pkg.partRels, uri)
	pkg.types.RemoveOverride(uri)
	return nil
}

// Parts returns the part names in sorted order.
func (pkg *Package) Parts() []PartURI {
	uris := make([]PartURI, 0, len(pkg.parts))
	for uri := range pkg.parts {
		uris = append(uris, uri)
	}
	sort.Slice(uris, func(i, j int) bool { return uris[i] < uris[j] })
	return uris
}

// ModifiedParts returns the names of parts that are new or changed since
// loading.
func (pkg *Package) ModifiedParts() []PartURI {
	var out []PartURI
	for _, uri := range pkg.Parts() {
		if pkg.parts[uri].Modified() {
			out = append(out, uri)
		}
	}
	return out
}

// ContentTypes returns the content types table.
func (pkg *Package) ContentTypes() *ContentTypes {
	return pkg.types
}

// Relationships returns the package-level relationships.
func (pkg *Package) Relationships() *Relationships {
	return pkg.rels
}

// PartRelationships returns the relationships of a part, creating an empty
// list on first use.
func (pkg *Package) PartRelationships(uri PartURI) *Relationships {
	rels, ok := pkg.partRels[uri]
	if !ok {
		rels = NewRelationships()
		pkg.partRels[uri] = rels
	}
	return rels
}

func (pkg *Package) relationshipsOf(from PartURI) (*Relationships, string) {
	if from == "" || from == packageRootSources {
		return pkg.rels, "/"
	}
	return pkg.partRels[from], from.Dir()
}

// FindRelationshipTarget resolves the first internal relationship of relType
// from a source part ("" for the package) to a part name.
func (pkg *Package) FindRelationshipTarget(from PartURI, relType string) (PartURI, error) {
	rels, dir := pkg.relationshipsOf(from)
	for _, r := range rels.AllByType(relType) {
		if r.IsExternal() {
			continue
		}
		return resolveTarget(dir, r.Target)
	}
	return "", fmt.Errorf("%w: no %s relationship from %q", ErrPartNotFound, relType, from)
}

// MainDocument returns the part the package officeDocument relationship
// points to.
func (pkg *Package) MainDocument() (*Part, error) {
	uri, err := pkg.FindRelationshipTarget("", RelOfficeDocument)
	if err != nil {
		return nil, err
	}
	return pkg.Part(uri)
}

// EnsureRelationship returns the id of a relationship of relType from a
// source part ("" for the package) to target, adding one when none exists.
func (pkg *Package) EnsureRelationship(from PartURI, relType string, target PartURI) (string, error) {
	var rels *Relationships
	dir := "/"
	if from == "" || from == packageRootSources {
		rels = pkg.rels
	} else {
		rels = pkg.PartRelationships(from)
		dir = from.Dir()
	}
	for _, r := range rels.AllByType(relType) {
		if r.IsExternal() {
			continue
		}
		resolved, err := resolveTarget(dir, r.Target)
		if err != nil {
			return "", err
		}
		if resolved == target {
			return r.ID, nil
		}
	}
	return rels.Add(relType, relativeTarget(dir, target)), nil
}

// Bytes serializes the package.
func (pkg *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := pkg.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the package to a file.
func (pkg *Package) Save(path string) error {
	data, err := pkg.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// WriteTo writes the archive: content types, package relationships, then
// each part in name order followed by its relationships. Entries carry no
// timestamps, so equal packages serialize to equal bytes.
func (pkg *Package) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	level := pkg.opts.CompressionLevel
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	ct, err := pkg.types.Marshal()
	if err != nil {
		return cw.n, err
	}
	if err := writeEntry(zw, ContentTypesURI, ct); err != nil {
		return cw.n, err
	}
	if pkg.rels.Len() > 0 {
		data, err := pkg.rels.Marshal()
		if err != nil {
			return cw.n, err
		}
		if err := writeEntry(zw, PackageRelsURI, data); err != nil {
			return cw.n, err
		}
	}
	for _, uri := range pkg.Parts() {
		if err := writeEntry(zw, uri, pkg.parts[uri].Data); err != nil {
			return cw.n, err
		}
		rels := pkg.partRels[uri]
		if rels.Len() == 0 {
			continue
		}
		data, err := rels.Marshal()
		if err != nil {
			return cw.n, err
		}
		if err := writeEntry(zw, uri.RelationshipsURI(), data); err != nil {
			return cw.n, err
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to finalize zip: %w", err)
	}
	return cw.n, nil
}

func writeEntry(zw *zip.Writer, uri PartURI, data []byte) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{Name: uri.ZipName(), Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", uri, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", uri, err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
