package wordml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/benjaminschreck/go-wordml/pkg/wordml/opc"
	wml "github.com/benjaminschreck/go-wordml/pkg/wordml/xml"
)

// Document is a WordprocessingML document: the package it came from, the
// parsed main part and the optional numbering part.
type Document struct {
	pkg          *opc.Package
	mainURI      opc.PartURI
	main         *wml.Document
	numberingURI opc.PartURI
	numbering    *wml.Numbering
	logger       *Logger
}

// Open reads and parses a .docx file.
func Open(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	doc, err := FromBytes(content)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	return doc, nil
}

// FromBytes parses a .docx file held in memory.
func FromBytes(data []byte) (*Document, error) {
	return OpenReader(bytes.NewReader(data), int64(len(data)))
}

// OpenReader parses a .docx file from r.
func OpenReader(r io.ReaderAt, size int64) (*Document, error) {
	config := GetGlobalConfig()
	pkg, err := opc.OpenReader(r, size, config.packageOptions())
	if err != nil {
		return nil, partErrors(err)
	}
	return fromPackage(pkg)
}

// partErrors regroups the per-part failures of a package read into a
// MultiError.
func partErrors(err error) error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return err
	}
	errs := NewMultiError()
	for _, e := range joined.Unwrap() {
		errs.Add(e)
	}
	return errs.Err()
}

// FromPackage parses the document parts of an already opened package.
func FromPackage(pkg *opc.Package) (*Document, error) {
	return fromPackage(pkg)
}

func fromPackage(pkg *opc.Package) (*Document, error) {
	d := &Document{pkg: pkg, logger: GetLogger()}

	mainURI, err := pkg.FindRelationshipTarget("", opc.RelOfficeDocument)
	if err != nil {
		if _, partErr := pkg.Part(opc.MainDocumentURI); partErr != nil {
			return nil, &MissingPartError{RelType: opc.RelOfficeDocument}
		}
		d.logger.Debug("no officeDocument relationship, using %s", opc.MainDocumentURI)
		mainURI = opc.MainDocumentURI
	}
	d.mainURI = mainURI

	part, err := pkg.Part(mainURI)
	if err != nil {
		return nil, &MissingPartError{Part: mainURI.String(), RelType: opc.RelOfficeDocument}
	}
	d.main, err = wml.ParseDocument(part.Data)
	if err != nil {
		if errors.Is(err, wml.ErrMissingBody) {
			return nil, NewDocumentError("parse", mainURI.String(), err)
		}
		return nil, newParseError(mainURI, err)
	}
	d.logger.WithFields(Fields{"part": mainURI, "bytes": len(part.Data)}).Debug("parsed main document")

	d.loadNumbering()
	return d, nil
}

// loadNumbering follows the main part's numbering relationship. A missing or
// unreadable numbering part leaves the document without numbering; an
// unreadable part is still written back unchanged on save.
func (d *Document) loadNumbering() {
	uri, err := d.pkg.FindRelationshipTarget(d.mainURI, opc.RelNumbering)
	if err != nil {
		return
	}
	part, err := d.pkg.Part(uri)
	if err != nil {
		d.logger.Warn("numbering relationship points to missing part %s", uri)
		return
	}
	numbering, err := wml.ParseNumbering(part.Data)
	if err != nil {
		err = WithContext(newParseError(uri, err), "load numbering", map[string]interface{}{
			"bytes": len(part.Data),
		})
		d.logger.Warn("ignoring numbering part: %v", err)
		return
	}
	d.numberingURI = uri
	d.numbering = numbering
	d.logger.WithFields(Fields{
		"part":     uri,
		"abstract": len(numbering.AbstractNums),
		"nums":     len(numbering.Nums),
	}).Debug("parsed numbering")
}

// New creates an empty document with a main part and no numbering.
func New() *Document {
	pkg := opc.New(GetGlobalConfig().packageOptions())
	return &Document{
		pkg:     pkg,
		mainURI: opc.MainDocumentURI,
		main:    wml.NewDocument(),
		logger:  GetLogger(),
	}
}

// Package returns the underlying package. Parts other than the main and
// numbering parts are written exactly as they are stored there.
func (d *Document) Package() *opc.Package {
	return d.pkg
}

// sync writes the in-memory tree back into the package. Both parts are
// serialized before the package is touched.
func (d *Document) sync() error {
	errs := NewMultiError()
	mainData, err := d.main.Marshal()
	if err != nil {
		errs.Add(NewDocumentError("serialize", d.mainURI.String(), err))
	}

	numberingURI := d.numberingURI
	var numberingData []byte
	if d.numbering != nil {
		if numberingURI == "" {
			if numberingURI, err = d.mainURI.Resolve("numbering.xml"); err != nil {
				errs.Add(NewDocumentError("serialize", "numbering.xml", err))
			}
		}
		if numberingData, err = d.numbering.Marshal(); err != nil {
			errs.Add(NewDocumentError("serialize", numberingURI.String(), err))
		}
	}
	if err := errs.Err(); err != nil {
		return err
	}

	contentType := opc.ContentTypeMainDocument
	if part, err := d.pkg.Part(d.mainURI); err == nil && part.ContentType != opc.ContentTypeOctetStream {
		// keeps macro-enabled and template main parts typed as they were
		contentType = part.ContentType
	}
	d.pkg.PutPart(d.mainURI, contentType, mainData)
	if _, err := d.pkg.EnsureRelationship("", opc.RelOfficeDocument, d.mainURI); err != nil {
		errs.Add(NewDocumentError("serialize", d.mainURI.String(), err))
	}

	if d.numbering != nil {
		d.numberingURI = numberingURI
		d.pkg.PutPart(numberingURI, opc.ContentTypeNumbering, numberingData)
		if _, err := d.pkg.EnsureRelationship(d.mainURI, opc.RelNumbering, numberingURI); err != nil {
			errs.Add(NewDocumentError("serialize", numberingURI.String(), err))
		}
	}
	if err := errs.Err(); err != nil {
		return err
	}

	if modified := d.pkg.ModifiedParts(); len(modified) > 0 {
		d.logger.WithField("parts", modified).Debug("writing modified parts")
	}
	return nil
}

// WriteTo serializes the document into w. The archive is built in memory
// first, so w receives nothing when serialization fails.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	data, err := d.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), NewDocumentError("write", "", err)
	}
	return int64(n), nil
}

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	if err := d.sync(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := d.pkg.WriteTo(&buf); err != nil {
		return nil, NewDocumentError("write", "", err)
	}
	return buf.Bytes(), nil
}

// Save writes the document to a file.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return NewDocumentError("save", path, fmt.Errorf("failed to write file: %w", err))
	}
	d.logger.WithField("path", path).Info("saved document (%d bytes)", len(data))
	return nil
}
