// Package opc reads and writes Open Packaging Convention containers, the ZIP
// archives that hold the parts of a .docx file.
//
// A Package keeps every part in memory together with the package and part
// relationships and the [Content_Types].xml table. Parts are located through
// relationships instead of hard-coded names:
//
//	pkg, err := opc.Open("report.docx")
//	if err != nil {
//	    return err
//	}
//	main, err := pkg.FindRelationshipTarget("", opc.RelOfficeDocument)
//	numbering, err := pkg.FindRelationshipTarget(main, opc.RelNumbering)
//
// Each part remembers the BLAKE3 digest of the bytes it was loaded with, so
// callers can tell which parts changed before saving. Archives are written
// with deflate from github.com/klauspost/compress.
package opc
