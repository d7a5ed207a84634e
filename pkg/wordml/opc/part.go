package opc

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Part is one named byte stream of the package.
type Part struct {
	URI         PartURI
	ContentType string
	Data        []byte

	// loaded is the digest of the bytes read from the archive, "" for parts
	// created in memory
	loaded string
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Digest returns the digest of the part's current bytes.
func (p *Part) Digest() string {
	return Digest(p.Data)
}

// Modified reports whether the part was created in memory or its bytes
// differ from what was loaded.
func (p *Part) Modified() bool {
	return p.loaded == "" || p.loaded != p.Digest()
}
