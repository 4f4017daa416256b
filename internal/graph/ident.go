package graph

import (
	"crypto/sha256"
	"encoding/hex"
)

// idLen is the number of hex characters kept from the digest: 64 bits of
// entropy, enough to make accidental collisions negligible over realistic
// codebases.
const idLen = 16

// filePrefix domain-separates file ids from declaration ids so that
// FileID(s) never equals NodeID(s, "") for the same string s.
const filePrefix = "file\x00"

// NodeID derives the content-addressed id of a declaration from its
// fully-qualified name and canonical signature. Same (fqname, sig) always
// yields the same id, across processes and runs.
func NodeID(fqname, sig string) string {
	sum := sha256.Sum256([]byte(fqname + "\x00" + sig))
	return hex.EncodeToString(sum[:])[:idLen]
}

// FileID derives the content-addressed id of a file node from its canonical
// repo-relative path.
func FileID(path string) string {
	sum := sha256.Sum256([]byte(filePrefix + path))
	return hex.EncodeToString(sum[:])[:idLen]
}
