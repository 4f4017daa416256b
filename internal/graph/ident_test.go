package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeID_Deterministic(t *testing.T) {
	a := NodeID("pkg/user.go:GetUser", "(id string) -> *User")
	b := NodeID("pkg/user.go:GetUser", "(id string) -> *User")
	assert.Equal(t, a, b, "same (fqname, sig) must yield the same id")
	assert.Len(t, a, 16)
}

func TestNodeID_SigChangesID(t *testing.T) {
	a := NodeID("pkg/user.go:GetUser", "(id string) -> *User")
	b := NodeID("pkg/user.go:GetUser", "(id int) -> *User")
	assert.NotEqual(t, a, b)
}

func TestNodeID_HexCharset(t *testing.T) {
	id := NodeID("a", "b")
	for _, c := range id {
		ok := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
		assert.True(t, ok, "id must be lowercase hex, got %q", c)
	}
}

func TestFileID_DistinctFromNodeID(t *testing.T) {
	// A file path used verbatim as an fqname must not collide.
	s := "internal/server/router.go"
	assert.NotEqual(t, FileID(s), NodeID(s, ""))
	assert.Len(t, FileID(s), 16)
}

func TestFileID_Deterministic(t *testing.T) {
	assert.Equal(t, FileID("a/b.go"), FileID("a/b.go"))
	assert.NotEqual(t, FileID("a/b.go"), FileID("a/c.go"))
}
