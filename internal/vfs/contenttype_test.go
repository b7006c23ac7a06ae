package vfs_test

import (
	"testing"

	"github.com/ordinalfs/ordinalfs/internal/vfs"
)

func TestClassifyContentType(t *testing.T) {
	cases := []struct {
		name       string
		wantBinary bool
		wantType   string
	}{
		{"photo.JPG", true, "image/jpeg"},
		{"archive.zip", true, "application/zip"},
		{"notes.md", false, "text/markdown"},
		{"data.json", false, "application/json"},
		{"no-extension", false, "application/octet-stream"},
		{"trailing.", false, "application/octet-stream"},
	}
	for _, c := range cases {
		isBinary, contentType := vfs.ClassifyContentType(c.name)
		if isBinary != c.wantBinary || contentType != c.wantType {
			t.Errorf("ClassifyContentType(%q) = (%v, %q), want (%v, %q)",
				c.name, isBinary, contentType, c.wantBinary, c.wantType)
		}
	}
}
