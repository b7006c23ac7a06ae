package vfs_test

import (
	"testing"

	"github.com/ordinalfs/ordinalfs/internal/vfs"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"/a/b":          "a/b",
		"a//b///c":      "a/b/c",
		"./a/b":         "a/b",
		"a/b/":          "a/b",
		"/./a/":         "a",
	}
	for in, want := range cases {
		if got := vfs.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplit(t *testing.T) {
	parent, name := vfs.Split("a/b/c.txt")
	if parent != "a/b" || name != "c.txt" {
		t.Errorf("Split(a/b/c.txt) = (%q, %q)", parent, name)
	}

	parent, name = vfs.Split("c.txt")
	if parent != "" || name != "c.txt" {
		t.Errorf("Split(c.txt) = (%q, %q), want (\"\", c.txt)", parent, name)
	}
}

func TestJoin(t *testing.T) {
	if got := vfs.Join("a", "b", "c"); got != "a/b/c" {
		t.Errorf("Join(a,b,c) = %q", got)
	}
	if got := vfs.Join("", "a"); got != "a" {
		t.Errorf("Join(\"\",a) = %q", got)
	}
}

func TestValidName(t *testing.T) {
	valid := []string{"file.txt", "my file", "a_b-c.d", "UPPER"}
	for _, s := range valid {
		if !vfs.ValidName(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	invalid := []string{"", "a/b", "a\x00b", "../escape"}
	for _, s := range invalid {
		if vfs.ValidName(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestValidPath(t *testing.T) {
	if !vfs.ValidPath("") {
		t.Error("expected root path to be valid")
	}
	if !vfs.ValidPath("a/b/c") {
		t.Error("expected a/b/c to be valid")
	}
	if vfs.ValidPath("a//b") == false {
		// "a//b" normalizes to "a/b" before segment validation, so it is valid.
		t.Error("expected normalized double-slash path to be valid")
	}
	if vfs.ValidPath("a/b/") == false {
		t.Error("expected trailing slash to normalize away cleanly")
	}
}
