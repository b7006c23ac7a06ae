package vfs_test

import (
	"context"
	"testing"

	"github.com/ordinalfs/ordinalfs/internal/vfs"
)

func TestTokenize_QuotedPhrasesAndBareWords(t *testing.T) {
	tokens := vfs.Tokenize(`"hello world" foo bar`)
	want := []string{"hello world", "foo", "bar"}
	if !equalSlices(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenize_NoQuotesIsWhitespaceSplit(t *testing.T) {
	tokens := vfs.Tokenize("foo   bar baz")
	want := []string{"foo", "bar", "baz"}
	if !equalSlices(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestSearchText_EmptyQueryMatchesEveryVisibleFile(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.WriteText(ctx, 1, "", "a.txt", testRoot, "alpha", 1, false); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if _, err := e.WriteText(ctx, 1, "", "b.txt", testRoot, "beta", 2, false); err != nil {
		t.Fatalf("write b: %v", err)
	}

	results, err := e.SearchText(ctx, 1, "", "", testRoot, vfs.MatchAny, vfs.OrderFilename)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results for empty query, got %d", len(results))
	}
}

func TestSearchText_MatchAllRequiresEveryToken(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.WriteText(ctx, 1, "", "both.txt", testRoot, "foo bar", 1, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := e.WriteText(ctx, 1, "", "onlyfoo.txt", testRoot, "foo only", 2, false); err != nil {
		t.Fatalf("write: %v", err)
	}

	results, err := e.SearchText(ctx, 1, "foo bar", "", testRoot, vfs.MatchAll, vfs.OrderFilename)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].File != "both.txt" {
		t.Fatalf("expected only both.txt to match MatchAll, got %v", results)
	}
}

func TestSearchText_MatchAnyMatchesEitherToken(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.WriteText(ctx, 1, "", "foo.txt", testRoot, "foo content", 1, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := e.WriteText(ctx, 1, "", "bar.txt", testRoot, "bar content", 2, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := e.WriteText(ctx, 1, "", "neither.txt", testRoot, "nothing relevant", 3, false); err != nil {
		t.Fatalf("write: %v", err)
	}

	results, err := e.SearchText(ctx, 1, "foo bar", "", testRoot, vfs.MatchAny, vfs.OrderFilename)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results for MatchAny, got %d: %v", len(results), results)
	}
}

func TestSearchText_RegexMode(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.WriteText(ctx, 1, "", "code.txt", testRoot, "func main() {}", 1, false); err != nil {
		t.Fatalf("write: %v", err)
	}

	results, err := e.SearchText(ctx, 1, `func \w+\(\)`, "", testRoot, vfs.MatchRegex, vfs.OrderFilename)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected regex match, got %d results", len(results))
	}
}

func TestSearchText_RespectsVisibility(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.WriteText(ctx, 1, "", "private.txt", testRoot, "secret content", 1, false); err != nil {
		t.Fatalf("write: %v", err)
	}

	results, err := e.SearchText(ctx, 2, "secret", "", testRoot, vfs.MatchAny, vfs.OrderFilename)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected private content hidden from other caller, got %v", results)
	}
}

func TestSearchText_ScopedToSubtree(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.Mkdir(ctx, 1, "", "docs", testRoot, 1, false); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := e.WriteText(ctx, 1, "docs", "inside.txt", testRoot, "match", 1, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := e.WriteText(ctx, 1, "", "outside.txt", testRoot, "match", 2, false); err != nil {
		t.Fatalf("write: %v", err)
	}

	results, err := e.SearchText(ctx, 1, "match", "docs", testRoot, vfs.MatchAny, vfs.OrderFilename)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].File != "inside.txt" {
		t.Fatalf("expected only docs/inside.txt in scope, got %v", results)
	}
}
