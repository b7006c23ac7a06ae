package docservice_test

import (
	"context"
	"strings"
	"testing"

	"github.com/ordinalfs/ordinalfs/internal/docservice"
)

func TestExtractTags_MissingTagsFileIsEmptyNotError(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	res, err := s.ExtractTags(ctx, 1)
	if err != nil {
		t.Fatalf("extractTags: %v", err)
	}
	if len(res.Tags) != 0 || len(res.Categories) != 0 {
		t.Errorf("expected no tags when .TAGS.md is absent, got %+v", res)
	}
}

func TestExtractTags_GroupsByHeading(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	content := "# Project\n#alpha #beta\n\n## Notes\n#gamma\n"
	if _, err := s.SaveFile(ctx, 1, "", ".TAGS.md", content, nil); err != nil {
		t.Fatalf("save tags file: %v", err)
	}

	res, err := s.ExtractTags(ctx, 1)
	if err != nil {
		t.Fatalf("extractTags: %v", err)
	}
	if len(res.Categories) != 2 {
		t.Fatalf("expected 2 heading categories, got %d: %+v", len(res.Categories), res.Categories)
	}
	if len(res.Tags) != 3 {
		t.Fatalf("expected 3 unique tags total, got %v", res.Tags)
	}
}

func TestScanAndUpdateTags_DiscoversNewHashtagsOnce(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	if _, err := s.SaveFile(ctx, 1, "", ".TAGS.md", "# Existing\n#known\n", nil); err != nil {
		t.Fatalf("save tags file: %v", err)
	}
	if _, err := s.SaveFile(ctx, 1, "", "notes.md", "today I learned #known and #fresh", nil); err != nil {
		t.Fatalf("save notes: %v", err)
	}

	res, err := s.ScanAndUpdateTags(ctx, 1)
	if err != nil {
		t.Fatalf("scanAndUpdateTags: %v", err)
	}
	if len(res.NewTags) != 1 || res.NewTags[0] != "fresh" {
		t.Fatalf("expected only #fresh to be newly discovered, got %v", res.NewTags)
	}

	// Re-running is idempotent: nothing new to discover the second time.
	res2, err := s.ScanAndUpdateTags(ctx, 1)
	if err != nil {
		t.Fatalf("second scanAndUpdateTags: %v", err)
	}
	if len(res2.NewTags) != 0 {
		t.Errorf("expected re-scan to discover nothing new, got %v", res2.NewTags)
	}
}

func TestScanAndUpdateTags_SkipsDotAndUnderscorePrefixedFiles(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	if _, err := s.SaveFile(ctx, 1, "", "_draft.md", "#hidden", nil); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	res, err := s.ScanAndUpdateTags(ctx, 1)
	if err != nil {
		t.Fatalf("scanAndUpdateTags: %v", err)
	}
	for _, tag := range res.NewTags {
		if strings.EqualFold(tag, "hidden") {
			t.Error("expected underscore-prefixed file to be excluded from the scan")
		}
	}
}
