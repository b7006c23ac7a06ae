package docservice

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	blackfriday "github.com/russross/blackfriday"

	"github.com/ordinalfs/ordinalfs/internal/vfs"
	"github.com/ordinalfs/ordinalfs/pkg/cache"
	"github.com/ordinalfs/ordinalfs/pkg/collection"
	"github.com/ordinalfs/ordinalfs/pkg/metrics"
)

// tagsFileName is the distinguished root node extractTags/scanAndUpdateTags
// read and rewrite (§4.7). It is an ordinary text node, nothing more.
const tagsFileName = ".TAGS.md"

// discoveredHeading is the section scanAndUpdateTags appends novel hashtags
// under. Re-running the scan is idempotent: tags already present anywhere in
// the file, including under this heading, are never re-appended.
const discoveredHeading = "Discovered Tags"

var (
	headingRe = regexp.MustCompile(`(?s)<h[1-6]>(.*?)</h[1-6]>`)
	hashtagRe = regexp.MustCompile(`#([A-Za-z0-9_-]+)`)
)

// TagCategory groups the hashtags found under one markdown heading.
type TagCategory struct {
	Heading string   `json:"heading"`
	Tags    []string `json:"tags"`
}

// ExtractTagsResult mirrors the `/extractTags` response shape (§6.3).
type ExtractTagsResult struct {
	Success    bool          `json:"success"`
	Tags       []string      `json:"tags"`
	Categories []TagCategory `json:"categories"`
}

// ExtractTags reads .TAGS.md at the root and parses it into
// {heading, tags[]} groups, plus the flat unique sorted union (§4.7). A
// missing .TAGS.md is not an error: it is treated as an empty document.
// Results are cached per root and invalidated by every docservice write
// (§5: any cache must be invalidated on any write to the relevant subtree).
func (s *Service) ExtractTags(ctx context.Context, caller uint) (result ExtractTagsResult, err error) {
	defer metrics.RecordVFSOperation("doc_extract_tags", &err, time.Now())
	var cached ExtractTagsResult
	if cache.Get(tagCacheKey(s.root), &cached) {
		return cached, nil
	}

	content, err := s.readTagsFile(ctx, caller)
	if err != nil {
		return ExtractTagsResult{}, err
	}

	categories := parseTagCategories(content)
	result = ExtractTagsResult{Success: true, Tags: unionTags(categories), Categories: categories}
	cache.Set(tagCacheKey(s.root), result, tagCacheTTL) //nolint:errcheck
	return result, nil
}

// ScanAndUpdateTagsResult mirrors the `/scanAndUpdateTags` response shape (§6.3).
type ScanAndUpdateTagsResult struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	ExistingTags []string `json:"existingTags"`
	NewTags      []string `json:"newTags"`
	TotalTags    int      `json:"totalTags"`
}

// ScanAndUpdateTags loads the existing tag set from .TAGS.md, walks every
// text/markdown file under the root collecting #hashtags, and appends the
// tags not already present under a "## Discovered Tags" heading as one
// space-joined line (§4.7). Runs inside a single transaction so a reader
// never observes .TAGS.md mid-rewrite.
func (s *Service) ScanAndUpdateTags(ctx context.Context, caller uint) (result ScanAndUpdateTagsResult, err error) {
	defer metrics.RecordVFSOperation("doc_scan_and_update_tags", &err, time.Now())
	err = s.engine.Transaction(ctx, func(tx *vfs.Engine) error {
		existingContent, err := s.readTagsFileTx(ctx, tx, caller)
		if err != nil {
			return err
		}
		existingCategories := parseTagCategories(existingContent)
		existing := unionTags(existingCategories)

		seen := make(map[string]bool, len(existing))
		for _, t := range existing {
			seen[strings.ToLower(t)] = true
		}

		discovered, err := scanHashtags(ctx, tx, caller, s.root)
		if err != nil {
			return err
		}

		var novel []string
		for _, t := range discovered {
			lc := strings.ToLower(t)
			if !seen[lc] {
				seen[lc] = true
				novel = append(novel, t)
			}
		}
		sort.Strings(novel)

		newContent := existingContent
		if len(novel) > 0 {
			newContent = appendDiscovered(existingContent, novel)
		}

		max, err := tx.GetMaxOrdinal(ctx, vfs.RootParentPath, s.root)
		if err != nil {
			return err
		}
		if _, err := tx.WriteText(ctx, caller, vfs.RootParentPath, tagsFileName, s.root, newContent, max+1, false); err != nil {
			return err
		}

		result = ScanAndUpdateTagsResult{
			Success:      true,
			Message:      "tags scanned",
			ExistingTags: existing,
			NewTags:      novel,
			TotalTags:    len(existing) + len(novel),
		}
		return nil
	})
	if err != nil {
		return ScanAndUpdateTagsResult{}, err
	}
	s.invalidateTagCache()
	return result, nil
}

func (s *Service) readTagsFile(ctx context.Context, caller uint) (string, error) {
	return s.readTagsFileTx(ctx, s.engine, caller)
}

func (s *Service) readTagsFileTx(ctx context.Context, e *vfs.Engine, caller uint) (string, error) {
	text, _, err := e.ReadFile(ctx, caller, vfs.RootParentPath, tagsFileName, s.root)
	if err != nil {
		if errors.Is(err, vfs.NotFound) {
			return "", nil
		}
		return "", err
	}
	if text == nil {
		return "", nil
	}
	return *text, nil
}

// parseTagCategories renders content to HTML via blackfriday, then walks
// each h1-h6 heading's section for #hashtags. Content with no headings at
// all yields a single unnamed category.
func parseTagCategories(content string) []TagCategory {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	html := string(blackfriday.MarkdownCommon([]byte(content)))
	headings := headingRe.FindAllStringSubmatchIndex(html, -1)

	if len(headings) == 0 {
		tags := uniqueSorted(hashtagsIn(content))
		if len(tags) == 0 {
			return nil
		}
		return []TagCategory{{Heading: "", Tags: tags}}
	}

	categories := make([]TagCategory, 0, len(headings))
	for i, m := range headings {
		name := strings.TrimSpace(stripTags(html[m[2]:m[3]]))
		start := m[1]
		end := len(html)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}
		section := html[start:end]
		tags := uniqueSorted(hashtagsIn(section))
		if len(tags) == 0 {
			continue
		}
		categories = append(categories, TagCategory{Heading: name, Tags: tags})
	}
	return categories
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

func stripTags(s string) string { return htmlTagRe.ReplaceAllString(s, "") }

func hashtagsIn(s string) []string {
	matches := hashtagRe.FindAllStringSubmatch(s, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

func uniqueSorted(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		lc := strings.ToLower(t)
		if seen[lc] {
			continue
		}
		seen[lc] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func unionTags(categories []TagCategory) []string {
	perCategory := collection.Pluck(categories, func(c TagCategory) []string { return c.Tags })
	return uniqueSorted(collection.Flatten(perCategory))
}

// scanHashtags walks every non-dotfile, non-underscore-prefixed .md/.txt
// file under root starting at the tree root, collecting raw #hashtags from
// content_text (§4.7). Directories are descended depth-first via readdir.
func scanHashtags(ctx context.Context, e *vfs.Engine, caller uint, root string) ([]string, error) {
	var tags []string
	var walk func(parent string) error

	walk = func(parent string) error {
		children, err := e.Readdir(ctx, caller, parent, root)
		if err != nil {
			return err
		}
		for _, n := range children {
			if strings.HasPrefix(n.Filename, ".") || strings.HasPrefix(n.Filename, "_") {
				continue
			}
			if n.IsDirectory {
				if err := walk(vfs.Join(parent, n.Filename)); err != nil {
					return err
				}
				continue
			}
			if !isTaggableName(n.Filename) {
				continue
			}
			if n.ContentText != nil {
				tags = append(tags, hashtagsIn(*n.ContentText)...)
			}
		}
		return nil
	}

	if err := walk(vfs.RootParentPath); err != nil {
		return nil, err
	}
	return tags, nil
}

func isTaggableName(name string) bool {
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".txt")
}

// appendDiscovered appends a new "## Discovered Tags" section at the end of
// content with novel as one space-joined line of #-prefixed tokens; an
// existing section of that name is not extended, a further one is added
// after it. The # prefix lets a later scan's hashtagRe recognize them as
// already-present tags instead of re-discovering and re-appending them
// every run.
func appendDiscovered(content string, novel []string) string {
	tagged := make([]string, len(novel))
	for i, t := range novel {
		tagged[i] = "#" + t
	}
	line := strings.Join(tagged, " ")
	var b strings.Builder
	b.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	if content != "" {
		b.WriteString("\n")
	}
	b.WriteString("## ")
	b.WriteString(discoveredHeading)
	b.WriteString("\n")
	b.WriteString(line)
	b.WriteString("\n")
	return b.String()
}
