package vfs

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ordinalfs/ordinalfs/pkg/metrics"
)

// SearchMode selects how query is interpreted (§4.6).
type SearchMode int

const (
	MatchAny SearchMode = iota
	MatchAll
	MatchRegex
)

// SearchOrder selects result ordering (§4.6).
type SearchOrder int

const (
	OrderModTime SearchOrder = iota
	OrderFilename
)

// SearchResult is one file-level hit. No line numbers are returned.
type SearchResult struct {
	File         string `json:"file"`
	FullPath     string `json:"full_path"`
	SizeBytes    int64  `json:"size_bytes"`
	ModifiedTime string `json:"modified_time"`
	ContentType  string `json:"content_type"`
}

// Tokenize splits a query per §4.8: quoted "…" phrases become single
// tokens, alongside whitespace-split \S+ fragments outside quotes. With no
// quotes, tokens are simply the whitespace-split non-empty pieces.
func Tokenize(query string) []string {
	if !strings.Contains(query, `"`) {
		return strings.Fields(query)
	}

	var tokens []string
	var rest strings.Builder
	inQuote := false
	var phrase strings.Builder

	for _, r := range query {
		switch {
		case r == '"' && !inQuote:
			inQuote = true
		case r == '"' && inQuote:
			inQuote = false
			if phrase.Len() > 0 {
				tokens = append(tokens, phrase.String())
				phrase.Reset()
			}
		case inQuote:
			phrase.WriteRune(r)
		default:
			rest.WriteRune(r)
		}
	}
	tokens = append(tokens, strings.Fields(rest.String())...)
	return tokens
}

// SearchText scans visible text rows under scopePath (the whole tree when
// scopePath is the root "") for matches per mode, returning file-level hits
// ordered per order (§4.6).
func (e *Engine) SearchText(ctx context.Context, caller uint, query, scopePath, root string, mode SearchMode, order SearchOrder) (results []SearchResult, err error) {
	defer metrics.RecordVFSOperation("search_text", &err, time.Now())
	scopePath = Normalize(scopePath)

	if query == "" {
		mode = MatchRegex
		query = "."
	}

	q := e.ctxDB(ctx).Model(&Node{}).
		Where("doc_root_key = ? AND is_binary = ?", root, false)
	if scopePath != RootParentPath {
		q = q.Where(`parent_path = ? OR parent_path LIKE ? ESCAPE '\'`, scopePath, escapeLikePrefix(scopePath)+"/%")
	}
	q = visibilityClause(q, caller)

	var rows []Node
	if err := q.Find(&rows).Error; err != nil {
		return nil, classifyDBErr(ctx, err)
	}

	matcher, err := buildMatcher(mode, query)
	if err != nil {
		return nil, wrapErr(KindBadArgument, err, "invalid search expression")
	}

	results = make([]SearchResult, 0, len(rows))
	for _, n := range rows {
		if n.ContentText == nil {
			continue
		}
		if !matcher(*n.ContentText) {
			continue
		}
		results = append(results, SearchResult{
			File:         n.Filename,
			FullPath:     Join(n.ParentPath, n.Filename),
			SizeBytes:    n.SizeBytes,
			ModifiedTime: n.ModifiedTime.Format("2006-01-02T15:04:05Z07:00"),
			ContentType:  n.ContentType,
		})
	}

	switch order {
	case OrderFilename:
		sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })
	default: // OrderModTime, descending
		sort.Slice(results, func(i, j int) bool { return results[i].ModifiedTime > results[j].ModifiedTime })
	}

	return results, nil
}

// buildMatcher returns a case-insensitive content predicate for the given
// mode and query.
func buildMatcher(mode SearchMode, query string) (func(string) bool, error) {
	switch mode {
	case MatchRegex:
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			return nil, err
		}
		return re.MatchString, nil

	case MatchAll:
		tokens := lowerAll(Tokenize(query))
		return func(content string) bool {
			lc := strings.ToLower(content)
			for _, t := range tokens {
				if !strings.Contains(lc, t) {
					return false
				}
			}
			return true
		}, nil

	default: // MatchAny
		tokens := lowerAll(Tokenize(query))
		return func(content string) bool {
			lc := strings.ToLower(content)
			for _, t := range tokens {
				if strings.Contains(lc, t) {
					return true
				}
			}
			return false
		}, nil
	}
}

func lowerAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}
