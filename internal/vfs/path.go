package vfs

import "strings"

// Normalize collapses repeated slashes, strips a leading "/" or ".", and
// strips any trailing "/". It never resolves ".." segments. The empty
// string denotes the root.
func Normalize(p string) string {
	if p == "" {
		return ""
	}

	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}

	for strings.HasPrefix(p, "/") || strings.HasPrefix(p, ".") {
		p = strings.TrimPrefix(p, "/")
		p = strings.TrimPrefix(p, ".")
	}

	p = strings.TrimSuffix(p, "/")
	return p
}

// Split separates a normalized path into (parent_path, filename). A path
// with no "/" belongs directly under the root.
func Split(p string) (parent, filename string) {
	p = Normalize(p)
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return "", p
	}
	return p[:idx], p[idx+1:]
}

// Join normalizes the slash-joined concatenation of parts.
func Join(parts ...string) string {
	return Normalize(strings.Join(parts, "/"))
}

// validNameByte reports whether b is admissible in a path segment:
// alphanumerics, '_', '-', '.', and space. No separators, no control
// characters.
func validNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_' || b == '-' || b == '.' || b == ' ':
		return true
	default:
		return false
	}
}

// ValidName reports whether s is a safe, single path segment: non-empty,
// free of separators and control characters, drawn from the admissible
// character class.
func ValidName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !validNameByte(s[i]) {
			return false
		}
	}
	return true
}

// ValidPath reports whether every segment of normalized p passes ValidName.
// The empty path (root) is always valid.
func ValidPath(p string) bool {
	p = Normalize(p)
	if p == "" {
		return true
	}
	for _, seg := range strings.Split(p, "/") {
		if !ValidName(seg) {
			return false
		}
	}
	return true
}

// hasPrefixBoundary reports whether path equals prefix or begins with
// prefix followed by "/" — the subtree-membership test used throughout
// rename, rmdir, set_public and search (§4.4, §4.6).
func hasPrefixBoundary(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

// likeEscapeChar escapes LIKE metacharacters in the raw-SQL subtree-prefix
// predicates below. It doesn't appear in ValidName's admissible charset, so
// it can't collide with a real path segment.
const likeEscapeChar = `\`

var likeEscaper = strings.NewReplacer(
	likeEscapeChar, likeEscapeChar+likeEscapeChar,
	"%", likeEscapeChar+"%",
	"_", likeEscapeChar+"_",
)

// escapeLikePrefix escapes '%', '_' and the escape character itself in
// prefix so a subtree-prefix LIKE predicate can't be fooled by a path
// segment that legitimately contains '_' (ValidName admits it, and the
// "NNNN_name" ordinal-prefix convention makes it common) or '%'. Callers
// append the literal "/%" suffix themselves, unescaped, after calling this.
func escapeLikePrefix(prefix string) string {
	return likeEscaper.Replace(prefix)
}
