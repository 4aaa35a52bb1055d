// Package patch merges generated PHP fragments into existing files. Every function is pure:
// it takes the previous content and returns the new content, so applying the same patch
// twice yields the same text.
package patch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/example/apigen/internal/apperrors"
)

// Anchor delimits the region MergeArtifact owns inside a file.
type Anchor struct {
	Start string
	End   string
}

// MergeArtifact replaces whatever lies between anchor.Start and the first anchor.End after
// it with segment. Both anchors are kept. A missing anchor returns ErrAnchorNotFound and
// leaves the caller free to skip the file.
func MergeArtifact(previous, segment string, anchor Anchor) (string, error) {
	start := strings.Index(previous, anchor.Start)
	if start < 0 {
		return previous, fmt.Errorf("%w: %q", apperrors.ErrAnchorNotFound, anchor.Start)
	}
	regionStart := start + len(anchor.Start)

	end := strings.Index(previous[regionStart:], anchor.End)
	if end < 0 {
		return previous, fmt.Errorf("%w: %q", apperrors.ErrAnchorNotFound, anchor.End)
	}
	regionEnd := regionStart + end

	return previous[:regionStart] + segment + previous[regionEnd:], nil
}

// InsertAfter inserts segment right after the first occurrence of anchor.
func InsertAfter(content, anchor, segment string) (string, error) {
	i := strings.Index(content, anchor)
	if i < 0 {
		return content, fmt.Errorf("%w: %q", apperrors.ErrAnchorNotFound, anchor)
	}
	at := i + len(anchor)
	return content[:at] + segment + content[at:], nil
}

// EnsureBefore inserts block before the first occurrence of anchor unless block is
// already present.
func EnsureBefore(content, anchor, block string) (string, error) {
	if strings.Contains(content, block) {
		return content, nil
	}
	i := strings.Index(content, anchor)
	if i < 0 {
		return content, fmt.Errorf("%w: %q", apperrors.ErrAnchorNotFound, anchor)
	}
	return content[:i] + block + content[i:], nil
}

// ContainsLine reports whether content has a line equal to line, ignoring surrounding whitespace.
func ContainsLine(content, line string) bool {
	want := strings.TrimSpace(line)
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == want {
			return true
		}
	}
	return false
}

// EnsureLine appends line unless an equal line is already present. The boolean reports
// whether content changed.
func EnsureLine(content, line string) (string, bool) {
	if ContainsLine(content, line) {
		return content, false
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + line + "\n", true
}

// RemoveLine drops every line equal to line. The boolean reports whether content changed.
func RemoveLine(content, line string) (string, bool) {
	want := strings.TrimSpace(line)
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	removed := false
	for _, l := range lines {
		if strings.TrimSpace(l) == want {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	if !removed {
		return content, false
	}
	return strings.Join(kept, "\n"), true
}

var (
	namespacePattern = regexp.MustCompile(`(?m)^namespace\s+[^;]+;[ \t]*$`)
	importPattern    = regexp.MustCompile(`(?m)^use\s+[^;]+;[ \t]*$`)
	denyPattern      = regexp.MustCompile(`(return\s+)(false|Response::deny\(\));`)
)

// EnsureImports adds a top-level "use X;" statement for every import not yet present.
// New statements go after the last existing import, else after the namespace declaration,
// else after the opening tag.
func EnsureImports(content string, imports ...string) string {
	var missing []string
	for _, imp := range imports {
		stmt := "use " + strings.TrimSuffix(strings.TrimPrefix(imp, "use "), ";") + ";"
		if !ContainsLine(content, stmt) {
			missing = append(missing, stmt)
		}
	}
	if len(missing) == 0 {
		return content
	}
	block := strings.Join(missing, "\n")

	if locs := importPattern.FindAllStringIndex(content, -1); len(locs) > 0 {
		at := locs[len(locs)-1][1]
		return content[:at] + "\n" + block + content[at:]
	}
	if loc := namespacePattern.FindStringIndex(content); loc != nil {
		at := loc[1]
		return content[:at] + "\n\n" + block + content[at:]
	}
	if strings.HasPrefix(content, "<?php") {
		return "<?php\n\n" + block + "\n" + strings.TrimLeft(content[len("<?php"):], "\n")
	}
	return block + "\n" + content
}

func classPattern(class string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^((?:(?:abstract|final|readonly)\s+)*class\s+` + regexp.QuoteMeta(class) + `)\b(\s+extends\s+[\w\\]+)?`)
}

// EnsureExtends makes class extend parent unless it already extends something.
func EnsureExtends(content, class, parent string) (string, error) {
	loc := classPattern(class).FindStringSubmatchIndex(content)
	if loc == nil {
		return content, fmt.Errorf("%w: class %s", apperrors.ErrAnchorNotFound, class)
	}
	if loc[4] >= 0 {
		return content, nil
	}
	at := loc[3]
	return content[:at] + " extends " + parent + content[at:], nil
}

// ReplaceClassBody swaps everything between the braces of class for body.
// Braces inside strings and comments are ignored when matching.
func ReplaceClassBody(content, class, body string) (string, error) {
	loc := classPattern(class).FindStringIndex(content)
	if loc == nil {
		return content, fmt.Errorf("%w: class %s", apperrors.ErrAnchorNotFound, class)
	}

	open := strings.IndexByte(content[loc[1]:], '{')
	if open < 0 {
		return content, fmt.Errorf("%w: body of class %s", apperrors.ErrAnchorNotFound, class)
	}
	open += loc[1]

	closing := matchBrace(content, open)
	if closing < 0 {
		return content, fmt.Errorf("%w: closing brace of class %s", apperrors.ErrAnchorNotFound, class)
	}

	return content[:open+1] + body + content[closing:], nil
}

// matchBrace returns the index of the brace closing the one at open, or -1.
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\'' || c == '"':
			i = skipString(s, i)
		case c == '#' || (c == '/' && i+1 < len(s) && s[i+1] == '/'):
			if nl := strings.IndexByte(s[i:], '\n'); nl >= 0 {
				i += nl
			} else {
				return -1
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return -1
			}
			i += end + 3
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// skipString returns the index of the quote closing the string opened at start.
func skipString(s string, start int) int {
	quote := s[start]
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return len(s)
}

// AllowAll rewrites every "return false;" and "return Response::deny();" to "return true;".
func AllowAll(content string) string {
	return denyPattern.ReplaceAllString(content, "${1}true;")
}
