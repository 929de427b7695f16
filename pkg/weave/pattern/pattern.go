// Package pattern implements the route-pattern parser and matcher: segment
// classification, specificity scoring, and path matching.
package pattern

import "strings"

type segmentKind int

const (
	kindLiteral segmentKind = iota
	kindParam
	kindWildcard
	kindCatchAll
)

type segment struct {
	kind    segmentKind
	literal string // for kindLiteral
	name    string // for kindParam and named kindCatchAll
}

// Specificity contribution per segment form, per spec §4.4.
const (
	scoreLiteral     = 100
	scoreParam       = 10
	scoreWildcard    = 1
	scoreCatchAll    = -100
)

// Pattern is a parsed route pattern: an ordered segment list plus a
// precomputed specificity score.
type Pattern struct {
	raw         string
	segments    []segment
	paramNames  []string
	isStatic    bool
	specificity int
}

// New parses a pattern string into a Pattern.
func New(raw string) *Pattern {
	normalized := Normalize(raw)
	p := &Pattern{raw: normalized, isStatic: true}

	for _, part := range strings.Split(normalized, "/") {
		if part == "" {
			continue
		}
		switch {
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			p.segments = append(p.segments, segment{kind: kindParam, name: name})
			p.paramNames = append(p.paramNames, name)
			p.isStatic = false
			p.specificity += scoreParam
		case part == "*":
			p.segments = append(p.segments, segment{kind: kindWildcard})
			p.isStatic = false
			p.specificity += scoreWildcard
		case part == "**":
			p.segments = append(p.segments, segment{kind: kindCatchAll})
			p.isStatic = false
			p.specificity += scoreCatchAll
		case strings.HasPrefix(part, "*"):
			name := part[1:]
			p.segments = append(p.segments, segment{kind: kindCatchAll, name: name})
			p.paramNames = append(p.paramNames, name)
			p.isStatic = false
			p.specificity += scoreCatchAll
		default:
			p.segments = append(p.segments, segment{kind: kindLiteral, literal: part})
			p.specificity += scoreLiteral
		}
	}

	return p
}

// Raw returns the normalized pattern string.
func (p *Pattern) Raw() string { return p.raw }

// IsStatic reports whether every segment of the pattern is a literal.
func (p *Pattern) IsStatic() bool { return p.isStatic }

// Specificity returns the precomputed specificity score.
func (p *Pattern) Specificity() int { return p.specificity }

// ParamNames returns the named parameters this pattern binds, in
// declaration order (params and named catch-alls, not wildcards).
func (p *Pattern) ParamNames() []string { return p.paramNames }

// Match attempts to match path against the pattern. On success it returns
// the captured parameters (possibly empty, never nil) and true.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	normalized := Normalize(path)

	if p.isStatic {
		if normalized == p.raw {
			return map[string]string{}, true
		}
		return nil, false
	}

	return p.matchDynamic(normalized)
}

func (p *Pattern) matchDynamic(normalizedPath string) (map[string]string, bool) {
	pathSegments := splitNonEmpty(normalizedPath)
	params := make(map[string]string, len(p.paramNames))
	idx := 0

	for i, seg := range p.segments {
		switch seg.kind {
		case kindLiteral:
			if idx >= len(pathSegments) || pathSegments[idx] != seg.literal {
				return nil, false
			}
			idx++
		case kindParam:
			if idx >= len(pathSegments) {
				return nil, false
			}
			params[seg.name] = pathSegments[idx]
			idx++
		case kindWildcard:
			if idx >= len(pathSegments) {
				return nil, false
			}
			idx++
		case kindCatchAll:
			rest := pathSegments[idx:]
			if seg.name != "" {
				params[seg.name] = strings.Join(rest, "/")
			}
			_ = i
			return params, true
		}
	}

	if idx == len(pathSegments) {
		return params, true
	}
	return nil, false
}

// Normalize ensures a leading slash and strips any trailing slash except
// for the root path.
func Normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

func splitNonEmpty(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
