package axondebug

import (
	"strings"
)

// PathPartType is the kind of a route path segment
type PathPartType int

const (
	StaticPart PathPartType = iota
	ParameterPart
	WildcardPart
)

// PathPart is a single segment of a route path
type PathPart struct {
	Type PathPartType
	// Value is the literal text of a static segment, or the name of a
	// parameter or wildcard (empty for an anonymous wildcard).
	Value string
}

// RoutePath is a route path in axum syntax. Both the colon form
// ("/users/:id", "/files/*rest") and the brace form ("/users/{id}",
// "/files/{*rest}") are accepted.
type RoutePath string

// Raw returns the path as written
func (p RoutePath) Raw() string {
	return string(p)
}

// Parts splits the path into segments. Slashes are not included.
func (p RoutePath) Parts() []PathPart {
	var parts []PathPart
	for _, seg := range strings.Split(strings.Trim(string(p), "/"), "/") {
		if seg == "" {
			continue
		}
		switch {
		case strings.HasPrefix(seg, ":"):
			parts = append(parts, PathPart{Type: ParameterPart, Value: seg[1:]})
		case strings.HasPrefix(seg, "*"):
			parts = append(parts, PathPart{Type: WildcardPart, Value: seg[1:]})
		case strings.HasPrefix(seg, "{*") && strings.HasSuffix(seg, "}"):
			parts = append(parts, PathPart{Type: WildcardPart, Value: seg[2 : len(seg)-1]})
		case strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && len(seg) > 2:
			parts = append(parts, PathPart{Type: ParameterPart, Value: seg[1 : len(seg)-1]})
		default:
			parts = append(parts, PathPart{Type: StaticPart, Value: seg})
		}
	}
	return parts
}

// Format renders the path with a router's own parameter syntax.
func (p RoutePath) Format(param, wildcard func(name string) string) string {
	var sb strings.Builder
	for _, part := range p.Parts() {
		sb.WriteByte('/')
		switch part.Type {
		case ParameterPart:
			sb.WriteString(param(part.Value))
		case WildcardPart:
			sb.WriteString(wildcard(part.Value))
		default:
			sb.WriteString(part.Value)
		}
	}
	if sb.Len() == 0 {
		return "/"
	}
	return sb.String()
}
