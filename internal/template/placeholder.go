package template

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// placeholderPattern matches the bracket syntax {devports:...}. The body
// is either the bare project marker or a type:service pair.
var placeholderPattern = regexp.MustCompile(`\{devports:([^{}]*)\}`)

// projectMarker is the body of the bare project placeholder.
const projectMarker = "project"

// refKind tags the two placeholder shapes.
type refKind int

const (
	projectRef refKind = iota
	serviceRef
)

// placeholderRef is the parsed form of one placeholder body.
type placeholderRef struct {
	kind     refKind
	portType string
	service  string
}

// parsePlaceholder parses a placeholder body into its tagged form.
func parsePlaceholder(body string) (placeholderRef, error) {
	parts := strings.Split(body, ":")
	switch {
	case len(parts) == 1 && parts[0] == projectMarker:
		return placeholderRef{kind: projectRef}, nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return placeholderRef{kind: serviceRef, portType: parts[0], service: parts[1]}, nil
	}
	return placeholderRef{}, fmt.Errorf("malformed placeholder body %q", body)
}

// inComment reports whether the span [start, end) lies fully inside any
// of the given comment ranges.
func inComment(ranges []Range, start, end int) bool {
	for _, r := range ranges {
		if r.Contains(start, end) {
			return true
		}
	}
	return false
}

// DetectServices returns the service placeholders a template requires,
// as "service:type" strings, de-duplicated in first-seen order. Matches
// inside comments and bare project markers are skipped; malformed bodies
// are reported through warnf and skipped.
func DetectServices(text, filename string, warnf func(format string, args ...any)) []string {
	comments := FindCommentRanges(text, filename)

	var services []string
	seen := make(map[string]bool)

	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		if inComment(comments, m[0], m[1]) {
			continue
		}

		ref, err := parsePlaceholder(text[m[2]:m[3]])
		if err != nil {
			if warnf != nil {
				warnf("skipping %s", err)
			}
			continue
		}
		if ref.kind == projectRef {
			continue
		}

		key := ref.service + ":" + ref.portType
		if seen[key] {
			continue
		}
		seen[key] = true
		services = append(services, key)
	}

	return services
}

// edit is one pending replacement against the original text.
type edit struct {
	start       int
	end         int
	replacement string
}

// Substitute rewrites placeholders outside comment ranges: the project
// marker becomes projectName and a type:service pair becomes its port
// from ports. Services missing from ports are left as-is. All edits are
// collected against the original text and spliced in one pass, so
// identical placeholders resolve independently by position and a
// replacement value is never re-scanned.
func Substitute(text string, ports map[string]int, projectName, filename string) string {
	comments := FindCommentRanges(text, filename)

	var edits []edit
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		if inComment(comments, m[0], m[1]) {
			continue
		}

		ref, err := parsePlaceholder(text[m[2]:m[3]])
		if err != nil {
			continue
		}

		switch ref.kind {
		case projectRef:
			edits = append(edits, edit{start: m[0], end: m[1], replacement: projectName})
		case serviceRef:
			port, ok := ports[ref.service]
			if !ok {
				continue
			}
			edits = append(edits, edit{start: m[0], end: m[1], replacement: strconv.Itoa(port)})
		}
	}

	if len(edits) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, e := range edits {
		b.WriteString(text[last:e.start])
		b.WriteString(e.replacement)
		last = e.end
	}
	b.WriteString(text[last:])

	return b.String()
}
