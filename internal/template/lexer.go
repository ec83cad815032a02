package template

import "strings"

// Range is a half-open [Start, End) byte-offset interval within one
// document.
type Range struct {
	Start int
	End   int
}

// Contains reports whether the span [start, end) lies fully inside r.
func (r Range) Contains(start, end int) bool {
	return start >= r.Start && end <= r.End
}

// lexState tracks where the scanner is relative to string literals. The
// escape states exist so a backslash inside a quote consumes exactly the
// next character without ending the literal.
type lexState int

const (
	stateCode lexState = iota
	stateSingleQuote
	stateDoubleQuote
	stateSingleEscape
	stateDoubleEscape
)

// FindCommentRanges classifies the document's comment spans for the
// comment style derived from filename. String literals are honored: a
// comment marker inside quotes does not open a comment, and quotes of
// one kind inside the other kind are plain characters. Ranges are
// non-overlapping and in document order.
func FindCommentRanges(text, filename string) []Range {
	style := styleFor(filename)

	var ranges []Range
	state := stateCode
	i := 0

	for i < len(text) {
		switch state {
		case stateSingleEscape:
			state = stateSingleQuote
			i++

		case stateDoubleEscape:
			state = stateDoubleQuote
			i++

		case stateSingleQuote:
			switch text[i] {
			case '\\':
				state = stateSingleEscape
			case '\'':
				state = stateCode
			}
			i++

		case stateDoubleQuote:
			switch text[i] {
			case '\\':
				state = stateDoubleEscape
			case '"':
				state = stateCode
			}
			i++

		case stateCode:
			if style.line != "" && strings.HasPrefix(text[i:], style.line) {
				nl := strings.IndexByte(text[i:], '\n')
				if nl < 0 {
					ranges = append(ranges, Range{Start: i, End: len(text)})
					return ranges
				}
				ranges = append(ranges, Range{Start: i, End: i + nl})
				i += nl + 1
				continue
			}

			if style.blockStart != "" && strings.HasPrefix(text[i:], style.blockStart) {
				rest := i + len(style.blockStart)
				term := strings.Index(text[rest:], style.blockEnd)
				if term < 0 {
					// Unterminated block: the remainder is one trailing comment
					ranges = append(ranges, Range{Start: i, End: len(text)})
					return ranges
				}
				end := rest + term + len(style.blockEnd)
				ranges = append(ranges, Range{Start: i, End: end})
				i = end
				continue
			}

			switch text[i] {
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
			i++
		}
	}

	return ranges
}
