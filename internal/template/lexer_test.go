package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCommentRanges_HashStyle(t *testing.T) {
	text := "# leading comment\nPORT=3000\nHOST=localhost # trailing\n"

	ranges := FindCommentRanges(text, ".env")

	require.Len(t, ranges, 2)
	assert.Equal(t, "# leading comment", text[ranges[0].Start:ranges[0].End])
	assert.Equal(t, "# trailing", text[ranges[1].Start:ranges[1].End])
}

func TestFindCommentRanges_LineCommentAtEOF(t *testing.T) {
	text := "value=1\n# no trailing newline"

	ranges := FindCommentRanges(text, "config.yaml")

	require.Len(t, ranges, 1)
	assert.Equal(t, len(text), ranges[0].End)
}

func TestFindCommentRanges_SlashStyleWithString(t *testing.T) {
	text := `const s = "http://x"; // real comment`

	ranges := FindCommentRanges(text, "app.js")

	// The // inside the double-quoted string must not open a comment
	require.Len(t, ranges, 1)
	assert.Equal(t, strings.Index(text, "// real"), ranges[0].Start)
	assert.Equal(t, len(text), ranges[0].End)
}

func TestFindCommentRanges_BlockComment(t *testing.T) {
	text := "body { /* color: red */ margin: 0; }"

	ranges := FindCommentRanges(text, "style.css")

	require.Len(t, ranges, 1)
	assert.Equal(t, "/* color: red */", text[ranges[0].Start:ranges[0].End])
}

func TestFindCommentRanges_UnterminatedBlock(t *testing.T) {
	text := "code();\n/* runs to the end\nmore text"

	ranges := FindCommentRanges(text, "main.go")

	require.Len(t, ranges, 1)
	assert.Equal(t, strings.Index(text, "/*"), ranges[0].Start)
	assert.Equal(t, len(text), ranges[0].End)
}

func TestFindCommentRanges_EscapedQuoteInString(t *testing.T) {
	// The escaped quote does not end the string, so the # stays inside it
	text := `msg="say \"hi\" # not a comment"` + "\nREAL=1 # yes\n"

	ranges := FindCommentRanges(text, "vars.sh")

	require.Len(t, ranges, 1)
	assert.Equal(t, "# yes", text[ranges[0].Start:ranges[0].End])
}

func TestFindCommentRanges_BackslashOutsideQuotesIsPlain(t *testing.T) {
	// Outside quotes a backslash escapes nothing: the following quote
	// still opens a string, so the # within it is not a comment
	text := `a\"b # c"` + "\n# real"

	ranges := FindCommentRanges(text, "vars.sh")

	require.Len(t, ranges, 1)
	assert.Equal(t, "# real", text[ranges[0].Start:ranges[0].End])
}

func TestFindCommentRanges_QuoteInsideOtherQuote(t *testing.T) {
	// A single quote inside a double-quoted string is a plain character
	text := `a="it's fine" # comment` + "\n"

	ranges := FindCommentRanges(text, "test.sh")

	require.Len(t, ranges, 1)
	assert.Equal(t, "# comment", text[ranges[0].Start:ranges[0].End])
}

func TestFindCommentRanges_TemplateSuffixStripped(t *testing.T) {
	text := "// js comment\n"

	ranges := FindCommentRanges(text, "config.js.template")

	require.Len(t, ranges, 1)
}

func TestFindCommentRanges_UnknownExtensionDefaultsToHash(t *testing.T) {
	text := "# hash\n// not a comment here\n"

	ranges := FindCommentRanges(text, "whatever.xyz")

	require.Len(t, ranges, 1)
	assert.Equal(t, "# hash", text[ranges[0].Start:ranges[0].End])
}

func TestFindCommentRanges_HTMLBlock(t *testing.T) {
	text := "<p>hi</p>\n<!-- note -->\n<p>bye</p>\n"

	ranges := FindCommentRanges(text, "index.html")

	require.Len(t, ranges, 1)
	assert.Equal(t, "<!-- note -->", text[ranges[0].Start:ranges[0].End])
}

func TestFindCommentRanges_NoComments(t *testing.T) {
	assert.Empty(t, FindCommentRanges("PORT=3000\n", ".env"))
	assert.Empty(t, FindCommentRanges("", "app.js"))
}
