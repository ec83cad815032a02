package template

import (
	"path/filepath"
	"strings"
)

// commentStyle describes the comment markers recognized for a file type.
// Any field may be empty when the file type lacks that comment form.
type commentStyle struct {
	line       string
	blockStart string
	blockEnd   string
}

// templateSuffix is stripped from a filename before extension lookup, so
// nginx.conf.template resolves the same style as nginx.conf.
const templateSuffix = ".template"

// defaultStyle covers shell scripts, env files, yaml and everything else
// without a known extension.
var defaultStyle = commentStyle{line: "#"}

var styleByExt = map[string]commentStyle{
	"sh":   {line: "#"},
	"bash": {line: "#"},
	"zsh":  {line: "#"},
	"env":  {line: "#"},
	"yaml": {line: "#"},
	"yml":  {line: "#"},
	"toml": {line: "#"},
	"conf": {line: "#"},
	"py":   {line: "#"},
	"rb":   {line: "#"},

	"js":    {line: "//", blockStart: "/*", blockEnd: "*/"},
	"jsx":   {line: "//", blockStart: "/*", blockEnd: "*/"},
	"ts":    {line: "//", blockStart: "/*", blockEnd: "*/"},
	"tsx":   {line: "//", blockStart: "/*", blockEnd: "*/"},
	"go":    {line: "//", blockStart: "/*", blockEnd: "*/"},
	"java":  {line: "//", blockStart: "/*", blockEnd: "*/"},
	"c":     {line: "//", blockStart: "/*", blockEnd: "*/"},
	"h":     {line: "//", blockStart: "/*", blockEnd: "*/"},
	"cpp":   {line: "//", blockStart: "/*", blockEnd: "*/"},
	"php":   {line: "//", blockStart: "/*", blockEnd: "*/"},
	"proto": {line: "//", blockStart: "/*", blockEnd: "*/"},

	"css":  {blockStart: "/*", blockEnd: "*/"},
	"scss": {line: "//", blockStart: "/*", blockEnd: "*/"},

	"html": {blockStart: "<!--", blockEnd: "-->"},
	"htm":  {blockStart: "<!--", blockEnd: "-->"},
	"xml":  {blockStart: "<!--", blockEnd: "-->"},
	"svg":  {blockStart: "<!--", blockEnd: "-->"},
	"md":   {blockStart: "<!--", blockEnd: "-->"},

	"sql": {line: "--", blockStart: "/*", blockEnd: "*/"},
	"lua": {line: "--"},
	"ini": {line: ";"},
}

// styleFor derives the comment style from a filename. Unknown or absent
// extensions fall back to hash line comments.
func styleFor(filename string) commentStyle {
	if filename == "" {
		return defaultStyle
	}

	name := strings.TrimSuffix(filepath.Base(filename), templateSuffix)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if style, ok := styleByExt[ext]; ok {
		return style
	}
	return defaultStyle
}
