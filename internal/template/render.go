package template

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/bendechrai/devports/internal/registry"
)

// ErrNoProjectName is returned when neither the render options nor the
// template itself yield a project name.
var ErrNoProjectName = errors.New("no project name: pass --project or set PROJECT_NAME in the template")

// projectNameKey is the assignment prefix ExtractProjectName scans for.
const projectNameKey = "PROJECT_NAME="

// PortSource supplies ports for detected services. Satisfied by
// *registry.Engine.
type PortSource interface {
	GetOrAllocate(project, service, portType string) (*registry.PortAllocation, error)
}

// Renderer orchestrates template rendering: read, derive the project
// name, detect required services, get-or-allocate each, substitute.
type Renderer struct {
	Ports PortSource

	// Warnf receives malformed-placeholder warnings.
	Warnf func(format string, args ...any)
}

// RenderOptions control one render call.
type RenderOptions struct {
	// ProjectName overrides extraction from the template.
	ProjectName string

	// OutputPath, when set, receives the rendered content.
	OutputPath string
}

// RenderResult is the outcome of one render call.
type RenderResult struct {
	Content     string
	Ports       map[string]int
	ProjectName string
}

// Render reads the template at path and resolves its placeholders.
// Re-rendering the same template for the same project is idempotent:
// services keep the ports they were first issued.
func (r *Renderer) Render(path string, opts RenderOptions) (*RenderResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	text := string(data)

	name := opts.ProjectName
	if name == "" {
		name = ExtractProjectName(text)
	}
	if name == "" {
		return nil, ErrNoProjectName
	}
	name = NormalizeProjectName(name)
	if name == "" {
		return nil, ErrNoProjectName
	}

	ports := make(map[string]int)
	for _, sv := range DetectServices(text, path, r.Warnf) {
		parts := strings.SplitN(sv, ":", 2)
		service, portType := parts[0], parts[1]

		alloc, err := r.Ports.GetOrAllocate(name, service, portType)
		if err != nil {
			return nil, err
		}
		ports[service] = alloc.Port
	}

	content := Substitute(text, ports, name, path)

	if opts.OutputPath != "" {
		if err := os.WriteFile(opts.OutputPath, []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("failed to write rendered output: %w", err)
		}
	}

	return &RenderResult{Content: content, Ports: ports, ProjectName: name}, nil
}

// ExtractProjectName scans the template for a PROJECT_NAME= assignment
// and returns its value with one layer of matching quotes stripped. A
// value still wrapped in placeholder syntax reads as "not yet resolved"
// and yields the empty string.
func ExtractProjectName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, projectNameKey) {
			continue
		}

		value := strings.TrimSpace(strings.TrimPrefix(line, projectNameKey))
		value = stripQuotes(value)

		if strings.HasPrefix(value, "{devports:") && strings.HasSuffix(value, "}") {
			return ""
		}
		return value
	}
	return ""
}

// stripQuotes removes a single layer of matching surrounding quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

var (
	slugInvalidRe  = regexp.MustCompile(`[^a-z0-9-]+`)
	slugCollapseRe = regexp.MustCompile(`-{2,}`)
)

// NormalizeProjectName lowers a name to its URL-safe form: lowercase,
// runs of other characters become single dashes, repeats collapse and
// leading/trailing dashes are trimmed.
func NormalizeProjectName(name string) string {
	slug := strings.ToLower(name)
	slug = slugInvalidRe.ReplaceAllString(slug, "-")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
