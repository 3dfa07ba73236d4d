package resume

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed templates/*.json
var templateFiles embed.FS

// Template is a named, version-controlled bundle of preset sections plus the
// styling it was designed for.
type Template struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Styling     Styling   `json:"styling"`
	Sections    []Section `json:"sections"`
}

// ErrTemplateNotFound indicates an unknown template name.
type ErrTemplateNotFound struct {
	Name string
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template not found: %s", e.Name)
}

var (
	templatesOnce sync.Once
	templates     map[string]*Template
	templatesErr  error
)

// loadTemplates parses and validates every embedded template bundle against
// the embedded JSON Schema. Bundles ship with the binary, so a failure here
// is a build defect and every caller will see the same error.
func loadTemplates() {
	schemaData, err := templateFiles.ReadFile("templates/template.schema.json")
	if err != nil {
		templatesErr = fmt.Errorf("failed to read template schema: %w", err)
		return
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaData))
	if err != nil {
		templatesErr = fmt.Errorf("failed to compile template schema: %w", err)
		return
	}

	entries, err := templateFiles.ReadDir("templates")
	if err != nil {
		templatesErr = fmt.Errorf("failed to list templates: %w", err)
		return
	}

	loaded := make(map[string]*Template)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") || strings.HasSuffix(entry.Name(), ".schema.json") {
			continue
		}
		data, err := templateFiles.ReadFile("templates/" + entry.Name())
		if err != nil {
			templatesErr = fmt.Errorf("failed to read template %s: %w", entry.Name(), err)
			return
		}

		result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
		if err != nil {
			templatesErr = fmt.Errorf("failed to validate template %s: %w", entry.Name(), err)
			return
		}
		if !result.Valid() {
			var problems []string
			for _, desc := range result.Errors() {
				problems = append(problems, desc.String())
			}
			templatesErr = fmt.Errorf("template %s is invalid: %s", entry.Name(), strings.Join(problems, "; "))
			return
		}

		var t Template
		if err := json.Unmarshal(data, &t); err != nil {
			templatesErr = fmt.Errorf("failed to parse template %s: %w", entry.Name(), err)
			return
		}
		loaded[t.Name] = &t
	}
	templates = loaded
}

// GetTemplate returns the named template bundle.
func GetTemplate(name string) (*Template, error) {
	templatesOnce.Do(loadTemplates)
	if templatesErr != nil {
		return nil, templatesErr
	}
	t, ok := templates[name]
	if !ok {
		return nil, &ErrTemplateNotFound{Name: name}
	}
	return t, nil
}

// ListTemplates returns all template bundles sorted by name.
func ListTemplates() ([]*Template, error) {
	templatesOnce.Do(loadTemplates)
	if templatesErr != nil {
		return nil, templatesErr
	}
	out := make([]*Template, 0, len(templates))
	for _, t := range templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
