// Package render provides the template machinery shared by vendor
// plugins. Each plugin keeps its templates as package consts and uses
// Render to produce configuration artifacts.
package render

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
)

// Artifact is one generated configuration file.
type Artifact struct {
	// Name identifies the artifact within its bundle ("startup-config",
	// "vlans", ...).
	Name string `json:"name"`
	// Path is the file name used when the artifact is exported.
	Path string `json:"path"`
	// Mode is the file mode on export. Artifacts carrying secrets use 0600.
	Mode os.FileMode `json:"mode"`

	Content []byte `json:"content"`
}

// Bundle is the full output of generating one site for one vendor.
type Bundle struct {
	Site      string      `json:"site"`
	Vendor    string      `json:"vendor"`
	Artifacts []*Artifact `json:"artifacts"`
	// Warnings carry non-fatal notes surfaced during generation, e.g.
	// features silently skipped on the target platform.
	Warnings []string `json:"warnings,omitempty"`
}

// Add appends an artifact with the default file mode.
func (b *Bundle) Add(name, path string, content []byte) {
	b.Artifacts = append(b.Artifacts, &Artifact{
		Name:    name,
		Path:    path,
		Mode:    0644,
		Content: content,
	})
}

// AddSecret appends an artifact that must not be world-readable.
func (b *Bundle) AddSecret(name, path string, content []byte) {
	b.Artifacts = append(b.Artifacts, &Artifact{
		Name:    name,
		Path:    path,
		Mode:    0600,
		Content: content,
	})
}

// Warnf records a generation warning.
func (b *Bundle) Warnf(format string, args ...interface{}) {
	b.Warnings = append(b.Warnings, fmt.Sprintf(format, args...))
}

// Artifact returns the named artifact, or nil.
func (b *Bundle) Artifact(name string) *Artifact {
	for _, a := range b.Artifacts {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Render parses text with the shared FuncMap and executes it with data.
func Render(name, text string, data interface{}) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(Funcs()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
