package deploy

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/confgen-ops/confgen/pkg/render"
	"github.com/confgen-ops/confgen/pkg/util"
)

// Exporter writes bundles to the local filesystem under
// <root>/<site>/<vendor>/.
type Exporter struct {
	root string
}

// NewExporter creates an exporter rooted at dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{root: dir}
}

// BundleDir returns the directory a bundle exports into.
func (e *Exporter) BundleDir(bundle *render.Bundle) string {
	return filepath.Join(e.root, bundle.Site, bundle.Vendor)
}

// Plan previews the export without writing anything. Artifacts whose
// target file already exists are updates, the rest are creates.
func (e *Exporter) Plan(bundle *render.Bundle) *Plan {
	plan := NewPlan(bundle.Site, bundle.Vendor)
	dir := e.BundleDir(bundle)

	for _, a := range bundle.Artifacts {
		target := filepath.Join(dir, a.Path)
		op := OpCreate
		if _, err := os.Stat(target); err == nil {
			op = OpUpdate
		}
		plan.Add(op, a.Name, target, len(a.Content))
	}
	return plan
}

// Export writes every artifact in the bundle, honoring artifact file
// modes, and returns the executed plan.
func (e *Exporter) Export(bundle *render.Bundle) (*Plan, error) {
	plan := e.Plan(bundle)
	dir := e.BundleDir(bundle)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	for _, a := range bundle.Artifacts {
		target := filepath.Join(dir, a.Path)
		mode := a.Mode
		if mode == 0 {
			mode = 0644
		}
		if err := os.WriteFile(target, a.Content, mode); err != nil {
			return nil, util.NewDeployError(bundle.Site, bundle.Vendor, "export",
				fmt.Errorf("writing %s: %w", target, err))
		}
		// WriteFile does not chmod existing files
		if err := os.Chmod(target, mode); err != nil {
			return nil, util.NewDeployError(bundle.Site, bundle.Vendor, "export",
				fmt.Errorf("chmod %s: %w", target, err))
		}
		util.WithSite(bundle.Site).Debugf("wrote %s (%d bytes)", target, len(a.Content))
	}

	return plan, nil
}
