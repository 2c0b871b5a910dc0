// Package plugin defines the vendor plugin interface and registry.
// Each supported device family lives in its own subpackage and
// registers itself at init time.
package plugin

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/confgen-ops/confgen/pkg/deploy"
	"github.com/confgen-ops/confgen/pkg/model"
	"github.com/confgen-ops/confgen/pkg/render"
	"github.com/confgen-ops/confgen/pkg/util"
)

// Plugin generates and deploys configuration for one device family.
type Plugin interface {
	// Name is the vendor key used in site definitions and vendors.json.
	Name() string
	Description() string

	// Validate applies vendor-specific constraints on top of the
	// generic validation pass.
	Validate(site *model.SiteConfig) error

	// Generate renders the site into a configuration bundle.
	Generate(ctx context.Context, site *model.SiteConfig) (*render.Bundle, error)

	// Deploy pushes a generated bundle to the target in opts.
	Deploy(ctx context.Context, bundle *render.Bundle, opts deploy.Options) error
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Plugin)
)

// Register adds a plugin to the registry. Registering the same name
// twice is a programming error.
func Register(p Plugin) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := registry[p.Name()]; exists {
		panic(fmt.Sprintf("plugin %q registered twice", p.Name()))
	}
	registry[p.Name()] = p
}

// Get returns the plugin for a vendor name.
func Get(name string) (Plugin, error) {
	mu.RLock()
	defer mu.RUnlock()

	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("vendor '%s': %w", name, util.ErrVendorNotSupported)
	}
	return p, nil
}

// Names returns the sorted names of all registered plugins.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
