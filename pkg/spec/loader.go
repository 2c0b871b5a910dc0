package spec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/confgen-ops/confgen/pkg/model"
	"github.com/confgen-ops/confgen/pkg/util"
)

// DefinitionsDir is the default definitions directory
var DefinitionsDir = "/etc/confgen"

// Loader handles loading and validating definition files. Safe for
// concurrent use once Load has returned; fleetgen resolves sites from
// multiple goroutines through one Loader.
type Loader struct {
	dir      string
	defaults *DefaultsFile
	vendors  *VendorsFile

	mu    sync.Mutex
	sites map[string]*SiteDefinition
}

// NewLoader creates a new definition loader
func NewLoader(dir string) *Loader {
	if dir == "" {
		dir = DefinitionsDir
	}
	return &Loader{
		dir:   dir,
		sites: make(map[string]*SiteDefinition),
	}
}

// Load loads all definition files
func (l *Loader) Load() error {
	var err error

	l.defaults, err = l.loadDefaults()
	if err != nil {
		return fmt.Errorf("loading defaults: %w", err)
	}

	l.vendors, err = l.loadVendors()
	if err != nil {
		return fmt.Errorf("loading vendor catalog: %w", err)
	}

	if err := l.validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// LoadSite loads a site definition by name from sites/<name>.yaml or
// .json. Definitions are cached; the cache is shared across goroutines.
func (l *Loader) LoadSite(name string) (*SiteDefinition, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadSiteLocked(name)
}

// loadSiteLocked is LoadSite without locking. Callers hold l.mu.
func (l *Loader) loadSiteLocked(name string) (*SiteDefinition, error) {
	if def, ok := l.sites[name]; ok {
		return def, nil
	}

	path, err := l.sitePath(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site %s: %w", name, err)
	}

	var def SiteDefinition
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("parsing site %s: %w", name, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("parsing site %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("site %s: %w: %s", name, util.ErrUnsupportedFormat, filepath.Ext(path))
	}

	if err := l.validateSite(&def); err != nil {
		return nil, fmt.Errorf("validating site %s: %w", name, err)
	}

	l.sites[name] = &def
	return &def, nil
}

// ListSites returns the sorted names of all site definition files.
func (l *Loader) ListSites() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(l.dir, "sites"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sites directory: %w", err)
	}

	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		switch ext {
		case ".yaml", ".yml", ".json":
			seen[strings.TrimSuffix(name, ext)] = true
		}
	}
	return SortedKeys(seen), nil
}

// GetDefaults returns the defaults file
func (l *Loader) GetDefaults() *DefaultsFile {
	return l.defaults
}

// GetVendors returns the vendor catalog
func (l *Loader) GetVendors() *VendorsFile {
	return l.vendors
}

// GetVendor returns a vendor spec by name
func (l *Loader) GetVendor(name string) (*VendorSpec, error) {
	v, ok := l.vendors.Vendors[name]
	if !ok {
		return nil, fmt.Errorf("vendor '%s': %w", name, util.ErrVendorNotSupported)
	}
	return v, nil
}

// GetRuleSet returns a named firewall baseline
func (l *Loader) GetRuleSet(name string) ([]*model.FirewallRule, error) {
	rs, ok := l.defaults.RuleSets[name]
	if !ok {
		return nil, fmt.Errorf("rule set '%s' not found", name)
	}
	return rs, nil
}

// sitePath finds the definition file for a site, preferring YAML.
func (l *Loader) sitePath(name string) (string, error) {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(l.dir, "sites", name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("site '%s': %w", name, util.ErrNotFound)
}

func (l *Loader) loadDefaults() (*DefaultsFile, error) {
	path := filepath.Join(l.dir, "defaults.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var defaults DefaultsFile
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return nil, err
	}
	if defaults.Global == nil {
		defaults.Global = &DefaultSet{}
	}
	// A region entry with no body unmarshals to nil
	for name, region := range defaults.Regions {
		if region == nil {
			defaults.Regions[name] = &DefaultSet{}
		}
	}

	return &defaults, nil
}

func (l *Loader) loadVendors() (*VendorsFile, error) {
	path := filepath.Join(l.dir, "vendors.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var vendors VendorsFile
	if err := json.Unmarshal(data, &vendors); err != nil {
		return nil, err
	}

	return &vendors, nil
}

// validate checks cross-references within the shared definition files.
func (l *Loader) validate() error {
	v := &util.ValidationBuilder{}

	// Scope-level rule set references must resolve
	checkRuleSets := func(scope string, names []string) {
		for _, name := range names {
			if _, ok := l.defaults.RuleSets[name]; !ok {
				v.AddErrorf("%s references unknown rule set '%s'", scope, name)
			}
		}
	}
	checkRuleSets("global defaults", l.defaults.Global.RuleSets)
	for regionName, region := range l.defaults.Regions {
		checkRuleSets(fmt.Sprintf("region '%s'", regionName), region.RuleSets)
	}

	// Vendor transports must be known
	for name, vendor := range l.vendors.Vendors {
		switch vendor.Transport {
		case TransportSSH, TransportHTTPS, TransportFile:
		default:
			v.AddErrorf("vendor '%s' has unknown transport '%s'", name, vendor.Transport)
		}
	}

	return v.Build()
}

// validateSite checks a site definition's references against the shared
// files. Semantic validation of the resolved config happens in
// pkg/validate.
func (l *Loader) validateSite(def *SiteDefinition) error {
	v := &util.ValidationBuilder{}

	v.Add(def.Region != "", "region is required")
	v.Add(def.Vendor != "", "vendor is required")

	if def.Region != "" {
		if _, ok := l.defaults.Regions[def.Region]; !ok {
			v.AddErrorf("unknown region: %s", def.Region)
		}
	}

	if def.Vendor != "" {
		vendor, ok := l.vendors.Vendors[def.Vendor]
		if !ok {
			v.AddErrorf("unknown vendor: %s", def.Vendor)
		} else if !vendor.SupportsModel(def.Model) {
			v.AddErrorf("vendor '%s' does not support model '%s'", def.Vendor, def.Model)
		}
	}

	for _, rs := range def.RuleSets {
		if _, ok := l.defaults.RuleSets[rs]; !ok {
			v.AddErrorf("references unknown rule set '%s'", rs)
		}
	}

	return v.Build()
}
