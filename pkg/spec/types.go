// Package spec handles loading and validating site definition files.
package spec

import (
	"sort"

	"github.com/confgen-ops/confgen/pkg/model"
)

// ============================================================================
// Defaults (defaults.yaml)
// ============================================================================

// DefaultsFile represents the global defaults file (defaults.yaml).
// Values resolve site > region > global.
type DefaultsFile struct {
	Version string                 `yaml:"version"`
	Global  *DefaultSet            `yaml:"global"`
	Regions map[string]*DefaultSet `yaml:"regions"`

	// Reusable firewall baselines, referenced by name from site
	// definitions via rule_sets.
	RuleSets map[string][]*model.FirewallRule `yaml:"rule_sets"`
}

// DefaultSet holds inheritable defaults at global or region scope.
type DefaultSet struct {
	DNS             []string `yaml:"dns,omitempty"`
	NTPServers      []string `yaml:"ntp_servers,omitempty"`
	SyslogServer    string   `yaml:"syslog_server,omitempty"`
	Timezone        string   `yaml:"timezone,omitempty"`
	DHCPLeaseTime   string   `yaml:"dhcp_lease_time,omitempty"`
	WirelessBand    string   `yaml:"wireless_band,omitempty"`
	AdminUsername   string   `yaml:"admin_username,omitempty"`
	AdminServices   []string `yaml:"admin_services,omitempty"`
	AllowedNetworks []string `yaml:"allowed_networks,omitempty"`

	// Baseline rule sets applied to every site in scope.
	RuleSets []string `yaml:"rule_sets,omitempty"`
}

// ============================================================================
// Vendor Catalog (vendors.json)
// ============================================================================

// VendorsFile represents the vendor capability catalog (vendors.json).
// This defines what device families are supported and what each can do.
type VendorsFile struct {
	Version string                 `json:"version"`
	Vendors map[string]*VendorSpec `json:"vendors"`
}

// Deploy transports
const (
	TransportSSH   = "ssh"
	TransportHTTPS = "https"
	TransportFile  = "file"
)

// Feature names checked against VendorSpec.UnsupportedFeatures.
const (
	FeatureVLANs    = "vlans"
	FeatureWireless = "wireless"
	FeatureVPN      = "vpn"
)

// VendorSpec describes one supported device vendor.
type VendorSpec struct {
	DisplayName string   `json:"display_name"`
	Models      []string `json:"models,omitempty"`
	MaxVLANs    int      `json:"max_vlans,omitempty"` // 0 = no stated limit
	Transport   string   `json:"transport"`           // ssh, https, file

	// Features this vendor cannot handle (e.g. "wireless" on sonicwall).
	UnsupportedFeatures []string `json:"unsupported_features,omitempty"`
}

// SupportsFeature returns true if the vendor supports the named feature.
// A feature is unsupported only if explicitly listed.
func (v *VendorSpec) SupportsFeature(feature string) bool {
	for _, f := range v.UnsupportedFeatures {
		if f == feature {
			return false
		}
	}
	return true
}

// SupportsModel returns true if the model is listed for this vendor.
// An empty model list accepts any model string.
func (v *VendorSpec) SupportsModel(m string) bool {
	if len(v.Models) == 0 || m == "" {
		return true
	}
	for _, known := range v.Models {
		if known == m {
			return true
		}
	}
	return false
}

// ============================================================================
// Site Definition (sites/<name>.yaml|json)
// ============================================================================

// SiteDefinition is the on-disk form of a site before inheritance and
// derivation. The resolver turns this into a model.SiteConfig.
type SiteDefinition struct {
	Customer string `json:"customer,omitempty" yaml:"customer,omitempty"`
	Region   string `json:"region" yaml:"region"`
	Vendor   string `json:"vendor" yaml:"vendor"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`

	WAN      *model.WAN               `json:"wan,omitempty" yaml:"wan,omitempty"`
	LANs     []*model.LANNetwork      `json:"lans,omitempty" yaml:"lans,omitempty"`
	VLANs    []*model.VLAN            `json:"vlans,omitempty" yaml:"vlans,omitempty"`
	Firewall []*model.FirewallRule    `json:"firewall,omitempty" yaml:"firewall,omitempty"`
	VPNs     []*model.VPNTunnel       `json:"vpns,omitempty" yaml:"vpns,omitempty"`
	Wireless []*model.WirelessNetwork `json:"wireless,omitempty" yaml:"wireless,omitempty"`
	Admin    *model.AdminAccess       `json:"admin,omitempty" yaml:"admin,omitempty"`

	// Additional baseline rule sets for this site, merged after the
	// scope-level ones.
	RuleSets []string `json:"rule_sets,omitempty" yaml:"rule_sets,omitempty"`
}

// ============================================================================
// IKE defaults applied by the resolver
// ============================================================================

const (
	DefaultIKEVersion = 2
	DefaultEncryption = "aes256"
	DefaultHash       = "sha256"
	DefaultDHGroup    = 14
	DefaultLeaseTime  = "24h"
)

// SortedKeys returns map keys in sorted order, for deterministic output.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
