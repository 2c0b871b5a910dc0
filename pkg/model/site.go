// Package model defines the vendor-agnostic configuration model.
// Vendor plugins consume these types; nothing here is specific to any
// device family.
package model

import "sort"

// SiteConfig is the complete configuration for one customer site.
// It is assembled by the definition loader after inheritance and
// derivation, then validated and handed to a vendor plugin.
type SiteConfig struct {
	Name     string `json:"name" yaml:"name" validate:"required"`
	Customer string `json:"customer,omitempty" yaml:"customer,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`

	// Target device
	Vendor string `json:"vendor" yaml:"vendor" validate:"required"`
	Model  string `json:"model,omitempty" yaml:"model,omitempty"`

	WAN      *WAN               `json:"wan,omitempty" yaml:"wan,omitempty"`
	LANs     []*LANNetwork      `json:"lans,omitempty" yaml:"lans,omitempty" validate:"dive"`
	VLANs    []*VLAN            `json:"vlans,omitempty" yaml:"vlans,omitempty" validate:"dive"`
	Firewall []*FirewallRule    `json:"firewall,omitempty" yaml:"firewall,omitempty" validate:"dive"`
	VPNs     []*VPNTunnel       `json:"vpns,omitempty" yaml:"vpns,omitempty" validate:"dive"`
	Wireless []*WirelessNetwork `json:"wireless,omitempty" yaml:"wireless,omitempty" validate:"dive"`
	Admin    *AdminAccess       `json:"admin,omitempty" yaml:"admin,omitempty"`
}

// VLANIDs returns the sorted VLAN IDs configured for the site.
func (s *SiteConfig) VLANIDs() []int {
	ids := make([]int, 0, len(s.VLANs))
	for _, v := range s.VLANs {
		ids = append(ids, v.ID)
	}
	sort.Ints(ids)
	return ids
}

// VLANByID returns the VLAN with the given ID, or nil.
func (s *SiteConfig) VLANByID(id int) *VLAN {
	for _, v := range s.VLANs {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// LocalSubnets returns every LAN and VLAN subnet on the site.
func (s *SiteConfig) LocalSubnets() []string {
	var subnets []string
	for _, l := range s.LANs {
		if l.Subnet != "" {
			subnets = append(subnets, l.Subnet)
		}
	}
	for _, v := range s.VLANs {
		if v.Subnet != "" {
			subnets = append(subnets, v.Subnet)
		}
	}
	return subnets
}

// Zones returns the firewall zone names valid for this site:
// "wan", every LAN name, and every VLAN name.
func (s *SiteConfig) Zones() []string {
	zones := []string{ZoneWAN}
	for _, l := range s.LANs {
		zones = append(zones, l.Name)
	}
	for _, v := range s.VLANs {
		zones = append(zones, v.Name)
	}
	return zones
}

// HasZone reports whether name is a valid firewall zone on this site.
func (s *SiteConfig) HasZone(name string) bool {
	if name == "" || name == ZoneAny {
		return true
	}
	for _, z := range s.Zones() {
		if z == name {
			return true
		}
	}
	return false
}

// HasWireless reports whether any enabled wireless network is configured.
func (s *SiteConfig) HasWireless() bool {
	for _, w := range s.Wireless {
		if !w.Disabled {
			return true
		}
	}
	return false
}

// HasVPN reports whether any VPN tunnel is configured.
func (s *SiteConfig) HasVPN() bool {
	return len(s.VPNs) > 0
}
