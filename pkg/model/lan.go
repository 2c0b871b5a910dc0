package model

// LANNetwork represents a directly attached LAN segment.
type LANNetwork struct {
	Name      string `json:"name" yaml:"name" validate:"required"`
	Interface string `json:"interface,omitempty" yaml:"interface,omitempty"`
	Subnet    string `json:"subnet" yaml:"subnet" validate:"required"` // CIDR
	Gateway   string `json:"gateway,omitempty" yaml:"gateway,omitempty"`

	DHCP *DHCPServer `json:"dhcp,omitempty" yaml:"dhcp,omitempty"`
}

// DHCPEnabled reports whether a DHCP server is configured and enabled.
func (l *LANNetwork) DHCPEnabled() bool {
	return l.DHCP != nil && l.DHCP.Enabled
}

// DHCPServer represents a DHCP scope bound to a LAN or VLAN.
// PoolStart/PoolEnd may be left empty in definitions; the loader derives
// them from the subnet.
type DHCPServer struct {
	Enabled   bool     `json:"enabled" yaml:"enabled"`
	PoolStart string   `json:"pool_start,omitempty" yaml:"pool_start,omitempty"`
	PoolEnd   string   `json:"pool_end,omitempty" yaml:"pool_end,omitempty"`
	LeaseTime string   `json:"lease_time,omitempty" yaml:"lease_time,omitempty"` // e.g. "24h"
	DNS       []string `json:"dns,omitempty" yaml:"dns,omitempty"`
	Domain    string   `json:"domain,omitempty" yaml:"domain,omitempty"`
}
