package model

// VLAN represents an 802.1Q VLAN with an optional routed gateway and
// DHCP scope.
type VLAN struct {
	ID      int    `json:"id" yaml:"id" validate:"required,min=1,max=4094"`
	Name    string `json:"name" yaml:"name" validate:"required"`
	Subnet  string `json:"subnet,omitempty" yaml:"subnet,omitempty"` // CIDR; empty = L2 only
	Gateway string `json:"gateway,omitempty" yaml:"gateway,omitempty"`

	DHCP *DHCPServer `json:"dhcp,omitempty" yaml:"dhcp,omitempty"`

	// Isolated VLANs get a default drop rule toward other local segments
	// (guest network pattern).
	Isolated bool `json:"isolated,omitempty" yaml:"isolated,omitempty"`

	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// IsRouted reports whether the VLAN has an L3 gateway on the device.
func (v *VLAN) IsRouted() bool {
	return v.Subnet != ""
}

// DHCPEnabled reports whether a DHCP server is configured and enabled.
func (v *VLAN) DHCPEnabled() bool {
	return v.DHCP != nil && v.DHCP.Enabled
}
