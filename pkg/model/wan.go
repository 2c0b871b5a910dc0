package model

// WAN uplink modes
const (
	WANModeStatic = "static"
	WANModeDHCP   = "dhcp"
	WANModePPPoE  = "pppoe"
)

// WAN represents the site's uplink configuration.
type WAN struct {
	Mode      string `json:"mode" yaml:"mode" validate:"required,oneof=static dhcp pppoe"`
	Interface string `json:"interface,omitempty" yaml:"interface,omitempty"`

	// Static mode
	Address string   `json:"address,omitempty" yaml:"address,omitempty"` // CIDR, e.g. "203.0.113.2/30"
	Gateway string   `json:"gateway,omitempty" yaml:"gateway,omitempty"`
	DNS     []string `json:"dns,omitempty" yaml:"dns,omitempty"`

	// PPPoE mode
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	MTU int `json:"mtu,omitempty" yaml:"mtu,omitempty"`
}

// IsStatic reports whether the uplink uses a static address.
func (w *WAN) IsStatic() bool {
	return w.Mode == WANModeStatic
}
