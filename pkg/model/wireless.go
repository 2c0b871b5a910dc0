package model

// Wireless security modes
const (
	WirelessOpen    = "open"
	WirelessWPA2PSK = "wpa2-psk"
	WirelessWPA3PSK = "wpa3-psk"
)

// WirelessNetwork represents one SSID.
type WirelessNetwork struct {
	SSID     string `json:"ssid" yaml:"ssid" validate:"required,max=32"`
	Security string `json:"security" yaml:"security" validate:"required,oneof=open wpa2-psk wpa3-psk"`

	// Passphrase is required for PSK modes; 8-63 printable ASCII chars
	// per 802.11i.
	Passphrase string `json:"passphrase,omitempty" yaml:"passphrase,omitempty"`

	// VLAN tags client traffic into the given VLAN ID; 0 = untagged LAN.
	VLAN int `json:"vlan,omitempty" yaml:"vlan,omitempty"`

	Band     string `json:"band,omitempty" yaml:"band,omitempty" validate:"omitempty,oneof=2g 5g both"`
	Hidden   bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// RequiresPassphrase reports whether the security mode needs a PSK.
func (w *WirelessNetwork) RequiresPassphrase() bool {
	return w.Security == WirelessWPA2PSK || w.Security == WirelessWPA3PSK
}
