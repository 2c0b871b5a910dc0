package model

// VPN tunnel types
const (
	VPNTypeIPsecS2S = "ipsec-s2s"
)

// VPNTunnel represents a site-to-site IPsec tunnel.
type VPNTunnel struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	Type string `json:"type" yaml:"type" validate:"required,oneof=ipsec-s2s"`

	RemotePeer    string   `json:"remote_peer" yaml:"remote_peer" validate:"required"` // IP or hostname
	LocalSubnets  []string `json:"local_subnets,omitempty" yaml:"local_subnets,omitempty"`
	RemoteSubnets []string `json:"remote_subnets" yaml:"remote_subnets" validate:"required,min=1"`

	PresharedKey string `json:"preshared_key" yaml:"preshared_key" validate:"required"`

	// IKE proposal; defaults applied by the loader when empty
	IKEVersion int    `json:"ike_version,omitempty" yaml:"ike_version,omitempty" validate:"omitempty,oneof=1 2"`
	Encryption string `json:"encryption,omitempty" yaml:"encryption,omitempty"`
	Hash       string `json:"hash,omitempty" yaml:"hash,omitempty"`
	DHGroup    int    `json:"dh_group,omitempty" yaml:"dh_group,omitempty"`
	PFS        bool   `json:"pfs,omitempty" yaml:"pfs,omitempty"`
}
