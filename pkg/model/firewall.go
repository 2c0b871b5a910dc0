package model

// Firewall rule actions
const (
	ActionAccept = "accept"
	ActionDrop   = "drop"
	ActionReject = "reject"
)

// Well-known zone names. LAN and VLAN names are also valid zones.
const (
	ZoneWAN = "wan"
	ZoneAny = "any"
)

// FirewallRule represents one filter rule. Rules are ordered by Seq;
// vendors that match top-down emit them in ascending sequence.
type FirewallRule struct {
	Seq      int    `json:"seq" yaml:"seq" validate:"required,min=1"`
	Action   string `json:"action" yaml:"action" validate:"required,oneof=accept drop reject"`
	Protocol string `json:"protocol,omitempty" yaml:"protocol,omitempty" validate:"omitempty,oneof=tcp udp icmp any"`

	SrcZone string `json:"src_zone,omitempty" yaml:"src_zone,omitempty"`
	DstZone string `json:"dst_zone,omitempty" yaml:"dst_zone,omitempty"`

	SrcAddress string `json:"src_address,omitempty" yaml:"src_address,omitempty"` // CIDR
	DstAddress string `json:"dst_address,omitempty" yaml:"dst_address,omitempty"` // CIDR
	DstPorts   string `json:"dst_ports,omitempty" yaml:"dst_ports,omitempty"`     // "443", "80,443", "8000-8080"

	Log     bool   `json:"log,omitempty" yaml:"log,omitempty"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// NeedsProtocol reports whether the rule requires an L4 protocol
// (port matches are meaningless without one).
func (r *FirewallRule) NeedsProtocol() bool {
	return r.DstPorts != ""
}
