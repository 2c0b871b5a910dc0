// Package unifi generates UniFi controller REST payloads and pushes
// them over the controller API.
package unifi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/confgen-ops/confgen/pkg/deploy"
	"github.com/confgen-ops/confgen/pkg/model"
	"github.com/confgen-ops/confgen/pkg/plugin"
	"github.com/confgen-ops/confgen/pkg/render"
	"github.com/confgen-ops/confgen/pkg/util"
)

// VendorName is the registry key for this plugin.
const VendorName = "unifi"

func init() {
	plugin.Register(&UniFi{})
}

// UniFi implements plugin.Plugin for UniFi gateways and APs managed by
// a controller. Artifact names double as REST collection names under
// /api/s/<site>/rest/.
type UniFi struct{}

func (u *UniFi) Name() string { return VendorName }

func (u *UniFi) Description() string {
	return "Ubiquiti UniFi (controller REST payloads, HTTPS push)"
}

// Validate applies controller-specific constraints.
func (u *UniFi) Validate(site *model.SiteConfig) error {
	v := &util.ValidationBuilder{}

	// The controller provisions PPPoE only with credentials stored
	// server-side.
	if site.WAN != nil && site.WAN.Mode == model.WANModePPPoE {
		v.Add(site.WAN.Username != "", "pppoe wan requires a username")
		v.Add(site.WAN.Password != "", "pppoe wan requires a password")
	}
	for _, r := range site.Firewall {
		if r.Action == model.ActionReject && r.Protocol == "icmp" {
			v.AddErrorf("firewall rule %d: controller cannot reject icmp, use drop", r.Seq)
		}
	}

	return v.Build()
}

// networkConf is one /rest/networkconf object.
type networkConf struct {
	Name         string `json:"name"`
	Purpose      string `json:"purpose"`
	NetworkGroup string `json:"networkgroup,omitempty"`

	IPSubnet    string `json:"ip_subnet,omitempty"`
	VLANEnabled bool   `json:"vlan_enabled"`
	VLAN        int    `json:"vlan,omitempty"`

	DHCPDEnabled bool   `json:"dhcpd_enabled"`
	DHCPDStart   string `json:"dhcpd_start,omitempty"`
	DHCPDStop    string `json:"dhcpd_stop,omitempty"`
	DHCPDDNS1    string `json:"dhcpd_dns_1,omitempty"`
	DHCPDDNS2    string `json:"dhcpd_dns_2,omitempty"`
	DomainName   string `json:"domain_name,omitempty"`

	WANType     string `json:"wan_type,omitempty"`
	WANIP       string `json:"wan_ip,omitempty"`
	WANNetmask  string `json:"wan_netmask,omitempty"`
	WANGateway  string `json:"wan_gateway,omitempty"`
	WANDNS1     string `json:"wan_dns1,omitempty"`
	WANDNS2     string `json:"wan_dns2,omitempty"`
	WANUsername string `json:"wan_username,omitempty"`
	XWANPass    string `json:"x_wan_password,omitempty"`
}

// wlanConf is one /rest/wlanconf object.
type wlanConf struct {
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	Security    string `json:"security"`
	WPAMode     string `json:"wpa_mode,omitempty"`
	XPassphrase string `json:"x_passphrase,omitempty"`
	VLAN        int    `json:"vlan,omitempty"`
	VLANEnabled bool   `json:"vlan_enabled"`
	HideSSID    bool   `json:"hide_ssid"`
	WLANBand    string `json:"wlan_band,omitempty"`
}

// firewallRule is one /rest/firewallrule object.
type firewallRule struct {
	Name      string `json:"name"`
	Ruleset   string `json:"ruleset"`
	RuleIndex int    `json:"rule_index"`
	Action    string `json:"action"`
	Protocol  string `json:"protocol,omitempty"`

	SrcNetworkConf string `json:"src_networkconf_id,omitempty"`
	DstNetworkConf string `json:"dst_networkconf_id,omitempty"`
	SrcAddress     string `json:"src_address,omitempty"`
	DstAddress     string `json:"dst_address,omitempty"`
	DstPort        string `json:"dst_port,omitempty"`

	Logging bool `json:"logging"`
	Enabled bool `json:"enabled"`
}

// Generate renders the site into controller REST payloads. Each
// artifact is a JSON array for one collection.
func (u *UniFi) Generate(ctx context.Context, site *model.SiteConfig) (*render.Bundle, error) {
	bundle := &render.Bundle{Site: site.Name, Vendor: VendorName}

	networks := buildNetworks(site)
	if err := addJSONArtifact(bundle, "networkconf", networks, hasSecrets(site.WAN)); err != nil {
		return nil, err
	}

	if wlans := buildWLANs(site, bundle); len(wlans) > 0 {
		if err := addJSONArtifact(bundle, "wlanconf", wlans, true); err != nil {
			return nil, err
		}
	}

	if rules := buildRules(site); len(rules) > 0 {
		if err := addJSONArtifact(bundle, "firewallrule", rules, false); err != nil {
			return nil, err
		}
	}

	if len(site.VPNs) > 0 {
		bundle.Warnf("%d site-to-site vpns require controller-side configuration, skipped", len(site.VPNs))
	}

	return bundle, nil
}

// Deploy posts the payloads to the controller named in opts.Host.
func (u *UniFi) Deploy(ctx context.Context, bundle *render.Bundle, opts deploy.Options) error {
	controller := opts.Host
	if !strings.Contains(controller, "://") {
		controller = "https://" + controller
	}
	d, err := deploy.NewAPIDeployer(controller, bundle.Site, opts)
	if err != nil {
		return util.NewDeployError(bundle.Site, VendorName, "setup", err)
	}
	return d.Deploy(ctx, bundle)
}

func addJSONArtifact(bundle *render.Bundle, name string, v interface{}, secret bool) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	data = append(data, '\n')
	if secret {
		bundle.AddSecret(name, name+".json", data)
	} else {
		bundle.Add(name, name+".json", data)
	}
	return nil
}

func hasSecrets(wan *model.WAN) bool {
	return wan != nil && wan.Password != ""
}

func buildNetworks(site *model.SiteConfig) []networkConf {
	var networks []networkConf

	if site.WAN != nil {
		networks = append(networks, buildWANNetwork(site.WAN))
	}

	for _, lan := range site.LANs {
		nc := networkConf{
			Name:         lan.Name,
			Purpose:      "corporate",
			NetworkGroup: "LAN",
			IPSubnet:     gatewayCIDR(lan.Gateway, lan.Subnet),
		}
		applyDHCP(&nc, lan.DHCP)
		networks = append(networks, nc)
	}

	for _, vlan := range site.VLANs {
		purpose := "corporate"
		if vlan.Isolated {
			purpose = "guest"
		}
		nc := networkConf{
			Name:        vlan.Name,
			Purpose:     purpose,
			VLANEnabled: true,
			VLAN:        vlan.ID,
		}
		if vlan.IsRouted() {
			nc.IPSubnet = gatewayCIDR(vlan.Gateway, vlan.Subnet)
			applyDHCP(&nc, vlan.DHCP)
		}
		networks = append(networks, nc)
	}

	return networks
}

func buildWANNetwork(wan *model.WAN) networkConf {
	nc := networkConf{
		Name:    "wan",
		Purpose: "wan",
		WANType: wan.Mode,
	}
	switch wan.Mode {
	case model.WANModeStatic:
		addr, prefix := util.SplitIPMask(wan.Address)
		mask, _ := util.PrefixToMask(prefix)
		nc.WANIP = addr
		nc.WANNetmask = mask
		nc.WANGateway = wan.Gateway
	case model.WANModePPPoE:
		nc.WANUsername = wan.Username
		nc.XWANPass = wan.Password
	}
	if len(wan.DNS) > 0 {
		nc.WANDNS1 = wan.DNS[0]
	}
	if len(wan.DNS) > 1 {
		nc.WANDNS2 = wan.DNS[1]
	}
	return nc
}

func applyDHCP(nc *networkConf, dhcp *model.DHCPServer) {
	if dhcp == nil || !dhcp.Enabled {
		return
	}
	nc.DHCPDEnabled = true
	nc.DHCPDStart = dhcp.PoolStart
	nc.DHCPDStop = dhcp.PoolEnd
	nc.DomainName = dhcp.Domain
	if len(dhcp.DNS) > 0 {
		nc.DHCPDDNS1 = dhcp.DNS[0]
	}
	if len(dhcp.DNS) > 1 {
		nc.DHCPDDNS2 = dhcp.DNS[1]
	}
}

// gatewayCIDR renders the controller's gateway-with-prefix notation
// ("192.168.10.1/24").
func gatewayCIDR(gateway, subnet string) string {
	_, prefix := util.SplitIPMask(subnet)
	return fmt.Sprintf("%s/%d", gateway, prefix)
}

func buildWLANs(site *model.SiteConfig, bundle *render.Bundle) []wlanConf {
	var wlans []wlanConf
	for _, w := range site.Wireless {
		wc := wlanConf{
			Name:     w.SSID,
			Enabled:  !w.Disabled,
			HideSSID: w.Hidden,
			WLANBand: w.Band,
		}
		switch w.Security {
		case model.WirelessOpen:
			wc.Security = "open"
		case model.WirelessWPA3PSK:
			wc.Security = "wpapsk"
			wc.WPAMode = "wpa3"
			wc.XPassphrase = w.Passphrase
		default:
			wc.Security = "wpapsk"
			wc.WPAMode = "wpa2"
			wc.XPassphrase = w.Passphrase
		}
		if w.VLAN != 0 {
			wc.VLAN = w.VLAN
			wc.VLANEnabled = true
		}
		wlans = append(wlans, wc)
	}
	return wlans
}

// Controller rulesets: traffic from a local segment enters LAN_IN,
// traffic from the wan enters WAN_IN.
func buildRules(site *model.SiteConfig) []firewallRule {
	var rules []firewallRule
	for _, r := range site.Firewall {
		ruleset := "LAN_IN"
		if r.SrcZone == model.ZoneWAN {
			ruleset = "WAN_IN"
		}
		name := r.Comment
		if name == "" {
			name = fmt.Sprintf("rule-%d", r.Seq)
		}
		fr := firewallRule{
			Name:       name,
			Ruleset:    ruleset,
			RuleIndex:  r.Seq,
			Action:     r.Action,
			Protocol:   r.Protocol,
			SrcAddress: zoneAddress(site, r.SrcZone, r.SrcAddress),
			DstAddress: zoneAddress(site, r.DstZone, r.DstAddress),
			DstPort:    r.DstPorts,
			Logging:    r.Log,
			Enabled:    true,
		}
		rules = append(rules, fr)
	}
	return rules
}

// zoneAddress resolves a segment zone to its subnet unless the rule
// already pins an address.
func zoneAddress(site *model.SiteConfig, zone, addr string) string {
	if addr != "" || zone == "" || zone == model.ZoneAny || zone == model.ZoneWAN {
		return addr
	}
	for _, lan := range site.LANs {
		if lan.Name == zone {
			return lan.Subnet
		}
	}
	for _, vlan := range site.VLANs {
		if vlan.Name == zone {
			return vlan.Subnet
		}
	}
	return addr
}
