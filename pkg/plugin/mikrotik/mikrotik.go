// Package mikrotik generates RouterOS configuration scripts and pushes
// them over SSH.
package mikrotik

import (
	"context"
	"fmt"
	"strings"

	"github.com/confgen-ops/confgen/pkg/deploy"
	"github.com/confgen-ops/confgen/pkg/model"
	"github.com/confgen-ops/confgen/pkg/plugin"
	"github.com/confgen-ops/confgen/pkg/render"
	"github.com/confgen-ops/confgen/pkg/util"
)

const (
	// VendorName is the registry key for this plugin.
	VendorName = "mikrotik"

	defaultWANInterface = "ether1"
	bridgeName          = "bridge-lan"
)

func init() {
	plugin.Register(&Mikrotik{})
}

// Mikrotik implements plugin.Plugin for RouterOS devices.
type Mikrotik struct{}

func (m *Mikrotik) Name() string { return VendorName }

func (m *Mikrotik) Description() string {
	return "MikroTik RouterOS (.rsc scripts, SSH push)"
}

// Validate applies RouterOS-specific constraints.
func (m *Mikrotik) Validate(site *model.SiteConfig) error {
	v := &util.ValidationBuilder{}

	if site.WAN != nil && site.WAN.Mode == model.WANModePPPoE && site.WAN.Interface == "" {
		v.AddError("pppoe wan requires an explicit interface")
	}
	for _, w := range site.Wireless {
		if w.Security == model.WirelessWPA3PSK {
			v.AddErrorf("wireless '%s': wpa3 requires RouterOS v7 wifiwave2, use wpa2-psk", w.SSID)
		}
	}

	return v.Build()
}

// Generate renders the site into RouterOS script artifacts. Artifacts
// carrying credentials are marked secret.
func (m *Mikrotik) Generate(ctx context.Context, site *model.SiteConfig) (*render.Bundle, error) {
	bundle := &render.Bundle{Site: site.Name, Vendor: VendorName}
	data := buildData(site, bundle)

	startup, err := render.Render("mikrotik-startup", startupTemplate, data)
	if err != nil {
		return nil, err
	}
	bundle.Add("startup", "startup.rsc", startup)

	if len(site.Firewall) > 0 || len(data.IsolatedVLANs) > 0 || data.Masquerade {
		fw, err := render.Render("mikrotik-firewall", firewallTemplate, data)
		if err != nil {
			return nil, err
		}
		bundle.Add("firewall", "firewall.rsc", fw)
	}

	if len(data.VPNs) > 0 {
		vpn, err := render.Render("mikrotik-vpn", vpnTemplate, data)
		if err != nil {
			return nil, err
		}
		bundle.AddSecret("vpn", "vpn.rsc", vpn)
	}

	if len(data.WirelessProfiles) > 0 {
		wl, err := render.Render("mikrotik-wireless", wirelessTemplate, data)
		if err != nil {
			return nil, err
		}
		bundle.AddSecret("wireless", "wireless.rsc", wl)
	}

	if site.Admin != nil {
		admin, err := render.Render("mikrotik-admin", adminTemplate, data)
		if err != nil {
			return nil, err
		}
		bundle.AddSecret("admin", "admin.rsc", admin)
	}

	return bundle, nil
}

// Deploy pushes the bundle over SSH.
func (m *Mikrotik) Deploy(ctx context.Context, bundle *render.Bundle, opts deploy.Options) error {
	return deploy.NewSSHDeployer(opts).Deploy(ctx, bundle)
}

// templateData is the precomputed view the templates render from.
type templateData struct {
	Site         *model.SiteConfig
	WANInterface string
	Bridge       string
	Masquerade   bool

	DHCPServers      []dhcpServer
	Rules            []firewallRule
	IsolatedVLANs    []*model.VLAN
	VPNs             []vpnTunnel
	WirelessProfiles []wirelessProfile

	ManagementNetworks string
	Services           []string
	DisabledServices   []string
}

type dhcpServer struct {
	Pool      string
	Server    string
	Interface string
	PoolStart string
	PoolEnd   string
	LeaseTime string
	Network   string
	Gateway   string
	DNS       []string
	Domain    string
}

// firewallRule is a model rule with zones resolved to RouterOS
// matchers: the wan zone becomes an interface match, segment zones
// become subnet matches.
type firewallRule struct {
	Action       string
	Protocol     string
	InInterface  string
	OutInterface string
	SrcAddress   string
	DstAddress   string
	DstPorts     string
	Log          bool
	Comment      string
}

type vpnTunnel struct {
	*model.VPNTunnel
	ExchangeMode string
	DHBits       int
}

type wirelessProfile struct {
	Interface  string
	Profile    string
	SSID       string
	Passphrase string
	AuthTypes  string
	Open       bool
	Hidden     bool
	VLAN       int
}

func buildData(site *model.SiteConfig, bundle *render.Bundle) *templateData {
	data := &templateData{
		Site:         site,
		WANInterface: defaultWANInterface,
		Bridge:       bridgeName,
	}
	if site.WAN != nil {
		if site.WAN.Interface != "" {
			data.WANInterface = site.WAN.Interface
		}
		// NAT out the WAN for any locally routed subnet
		data.Masquerade = len(site.LocalSubnets()) > 0
	}

	buildDHCP(site, data)
	buildFirewall(site, data)
	buildVPNs(site, data)
	buildWireless(site, data, bundle)
	buildAdmin(site, data)

	return data
}

func buildDHCP(site *model.SiteConfig, data *templateData) {
	add := func(name, iface string, subnet, gateway string, dhcp *model.DHCPServer) {
		if dhcp == nil || !dhcp.Enabled {
			return
		}
		data.DHCPServers = append(data.DHCPServers, dhcpServer{
			Pool:      "pool-" + name,
			Server:    "dhcp-" + name,
			Interface: iface,
			PoolStart: dhcp.PoolStart,
			PoolEnd:   dhcp.PoolEnd,
			LeaseTime: leaseTime(dhcp.LeaseTime),
			Network:   subnet,
			Gateway:   gateway,
			DNS:       dhcp.DNS,
			Domain:    dhcp.Domain,
		})
	}

	for _, lan := range site.LANs {
		add(lan.Name, bridgeName, lan.Subnet, lan.Gateway, lan.DHCP)
	}
	for _, vlan := range site.VLANs {
		if vlan.IsRouted() {
			add(vlan.Name, vlan.Name, vlan.Subnet, vlan.Gateway, vlan.DHCP)
		}
	}
}

// leaseTime converts Go-style durations to RouterOS notation where
// they differ ("24h" passes through, "30m" becomes "00:30:00" is not
// needed since RouterOS accepts h/m/s suffixes).
func leaseTime(lease string) string {
	if lease == "" {
		return "24h"
	}
	return lease
}

func buildFirewall(site *model.SiteConfig, data *templateData) {
	for _, r := range site.Firewall {
		rule := firewallRule{
			Action:     r.Action,
			Protocol:   r.Protocol,
			SrcAddress: r.SrcAddress,
			DstAddress: r.DstAddress,
			DstPorts:   r.DstPorts,
			Log:        r.Log,
			Comment:    r.Comment,
		}
		// RouterOS has no zone object; wan maps to the uplink
		// interface, segment zones map to their subnets.
		switch r.SrcZone {
		case "", model.ZoneAny:
		case model.ZoneWAN:
			rule.InInterface = data.WANInterface
		default:
			if subnet := zoneSubnet(site, r.SrcZone); subnet != "" && rule.SrcAddress == "" {
				rule.SrcAddress = subnet
			}
		}
		switch r.DstZone {
		case "", model.ZoneAny:
		case model.ZoneWAN:
			rule.OutInterface = data.WANInterface
		default:
			if subnet := zoneSubnet(site, r.DstZone); subnet != "" && rule.DstAddress == "" {
				rule.DstAddress = subnet
			}
		}
		data.Rules = append(data.Rules, rule)
	}

	for _, vlan := range site.VLANs {
		if vlan.Isolated {
			data.IsolatedVLANs = append(data.IsolatedVLANs, vlan)
		}
	}
}

func zoneSubnet(site *model.SiteConfig, zone string) string {
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
	return ""
}

// dhGroupBits maps IKE DH group numbers to modp sizes.
var dhGroupBits = map[int]int{
	1:  768,
	2:  1024,
	5:  1536,
	14: 2048,
	15: 3072,
	16: 4096,
}

func buildVPNs(site *model.SiteConfig, data *templateData) {
	for _, vpn := range site.VPNs {
		bits, ok := dhGroupBits[vpn.DHGroup]
		if !ok {
			bits = 2048
		}
		mode := "ike2"
		if vpn.IKEVersion == 1 {
			mode = "main"
		}
		data.VPNs = append(data.VPNs, vpnTunnel{
			VPNTunnel:    vpn,
			ExchangeMode: mode,
			DHBits:       bits,
		})
	}
}

func buildWireless(site *model.SiteConfig, data *templateData, bundle *render.Bundle) {
	idx := 1
	for _, w := range site.Wireless {
		if w.Disabled {
			bundle.Warnf("wireless '%s' is disabled, skipped", w.SSID)
			continue
		}
		p := wirelessProfile{
			Interface:  fmt.Sprintf("wlan%d", idx),
			Profile:    "sec-" + strings.ToLower(util.SanitizeName(w.SSID)),
			SSID:       w.SSID,
			Passphrase: w.Passphrase,
			AuthTypes:  "wpa2-psk",
			Open:       w.Security == model.WirelessOpen,
			Hidden:     w.Hidden,
			VLAN:       w.VLAN,
		}
		data.WirelessProfiles = append(data.WirelessProfiles, p)
		idx++
	}
}

// RouterOS service names for the model's admin services.
var serviceNames = map[string]string{
	model.ServiceSSH:    "ssh",
	model.ServiceHTTPS:  "www-ssl",
	model.ServiceWinbox: "winbox",
}

// Services left enabled by default that we always shut off.
var alwaysDisabled = []string{"telnet", "ftp", "www", "api"}

func buildAdmin(site *model.SiteConfig, data *templateData) {
	admin := site.Admin
	if admin == nil {
		return
	}

	for _, svc := range admin.Services {
		if name, ok := serviceNames[svc]; ok {
			data.Services = append(data.Services, name)
		}
	}
	data.DisabledServices = alwaysDisabled

	// RouterOS takes a comma-separated address list
	data.ManagementNetworks = strings.Join(admin.AllowedNetworks, ",")
}
