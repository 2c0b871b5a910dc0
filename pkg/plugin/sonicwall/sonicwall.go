// Package sonicwall generates SonicOS CLI configuration for export.
package sonicwall

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/confgen-ops/confgen/pkg/deploy"
	"github.com/confgen-ops/confgen/pkg/model"
	"github.com/confgen-ops/confgen/pkg/plugin"
	"github.com/confgen-ops/confgen/pkg/render"
	"github.com/confgen-ops/confgen/pkg/util"
)

const (
	// VendorName is the registry key for this plugin.
	VendorName = "sonicwall"

	wanInterface = "X1"
	lanInterface = "X0"
)

func init() {
	plugin.Register(&SonicWall{})
}

// SonicWall implements plugin.Plugin for SonicOS firewalls.
type SonicWall struct{}

func (s *SonicWall) Name() string { return VendorName }

func (s *SonicWall) Description() string {
	return "SonicWall SonicOS (.cli export, no remote push)"
}

// Validate applies SonicOS-specific constraints.
func (s *SonicWall) Validate(site *model.SiteConfig) error {
	v := &util.ValidationBuilder{}

	if site.HasWireless() {
		v.AddError("wireless is not managed on this platform")
	}
	if site.WAN != nil && site.WAN.Mode == model.WANModePPPoE && site.WAN.Password == "" {
		v.AddError("pppoe wan requires a password in the definition")
	}

	return v.Build()
}

// Generate renders the SonicOS CLI artifacts. Credentials land in a
// separate secret artifact so the main config can be shared freely.
func (s *SonicWall) Generate(ctx context.Context, site *model.SiteConfig) (*render.Bundle, error) {
	bundle := &render.Bundle{Site: site.Name, Vendor: VendorName}
	data, err := buildData(site)
	if err != nil {
		return nil, err
	}

	cfg, err := render.Render("sonicwall-config", configTemplate, data)
	if err != nil {
		return nil, err
	}
	bundle.Add("config", "config.cli", cfg)

	if site.Admin != nil || len(site.VPNs) > 0 {
		secrets, err := render.Render("sonicwall-secrets", secretsTemplate, data)
		if err != nil {
			return nil, err
		}
		bundle.AddSecret("secrets", "secrets.cli", secrets)
	}

	return bundle, nil
}

// Deploy exports the bundle to disk. SonicOS has no push transport in
// this fleet, so execute mode is identical to export.
func (s *SonicWall) Deploy(ctx context.Context, bundle *render.Bundle, opts deploy.Options) error {
	if opts.Host != "" {
		return util.NewDeployError(bundle.Site, VendorName, "push",
			fmt.Errorf("remote push not supported, artifacts export to %s", opts.OutputDir))
	}
	_, err := deploy.NewExporter(opts.OutputDir).Export(bundle)
	return err
}

type templateData struct {
	Site         *model.SiteConfig
	WANInterface string
	Segments     []segmentData
	Rules        []ruleData
	VPNs         []*model.VPNTunnel
}

// segmentData is a LAN or routed VLAN mapped onto a SonicOS interface
// and zone.
type segmentData struct {
	Name         string
	Interface    string
	Zone         string
	Gateway      string
	Netmask      string
	DHCP         *model.DHCPServer
	LeaseMinutes int
}

type ruleData struct {
	SrcZone    string
	DstZone    string
	Action     string
	Protocol   string
	SrcAddress string
	DstAddress string
	DstPorts   string
	Log        bool
	Comment    string
}

func buildData(site *model.SiteConfig) (*templateData, error) {
	data := &templateData{
		Site:         site,
		WANInterface: wanInterface,
		VPNs:         site.VPNs,
	}

	zones := map[string]string{
		model.ZoneWAN: "WAN",
		model.ZoneAny: "ANY",
	}

	for _, lan := range site.LANs {
		seg, err := buildSegment(lan.Name, lanInterface, lan.Subnet, lan.Gateway, lan.DHCP)
		if err != nil {
			return nil, err
		}
		seg.Zone = "LAN"
		zones[lan.Name] = "LAN"
		data.Segments = append(data.Segments, seg)
	}
	for _, vlan := range site.VLANs {
		if !vlan.IsRouted() {
			continue
		}
		iface := fmt.Sprintf("%s:V%d", lanInterface, vlan.ID)
		seg, err := buildSegment(vlan.Name, iface, vlan.Subnet, vlan.Gateway, vlan.DHCP)
		if err != nil {
			return nil, err
		}
		seg.Zone = strings.ToUpper(util.SanitizeName(vlan.Name))
		zones[vlan.Name] = seg.Zone
		data.Segments = append(data.Segments, seg)
	}

	for _, r := range site.Firewall {
		rule := ruleData{
			SrcZone:    mapZone(zones, r.SrcZone),
			DstZone:    mapZone(zones, r.DstZone),
			Action:     mapAction(r.Action),
			Protocol:   r.Protocol,
			SrcAddress: r.SrcAddress,
			DstAddress: r.DstAddress,
			DstPorts:   r.DstPorts,
			Log:        r.Log,
			Comment:    r.Comment,
		}
		data.Rules = append(data.Rules, rule)
	}

	return data, nil
}

func buildSegment(name, iface, subnet, gateway string, dhcp *model.DHCPServer) (segmentData, error) {
	_, prefix := util.SplitIPMask(subnet)
	netmask, err := util.PrefixToMask(prefix)
	if err != nil {
		return segmentData{}, fmt.Errorf("segment %s: %w", name, err)
	}

	seg := segmentData{
		Name:      name,
		Interface: iface,
		Gateway:   gateway,
		Netmask:   netmask,
	}
	if dhcp != nil && dhcp.Enabled {
		seg.DHCP = dhcp
		seg.LeaseMinutes = leaseMinutes(dhcp.LeaseTime)
	}
	return seg, nil
}

// leaseMinutes converts a Go duration string to SonicOS lease minutes.
func leaseMinutes(lease string) int {
	d, err := time.ParseDuration(lease)
	if err != nil || d <= 0 {
		return 1440
	}
	return int(d.Minutes())
}

func mapZone(zones map[string]string, zone string) string {
	if zone == "" {
		return "ANY"
	}
	if mapped, ok := zones[zone]; ok {
		return mapped
	}
	return strings.ToUpper(util.SanitizeName(zone))
}

// SonicOS rule actions
func mapAction(action string) string {
	switch action {
	case model.ActionAccept:
		return "allow"
	case model.ActionReject:
		return "discard"
	default:
		return "deny"
	}
}
