// Package validate performs semantic validation of resolved site
// configurations. The definition loader checks references; this package
// checks that the resulting configuration is internally consistent and
// deployable to the target vendor.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/confgen-ops/confgen/pkg/model"
	"github.com/confgen-ops/confgen/pkg/spec"
	"github.com/confgen-ops/confgen/pkg/util"
)

// Validator runs the full validation pass over a site configuration.
type Validator struct {
	structv *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	return &Validator{structv: validator.New()}
}

// Validate checks a resolved site configuration. All violations are
// accumulated into a single ValidationError rather than stopping at the
// first. vendor may be nil to skip capability checks.
func (val *Validator) Validate(site *model.SiteConfig, vendor *spec.VendorSpec) error {
	v := &util.ValidationBuilder{}

	val.structPass(v, site)
	validateWAN(v, site)
	validateSegments(v, site)
	validateVLANs(v, site, vendor)
	validateFirewall(v, site)
	validateVPNs(v, site, vendor)
	validateWireless(v, site, vendor)
	validateAdmin(v, site)

	return v.Build()
}

// structPass runs the tag-level validation and translates field errors
// into plain messages.
func (val *Validator) structPass(v *util.ValidationBuilder, site *model.SiteConfig) {
	err := val.structv.Struct(site)
	if err == nil {
		return
	}
	ferrs, ok := err.(validator.ValidationErrors)
	if !ok {
		v.AddError(err.Error())
		return
	}
	for _, fe := range ferrs {
		field := strings.TrimPrefix(fe.Namespace(), "SiteConfig.")
		if fe.Param() != "" {
			v.AddErrorf("%s: fails '%s=%s' constraint", field, fe.Tag(), fe.Param())
		} else {
			v.AddErrorf("%s: fails '%s' constraint", field, fe.Tag())
		}
	}
}

func validateWAN(v *util.ValidationBuilder, site *model.SiteConfig) {
	wan := site.WAN
	if wan == nil {
		return
	}

	switch wan.Mode {
	case model.WANModeStatic:
		if wan.Address == "" {
			v.AddError("wan: static mode requires an address")
		} else if !util.IsValidIPv4CIDR(wan.Address) {
			v.AddErrorf("wan: invalid address '%s' (want CIDR)", wan.Address)
		}
		if wan.Gateway == "" {
			v.AddError("wan: static mode requires a gateway")
		} else if !util.IsValidIPv4(wan.Gateway) {
			v.AddErrorf("wan: invalid gateway '%s'", wan.Gateway)
		}
		if wan.Address != "" && wan.Gateway != "" &&
			util.IsValidIPv4CIDR(wan.Address) && util.IsValidIPv4(wan.Gateway) &&
			!util.ContainsIP(wan.Address, wan.Gateway) {
			v.AddErrorf("wan: gateway %s not inside %s", wan.Gateway, wan.Address)
		}
	case model.WANModePPPoE:
		v.Add(wan.Username != "", "wan: pppoe mode requires a username")
		v.Add(wan.Password != "", "wan: pppoe mode requires a password")
	}

	if wan.MTU != 0 {
		if err := util.ValidateMTU(wan.MTU); err != nil {
			v.AddErrorf("wan: %v", err)
		}
	}
	for _, dns := range wan.DNS {
		if !util.IsValidIPv4(dns) {
			v.AddErrorf("wan: invalid DNS server '%s'", dns)
		}
	}
}

// segment is the shared view of LANs and routed VLANs.
type segment struct {
	label   string
	subnet  string
	gateway string
	dhcp    *model.DHCPServer
}

func siteSegments(site *model.SiteConfig) []segment {
	var segs []segment
	for _, lan := range site.LANs {
		segs = append(segs, segment{
			label:   fmt.Sprintf("lan '%s'", lan.Name),
			subnet:  lan.Subnet,
			gateway: lan.Gateway,
			dhcp:    lan.DHCP,
		})
	}
	for _, vlan := range site.VLANs {
		if vlan.IsRouted() {
			segs = append(segs, segment{
				label:   fmt.Sprintf("vlan %d", vlan.ID),
				subnet:  vlan.Subnet,
				gateway: vlan.Gateway,
				dhcp:    vlan.DHCP,
			})
		}
	}
	return segs
}

func validateSegments(v *util.ValidationBuilder, site *model.SiteConfig) {
	segs := siteSegments(site)

	for _, seg := range segs {
		if !util.IsValidIPv4CIDR(seg.subnet) {
			v.AddErrorf("%s: invalid subnet '%s'", seg.label, seg.subnet)
			continue
		}
		if seg.gateway != "" && !util.ContainsIP(seg.subnet, seg.gateway) {
			v.AddErrorf("%s: gateway %s not inside %s", seg.label, seg.gateway, seg.subnet)
		}
		validateDHCP(v, seg)
	}

	// Routed segments must not overlap each other
	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			if util.IsValidIPv4CIDR(segs[i].subnet) && util.IsValidIPv4CIDR(segs[j].subnet) &&
				util.SubnetsOverlap(segs[i].subnet, segs[j].subnet) {
				v.AddErrorf("%s and %s: subnets %s and %s overlap",
					segs[i].label, segs[j].label, segs[i].subnet, segs[j].subnet)
			}
		}
	}
}

func validateDHCP(v *util.ValidationBuilder, seg segment) {
	dhcp := seg.dhcp
	if dhcp == nil || !dhcp.Enabled {
		return
	}

	if dhcp.PoolStart == "" || dhcp.PoolEnd == "" {
		v.AddErrorf("%s: dhcp pool is incomplete", seg.label)
		return
	}
	if !util.IsValidIPv4(dhcp.PoolStart) || !util.IsValidIPv4(dhcp.PoolEnd) {
		v.AddErrorf("%s: dhcp pool bounds are not valid addresses", seg.label)
		return
	}
	if !util.ContainsIP(seg.subnet, dhcp.PoolStart) || !util.ContainsIP(seg.subnet, dhcp.PoolEnd) {
		v.AddErrorf("%s: dhcp pool %s-%s not inside %s",
			seg.label, dhcp.PoolStart, dhcp.PoolEnd, seg.subnet)
	}
	if util.CompareIPv4(dhcp.PoolStart, dhcp.PoolEnd) > 0 {
		v.AddErrorf("%s: dhcp pool start %s after end %s", seg.label, dhcp.PoolStart, dhcp.PoolEnd)
	}
	if seg.gateway != "" &&
		util.CompareIPv4(seg.gateway, dhcp.PoolStart) >= 0 &&
		util.CompareIPv4(seg.gateway, dhcp.PoolEnd) <= 0 {
		v.AddErrorf("%s: gateway %s falls inside dhcp pool", seg.label, seg.gateway)
	}
	for _, dns := range dhcp.DNS {
		if !util.IsValidIPv4(dns) {
			v.AddErrorf("%s: invalid dhcp DNS server '%s'", seg.label, dns)
		}
	}
}

func validateVLANs(v *util.ValidationBuilder, site *model.SiteConfig, vendor *spec.VendorSpec) {
	seen := make(map[int]bool)
	for _, vlan := range site.VLANs {
		if err := util.ValidateVLANID(vlan.ID); err != nil {
			v.AddErrorf("vlan '%s': %v", vlan.Name, err)
			continue
		}
		if seen[vlan.ID] {
			v.AddErrorf("duplicate vlan id %d", vlan.ID)
		}
		seen[vlan.ID] = true
	}

	if vendor != nil {
		if len(site.VLANs) > 0 && !vendor.SupportsFeature(spec.FeatureVLANs) {
			v.AddErrorf("vendor '%s' does not support vlans", site.Vendor)
		}
		if vendor.MaxVLANs > 0 && len(site.VLANs) > vendor.MaxVLANs {
			v.AddErrorf("%d vlans exceeds vendor limit of %d", len(site.VLANs), vendor.MaxVLANs)
		}
	}
}

func validateFirewall(v *util.ValidationBuilder, site *model.SiteConfig) {
	seenSeq := make(map[int]bool)
	for _, rule := range site.Firewall {
		label := fmt.Sprintf("firewall rule %d", rule.Seq)

		if seenSeq[rule.Seq] {
			v.AddErrorf("%s: duplicate sequence number", label)
		}
		seenSeq[rule.Seq] = true

		if rule.SrcZone != "" && !site.HasZone(rule.SrcZone) {
			v.AddErrorf("%s: unknown source zone '%s'", label, rule.SrcZone)
		}
		if rule.DstZone != "" && !site.HasZone(rule.DstZone) {
			v.AddErrorf("%s: unknown destination zone '%s'", label, rule.DstZone)
		}

		if rule.SrcAddress != "" && !util.IsValidIPv4CIDR(rule.SrcAddress) {
			v.AddErrorf("%s: invalid source address '%s'", label, rule.SrcAddress)
		}
		if rule.DstAddress != "" && !util.IsValidIPv4CIDR(rule.DstAddress) {
			v.AddErrorf("%s: invalid destination address '%s'", label, rule.DstAddress)
		}

		if rule.DstPorts != "" {
			if err := util.ValidatePortRange(rule.DstPorts); err != nil {
				v.AddErrorf("%s: %v", label, err)
			}
			if rule.Protocol != "tcp" && rule.Protocol != "udp" {
				v.AddErrorf("%s: port match requires tcp or udp protocol", label)
			}
		}
	}
}

func validateVPNs(v *util.ValidationBuilder, site *model.SiteConfig, vendor *spec.VendorSpec) {
	if len(site.VPNs) == 0 {
		return
	}
	if vendor != nil && !vendor.SupportsFeature(spec.FeatureVPN) {
		v.AddErrorf("vendor '%s' does not support vpn", site.Vendor)
	}

	local := site.LocalSubnets()
	for _, vpn := range site.VPNs {
		label := fmt.Sprintf("vpn '%s'", vpn.Name)

		if vpn.PresharedKey != "" {
			if err := util.CheckPasswordStrength(vpn.PresharedKey, 16, 2); err != nil {
				v.AddErrorf("%s: preshared key too weak: %v", label, err)
			}
		}

		for _, remote := range vpn.RemoteSubnets {
			if !util.IsValidIPv4CIDR(remote) {
				v.AddErrorf("%s: invalid remote subnet '%s'", label, remote)
				continue
			}
			for _, l := range local {
				if util.SubnetsOverlap(remote, l) {
					v.AddErrorf("%s: remote subnet %s overlaps local subnet %s", label, remote, l)
				}
			}
		}
	}
}

func validateWireless(v *util.ValidationBuilder, site *model.SiteConfig, vendor *spec.VendorSpec) {
	if !site.HasWireless() {
		return
	}
	if vendor != nil && !vendor.SupportsFeature(spec.FeatureWireless) {
		v.AddErrorf("vendor '%s' does not support wireless", site.Vendor)
	}

	for _, w := range site.Wireless {
		if w.Disabled {
			continue
		}
		label := fmt.Sprintf("wireless '%s'", w.SSID)

		if w.RequiresPassphrase() {
			n := len(w.Passphrase)
			if n < 8 || n > 63 {
				v.AddErrorf("%s: passphrase must be 8-63 characters", label)
			} else if err := util.CheckPasswordStrength(w.Passphrase, 8, 2); err != nil {
				v.AddErrorf("%s: passphrase too weak: %v", label, err)
			}
		}

		if w.VLAN != 0 && site.VLANByID(w.VLAN) == nil {
			v.AddErrorf("%s: bound to undefined vlan %d", label, w.VLAN)
		}
	}
}

func validateAdmin(v *util.ValidationBuilder, site *model.SiteConfig) {
	admin := site.Admin
	if admin == nil {
		return
	}

	if admin.Password != "" {
		if err := util.CheckPasswordStrength(admin.Password, 12, 3); err != nil {
			v.AddErrorf("admin: password too weak: %v", err)
		}
	}

	for _, cidr := range admin.AllowedNetworks {
		if !util.IsValidIPv4CIDR(cidr) {
			v.AddErrorf("admin: invalid management network '%s'", cidr)
		}
	}
	for _, ntp := range admin.NTPServers {
		if ntp == "" {
			v.AddError("admin: empty ntp server entry")
		}
	}
}
