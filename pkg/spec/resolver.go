package spec

import (
	"fmt"

	"github.com/confgen-ops/confgen/pkg/model"
	"github.com/confgen-ops/confgen/pkg/util"
)

// ResolveSite loads a site definition and applies inheritance
// (site > region > global) and derivation, producing a complete
// model.SiteConfig ready for validation and generation. Derivation
// writes into the cached definition, so the whole resolution runs
// under the loader lock.
func (l *Loader) ResolveSite(name string) (*model.SiteConfig, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	def, err := l.loadSiteLocked(name)
	if err != nil {
		return nil, err
	}

	region, ok := l.defaults.Regions[def.Region]
	if !ok {
		return nil, fmt.Errorf("region '%s' not found", def.Region)
	}

	site := &model.SiteConfig{
		Name:     name,
		Customer: def.Customer,
		Region:   def.Region,
		Vendor:   def.Vendor,
		Model:    def.Model,
		WAN:      def.WAN,
		LANs:     def.LANs,
		VLANs:    def.VLANs,
		VPNs:     def.VPNs,
		Wireless: def.Wireless,
		Admin:    def.Admin,
	}

	dns := firstNonEmptySlice(region.DNS, l.defaults.Global.DNS)

	if site.WAN != nil && len(site.WAN.DNS) == 0 {
		site.WAN.DNS = dns
	}

	leaseTime := util.CoalesceString(region.DHCPLeaseTime, l.defaults.Global.DHCPLeaseTime, DefaultLeaseTime)
	for _, lan := range site.LANs {
		resolveSegment(lan.Subnet, &lan.Gateway, lan.DHCP, dns, leaseTime)
	}
	for _, vlan := range site.VLANs {
		if vlan.IsRouted() {
			resolveSegment(vlan.Subnet, &vlan.Gateway, vlan.DHCP, dns, leaseTime)
		}
	}

	// Firewall: scope baselines first, then site baselines, then site rules
	site.Firewall = l.resolveFirewall(def, region)

	resolveVPNDefaults(site)

	band := util.CoalesceString(region.WirelessBand, l.defaults.Global.WirelessBand)
	for _, w := range site.Wireless {
		if w.Band == "" && band != "" {
			w.Band = band
		}
	}

	l.resolveAdmin(site, region)

	return site, nil
}

// ResolveSiteAs resolves a site and retargets it to another vendor,
// for previewing one definition across device families. An empty
// vendor keeps the definition's own target.
func (l *Loader) ResolveSiteAs(name, vendor string) (*model.SiteConfig, error) {
	site, err := l.ResolveSite(name)
	if err != nil {
		return nil, err
	}
	if vendor != "" && vendor != site.Vendor {
		if _, err := l.GetVendor(vendor); err != nil {
			return nil, err
		}
		site.Vendor = vendor
	}
	return site, nil
}

// resolveSegment derives a gateway and DHCP pool for a routed segment.
func resolveSegment(subnet string, gateway *string, dhcp *model.DHCPServer, dns []string, leaseTime string) {
	if subnet == "" {
		return
	}
	if *gateway == "" {
		if first, err := util.FirstUsableIP(subnet); err == nil {
			*gateway = first
		}
	}
	if dhcp == nil || !dhcp.Enabled {
		return
	}
	if dhcp.PoolStart == "" {
		// Pool starts right after the gateway
		dhcp.PoolStart = util.NextIPv4(*gateway)
	}
	if dhcp.PoolEnd == "" {
		if last, err := util.LastUsableIP(subnet); err == nil {
			dhcp.PoolEnd = last
		}
	}
	if len(dhcp.DNS) == 0 {
		dhcp.DNS = dns
	}
	if dhcp.LeaseTime == "" {
		dhcp.LeaseTime = leaseTime
	}
}

func (l *Loader) resolveFirewall(def *SiteDefinition, region *DefaultSet) []*model.FirewallRule {
	var rules []*model.FirewallRule

	setNames := util.MergeStringSlices(l.defaults.Global.RuleSets, region.RuleSets, def.RuleSets)
	for _, setName := range setNames {
		rules = append(rules, l.defaults.RuleSets[setName]...)
	}
	rules = append(rules, def.Firewall...)
	return rules
}

func resolveVPNDefaults(site *model.SiteConfig) {
	for _, vpn := range site.VPNs {
		if vpn.IKEVersion == 0 {
			vpn.IKEVersion = DefaultIKEVersion
		}
		vpn.Encryption = util.CoalesceString(vpn.Encryption, DefaultEncryption)
		vpn.Hash = util.CoalesceString(vpn.Hash, DefaultHash)
		if vpn.DHGroup == 0 {
			vpn.DHGroup = DefaultDHGroup
		}
		if len(vpn.LocalSubnets) == 0 {
			vpn.LocalSubnets = site.LocalSubnets()
		}
	}
}

func (l *Loader) resolveAdmin(site *model.SiteConfig, region *DefaultSet) {
	if site.Admin == nil {
		site.Admin = &model.AdminAccess{}
	}
	admin := site.Admin

	admin.Username = util.CoalesceString(admin.Username,
		region.AdminUsername, l.defaults.Global.AdminUsername, "admin")

	if len(admin.Services) == 0 {
		admin.Services = firstNonEmptySlice(region.AdminServices, l.defaults.Global.AdminServices,
			[]string{model.ServiceSSH, model.ServiceHTTPS})
	}
	if len(admin.AllowedNetworks) == 0 {
		admin.AllowedNetworks = firstNonEmptySlice(region.AllowedNetworks, l.defaults.Global.AllowedNetworks)
	}
	if len(admin.NTPServers) == 0 {
		admin.NTPServers = firstNonEmptySlice(region.NTPServers, l.defaults.Global.NTPServers)
	}
	admin.SyslogServer = util.CoalesceString(admin.SyslogServer,
		region.SyslogServer, l.defaults.Global.SyslogServer)
	admin.Timezone = util.CoalesceString(admin.Timezone,
		region.Timezone, l.defaults.Global.Timezone)
}

// firstNonEmptySlice returns the first slice with at least one element.
func firstNonEmptySlice(slices ...[]string) []string {
	for _, s := range slices {
		if len(s) > 0 {
			return s
		}
	}
	return nil
}
