package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/confgen-ops/confgen/pkg/model"
	"github.com/confgen-ops/confgen/pkg/spec"
	"github.com/confgen-ops/confgen/pkg/util"
)

func validSite() *model.SiteConfig {
	return &model.SiteConfig{
		Name:   "branch-nyc",
		Region: "east",
		Vendor: "mikrotik",
		WAN: &model.WAN{
			Mode:    model.WANModeStatic,
			Address: "203.0.113.2/30",
			Gateway: "203.0.113.1",
			DNS:     []string{"10.0.0.53"},
		},
		LANs: []*model.LANNetwork{{
			Name:    "office",
			Subnet:  "192.168.10.0/24",
			Gateway: "192.168.10.1",
			DHCP: &model.DHCPServer{
				Enabled:   true,
				PoolStart: "192.168.10.2",
				PoolEnd:   "192.168.10.254",
				LeaseTime: "24h",
				DNS:       []string{"10.0.0.53"},
			},
		}},
		VLANs: []*model.VLAN{{
			ID:      30,
			Name:    "guest",
			Subnet:  "192.168.30.0/24",
			Gateway: "192.168.30.1",
		}},
		Firewall: []*model.FirewallRule{
			{Seq: 10, Action: model.ActionAccept, Protocol: "tcp", SrcZone: "office", DstPorts: "80,443"},
			{Seq: 9000, Action: model.ActionDrop, SrcZone: model.ZoneWAN},
		},
		VPNs: []*model.VPNTunnel{{
			Name:          "hq",
			Type:          model.VPNTypeIPsecS2S,
			RemotePeer:    "198.51.100.1",
			LocalSubnets:  []string{"192.168.10.0/24"},
			RemoteSubnets: []string{"10.50.0.0/16"},
			PresharedKey:  "long-Preshared-key-0123",
			IKEVersion:    2,
			Encryption:    "aes256",
			Hash:          "sha256",
			DHGroup:       14,
		}},
		Wireless: []*model.WirelessNetwork{{
			SSID:       "AcmeOffice",
			Security:   model.WirelessWPA2PSK,
			Passphrase: "Sup3r-Secret-Wifi",
			VLAN:       30,
		}},
		Admin: &model.AdminAccess{
			Username: "netops",
			Password: "Adm1n-Passw0rd!",
			Services: []string{model.ServiceSSH},
		},
	}
}

func testVendor() *spec.VendorSpec {
	return &spec.VendorSpec{
		DisplayName: "MikroTik RouterOS",
		Transport:   spec.TransportSSH,
		MaxVLANs:    250,
	}
}

func TestValidateCleanSite(t *testing.T) {
	if err := New().Validate(validSite(), testVendor()); err != nil {
		t.Fatalf("Valid site should pass, got: %v", err)
	}
}

func TestValidateViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.SiteConfig)
		want   string
	}{
		{
			name:   "missing vendor",
			mutate: func(s *model.SiteConfig) { s.Vendor = "" },
			want:   "Vendor",
		},
		{
			name:   "static wan without gateway",
			mutate: func(s *model.SiteConfig) { s.WAN.Gateway = "" },
			want:   "static mode requires a gateway",
		},
		{
			name:   "wan gateway outside subnet",
			mutate: func(s *model.SiteConfig) { s.WAN.Gateway = "198.51.100.1" },
			want:   "gateway 198.51.100.1 not inside 203.0.113.2/30",
		},
		{
			name:   "pppoe without credentials",
			mutate: func(s *model.SiteConfig) { s.WAN = &model.WAN{Mode: model.WANModePPPoE} },
			want:   "pppoe mode requires a username",
		},
		{
			name:   "bad wan mtu",
			mutate: func(s *model.SiteConfig) { s.WAN.MTU = 20000 },
			want:   "MTU must be between",
		},
		{
			name:   "invalid lan subnet",
			mutate: func(s *model.SiteConfig) { s.LANs[0].Subnet = "not-a-subnet" },
			want:   "invalid subnet",
		},
		{
			name:   "lan gateway outside subnet",
			mutate: func(s *model.SiteConfig) { s.LANs[0].Gateway = "192.168.99.1" },
			want:   "gateway 192.168.99.1 not inside",
		},
		{
			name: "overlapping segments",
			mutate: func(s *model.SiteConfig) {
				s.VLANs[0].Subnet = "192.168.10.128/25"
				s.VLANs[0].Gateway = "192.168.10.129"
			},
			want: "overlap",
		},
		{
			name: "dhcp pool outside subnet",
			mutate: func(s *model.SiteConfig) {
				s.LANs[0].DHCP.PoolEnd = "192.168.11.50"
			},
			want: "not inside 192.168.10.0/24",
		},
		{
			name: "dhcp pool inverted",
			mutate: func(s *model.SiteConfig) {
				s.LANs[0].DHCP.PoolStart = "192.168.10.200"
				s.LANs[0].DHCP.PoolEnd = "192.168.10.100"
			},
			want: "after end",
		},
		{
			name: "gateway inside dhcp pool",
			mutate: func(s *model.SiteConfig) {
				s.LANs[0].Gateway = "192.168.10.100"
			},
			want: "falls inside dhcp pool",
		},
		{
			name: "duplicate vlan id",
			mutate: func(s *model.SiteConfig) {
				s.VLANs = append(s.VLANs, &model.VLAN{ID: 30, Name: "dup"})
			},
			want: "duplicate vlan id 30",
		},
		{
			name: "vlan id out of range",
			mutate: func(s *model.SiteConfig) {
				s.VLANs[0].ID = 5000
			},
			want: "VLAN ID must be between",
		},
		{
			name: "duplicate firewall sequence",
			mutate: func(s *model.SiteConfig) {
				s.Firewall = append(s.Firewall, &model.FirewallRule{Seq: 10, Action: model.ActionAccept})
			},
			want: "duplicate sequence number",
		},
		{
			name: "unknown firewall zone",
			mutate: func(s *model.SiteConfig) {
				s.Firewall[0].DstZone = "dmz"
			},
			want: "unknown destination zone 'dmz'",
		},
		{
			name: "ports without l4 protocol",
			mutate: func(s *model.SiteConfig) {
				s.Firewall[0].Protocol = ""
			},
			want: "port match requires tcp or udp",
		},
		{
			name: "bad port range",
			mutate: func(s *model.SiteConfig) {
				s.Firewall[0].DstPorts = "80-99999"
			},
			want: "firewall rule 10",
		},
		{
			name: "weak preshared key",
			mutate: func(s *model.SiteConfig) {
				s.VPNs[0].PresharedKey = "shortkey"
			},
			want: "preshared key too weak",
		},
		{
			name: "remote subnet overlaps local",
			mutate: func(s *model.SiteConfig) {
				s.VPNs[0].RemoteSubnets = []string{"192.168.0.0/16"}
			},
			want: "overlaps local subnet",
		},
		{
			name: "short wifi passphrase",
			mutate: func(s *model.SiteConfig) {
				s.Wireless[0].Passphrase = "short"
			},
			want: "passphrase must be 8-63 characters",
		},
		{
			name: "wireless bound to missing vlan",
			mutate: func(s *model.SiteConfig) {
				s.Wireless[0].VLAN = 99
			},
			want: "bound to undefined vlan 99",
		},
		{
			name: "weak admin password",
			mutate: func(s *model.SiteConfig) {
				s.Admin.Password = "weakpassword"
			},
			want: "admin: password too weak",
		},
		{
			name: "bad management network",
			mutate: func(s *model.SiteConfig) {
				s.Admin.AllowedNetworks = []string{"10.0.0.0/8", "bogus"}
			},
			want: "invalid management network 'bogus'",
		},
	}

	val := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site := validSite()
			tt.mutate(site)
			err := val.Validate(site, testVendor())
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !errors.Is(err, util.ErrValidationFailed) {
				t.Errorf("Error should unwrap to ErrValidationFailed: %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidateVendorCapabilities(t *testing.T) {
	t.Run("wireless unsupported", func(t *testing.T) {
		vendor := testVendor()
		vendor.UnsupportedFeatures = []string{spec.FeatureWireless}
		err := New().Validate(validSite(), vendor)
		if err == nil || !strings.Contains(err.Error(), "does not support wireless") {
			t.Errorf("Expected wireless capability error, got: %v", err)
		}
	})

	t.Run("vlan limit", func(t *testing.T) {
		vendor := testVendor()
		vendor.MaxVLANs = 1
		site := validSite()
		site.VLANs = append(site.VLANs, &model.VLAN{ID: 40, Name: "iot"})
		err := New().Validate(site, vendor)
		if err == nil || !strings.Contains(err.Error(), "exceeds vendor limit") {
			t.Errorf("Expected vlan limit error, got: %v", err)
		}
	})

	t.Run("nil vendor skips capability checks", func(t *testing.T) {
		if err := New().Validate(validSite(), nil); err != nil {
			t.Errorf("Expected pass without vendor, got: %v", err)
		}
	})
}

func TestValidateAccumulatesAll(t *testing.T) {
	site := validSite()
	site.WAN.Gateway = ""
	site.Admin.Password = "weakpassword"
	site.Wireless[0].VLAN = 99

	err := New().Validate(site, testVendor())
	if err == nil {
		t.Fatal("Expected validation error")
	}
	var verr *util.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *util.ValidationError, got %T", err)
	}
	if len(verr.Errors) < 3 {
		t.Errorf("Expected at least 3 accumulated messages, got %d: %v", len(verr.Errors), verr.Errors)
	}
}
