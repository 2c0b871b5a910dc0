package spec

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestResolveSite(t *testing.T) {
	l := loadedTestLoader(t)

	site, err := l.ResolveSite("branch-nyc")
	if err != nil {
		t.Fatalf("ResolveSite failed: %v", err)
	}

	t.Run("identity", func(t *testing.T) {
		if site.Name != "branch-nyc" || site.Region != "east" || site.Vendor != "mikrotik" {
			t.Errorf("Identity fields wrong: %+v", site)
		}
	})

	t.Run("lan gateway derived", func(t *testing.T) {
		lan := site.LANs[0]
		if lan.Gateway != "192.168.10.1" {
			t.Errorf("Gateway = %s, want 192.168.10.1", lan.Gateway)
		}
	})

	t.Run("dhcp pool derived", func(t *testing.T) {
		dhcp := site.LANs[0].DHCP
		if dhcp.PoolStart != "192.168.10.2" {
			t.Errorf("PoolStart = %s, want 192.168.10.2", dhcp.PoolStart)
		}
		if dhcp.PoolEnd != "192.168.10.254" {
			t.Errorf("PoolEnd = %s, want 192.168.10.254", dhcp.PoolEnd)
		}
		if dhcp.LeaseTime != "24h" {
			t.Errorf("LeaseTime = %s, want 24h", dhcp.LeaseTime)
		}
		// Region DNS overrides global
		if !reflect.DeepEqual(dhcp.DNS, []string{"10.0.0.53"}) {
			t.Errorf("DHCP DNS = %v, want region DNS", dhcp.DNS)
		}
	})

	t.Run("vlan segment derived", func(t *testing.T) {
		vlan := site.VLANByID(30)
		if vlan == nil {
			t.Fatal("VLAN 30 missing")
		}
		if vlan.Gateway != "192.168.30.1" {
			t.Errorf("VLAN gateway = %s, want 192.168.30.1", vlan.Gateway)
		}
		if vlan.DHCP.PoolStart != "192.168.30.2" {
			t.Errorf("VLAN pool start = %s", vlan.DHCP.PoolStart)
		}
	})

	t.Run("baseline firewall prepended", func(t *testing.T) {
		if len(site.Firewall) != 2 {
			t.Fatalf("Expected 2 baseline rules, got %d", len(site.Firewall))
		}
		if site.Firewall[0].Seq != 10 || site.Firewall[1].Seq != 9000 {
			t.Errorf("Baseline rules wrong: %+v", site.Firewall)
		}
	})

	t.Run("vpn defaults", func(t *testing.T) {
		vpn := site.VPNs[0]
		if vpn.IKEVersion != 2 || vpn.Encryption != "aes256" || vpn.Hash != "sha256" || vpn.DHGroup != 14 {
			t.Errorf("IKE defaults not applied: %+v", vpn)
		}
		want := []string{"192.168.10.0/24", "192.168.30.0/24"}
		if !reflect.DeepEqual(vpn.LocalSubnets, want) {
			t.Errorf("LocalSubnets = %v, want %v", vpn.LocalSubnets, want)
		}
	})

	t.Run("admin resolved", func(t *testing.T) {
		admin := site.Admin
		if admin.Username != "netops" {
			t.Errorf("Username = %s, want netops (global default)", admin.Username)
		}
		if admin.Password != "Adm1n-Passw0rd!" {
			t.Errorf("Password should come from the definition")
		}
		if admin.SyslogServer != "10.0.0.10" {
			t.Errorf("SyslogServer = %s, want region value", admin.SyslogServer)
		}
		if admin.Timezone != "America/New_York" {
			t.Errorf("Timezone = %s, want global value", admin.Timezone)
		}
		if !reflect.DeepEqual(admin.Services, []string{"ssh", "https"}) {
			t.Errorf("Services = %v, want built-in default", admin.Services)
		}
	})

	t.Run("wan dns inherited", func(t *testing.T) {
		if !reflect.DeepEqual(site.WAN.DNS, []string{"10.0.0.53"}) {
			t.Errorf("WAN DNS = %v, want region DNS", site.WAN.DNS)
		}
	})
}

func TestResolveSiteRuleSetMerge(t *testing.T) {
	dir := createTestDefinitions(t)
	writeFile(t, filepath.Join(dir, "sites"), "guesty.yaml", `region: east
vendor: unifi
rule_sets: [guest-lockdown]
firewall:
  - seq: 500
    action: accept
    protocol: tcp
    dst_ports: "443"
`)

	l := NewLoader(dir)
	if err := l.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	site, err := l.ResolveSite("guesty")
	if err != nil {
		t.Fatalf("ResolveSite failed: %v", err)
	}

	// global baseline (2) + site rule set (1) + site rules (1)
	if len(site.Firewall) != 4 {
		t.Fatalf("Expected 4 rules, got %d", len(site.Firewall))
	}
	if site.Firewall[2].SrcZone != "guest" {
		t.Errorf("Site rule set should follow scope baselines: %+v", site.Firewall[2])
	}
	if site.Firewall[3].Seq != 500 {
		t.Errorf("Site rules should come last: %+v", site.Firewall[3])
	}
}

func TestResolveSiteExplicitValuesWin(t *testing.T) {
	dir := createTestDefinitions(t)
	writeFile(t, filepath.Join(dir, "sites"), "explicit.yaml", `region: east
vendor: mikrotik
lans:
  - name: office
    subnet: 10.1.0.0/24
    gateway: 10.1.0.254
    dhcp:
      enabled: true
      pool_start: 10.1.0.10
      pool_end: 10.1.0.50
      lease_time: 8h
      dns: [10.1.0.254]
admin:
  username: localadmin
  password: Uns3t-By-Defaults!
  timezone: UTC
`)

	l := NewLoader(dir)
	if err := l.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	site, err := l.ResolveSite("explicit")
	if err != nil {
		t.Fatalf("ResolveSite failed: %v", err)
	}

	lan := site.LANs[0]
	if lan.Gateway != "10.1.0.254" {
		t.Errorf("Explicit gateway overridden: %s", lan.Gateway)
	}
	if lan.DHCP.PoolStart != "10.1.0.10" || lan.DHCP.PoolEnd != "10.1.0.50" || lan.DHCP.LeaseTime != "8h" {
		t.Errorf("Explicit DHCP settings overridden: %+v", lan.DHCP)
	}
	if site.Admin.Username != "localadmin" || site.Admin.Timezone != "UTC" {
		t.Errorf("Explicit admin settings overridden: %+v", site.Admin)
	}
}

func TestResolveSiteAs(t *testing.T) {
	l := loadedTestLoader(t)

	site, err := l.ResolveSiteAs("branch-nyc", "unifi")
	if err != nil {
		t.Fatalf("ResolveSiteAs failed: %v", err)
	}
	if site.Vendor != "unifi" {
		t.Errorf("Vendor = %s, want unifi", site.Vendor)
	}
	if site.Model != "RB4011" || len(site.LANs) != 1 {
		t.Errorf("Override should only change the vendor: %+v", site)
	}

	// The override must not leak into later resolves of the same site
	again, err := l.ResolveSite("branch-nyc")
	if err != nil {
		t.Fatalf("ResolveSite failed: %v", err)
	}
	if again.Vendor != "mikrotik" {
		t.Errorf("Definition vendor changed by override: %s", again.Vendor)
	}

	t.Run("empty vendor keeps target", func(t *testing.T) {
		site, err := l.ResolveSiteAs("branch-nyc", "")
		if err != nil {
			t.Fatalf("ResolveSiteAs failed: %v", err)
		}
		if site.Vendor != "mikrotik" {
			t.Errorf("Vendor = %s, want mikrotik", site.Vendor)
		}
	})

	t.Run("unknown vendor", func(t *testing.T) {
		if _, err := l.ResolveSiteAs("branch-nyc", "cisco"); err == nil {
			t.Error("Expected error for unknown vendor")
		}
	})
}
