package sonicwall

import (
	"context"
	"strings"
	"testing"

	"github.com/confgen-ops/confgen/pkg/deploy"
	"github.com/confgen-ops/confgen/pkg/model"
)

func testSite() *model.SiteConfig {
	return &model.SiteConfig{
		Name:   "branch-bos",
		Vendor: VendorName,
		WAN: &model.WAN{
			Mode:    model.WANModeStatic,
			Address: "203.0.113.2/30",
			Gateway: "203.0.113.1",
			DNS:     []string{"10.0.0.53"},
		},
		LANs: []*model.LANNetwork{{
			Name:    "office",
			Subnet:  "192.168.20.0/24",
			Gateway: "192.168.20.1",
			DHCP: &model.DHCPServer{
				Enabled:   true,
				PoolStart: "192.168.20.2",
				PoolEnd:   "192.168.20.254",
				LeaseTime: "12h",
				DNS:       []string{"10.0.0.53"},
			},
		}},
		VLANs: []*model.VLAN{{
			ID:      40,
			Name:    "iot",
			Subnet:  "192.168.40.0/24",
			Gateway: "192.168.40.1",
		}},
		Firewall: []*model.FirewallRule{
			{Seq: 10, Action: model.ActionAccept, Protocol: "tcp", SrcZone: "office", DstZone: model.ZoneWAN, DstPorts: "443"},
			{Seq: 20, Action: model.ActionReject, SrcZone: "iot", DstZone: "office"},
		},
		VPNs: []*model.VPNTunnel{{
			Name:          "hq",
			Type:          model.VPNTypeIPsecS2S,
			RemotePeer:    "198.51.100.1",
			LocalSubnets:  []string{"192.168.20.0/24"},
			RemoteSubnets: []string{"10.50.0.0/16"},
			PresharedKey:  "long-Preshared-key-0123",
			IKEVersion:    2,
			Encryption:    "aes256",
			Hash:          "sha256",
			DHGroup:       14,
		}},
		Admin: &model.AdminAccess{
			Username:     "netops",
			Password:     "Adm1n-Passw0rd!",
			NTPServers:   []string{"pool.ntp.org"},
			SyslogServer: "10.0.0.10",
		},
	}
}

func TestGenerate(t *testing.T) {
	bundle, err := (&SonicWall{}).Generate(context.Background(), testSite())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Run("config", func(t *testing.T) {
		a := bundle.Artifact("config")
		if a == nil {
			t.Fatal("Missing config artifact")
		}
		s := string(a.Content)
		for _, want := range []string{
			`system name "branch-bos"`,
			"interface X1",
			"ip 203.0.113.2 netmask 255.255.255.252",
			"gateway 203.0.113.1",
			"dns primary 10.0.0.53",
			"interface X0",
			"ip 192.168.20.1 netmask 255.255.255.0",
			"interface X0:V40",
			"zone IOT",
			"dhcp-server scope office",
			"range 192.168.20.2 192.168.20.254",
			"lease-time 720",
			"access-rule ipv4 from LAN to WAN action allow protocol tcp port 443",
			"access-rule ipv4 from IOT to LAN action discard",
			`ntp server "pool.ntp.org"`,
			"syslog server 10.0.0.10",
		} {
			if !strings.Contains(s, want) {
				t.Errorf("config missing %q\n%s", want, s)
			}
		}
		if strings.Contains(s, "Adm1n-Passw0rd!") || strings.Contains(s, "long-Preshared-key-0123") {
			t.Error("Credentials leaked into the shareable config artifact")
		}
	})

	t.Run("secrets", func(t *testing.T) {
		a := bundle.Artifact("secrets")
		if a == nil {
			t.Fatal("Missing secrets artifact")
		}
		if a.Mode != 0600 {
			t.Errorf("secrets mode = %o, want 0600", a.Mode)
		}
		s := string(a.Content)
		for _, want := range []string{
			`administrator "netops" password "Adm1n-Passw0rd!"`,
			`vpn policy site-to-site "hq"`,
			"gateway primary 198.51.100.1",
			`pre-shared-secret "long-Preshared-key-0123"`,
			"ike exchange ikev2",
			"proposal ike encryption aes256 authentication sha256 dh-group 14",
			"network local 192.168.20.0/24",
			"network remote 10.50.0.0/16",
		} {
			if !strings.Contains(s, want) {
				t.Errorf("secrets missing %q\n%s", want, s)
			}
		}
	})
}

func TestValidateRejectsWireless(t *testing.T) {
	site := testSite()
	site.Wireless = []*model.WirelessNetwork{{
		SSID:     "Nope",
		Security: model.WirelessOpen,
	}}
	err := (&SonicWall{}).Validate(site)
	if err == nil || !strings.Contains(err.Error(), "wireless is not managed") {
		t.Errorf("Expected wireless error, got: %v", err)
	}
}

func TestDeployRejectsRemotePush(t *testing.T) {
	bundle, err := (&SonicWall{}).Generate(context.Background(), testSite())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Run("remote host rejected", func(t *testing.T) {
		err := (&SonicWall{}).Deploy(context.Background(), bundle, deploy.Options{Host: "10.0.0.1"})
		if err == nil || !strings.Contains(err.Error(), "remote push not supported") {
			t.Errorf("Expected push error, got: %v", err)
		}
	})

	t.Run("export works", func(t *testing.T) {
		dir := t.TempDir()
		if err := (&SonicWall{}).Deploy(context.Background(), bundle, deploy.Options{OutputDir: dir}); err != nil {
			t.Errorf("Export deploy failed: %v", err)
		}
	})
}
