package unifi

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/confgen-ops/confgen/pkg/model"
)

func testSite() *model.SiteConfig {
	return &model.SiteConfig{
		Name:   "branch-sfo",
		Vendor: VendorName,
		WAN: &model.WAN{
			Mode:    model.WANModeStatic,
			Address: "203.0.113.2/30",
			Gateway: "203.0.113.1",
			DNS:     []string{"10.0.0.53", "1.1.1.1"},
		},
		LANs: []*model.LANNetwork{{
			Name:    "office",
			Subnet:  "192.168.10.0/24",
			Gateway: "192.168.10.1",
			DHCP: &model.DHCPServer{
				Enabled:   true,
				PoolStart: "192.168.10.2",
				PoolEnd:   "192.168.10.254",
				DNS:       []string{"10.0.0.53"},
			},
		}},
		VLANs: []*model.VLAN{{
			ID:       30,
			Name:     "guest",
			Subnet:   "192.168.30.0/24",
			Gateway:  "192.168.30.1",
			Isolated: true,
		}},
		Firewall: []*model.FirewallRule{
			{Seq: 10, Action: model.ActionAccept, Protocol: "tcp", SrcZone: "office", DstPorts: "443", Comment: "office https"},
			{Seq: 9000, Action: model.ActionDrop, SrcZone: model.ZoneWAN},
		},
		Wireless: []*model.WirelessNetwork{{
			SSID:       "AcmeGuest",
			Security:   model.WirelessWPA2PSK,
			Passphrase: "Gu3st-Wifi-Pass",
			VLAN:       30,
			Band:       "both",
		}},
	}
}

func TestGenerate(t *testing.T) {
	bundle, err := (&UniFi{}).Generate(context.Background(), testSite())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Run("networkconf", func(t *testing.T) {
		a := bundle.Artifact("networkconf")
		if a == nil {
			t.Fatal("Missing networkconf artifact")
		}
		var networks []networkConf
		if err := json.Unmarshal(a.Content, &networks); err != nil {
			t.Fatalf("networkconf is not a JSON array: %v", err)
		}
		if len(networks) != 3 {
			t.Fatalf("Expected wan+lan+vlan networks, got %d", len(networks))
		}

		wan := networks[0]
		if wan.Purpose != "wan" || wan.WANIP != "203.0.113.2" || wan.WANNetmask != "255.255.255.252" {
			t.Errorf("WAN network wrong: %+v", wan)
		}
		if wan.WANDNS1 != "10.0.0.53" || wan.WANDNS2 != "1.1.1.1" {
			t.Errorf("WAN DNS wrong: %+v", wan)
		}

		lan := networks[1]
		if lan.IPSubnet != "192.168.10.1/24" || !lan.DHCPDEnabled || lan.DHCPDStart != "192.168.10.2" {
			t.Errorf("LAN network wrong: %+v", lan)
		}

		guest := networks[2]
		if guest.Purpose != "guest" || !guest.VLANEnabled || guest.VLAN != 30 {
			t.Errorf("Guest network wrong: %+v", guest)
		}
	})

	t.Run("wlanconf", func(t *testing.T) {
		a := bundle.Artifact("wlanconf")
		if a == nil {
			t.Fatal("Missing wlanconf artifact")
		}
		if a.Mode != 0600 {
			t.Errorf("wlanconf mode = %o, want 0600 (carries passphrases)", a.Mode)
		}
		var wlans []wlanConf
		if err := json.Unmarshal(a.Content, &wlans); err != nil {
			t.Fatalf("wlanconf is not a JSON array: %v", err)
		}
		w := wlans[0]
		if w.Security != "wpapsk" || w.WPAMode != "wpa2" || w.XPassphrase != "Gu3st-Wifi-Pass" {
			t.Errorf("WLAN security wrong: %+v", w)
		}
		if !w.VLANEnabled || w.VLAN != 30 || w.WLANBand != "both" {
			t.Errorf("WLAN binding wrong: %+v", w)
		}
	})

	t.Run("firewallrule", func(t *testing.T) {
		a := bundle.Artifact("firewallrule")
		if a == nil {
			t.Fatal("Missing firewallrule artifact")
		}
		var rules []firewallRule
		if err := json.Unmarshal(a.Content, &rules); err != nil {
			t.Fatalf("firewallrule is not a JSON array: %v", err)
		}
		if rules[0].Ruleset != "LAN_IN" || rules[0].SrcAddress != "192.168.10.0/24" || rules[0].DstPort != "443" {
			t.Errorf("LAN rule wrong: %+v", rules[0])
		}
		if rules[1].Ruleset != "WAN_IN" || rules[1].Action != "drop" || rules[1].Name != "rule-9000" {
			t.Errorf("WAN rule wrong: %+v", rules[1])
		}
	})
}

func TestGenerateWarnsOnVPN(t *testing.T) {
	site := testSite()
	site.VPNs = []*model.VPNTunnel{{
		Name:          "hq",
		Type:          model.VPNTypeIPsecS2S,
		RemotePeer:    "198.51.100.1",
		RemoteSubnets: []string{"10.50.0.0/16"},
		PresharedKey:  "long-Preshared-key-0123",
	}}

	bundle, err := (&UniFi{}).Generate(context.Background(), site)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(bundle.Warnings) != 1 || !strings.Contains(bundle.Warnings[0], "vpns require controller-side") {
		t.Errorf("Expected vpn warning, got %v", bundle.Warnings)
	}
}

func TestValidate(t *testing.T) {
	u := &UniFi{}

	t.Run("pppoe credentials required", func(t *testing.T) {
		site := testSite()
		site.WAN = &model.WAN{Mode: model.WANModePPPoE}
		err := u.Validate(site)
		if err == nil || !strings.Contains(err.Error(), "pppoe wan requires a username") {
			t.Errorf("Expected pppoe error, got: %v", err)
		}
	})

	t.Run("icmp reject rejected", func(t *testing.T) {
		site := testSite()
		site.Firewall = append(site.Firewall, &model.FirewallRule{
			Seq: 50, Action: model.ActionReject, Protocol: "icmp",
		})
		err := u.Validate(site)
		if err == nil || !strings.Contains(err.Error(), "cannot reject icmp") {
			t.Errorf("Expected icmp error, got: %v", err)
		}
	})
}
