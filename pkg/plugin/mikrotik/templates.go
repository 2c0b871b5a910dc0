package mikrotik

// RouterOS script templates. Each renders one .rsc artifact; matchers
// that depend on zone resolution are precomputed into the template
// data rather than resolved in template logic.

const startupTemplate = `# {{.Site.Name}} - generated configuration, do not edit by hand
/system identity set name="{{.Site.Name}}"
{{- if .Site.WAN}}
{{- if eq .Site.WAN.Mode "static"}}
/ip address add address={{.Site.WAN.Address}} interface={{.WANInterface}} comment="wan"
/ip route add dst-address=0.0.0.0/0 gateway={{.Site.WAN.Gateway}} comment="wan default"
{{- else if eq .Site.WAN.Mode "dhcp"}}
/ip dhcp-client add interface={{.WANInterface}} disabled=no comment="wan"
{{- else if eq .Site.WAN.Mode "pppoe"}}
/interface pppoe-client add name=pppoe-wan interface={{.WANInterface}} user="{{.Site.WAN.Username}}" password="{{.Site.WAN.Password}}" add-default-route=yes disabled=no
{{- end}}
{{- if .Site.WAN.MTU}}
/interface ethernet set {{.WANInterface}} mtu={{.Site.WAN.MTU}}
{{- end}}
{{- if .Site.WAN.DNS}}
/ip dns set servers={{join "," .Site.WAN.DNS}} allow-remote-requests=yes
{{- end}}
{{- end}}
/interface bridge add name={{.Bridge}} comment="local bridge"
{{- range .Site.LANs}}
{{- if .Interface}}
/interface bridge port add bridge={{$.Bridge}} interface={{.Interface}}
{{- end}}
/ip address add address={{.Gateway}}/{{cidrMask .Subnet}} interface={{$.Bridge}} comment="{{.Name}}"
{{- end}}
{{- range .Site.VLANs}}
/interface vlan add name={{.Name}} vlan-id={{.ID}} interface={{$.Bridge}}{{if .Comment}} comment="{{.Comment}}"{{end}}
{{- if .Subnet}}
/ip address add address={{.Gateway}}/{{cidrMask .Subnet}} interface={{.Name}} comment="{{.Name}}"
{{- end}}
{{- end}}
{{- range .DHCPServers}}
/ip pool add name={{.Pool}} ranges={{.PoolStart}}-{{.PoolEnd}}
/ip dhcp-server add name={{.Server}} interface={{.Interface}} address-pool={{.Pool}} lease-time={{.LeaseTime}} disabled=no
/ip dhcp-server network add address={{.Network}} gateway={{.Gateway}}{{if .DNS}} dns-server={{join "," .DNS}}{{end}}{{if .Domain}} domain={{.Domain}}{{end}}
{{- end}}
`

const firewallTemplate = `# {{.Site.Name}} - filter rules
{{- range .Rules}}
/ip firewall filter add chain=forward action={{.Action}}{{if .Protocol}} protocol={{.Protocol}}{{end}}{{if .InInterface}} in-interface={{.InInterface}}{{end}}{{if .OutInterface}} out-interface={{.OutInterface}}{{end}}{{if .SrcAddress}} src-address={{.SrcAddress}}{{end}}{{if .DstAddress}} dst-address={{.DstAddress}}{{end}}{{if .DstPorts}} dst-port={{.DstPorts}}{{end}}{{if .Log}} log=yes{{end}}{{if .Comment}} comment="{{.Comment}}"{{end}}
{{- end}}
{{- range .IsolatedVLANs}}
/ip firewall filter add chain=forward action=drop in-interface={{.Name}} out-interface=!{{$.WANInterface}} comment="isolate {{.Name}}"
{{- end}}
{{- if .Masquerade}}
/ip firewall nat add chain=srcnat action=masquerade out-interface={{.WANInterface}} comment="wan masquerade"
{{- end}}
`

const vpnTemplate = `# {{.Site.Name}} - ipsec tunnels
{{- range .VPNs}}
/ip ipsec profile add name={{.Name}}-p1 enc-algorithm={{.Encryption}} hash-algorithm={{.Hash}} dh-group=modp{{.DHBits}}
/ip ipsec peer add name={{.Name}} address={{.RemotePeer}} exchange-mode={{.ExchangeMode}} profile={{.Name}}-p1
/ip ipsec identity add peer={{.Name}} auth-method=pre-shared-key secret="{{.PresharedKey}}"
/ip ipsec proposal add name={{.Name}}-p2 enc-algorithms={{.Encryption}}-cbc auth-algorithms={{.Hash}}{{if .PFS}} pfs-group=modp{{.DHBits}}{{end}}
{{- $vpn := .}}
{{- range $local := .LocalSubnets}}
{{- range $remote := $vpn.RemoteSubnets}}
/ip ipsec policy add peer={{$vpn.Name}} src-address={{$local}} dst-address={{$remote}} tunnel=yes proposal={{$vpn.Name}}-p2
{{- end}}
{{- end}}
{{- end}}
`

const wirelessTemplate = `# {{.Site.Name}} - wireless
{{- range .WirelessProfiles}}
{{- if .Open}}
/interface wireless security-profiles add name={{.Profile}} mode=none
{{- else}}
/interface wireless security-profiles add name={{.Profile}} mode=dynamic-keys authentication-types={{.AuthTypes}} wpa2-pre-shared-key="{{.Passphrase}}"
{{- end}}
/interface wireless set {{.Interface}} ssid="{{.SSID}}" security-profile={{.Profile}} disabled=no{{if .Hidden}} hide-ssid=yes{{end}}{{if .VLAN}} vlan-mode=use-tag vlan-id={{.VLAN}}{{end}}
{{- end}}
`

const adminTemplate = `# {{.Site.Name}} - management plane
/user set admin name={{.Site.Admin.Username}} password="{{.Site.Admin.Password}}"
{{- $addr := .ManagementNetworks}}
{{- range .Services}}
/ip service set {{.}} disabled=no{{if $addr}} address={{$addr}}{{end}}
{{- end}}
{{- range .DisabledServices}}
/ip service set {{.}} disabled=yes
{{- end}}
{{- if .Site.Admin.NTPServers}}
/system ntp client set enabled=yes servers={{join "," .Site.Admin.NTPServers}}
{{- end}}
{{- if .Site.Admin.Timezone}}
/system clock set time-zone-name={{.Site.Admin.Timezone}}
{{- end}}
{{- if .Site.Admin.SyslogServer}}
/system logging action add name=confgen-syslog target=remote remote={{.Site.Admin.SyslogServer}}
/system logging add topics=info action=confgen-syslog
{{- end}}
`
