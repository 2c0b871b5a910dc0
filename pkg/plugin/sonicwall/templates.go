package sonicwall

// SonicOS CLI templates. The firewall has no scriptable remote import
// path in our fleet, so artifacts are exported for console or SonicOS
// API import by the field team.

const configTemplate = `# {{.Site.Name}} - SonicOS configuration
config
system name "{{.Site.Name}}"
{{- if .Site.WAN}}
interface {{.WANInterface}}
{{- if eq .Site.WAN.Mode "static"}}
 ip-assignment static
  ip {{cidrAddr .Site.WAN.Address}} netmask {{prefixToMask (cidrMask .Site.WAN.Address)}}
  gateway {{.Site.WAN.Gateway}}
 exit
{{- else if eq .Site.WAN.Mode "dhcp"}}
 ip-assignment dhcp
{{- else if eq .Site.WAN.Mode "pppoe"}}
 ip-assignment pppoe
  username "{{.Site.WAN.Username}}"
 exit
{{- end}}
{{- if .Site.WAN.DNS}}
 dns primary {{index .Site.WAN.DNS 0}}
{{- end}}
 zone WAN
exit
{{- end}}
{{- range .Segments}}
interface {{.Interface}}
 ip-assignment static
  ip {{.Gateway}} netmask {{.Netmask}}
 exit
 zone {{.Zone}}
exit
{{- if .DHCP}}
dhcp-server scope {{.Name}}
 range {{.DHCP.PoolStart}} {{.DHCP.PoolEnd}}
 gateway {{.Gateway}}
{{- if .DHCP.DNS}}
 dns {{join " " .DHCP.DNS}}
{{- end}}
 lease-time {{.LeaseMinutes}}
exit
{{- end}}
{{- end}}
{{- range .Rules}}
access-rule ipv4 from {{.SrcZone}} to {{.DstZone}} action {{.Action}}{{if .Protocol}} protocol {{.Protocol}}{{end}}{{if .SrcAddress}} source address {{.SrcAddress}}{{end}}{{if .DstAddress}} destination address {{.DstAddress}}{{end}}{{if .DstPorts}} port {{.DstPorts}}{{end}}{{if .Log}} logging{{end}}{{if .Comment}} comment "{{.Comment}}"{{end}}
{{- end}}
{{- if .Site.Admin}}
{{- if .Site.Admin.NTPServers}}
{{- range .Site.Admin.NTPServers}}
ntp server "{{.}}"
{{- end}}
{{- end}}
{{- if .Site.Admin.SyslogServer}}
syslog server {{.Site.Admin.SyslogServer}}
{{- end}}
{{- end}}
commit
`

const secretsTemplate = `# {{.Site.Name}} - credentials, import separately
config
administrator "{{.Site.Admin.Username}}" password "{{.Site.Admin.Password}}"
{{- range .VPNs}}
vpn policy site-to-site "{{.Name}}"
 gateway primary {{.RemotePeer}}
 pre-shared-secret "{{.PresharedKey}}"
 ike exchange ikev{{.IKEVersion}}
 proposal ike encryption {{.Encryption}} authentication {{.Hash}} dh-group {{.DHGroup}}
{{- range .LocalSubnets}}
 network local {{.}}
{{- end}}
{{- range .RemoteSubnets}}
 network remote {{.}}
{{- end}}
 enable
exit
{{- end}}
commit
`
