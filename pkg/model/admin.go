package model

// Management services a device may expose.
const (
	ServiceSSH    = "ssh"
	ServiceHTTPS  = "https"
	ServiceWinbox = "winbox" // MikroTik only
)

// AdminAccess represents device management and hardening settings.
type AdminAccess struct {
	Username string `json:"username" yaml:"username" validate:"required"`
	Password string `json:"password" yaml:"password" validate:"required"`

	// Services to leave enabled; everything else is disabled in the
	// generated hardening section.
	Services []string `json:"services,omitempty" yaml:"services,omitempty"`

	// AllowedNetworks restricts management access to these CIDRs.
	// Empty = management reachable from any local segment.
	AllowedNetworks []string `json:"allowed_networks,omitempty" yaml:"allowed_networks,omitempty"`

	NTPServers   []string `json:"ntp_servers,omitempty" yaml:"ntp_servers,omitempty"`
	SyslogServer string   `json:"syslog_server,omitempty" yaml:"syslog_server,omitempty"`
	Timezone     string   `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// ServiceEnabled reports whether the named management service stays on.
func (a *AdminAccess) ServiceEnabled(name string) bool {
	for _, s := range a.Services {
		if s == name {
			return true
		}
	}
	return false
}
