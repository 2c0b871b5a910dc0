package deploy

import "time"

// DefaultTimeout bounds device dials and controller requests.
const DefaultTimeout = 30 * time.Second

// Options carry the deployment target for a single site push.
type Options struct {
	// Host is the device or controller address. Empty means export-only.
	Host string
	Port int

	Username string
	Password string

	// Insecure skips TLS certificate verification (lab controllers with
	// self-signed certificates).
	Insecure bool

	// OutputDir is the artifact export root.
	OutputDir string

	// Execute pushes for real. False previews the plan only.
	Execute bool

	Timeout time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}
