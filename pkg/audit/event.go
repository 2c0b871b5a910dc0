// Package audit records configuration generation and deployment
// events to a queryable JSON-lines trail.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is one auditable operation against a site.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Site      string    `json:"site"`
	Vendor    string    `json:"vendor,omitempty"`
	Operation string    `json:"operation"`

	// Artifacts names the bundle artifacts the operation produced or
	// pushed.
	Artifacts []string `json:"artifacts,omitempty"`

	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	ExecuteMode bool          `json:"execute_mode"` // true if -x was used
	DryRun      bool          `json:"dry_run"`
	Duration    time.Duration `json:"duration"`
}

// Operations recorded in the trail.
const (
	OpGenerate = "generate"
	OpValidate = "validate"
	OpExport   = "export"
	OpDeploy   = "deploy"
	OpImport   = "import-fleet"
)

// Filter defines criteria for querying audit events
type Filter struct {
	Site        string
	Vendor      string
	User        string
	Operation   string
	StartTime   time.Time
	EndTime     time.Time
	SuccessOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
}

// NewEvent creates a new audit event
func NewEvent(user, site, operation string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		User:      user,
		Site:      site,
		Operation: operation,
	}
}

// WithVendor sets the target vendor
func (e *Event) WithVendor(vendor string) *Event {
	e.Vendor = vendor
	return e
}

// WithArtifacts sets the artifact names
func (e *Event) WithArtifacts(names []string) *Event {
	e.Artifacts = names
	return e
}

// WithSuccess marks the event as successful
func (e *Event) WithSuccess() *Event {
	e.Success = true
	return e
}

// WithError marks the event as failed
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration sets the operation duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

// WithExecuteMode marks if execute mode was used
func (e *Event) WithExecuteMode(execute bool) *Event {
	e.ExecuteMode = execute
	e.DryRun = !execute
	return e
}
