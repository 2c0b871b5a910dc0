// Package deploy moves generated configuration bundles to their
// destination: the local filesystem, a device over SSH, or a controller
// API. All paths are dry-run by default; callers opt into execution.
package deploy

import (
	"fmt"
	"strings"
	"time"
)

// Action operations
const (
	OpCreate = "create"
	OpUpdate = "update"
)

// Action is one step of a deployment plan.
type Action struct {
	Op       string `json:"op"`
	Artifact string `json:"artifact"`
	Target   string `json:"target"`
	Bytes    int    `json:"bytes"`
}

// Plan is a preview of what a deployment or export will do.
type Plan struct {
	Site      string    `json:"site"`
	Vendor    string    `json:"vendor"`
	Timestamp time.Time `json:"timestamp"`
	Actions   []Action  `json:"actions"`
}

// NewPlan creates an empty plan for a site/vendor pair.
func NewPlan(site, vendor string) *Plan {
	return &Plan{
		Site:      site,
		Vendor:    vendor,
		Timestamp: time.Now(),
	}
}

// Add appends an action to the plan.
func (p *Plan) Add(op, artifact, target string, size int) {
	p.Actions = append(p.Actions, Action{
		Op:       op,
		Artifact: artifact,
		Target:   target,
		Bytes:    size,
	})
}

// IsEmpty returns true if the plan has no actions.
func (p *Plan) IsEmpty() bool {
	return len(p.Actions) == 0
}

// String returns a human-readable representation of the actions.
func (p *Plan) String() string {
	if p.IsEmpty() {
		return "No changes"
	}

	var sb strings.Builder
	for _, a := range p.Actions {
		opStr := ""
		switch a.Op {
		case OpCreate:
			opStr = "[NEW]"
		case OpUpdate:
			opStr = "[UPD]"
		}
		sb.WriteString(fmt.Sprintf("  %s %s → %s (%d bytes)\n", opStr, a.Artifact, a.Target, a.Bytes))
	}
	return sb.String()
}

// Preview returns a formatted preview of the plan.
func (p *Plan) Preview() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Site: %s\n", p.Site))
	sb.WriteString(fmt.Sprintf("Vendor: %s\n", p.Vendor))
	sb.WriteString(fmt.Sprintf("Actions:\n%s", p.String()))
	return sb.String()
}
