// Package util provides utility functions and common error types.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across the platform
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrValidationFailed   = errors.New("validation failed")
	ErrVendorNotSupported = errors.New("vendor not supported")
	ErrFeatureUnsupported = errors.New("feature not supported by vendor")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrDeployFailed       = errors.New("deployment failed")
	ErrSiteLocked         = errors.New("site locked by another deployment")
	ErrDependencyMissing  = errors.New("required dependency missing")
)

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddError adds an error message unconditionally
func (v *ValidationBuilder) AddError(message string) *ValidationBuilder {
	v.errors = append(v.errors, message)
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// Merge appends the messages from another validation error.
// Non-validation errors are appended as a single message.
func (v *ValidationBuilder) Merge(err error) *ValidationBuilder {
	if err == nil {
		return v
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		v.errors = append(v.errors, verr.Errors...)
	} else {
		v.errors = append(v.errors, err.Error())
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}

// DeployError represents a failed deployment step with context
type DeployError struct {
	Site   string
	Vendor string
	Stage  string // connect, upload, apply, verify
	Err    error
}

func (e *DeployError) Error() string {
	return fmt.Sprintf("deploying %s (%s) failed at %s: %v", e.Site, e.Vendor, e.Stage, e.Err)
}

func (e *DeployError) Unwrap() error {
	return ErrDeployFailed
}

// NewDeployError creates a deployment error
func NewDeployError(site, vendor, stage string, err error) *DeployError {
	return &DeployError{
		Site:   site,
		Vendor: vendor,
		Stage:  stage,
		Err:    err,
	}
}

// DependencyError represents a missing dependency
type DependencyError struct {
	Resource      string
	DependsOn     string
	DependsOnType string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s requires %s '%s' to exist", e.Resource, e.DependsOnType, e.DependsOn)
}

func (e *DependencyError) Unwrap() error {
	return ErrDependencyMissing
}

// NewDependencyError creates a dependency error
func NewDependencyError(resource, dependsOnType, dependsOn string) *DependencyError {
	return &DependencyError{
		Resource:      resource,
		DependsOn:     dependsOn,
		DependsOnType: dependsOnType,
	}
}
