// Package errors provides custom error types for the beaconpay system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the beaconpay system
var (
	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfig indicates that the cycle configuration is malformed or
	// incomplete. Configuration errors are fatal and abort the run.
	ErrConfig = errors.New("invalid configuration")

	// ErrUnbandable indicates that a member could not be assigned a
	// distance band because neither locality nor district resolved.
	ErrUnbandable = errors.New("distance band unresolvable")

	// ErrUnmappedRole indicates a role assignment that maps to no known
	// stipend. Non-fatal; the role contributes zero dollars.
	ErrUnmappedRole = errors.New("role maps to no stipend")

	// ErrNoMatch indicates a record with no counterpart after name
	// normalization during payroll reconciliation.
	ErrNoMatch = errors.New("no matching record")

	// ErrSourceUnavailable indicates that an upstream data source is
	// temporarily unavailable
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")
)

// ConfigError represents a malformed or incomplete cycle configuration.
// It is the only error kind (together with missing mandatory lookup
// tables) that stops the pipeline before any output is produced.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// BandingError represents a member whose travel distance could not be
// resolved from either the locality lookup or the district centroid
// lookup. Reported per member; the member is excluded from
// distance-dependent aggregates but the run continues.
type BandingError struct {
	MemberID string
	District string
	Locality string
}

// Error implements the error interface
func (e *BandingError) Error() string {
	if e.Locality != "" {
		return fmt.Sprintf("cannot band member %s: locality %q and district %q both unresolved", e.MemberID, e.Locality, e.District)
	}
	return fmt.Sprintf("cannot band member %s: district %q unresolved", e.MemberID, e.District)
}

// Is implements errors.Is support
func (e *BandingError) Is(target error) bool {
	return target == ErrUnbandable
}

// NewBandingError creates a new BandingError
func NewBandingError(memberID, district, locality string) *BandingError {
	return &BandingError{MemberID: memberID, District: district, Locality: locality}
}

// UnmappedRoleError represents a role assignment that maps to no known
// stipend key. Recorded for audit; contributes zero dollars.
type UnmappedRoleError struct {
	MemberID  string
	Role      string
	Committee string
}

// Error implements the error interface
func (e *UnmappedRoleError) Error() string {
	if e.Committee != "" {
		return fmt.Sprintf("member %s: role %q on %q maps to no stipend", e.MemberID, e.Role, e.Committee)
	}
	return fmt.Sprintf("member %s: role %q maps to no stipend", e.MemberID, e.Role)
}

// Is implements errors.Is support
func (e *UnmappedRoleError) Is(target error) bool {
	return target == ErrUnmappedRole
}

// MatchError represents a model or payroll record with no counterpart
// after name normalization. Never silently dropped; it becomes an
// unmatched entry in the reconciliation summary.
type MatchError struct {
	Side string // "model" or "payroll"
	Name string
	Key  string
}

// Error implements the error interface
func (e *MatchError) Error() string {
	return fmt.Sprintf("no %s-side match for %q (join key %q)", e.Side, e.Name, e.Key)
}

// Is implements errors.Is support
func (e *MatchError) Is(target error) bool {
	return target == ErrNoMatch
}

// APIError represents an error from an upstream data source API
type APIError struct {
	Source     string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrSourceUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(source string, statusCode int, message string) *APIError {
	return &APIError{
		Source:     source,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "csv"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsConfig checks if an error is a configuration error
func IsConfig(err error) bool {
	return errors.Is(err, ErrConfig)
}

// IsBanding checks if an error is a banding error
func IsBanding(err error) bool {
	return errors.Is(err, ErrUnbandable)
}

// AsBanding extracts a BandingError from an error chain
func AsBanding(err error, target **BandingError) bool {
	return errors.As(err, target)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsSourceUnavailable checks if an error indicates source unavailability
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// Helper wrapping functions for common patterns

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Message: err.Error(), Err: err}
}

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapAPI wraps an error as an APIError
func WrapAPI(source string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Source:     source,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
