// Package constants provides shared constants used throughout the beaconpay codebase.
// This includes timeouts, limits, file permissions, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to data sources
	DefaultHTTPTimeout = 30 * time.Second

	// PayrollFetchTimeout is the timeout for the payroll feed download, which
	// returns the full reporting-year extract in one response
	PayrollFetchTimeout = 2 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// RetryBackoff is the base backoff duration for retries
	RetryBackoff = 1 * time.Second

	// MaxRetryBackoff is the maximum backoff duration for retries
	MaxRetryBackoff = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxRetries is the maximum number of retry attempts for failed fetches
	MaxRetries = 3

	// MaxConcurrentFetches bounds the committee-detail fetch fan-out
	MaxConcurrentFetches = 4

	// PreviewRows is the number of rows shown in console previews
	PreviewRows = 10
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached API responses
	CacheTTL = 24 * time.Hour

	// CacheAppName is the application directory name under the XDG cache root
	CacheAppName = "beaconpay"
)

// Default data source endpoints. Both are overridable by flag or config;
// the defaults point at the Massachusetts General Court and the state
// comptroller's transparency portal.
const (
	// DefaultAPIBase is the base URL of the legislature roster API
	DefaultAPIBase = "https://malegislature.gov/api"

	// DefaultPayrollURL is the CSV endpoint of the statewide payroll feed
	DefaultPayrollURL = "https://cthru.data.socrata.com/resource/9ttk-7vz6.csv"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102-150405"
)
