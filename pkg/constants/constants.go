// Package constants provides shared constants for the inflation-calculator application.
package constants

import "time"

// DateTimeLayout is the format of every series key and configured date.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// AccumulationTolerance is the allowed relative drift, in percent, between
	// a stored accumulated price level and the one implied by the monthly rates.
	AccumulationTolerance = 0.15

	// MixedThresholdPercent is the absolute dollarization gain, in percent,
	// below which the outcome is reported as mixed.
	MixedThresholdPercent = 1.0
)

// Compound interest constants
const (
	// MaxProjectionYears caps the horizon of a compound interest projection.
	MaxProjectionYears = 50

	// DefaultMaxChartPoints caps the number of sampled schedule points.
	DefaultMaxChartPoints = 100

	// DaysPerMonth rescales a monthly contribution for daily compounding.
	DaysPerMonth = 30

	// WeeksPerMonth rescales a monthly contribution for weekly compounding.
	WeeksPerMonth = 4
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Data source and cache constants
const (
	// DataSourceStatic selects the embedded reference series.
	DataSourceStatic = "static"

	// DataSourcePostgres selects the Postgres-backed series store.
	DataSourcePostgres = "postgres"

	// CacheMemory selects the in-process cache.
	CacheMemory = "memory"

	// CacheRedis selects the Redis cache.
	CacheRedis = "redis"

	// CacheNone disables caching.
	CacheNone = "none"

	// DefaultCacheTTL is how long a fetched series stays fresh.
	DefaultCacheTTL = time.Hour

	// DefaultCacheCleanupInterval is how often expired memory entries are purged.
	DefaultCacheCleanupInterval = 2 * time.Hour
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum JSON request body (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultRequestsPerSecond is the default steady-state request rate.
	DefaultRequestsPerSecond = 20.0

	// DefaultBurst is the default request burst size.
	DefaultBurst = 40

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)
