// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iwvelando/inflation-calculator/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected in config files and is also the output
// date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for inflation-calculator.
type Configuration struct {
	Logging      LoggingConfig `yaml:"logging,omitempty"`
	Output       OutputConfig  `yaml:"output,omitempty"`
	Data         DataConfig    `yaml:"data,omitempty"`
	Cache        CacheConfig   `yaml:"cache,omitempty"`
	Engine       EngineConfig  `yaml:"engine,omitempty"`
	Calculations []Calculation `yaml:"calculations,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// DataConfig selects where the series are read from.
type DataConfig struct {
	Source       string `yaml:"source,omitempty"` // static, postgres
	DatabaseURL  string `yaml:"databaseUrl,omitempty"`
	MaxOpenConns int    `yaml:"maxOpenConns,omitempty"`
}

// CacheConfig configures the series cache in front of the data source.
type CacheConfig struct {
	Type            string        `yaml:"type,omitempty"` // memory, redis, none
	TTL             time.Duration `yaml:"ttl,omitempty"`
	CleanupInterval time.Duration `yaml:"cleanupInterval,omitempty"`
	RedisAddr       string        `yaml:"redisAddr,omitempty"`
	RedisPassword   string        `yaml:"redisPassword,omitempty"`
	RedisDB         int           `yaml:"redisDb,omitempty"`
}

// EngineConfig tunes the calculation thresholds.
type EngineConfig struct {
	// MixedThresholdPercent is the dollarization gain magnitude reported as mixed.
	MixedThresholdPercent *float64 `yaml:"mixedThresholdPercent,omitempty"`
	// AccumulationTolerance is the allowed relative drift, in percent, when
	// checking series consistency at load.
	AccumulationTolerance *float64 `yaml:"accumulationTolerance,omitempty"`
}

// Calculation is one configured computation. The fields used depend on Type.
type Calculation struct {
	Name   string
	Active bool
	Type   string

	// adjust, convert, dollarization, cross
	Amount       float64
	Currency     string
	FromCurrency string
	ToCurrency   string
	FromDate     string
	ToDate       string
	Date         string
	RateType     string
	Timeline     bool

	// compound
	Principal           float64
	MonthlyContribution float64
	AnnualRate          float64
	RateVariance        float64
	Years               float64
	Frequency           string
	StartDate           string

	// realestate
	Price        float64
	Area         float64
	CurrentPrice float64
}

// Calculation types.
const (
	TypeAdjust        = "adjust"
	TypeConvert       = "convert"
	TypeDollarization = "dollarization"
	TypeCross         = "cross"
	TypeCompound      = "compound"
	TypeRealEstate    = "realestate"
)

// CalculationTypes lists every supported calculation type.
var CalculationTypes = []string{TypeAdjust, TypeConvert, TypeDollarization, TypeCross, TypeCompound, TypeRealEstate}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"data.databaseurl":    "DATABASE_URL",
	"cache.redisaddr":     "REDIS_ADDR",
	"cache.redispassword": "REDIS_PASSWORD",
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A .env file next to the working directory is loaded
// first so its variables can override the file.
func LoadConfiguration(configPath string) (*Configuration, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML configuration from r. Environment
// overrides apply as in LoadConfiguration but no .env file is read.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.AutomaticEnv()
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("data.source", constants.DataSourceStatic)
	v.SetDefault("cache.type", constants.CacheMemory)
	v.SetDefault("cache.ttl", constants.DefaultCacheTTL)
	v.SetDefault("cache.cleanupinterval", constants.DefaultCacheCleanupInterval)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", filepath.Clean(path), err)
	}
	return nil
}

// MixedThreshold returns the configured mixed-outcome threshold or the default.
func (c *Configuration) MixedThreshold() float64 {
	if c.Engine.MixedThresholdPercent != nil {
		return *c.Engine.MixedThresholdPercent
	}
	return constants.MixedThresholdPercent
}

// AccumulationTolerance returns the configured series drift tolerance or the default.
func (c *Configuration) AccumulationTolerance() float64 {
	if c.Engine.AccumulationTolerance != nil {
		return *c.Engine.AccumulationTolerance
	}
	return constants.AccumulationTolerance
}

// Validate rejects settings that cannot be acted on.
func (c *Configuration) Validate() error {
	switch c.Data.Source {
	case constants.DataSourceStatic:
	case constants.DataSourcePostgres:
		if c.Data.DatabaseURL == "" {
			return fmt.Errorf("data source %s requires data.databaseUrl or DATABASE_URL", c.Data.Source)
		}
	default:
		return fmt.Errorf("unsupported data source %q: expected %s or %s",
			c.Data.Source, constants.DataSourceStatic, constants.DataSourcePostgres)
	}

	switch c.Cache.Type {
	case constants.CacheMemory, constants.CacheNone:
	case constants.CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache type %s requires cache.redisAddr or REDIS_ADDR", c.Cache.Type)
		}
	default:
		return fmt.Errorf("unsupported cache type %q: expected %s, %s or %s",
			c.Cache.Type, constants.CacheMemory, constants.CacheRedis, constants.CacheNone)
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.MixedThreshold() < 0 {
		return fmt.Errorf("engine.mixedThresholdPercent must not be negative, got %v", c.MixedThreshold())
	}
	if c.AccumulationTolerance() < 0 {
		return fmt.Errorf("engine.accumulationTolerance must not be negative, got %v", c.AccumulationTolerance())
	}

	names := make(map[string]bool, len(c.Calculations))
	for i, calc := range c.Calculations {
		if calc.Name == "" {
			return fmt.Errorf("calculation %d has no name", i)
		}
		if names[calc.Name] {
			return fmt.Errorf("duplicate calculation name %q", calc.Name)
		}
		names[calc.Name] = true
		if !isCalculationType(calc.Type) {
			return fmt.Errorf("calculation %q has unsupported type %q: expected one of %s",
				calc.Name, calc.Type, strings.Join(CalculationTypes, ", "))
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings for settings that are legal but probably unintended.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	active := 0
	for _, calc := range c.Calculations {
		if !calc.Active {
			continue
		}
		active++
		switch calc.Type {
		case TypeCompound, TypeConvert:
		default:
			if calc.FromDate != "" && calc.FromDate == calc.ToDate {
				warnings = append(warnings, fmt.Sprintf("Calculation '%s' uses the same from and to date %s", calc.Name, calc.FromDate))
			}
		}
		if calc.Type == TypeCompound && calc.StartDate == "" {
			warnings = append(warnings, fmt.Sprintf("Calculation '%s' has no startDate; the inflation comparison is skipped", calc.Name))
		}
	}
	if active == 0 {
		warnings = append(warnings, "No active calculations configured")
	}
	if c.Cache.Type == constants.CacheNone && c.Data.Source == constants.DataSourcePostgres {
		warnings = append(warnings, "Cache is disabled; every calculation reads the series from Postgres")
	}
	return warnings
}

func isCalculationType(t string) bool {
	for _, known := range CalculationTypes {
		if t == known {
			return true
		}
	}
	return false
}
