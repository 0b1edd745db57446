package stallwatch

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// Timing Configuration Model
// ============================================================================
//
// The detector uses two decoupled timing tiers:
//
// ┌─────────────────────────────────────────────────────────────────────────┐
// │ TIER 1: Sampling - How often the monitor looks                         │
// ├─────────────────────────────────────────────────────────────────────────┤
// │ • CheckInterval: 10ms (configurable)                                   │
// │   - The monitor's only recurring suspension point                      │
// │   - Shutdown latency is bounded by one interval                        │
// └─────────────────────────────────────────────────────────────────────────┘
//
// ┌─────────────────────────────────────────────────────────────────────────┐
// │ TIER 2: Classification - When a worker counts as blocked               │
// ├─────────────────────────────────────────────────────────────────────────┤
// │ • BlockingThreshold: 100ms (configurable)                              │
// │   - Idle time at which a worker enters Suspected                       │
// │   - Keep >= 3x CheckInterval so scheduling jitter cannot produce       │
// │     false positives (recommended, warned below that ratio)             │
// │ • CaptureTimeout: 1s (configurable)                                    │
// │   - Bounded wait for stack captures; episodes degrade, never stall    │
// │ • ReReportInterval: 0 = off (configurable)                             │
// │   - Re-surfaces multi-minute stalls instead of reporting once          │
// └─────────────────────────────────────────────────────────────────────────┘
//
// Worst-case detection latency for a worker that stops at time T is
// CheckInterval + BlockingThreshold (one full threshold plus at most one
// missed scan), plus the capture wait before the event is emitted.
//
// ============================================================================

// Config is the configuration for the Detector.
//
// All duration fields accept standard Go duration strings like "10ms", "1s"
// when loaded from YAML.
type Config struct {
	// CheckInterval is how often the monitor scans worker heartbeats.
	// Sub-second granularity; the monitor sleeps this long between scans.
	// Recommended: 10ms.
	CheckInterval time.Duration `yaml:"checkInterval"`

	// BlockingThreshold is the idle duration after which a worker is
	// considered blocked. Must be greater than CheckInterval; keep it at
	// several multiples of CheckInterval to absorb scheduling jitter.
	// Recommended: 100ms.
	BlockingThreshold time.Duration `yaml:"blockingThreshold"`

	// CaptureTimeout bounds how long the monitor waits for a stack capture
	// before reporting the episode with a "capture unavailable" marker.
	// Recommended: 1s.
	CaptureTimeout time.Duration `yaml:"captureTimeout"`

	// ReReportInterval re-reports a worker that stays blocked, once per
	// interval, so long-lived stalls keep surfacing. Zero disables
	// re-reporting (the default): one event per blocking episode.
	// When set, must be >= BlockingThreshold.
	ReReportInterval time.Duration `yaml:"reReportInterval"`

	// CaptureBufferSize is the preallocated per-worker stack buffer in
	// bytes. Stacks deeper than this are truncated, never reallocated.
	// Recommended: 64KiB.
	CaptureBufferSize int `yaml:"captureBufferSize"`

	// DumpBufferSize is the preallocated buffer for the runtime's
	// all-goroutine dump that captures are extracted from.
	// Recommended: 1MiB, larger for processes with many goroutines.
	DumpBufferSize int `yaml:"dumpBufferSize"`

	// DumpSignal optionally reserves an OS signal (e.g. syscall.SIGUSR1)
	// that triggers an on-demand stack dump of all monitored workers.
	// The signal is claimed exclusively at Start; a second claimant in the
	// same process is a configuration error. Nil disables the surface.
	// Set programmatically, not via YAML.
	DumpSignal os.Signal `yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		CheckInterval:     10 * time.Millisecond,
		BlockingThreshold: 100 * time.Millisecond,
		CaptureTimeout:    1 * time.Second,
		ReReportInterval:  0, // Off: one event per episode
		CaptureBufferSize: 64 * 1024,
		DumpBufferSize:    1024 * 1024,
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.CheckInterval == 0 {
		cfg.CheckInterval = defaults.CheckInterval
	}
	if cfg.BlockingThreshold == 0 {
		cfg.BlockingThreshold = defaults.BlockingThreshold
	}
	if cfg.CaptureTimeout == 0 {
		cfg.CaptureTimeout = defaults.CaptureTimeout
	}
	if cfg.CaptureBufferSize == 0 {
		cfg.CaptureBufferSize = defaults.CaptureBufferSize
	}
	if cfg.DumpBufferSize == 0 {
		cfg.DumpBufferSize = defaults.DumpBufferSize
	}
	// Note: ReReportInterval of 0 is valid (re-reporting off), no default applied
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - CheckInterval > 0
//   - BlockingThreshold > CheckInterval (a threshold at or below the scan
//     cadence flags workers between two consecutive heartbeats)
//   - CaptureTimeout > 0
//   - ReReportInterval == 0 or >= BlockingThreshold
//   - CaptureBufferSize > 0 and DumpBufferSize >= CaptureBufferSize
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.CheckInterval <= 0 {
		return fmt.Errorf("CheckInterval must be > 0, got %v", cfg.CheckInterval)
	}

	if cfg.BlockingThreshold <= cfg.CheckInterval {
		return fmt.Errorf(
			"BlockingThreshold (%v) must be > CheckInterval (%v) to avoid flagging workers between scans",
			cfg.BlockingThreshold, cfg.CheckInterval,
		)
	}

	if cfg.CaptureTimeout <= 0 {
		return fmt.Errorf("CaptureTimeout must be > 0, got %v", cfg.CaptureTimeout)
	}

	if cfg.ReReportInterval != 0 && cfg.ReReportInterval < cfg.BlockingThreshold {
		return fmt.Errorf(
			"ReReportInterval (%v) must be >= BlockingThreshold (%v) when enabled",
			cfg.ReReportInterval, cfg.BlockingThreshold,
		)
	}

	if cfg.CaptureBufferSize <= 0 {
		return fmt.Errorf("CaptureBufferSize must be > 0, got %d", cfg.CaptureBufferSize)
	}

	if cfg.DumpBufferSize < cfg.CaptureBufferSize {
		return fmt.Errorf(
			"DumpBufferSize (%d) must be >= CaptureBufferSize (%d)",
			cfg.DumpBufferSize, cfg.CaptureBufferSize,
		)
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for non-recommended values.
//
// This is called after Validate() in New() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	// Warn when the threshold sits too close to the scan cadence
	if cfg.BlockingThreshold < 3*cfg.CheckInterval {
		logger.Warn(
			"BlockingThreshold is below recommended minimum, scheduling jitter may cause false positives",
			"blockingThreshold", cfg.BlockingThreshold,
			"checkInterval", cfg.CheckInterval,
			"recommended", 3*cfg.CheckInterval,
		)
	}

	// Warn when captures can stretch the scan cadence noticeably
	if cfg.CaptureTimeout > 10*cfg.BlockingThreshold {
		logger.Warn(
			"CaptureTimeout is large relative to BlockingThreshold, a hung capture delays subsequent scans",
			"captureTimeout", cfg.CaptureTimeout,
			"blockingThreshold", cfg.BlockingThreshold,
		)
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Returns:
//   - Config: Configuration with fast timings for tests
//
// Example:
//
//	cfg := stallwatch.TestConfig()
//	det, err := stallwatch.New(&cfg)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.CheckInterval = 5 * time.Millisecond
	cfg.BlockingThreshold = 50 * time.Millisecond
	cfg.CaptureTimeout = 250 * time.Millisecond

	return cfg
}

// LoadConfig reads a YAML configuration file.
//
// Missing fields keep their zero values; New() applies defaults and
// validates. Duration fields accept Go duration strings ("10ms", "1s").
//
// Parameters:
//   - path: Path to the YAML file
//
// Returns:
//   - Config: Parsed configuration
//   - error: Read or parse error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// UnmarshalYAML decodes the configuration, parsing duration fields from Go
// duration strings.
func (cfg *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		CheckInterval     string `yaml:"checkInterval"`
		BlockingThreshold string `yaml:"blockingThreshold"`
		CaptureTimeout    string `yaml:"captureTimeout"`
		ReReportInterval  string `yaml:"reReportInterval"`
		CaptureBufferSize int    `yaml:"captureBufferSize"`
		DumpBufferSize    int    `yaml:"dumpBufferSize"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	durations := []struct {
		name string
		src  string
		dst  *time.Duration
	}{
		{"checkInterval", raw.CheckInterval, &cfg.CheckInterval},
		{"blockingThreshold", raw.BlockingThreshold, &cfg.BlockingThreshold},
		{"captureTimeout", raw.CaptureTimeout, &cfg.CaptureTimeout},
		{"reReportInterval", raw.ReReportInterval, &cfg.ReReportInterval},
	}
	for _, d := range durations {
		if d.src == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.src)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	cfg.CaptureBufferSize = raw.CaptureBufferSize
	cfg.DumpBufferSize = raw.DumpBufferSize

	return nil
}
