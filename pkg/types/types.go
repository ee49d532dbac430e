// Package types provides core types and configurations for Tickbridge
package types

import (
	"fmt"
	"time"
)

// ClockKind selects which clock a timer counts against
type ClockKind string

const (
	// ClockScaled counts scaled simulation time (affected by time scale)
	ClockScaled ClockKind = "scaled"
	// ClockUnscaled counts unscaled simulation time
	ClockUnscaled ClockKind = "unscaled"
	// ClockWall counts wall-clock time since registration
	ClockWall ClockKind = "wallclock"
)

// Valid reports whether the clock kind is one of the defined values
func (c ClockKind) Valid() bool {
	switch c {
	case ClockScaled, ClockUnscaled, ClockWall:
		return true
	}
	return false
}

// HandleState represents the lifecycle state of a watched item
type HandleState string

const (
	HandleStatePending  HandleState = "pending"
	HandleStateFired    HandleState = "fired"
	HandleStateCanceled HandleState = "canceled"
)

// LogLevel represents logging verbosity levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Frame carries the per-tick timing information supplied by the host engine.
// Delta is the scaled simulation delta for the frame (time scale already
// applied by the host), UnscaledDelta ignores time scale, and Now is the
// wall-clock time at the start of the frame.
type Frame struct {
	Delta         time.Duration `json:"delta"`
	UnscaledDelta time.Duration `json:"unscaledDelta"`
	Now           time.Time     `json:"now"`
}

// Validate checks the frame for host errors
func (f Frame) Validate() error {
	if f.Delta < 0 {
		return fmt.Errorf("frame delta must not be negative: %v", f.Delta)
	}
	if f.UnscaledDelta < 0 {
		return fmt.Errorf("frame unscaled delta must not be negative: %v", f.UnscaledDelta)
	}
	return nil
}

// DispatcherConfig configures the completion dispatcher
type DispatcherConfig struct {
	// DrainBudget caps how many cross-goroutine work items a single tick
	// drains. Zero means "items present at drain start", which is the
	// uniform policy: items posted during a drain wait for the next tick.
	DrainBudget int `json:"drainBudget,omitempty" yaml:"drainBudget,omitempty"`

	// SendTimeoutMillis bounds the spin-wait in Send. Zero disables the
	// timeout, matching the historical unbounded behavior.
	SendTimeoutMillis int `json:"sendTimeoutMillis,omitempty" yaml:"sendTimeoutMillis,omitempty"`

	LogLevel LogLevel `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFile  string   `json:"logFile,omitempty" yaml:"logFile,omitempty"`
}

// SendTimeout returns the configured Send spin-wait bound
func (c DispatcherConfig) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutMillis) * time.Millisecond
}

// Validate checks the dispatcher configuration
func (c DispatcherConfig) Validate() error {
	if c.DrainBudget < 0 {
		return fmt.Errorf("drainBudget must not be negative: %d", c.DrainBudget)
	}
	if c.SendTimeoutMillis < 0 {
		return fmt.Errorf("sendTimeoutMillis must not be negative: %d", c.SendTimeoutMillis)
	}
	if c.LogLevel != "" {
		switch c.LogLevel {
		case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		default:
			return fmt.Errorf("invalid log level: %s", c.LogLevel)
		}
	}
	return nil
}

// WithDefaults returns a copy with unset fields filled in
func (c DispatcherConfig) WithDefaults() DispatcherConfig {
	if c.LogLevel == "" {
		c.LogLevel = LogLevelInfo
	}
	return c
}

// SimulationConfig configures the simulated engine loop used by the CLI
// and integration tests
type SimulationConfig struct {
	// FrameRate is the target tick frequency in frames per second
	FrameRate int `json:"frameRate,omitempty" yaml:"frameRate,omitempty"`

	// TimeScale multiplies the simulation delta; 0.5 runs the simulation
	// clock at half speed, 0 pauses it
	TimeScale float64 `json:"timeScale,omitempty" yaml:"timeScale,omitempty"`

	// DurationMillis bounds the simulation run; zero runs until stopped
	DurationMillis int `json:"durationMillis,omitempty" yaml:"durationMillis,omitempty"`
}

// Duration returns the configured run bound
func (c SimulationConfig) Duration() time.Duration {
	return time.Duration(c.DurationMillis) * time.Millisecond
}

// Validate checks the simulation configuration
func (c SimulationConfig) Validate() error {
	if c.FrameRate < 0 {
		return fmt.Errorf("frameRate must not be negative: %d", c.FrameRate)
	}
	if c.TimeScale < 0 {
		return fmt.Errorf("timeScale must not be negative: %f", c.TimeScale)
	}
	if c.DurationMillis < 0 {
		return fmt.Errorf("durationMillis must not be negative: %d", c.DurationMillis)
	}
	return nil
}

// WithDefaults returns a copy with unset fields filled in
func (c SimulationConfig) WithDefaults() SimulationConfig {
	if c.FrameRate == 0 {
		c.FrameRate = 60
	}
	if c.TimeScale == 0 {
		c.TimeScale = 1.0
	}
	return c
}

// Config is the top-level configuration file schema
type Config struct {
	Version    string           `json:"version" yaml:"version"`
	Dispatcher DispatcherConfig `json:"dispatcher,omitempty" yaml:"dispatcher,omitempty"`
	Simulation SimulationConfig `json:"simulation,omitempty" yaml:"simulation,omitempty"`
}
