// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported browser drivers.
const (
	DriverChromedp = "chromedp"
	DriverRod      = "rod"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Browser() BrowserConfig

	// Browser Setters
	SetBrowserHeadless(bool)
	SetBrowserDriver(string)
	SetBrowserExecPath(string)
	SetBrowserNavigationTimeout(time.Duration)

	// Humanoid Setters
	SetBrowserHumanoidEnabled(bool)
	SetBrowserHumanoidPattern(string)
	SetBrowserHumanoidShowVisualCursor(bool)
	SetBrowserHumanoidMovementTime(min, max time.Duration)
	SetBrowserHumanoidSteps(int)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	BrowserCfg BrowserConfig `mapstructure:"browser" yaml:"browser"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig   { return c.LoggerCfg }
func (c *Config) Browser() BrowserConfig { return c.BrowserCfg }

// --- Interface Method Implementations (Setters) ---

// Browser Setters
func (c *Config) SetBrowserHeadless(b bool)                   { c.BrowserCfg.Headless = b }
func (c *Config) SetBrowserDriver(d string)                   { c.BrowserCfg.Driver = d }
func (c *Config) SetBrowserExecPath(p string)                 { c.BrowserCfg.ExecPath = p }
func (c *Config) SetBrowserNavigationTimeout(d time.Duration) { c.BrowserCfg.NavigationTimeout = d }

// Humanoid Setters
func (c *Config) SetBrowserHumanoidEnabled(b bool)          { c.BrowserCfg.Humanoid.Enabled = b }
func (c *Config) SetBrowserHumanoidPattern(p string)        { c.BrowserCfg.Humanoid.Pattern = p }
func (c *Config) SetBrowserHumanoidShowVisualCursor(b bool) { c.BrowserCfg.Humanoid.ShowVisualCursor = b }
func (c *Config) SetBrowserHumanoidSteps(n int)             { c.BrowserCfg.Humanoid.Steps = n }
func (c *Config) SetBrowserHumanoidMovementTime(min, max time.Duration) {
	c.BrowserCfg.Humanoid.MinMovementTime = min
	c.BrowserCfg.Humanoid.MaxMovementTime = max
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// NOTE: HumanoidConfig is defined in internal/config/humanoid_config.go

// BrowserConfig holds settings for the browser driven by the pointer simulation.
type BrowserConfig struct {
	// Driver selects the automation backend: "chromedp" or "rod".
	Driver   string         `mapstructure:"driver" yaml:"driver"`
	Headless bool           `mapstructure:"headless" yaml:"headless"`
	ExecPath string         `mapstructure:"exec_path" yaml:"exec_path"`
	Args     []string       `mapstructure:"args" yaml:"args"`
	Viewport ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	// NavigationTimeout bounds a single page load.
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	// MaxInputRate caps dispatched pointer events per second. Zero disables the cap.
	MaxInputRate float64        `mapstructure:"max_input_rate" yaml:"max_input_rate"`
	Humanoid     HumanoidConfig `mapstructure:"humanoid" yaml:"humanoid"`
}

// ViewportConfig is the browser window size in CSS pixels.
type ViewportConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "glide")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.driver", DriverChromedp)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.args", []string{})
	v.SetDefault("browser.viewport.width", 1280)
	v.SetDefault("browser.viewport.height", 800)
	v.SetDefault("browser.navigation_timeout", "30s")
	v.SetDefault("browser.max_input_rate", 250.0)
	// Humanoid defaults live next to the struct in humanoid_config.go.
	setHumanoidDefaults(v)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.BrowserCfg.Driver = strings.ToLower(strings.TrimSpace(cfg.BrowserCfg.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	switch c.BrowserCfg.Driver {
	case DriverChromedp, DriverRod:
	default:
		return fmt.Errorf("browser.driver must be one of %q or %q, got %q", DriverChromedp, DriverRod, c.BrowserCfg.Driver)
	}
	if c.BrowserCfg.Viewport.Width <= 0 || c.BrowserCfg.Viewport.Height <= 0 {
		return fmt.Errorf("browser.viewport width and height must be positive integers")
	}
	if c.BrowserCfg.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be a positive duration")
	}
	if c.BrowserCfg.MaxInputRate < 0 {
		return fmt.Errorf("browser.max_input_rate must not be negative")
	}
	if err := c.BrowserCfg.Humanoid.Validate(); err != nil {
		return fmt.Errorf("browser.humanoid configuration invalid: %w", err)
	}
	return nil
}
