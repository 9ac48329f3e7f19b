package dish

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the run configuration: container selection, imaging parameters
// and output/publishing settings.
type Config struct {
	// Dish is the container catalog name, e.g. "96well".
	Dish string `yaml:"dish"`
	// Wells restricts planning to the named wells. Empty or ["all"] keeps
	// every well.
	Wells []string `yaml:"wells,omitempty"`

	FOV FieldOfView `yaml:"fov"`
	// OverlapPercent is the minimum tile overlap in percent, [0, 100).
	// Nil selects the optimal overlap per axis.
	OverlapPercent *float64 `yaml:"overlapPercent,omitempty"`
	// MinCornersIn is the circular-well containment policy, see GridOptions.
	MinCornersIn int `yaml:"minCornersIn,omitempty"`

	// SampleFields, when positive, images only that many randomly chosen
	// fields per well instead of the full grid. SampleSeed makes the draw
	// reproducible.
	SampleFields int   `yaml:"sampleFields,omitempty"`
	SampleSeed   int64 `yaml:"sampleSeed,omitempty"`

	CalibrationFile string `yaml:"calibrationFile,omitempty"`

	MQTT MQTTConfig `yaml:"mqtt,omitempty"`
}

// MQTTConfig configures plan publishing. An empty broker disables it.
type MQTTConfig struct {
	Broker      string `yaml:"broker,omitempty"`
	ClientID    string `yaml:"clientId,omitempty"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topicPrefix,omitempty"`
}

// LoadConfig loads and validates the run configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks the configuration against the container catalog and the
// grid generator's constraints.
func (c *Config) Validate() error {
	if c.Dish == "" {
		return fmt.Errorf("%w: dish is required", ErrConfiguration)
	}
	if _, err := Lookup(c.Dish); err != nil {
		return err
	}
	if c.FOV.Width <= 0 || c.FOV.Height <= 0 {
		return fmt.Errorf("%w: fov must be positive, got %g x %g", ErrConfiguration, c.FOV.Width, c.FOV.Height)
	}
	if c.OverlapPercent != nil && (*c.OverlapPercent < 0 || *c.OverlapPercent >= 100) {
		return fmt.Errorf("%w: overlapPercent %g outside [0, 100)", ErrConfiguration, *c.OverlapPercent)
	}
	if c.MinCornersIn < 0 || c.MinCornersIn > 4 {
		return fmt.Errorf("%w: minCornersIn %d outside [0, 4]", ErrConfiguration, c.MinCornersIn)
	}
	if c.SampleFields < 0 {
		return fmt.Errorf("%w: sampleFields must not be negative", ErrConfiguration)
	}
	return nil
}

// GridOptions converts the configuration to grid generator options.
func (c *Config) GridOptions() GridOptions {
	opts := GridOptions{
		FOV:          c.FOV,
		MinCornersIn: c.MinCornersIn,
	}
	if c.OverlapPercent != nil {
		ov := *c.OverlapPercent / 100
		opts.Overlap = &ov
	}
	return opts
}

// CalibrationPath returns the configured calibration file location, falling
// back to the conventional name next to the working directory.
func (c *Config) CalibrationPath() string {
	if c.CalibrationFile != "" {
		return c.CalibrationFile
	}
	return CalibrationFileName(c.Dish)
}
