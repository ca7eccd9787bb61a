package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

const defaultOutputDir = "."

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type EmailConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// CalendarConfig enables the date stamp in the header.
type CalendarConfig struct {
	Province       string `yaml:"province"` // German state abbreviation (e.g., "BW", "BY"), empty disables the stamp
	ChristmasBreak *bool  `yaml:"christmasBreak"`
}

// ChristmasBreakEnabled reports whether Dec 24 and Dec 27-31 are skipped.
// Defaults to true.
func (c CalendarConfig) ChristmasBreakEnabled() bool {
	return c.ChristmasBreak == nil || *c.ChristmasBreak
}

type Config struct {
	Worksheet  Worksheet      `yaml:"worksheet"`
	Output     string         `yaml:"output"`
	Letterhead string         `yaml:"letterhead"`
	QRCode     bool           `yaml:"qrCode"`
	Calendar   CalendarConfig `yaml:"calendar"`
	SMTP       SMTPConfig     `yaml:"smtp"`
	Email      EmailConfig    `yaml:"email"`
}

// loadConfig reads and parses the YAML configuration file.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Worksheet = cfg.Worksheet.withDefaults()
	if cfg.Output == "" {
		cfg.Output = defaultOutputDir
	}

	return &cfg, nil
}

// checkMail reports missing settings needed to send worksheets.
func (c *Config) checkMail() error {
	var errs []error
	if c.SMTP.Host == "" {
		errs = append(errs, errors.New("smtp.host is not configured"))
	}
	if c.Email.From == "" {
		errs = append(errs, errors.New("email.from is not configured"))
	}
	if c.Email.To == "" {
		errs = append(errs, errors.New("email.to is not configured"))
	}
	return errors.Join(errs...)
}
