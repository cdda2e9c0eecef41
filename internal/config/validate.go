package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Manifest.Path) != "" {
		if c.Manifest.Path, err = expandPath(c.Manifest.Path); err != nil {
			return fmt.Errorf("manifest.path: %w", err)
		}
	}

	c.Sorter.SidecarExtension = strings.TrimSpace(c.Sorter.SidecarExtension)
	if c.Sorter.SidecarExtension == "" {
		c.Sorter.SidecarExtension = defaultSidecarExtension
	}
	if !strings.HasPrefix(c.Sorter.SidecarExtension, ".") {
		c.Sorter.SidecarExtension = "." + c.Sorter.SidecarExtension
	}

	markers := c.Sorter.SkipMarkers[:0]
	for _, marker := range c.Sorter.SkipMarkers {
		if marker = strings.TrimSpace(marker); marker != "" {
			markers = append(markers, marker)
		}
	}
	c.Sorter.SkipMarkers = markers

	dates := c.Sorter.SkipDates[:0]
	for _, date := range c.Sorter.SkipDates {
		if date = strings.TrimSpace(date); date != "" {
			dates = append(dates, date)
		}
	}
	c.Sorter.SkipDates = dates

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	for _, date := range c.Sorter.SkipDates {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("sorter.skip_dates: %q is not a YYYY-MM-DD date", date)
		}
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
