// Package config holds the application configuration and its koanf-based loader.
package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Storage   StorageConfig   `koanf:"storage"`
	Log       LogConfig       `koanf:"log"`
	Inventory InventoryConfig `koanf:"inventory"`
}

type StorageConfig struct {
	File string `koanf:"file"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

type InventoryConfig struct {
	LowStockThreshold int64 `koanf:"lowStockThreshold"`
}

// String returns a string representation of the effective configuration.
func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Storage Configuration ---\n")
	b.WriteString(fmt.Sprintf("  storage.file: %s\n", c.Storage.File))

	b.WriteString("\n--- Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	logFile := c.Log.File
	if logFile == "" {
		logFile = "<stderr>"
	}
	b.WriteString(fmt.Sprintf("  log.file: %s\n", logFile))

	b.WriteString("\n--- Inventory Behavior ---\n")
	b.WriteString(fmt.Sprintf("  inventory.lowStockThreshold: %d\n", c.Inventory.LowStockThreshold))

	return b.String()
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.Storage.File == "" {
		return fmt.Errorf("storage file path is not configured")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	if c.Inventory.LowStockThreshold < 0 {
		return fmt.Errorf("invalid low stock threshold: %d", c.Inventory.LowStockThreshold)
	}
	return nil
}
