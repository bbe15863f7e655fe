// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package config handles HJSON configuration loading.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure for cpanel.
type Config struct {
	Applets    AppletsConfig    `json:"applets"`
	Settings   SettingsConfig   `json:"settings"`
	Categories CategoriesConfig `json:"categories"`
	Watch      WatchConfig      `json:"watch"`
	Server     ServerConfig     `json:"server"`
	Logging    LoggingConfig    `json:"logging"`
}

// AppletsConfig locates the applet descriptors.
type AppletsConfig struct {
	Dir    string `json:"dir"`
	Locale string `json:"locale"` // POSIX or BCP 47; empty means the system locale
}

// SettingsConfig selects where category lists are read from.
type SettingsConfig struct {
	Backend string `json:"backend"` // "file" or "sqlite"
	Path    string `json:"path"`    // empty means no store, fallback category only
}

// CategoriesConfig tunes the category catalog.
type CategoriesConfig struct {
	FallbackName string `json:"fallback_name"`
}

// WatchConfig configures change-driven rebuilds.
type WatchConfig struct {
	Debounce string `json:"debounce"`
	Disabled bool   `json:"disabled"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port    int    `json:"port"`
	Host    string `json:"host"`
	TLSCert string `json:"tls_cert"` // enables HTTPS together with tls_key
	TLSKey  string `json:"tls_key"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// DebounceDuration returns the parsed debounce window.
func (w WatchConfig) DebounceDuration() time.Duration {
	return ParseDuration(w.Debounce, DefaultDebounce)
}

// ParseDuration parses a duration string with a default fallback.
func ParseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}
