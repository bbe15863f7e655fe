// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validator validates configuration against schema rules.
type Validator struct{}

// NewValidator creates a new config validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidationError contains multiple validation failures.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single field validation error.
type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	var msgs []string
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(msgs, "; ")
}

// IsEmpty returns true if there are no validation errors.
func (e *ValidationError) IsEmpty() bool {
	return len(e.Errors) == 0
}

// Add adds a field error.
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// Validate checks configuration validity.
func (v *Validator) Validate(cfg *Config) error {
	errs := &ValidationError{}

	v.validateApplets(cfg, errs)
	v.validateSettings(cfg, errs)
	v.validateWatch(cfg, errs)
	v.validateServer(cfg, errs)
	v.validateLogging(cfg, errs)

	if errs.IsEmpty() {
		return nil
	}
	return errs
}

func (v *Validator) validateApplets(cfg *Config, errs *ValidationError) {
	if strings.TrimSpace(cfg.Applets.Dir) == "" {
		errs.Add("applets.dir", "is required")
	}
}

func (v *Validator) validateSettings(cfg *Config, errs *ValidationError) {
	switch cfg.Settings.Backend {
	case "", "file":
	case "sqlite":
		if cfg.Settings.Path == "" {
			errs.Add("settings.path", "is required for the sqlite backend")
		}
	default:
		errs.Add("settings.backend", fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite", cfg.Settings.Backend))
	}
}

func (v *Validator) validateWatch(cfg *Config, errs *ValidationError) {
	if cfg.Watch.Debounce == "" {
		return
	}
	d, err := time.ParseDuration(cfg.Watch.Debounce)
	if err != nil {
		errs.Add("watch.debounce", fmt.Sprintf("invalid duration: %v", err))
	} else if d <= 0 {
		errs.Add("watch.debounce", "must be positive")
	}
}

func (v *Validator) validateServer(cfg *Config, errs *ValidationError) {
	if cfg.Server.Port != 0 {
		if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
			errs.Add("server.port", "must be between 0 and 65535")
		}
	}
	if (cfg.Server.TLSCert == "") != (cfg.Server.TLSKey == "") {
		errs.Add("server.tls_cert", "tls_cert and tls_key must be set together")
	}
}

func (v *Validator) validateLogging(cfg *Config, errs *ValidationError) {
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{
			"trace": true,
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[cfg.Logging.Level] {
			errs.Add("logging.level", fmt.Sprintf("invalid level '%s', must be one of: trace, debug, info, warn, error", cfg.Logging.Level))
		}
	}

	if cfg.Logging.Format != "" {
		validFormats := map[string]bool{
			"json": true,
			"text": true,
		}
		if !validFormats[cfg.Logging.Format] {
			errs.Add("logging.format", fmt.Sprintf("invalid format '%s', must be one of: json, text", cfg.Logging.Format))
		}
	}
}
