// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package applet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrMissingField is wrapped by diagnostics for absent or empty fields.
var ErrMissingField = errors.New("missing field")

// Severity classifies a scan diagnostic.
type Severity int

const (
	// SeverityWarning means the entry was kept, or vanished before it was read.
	SeverityWarning Severity = iota
	// SeverityError means the entry was skipped.
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic reports a problem with one directory entry.
type Diagnostic struct {
	Path     string
	Severity Severity
	Err      error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %v", d.Path, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Scanner reads descriptor files from a directory.
type Scanner struct {
	locale string
}

// NewScanner creates a scanner resolving names for the given POSIX locale.
// An empty locale reads untranslated names.
func NewScanner(locale string) *Scanner {
	return &Scanner{locale: locale}
}

// Locale returns the locale names are resolved for.
func (s *Scanner) Locale() string {
	return s.locale
}

// Scan parses every entry of dir. Broken entries never abort the scan; they
// are reported as diagnostics. Results are in directory listing order.
func (s *Scanner) Scan(dir string) ([]*Applet, []Diagnostic) {
	if s == nil {
		panic("applet: Scan called on nil Scanner")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []Diagnostic{{Path: dir, Severity: SeverityError, Err: fmt.Errorf("open directory: %w", err)}}
	}

	var (
		applets []*Applet
		diags   []Diagnostic
	)
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			diags = append(diags, Diagnostic{Path: path, Severity: SeverityWarning, Err: errors.New("is a directory")})
			continue
		}

		a, warnings, err := s.Parse(path)
		diags = append(diags, warnings...)
		if err != nil {
			sev := SeverityError
			if errors.Is(err, fs.ErrNotExist) {
				sev = SeverityWarning
			}
			diags = append(diags, Diagnostic{Path: path, Severity: sev, Err: err})
			continue
		}
		applets = append(applets, a)
	}

	return applets, diags
}

// Parse reads a single descriptor. Missing optional fields come back as
// warnings; a missing name or plugin id is an error.
func (s *Scanner) Parse(path string) (*Applet, []Diagnostic, error) {
	kf, err := LoadKeyFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load descriptor: %w", err)
	}

	name, err := kf.LocaleString(DesktopGroup, KeyName, s.locale)
	if err != nil {
		return nil, nil, err
	}
	if name == "" {
		return nil, nil, fmt.Errorf("%w: %s is empty", ErrMissingField, KeyName)
	}

	plugin, err := kf.String(DesktopGroup, KeyPlugin)
	if err != nil {
		return nil, nil, err
	}
	if plugin == "" {
		return nil, nil, fmt.Errorf("%w: %s is empty", ErrMissingField, KeyPlugin)
	}

	a := &Applet{
		Name:   name,
		Plugin: plugin,
		Path:   path,
	}

	var warnings []Diagnostic
	if a.Icon, err = kf.String(DesktopGroup, KeyIcon); err != nil {
		warnings = append(warnings, Diagnostic{Path: path, Severity: SeverityWarning, Err: err})
	}
	if a.Category, err = kf.String(DesktopGroup, KeyCategory); err != nil {
		warnings = append(warnings, Diagnostic{Path: path, Severity: SeverityWarning, Err: err})
	}

	return a, warnings, nil
}
