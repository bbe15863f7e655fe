// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"errors"
	"strings"
)

// Pattern matches event types. Supported forms:
//   - "*" matches everything
//   - "applist.*" matches any type under the applist prefix
//   - "*.updated" matches any type ending in .updated
//   - anything else matches exactly
type Pattern struct {
	raw string
}

// CompilePattern validates a pattern.
func CompilePattern(pattern string) (Pattern, error) {
	if pattern == "" {
		return Pattern{}, errors.New("empty pattern")
	}
	return Pattern{raw: pattern}, nil
}

// Match reports whether eventType matches the pattern.
func (p Pattern) Match(eventType string) bool {
	if p.raw == "" || eventType == "" {
		return false
	}

	switch {
	case p.raw == "*" || p.raw == eventType:
		return true
	case strings.HasSuffix(p.raw, ".*"):
		return strings.HasPrefix(eventType, strings.TrimSuffix(p.raw, "*"))
	case strings.HasPrefix(p.raw, "*."):
		return strings.HasSuffix(eventType, strings.TrimPrefix(p.raw, "*"))
	}
	return false
}

func (p Pattern) String() string {
	return p.raw
}
