// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPattern_Match(t *testing.T) {
	tests := []struct {
		pattern   string
		eventType string
		want      bool
	}{
		{"*", "applist.updated", true},
		{"applist.updated", "applist.updated", true},
		{"applist.updated", "applist.watch_disabled", false},
		{"applist.*", "applist.updated", true},
		{"applist.*", "applist.watch_disabled", true},
		{"applist.*", "applistx.updated", false},
		{"applist.*", "applist", false},
		{"*.updated", "applist.updated", true},
		{"*.updated", "applist.updated_late", false},
		{"*.updated", "updated", false},
		{"*", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.eventType, func(t *testing.T) {
			p, err := CompilePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Match(tt.eventType))
		})
	}
}

func TestCompilePattern_Empty(t *testing.T) {
	_, err := CompilePattern("")
	assert.Error(t, err)

	assert.False(t, Pattern{}.Match("applist.updated"))
}

func TestPattern_String(t *testing.T) {
	p, err := CompilePattern("applist.*")
	require.NoError(t, err)
	assert.Equal(t, "applist.*", p.String())
}
