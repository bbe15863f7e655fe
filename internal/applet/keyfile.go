// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package applet

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrGroupNotFound is returned when a key file lacks the requested group.
var ErrGroupNotFound = errors.New("group not found")

// ErrKeyNotFound is returned when a group lacks the requested key.
var ErrKeyNotFound = errors.New("key not found")

// KeyFile is a parsed desktop-entry style key file.
type KeyFile struct {
	groups map[string]map[string]string
	order  []string
}

// maxLineLength bounds a single key-file line, well past bufio's 64 KiB
// default token size.
const maxLineLength = 4 << 20

// ParseKeyFile reads a key file. Lines are group headers, key=value pairs,
// comments starting with '#', or blank.
func ParseKeyFile(r io.Reader) (*KeyFile, error) {
	kf := &KeyFile{groups: make(map[string]map[string]string)}

	var current map[string]string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") || len(line) < 3 {
				return nil, fmt.Errorf("line %d: malformed group header %q", lineNo, line)
			}
			name := line[1 : len(line)-1]
			if _, exists := kf.groups[name]; !exists {
				kf.groups[name] = make(map[string]string)
				kf.order = append(kf.order, name)
			}
			current = kf.groups[name]
			continue
		}

		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("line %d: expected key=value, got %q", lineNo, line)
		}
		if current == nil {
			return nil, fmt.Errorf("line %d: key %q outside of any group", lineNo, line[:eq])
		}

		key := strings.TrimSpace(line[:eq])
		value, err := unescapeValue(strings.TrimSpace(line[eq+1:]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		current[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	return kf, nil
}

// LoadKeyFile opens and parses the key file at path.
func LoadKeyFile(path string) (*KeyFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseKeyFile(f)
}

// Groups returns group names in file order.
func (kf *KeyFile) Groups() []string {
	return append([]string(nil), kf.order...)
}

// String returns the raw value of key in group.
func (kf *KeyFile) String(group, key string) (string, error) {
	g, ok := kf.groups[group]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrGroupNotFound, group)
	}
	v, ok := g[key]
	if !ok {
		return "", fmt.Errorf("%w: %s in group %s", ErrKeyNotFound, key, group)
	}
	return v, nil
}

// LocaleString returns the best translation of key for locale, falling back
// to the untranslated key. An empty locale reads the untranslated key only.
func (kf *KeyFile) LocaleString(group, key, locale string) (string, error) {
	g, ok := kf.groups[group]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrGroupNotFound, group)
	}
	for _, variant := range localeVariants(locale) {
		if v, ok := g[key+"["+variant+"]"]; ok {
			return v, nil
		}
	}
	return kf.String(group, key)
}

func unescapeValue(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", errors.New("value ends with a dangling escape")
		}
		switch s[i] {
		case 's':
			b.WriteByte(' ')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			return "", fmt.Errorf("invalid escape sequence \\%c", s[i])
		}
	}
	return b.String(), nil
}
