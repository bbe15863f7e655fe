// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v3"
)

// FileStore serves settings from an HJSON or YAML document. Keys are
// '/'-separated paths into nested objects.
type FileStore struct {
	path string
	root map[string]interface{}
}

// OpenFile reads the document at path. Files ending in .yaml or .yml are
// parsed as YAML, anything else as HJSON (which includes plain JSON).
func OpenFile(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var root map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("parse yaml settings: %w", err)
		}
	default:
		if err := hjson.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("parse hjson settings: %w", err)
		}
	}
	if root == nil {
		root = make(map[string]interface{})
	}

	return &FileStore{path: path, root: root}, nil
}

// Path returns the file the store was read from.
func (s *FileStore) Path() string {
	return s.path
}

// GetStringList implements Store.
func (s *FileStore) GetStringList(ctx context.Context, key string) ([]string, error) {
	v, ok := s.lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, want list", ErrTypeMismatch, key, v)
	}

	result := make([]string, 0, len(items))
	for i, item := range items {
		str, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is %T, want string", ErrTypeMismatch, key, i, item)
		}
		result = append(result, str)
	}
	return result, nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) lookup(key string) (interface{}, bool) {
	// Flat keys win over nested paths.
	if v, ok := s.root[key]; ok {
		return v, true
	}

	var node interface{} = s.root
	for _, part := range strings.Split(strings.Trim(key, "/"), "/") {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		node, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return node, true
}
