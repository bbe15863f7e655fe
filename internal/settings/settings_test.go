// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileStore_HJSONNested(t *testing.T) {
	path := writeFile(t, "settings.hjson", `{
		// Category layout shown by the control panel
		controlpanel: {
			group_ids: ["net", "sys"]
			group_names: ["Network", "System"]
		}
	}`)

	store, err := OpenFile(path)
	require.NoError(t, err)
	defer store.Close()

	ids, err := store.GetStringList(context.Background(), GroupIDsKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"net", "sys"}, ids)

	names, err := store.GetStringList(context.Background(), GroupNamesKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"Network", "System"}, names)
}

func TestFileStore_FlatKey(t *testing.T) {
	path := writeFile(t, "settings.json", `{"controlpanel/group_ids": ["a"]}`)

	store, err := OpenFile(path)
	require.NoError(t, err)

	ids, err := store.GetStringList(context.Background(), GroupIDsKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)
}

func TestFileStore_YAML(t *testing.T) {
	path := writeFile(t, "settings.yaml", `
controlpanel:
  group_ids:
    - net
    - sys
  group_names:
    - Network
    - System
`)

	store, err := OpenFile(path)
	require.NoError(t, err)

	ids, err := store.GetStringList(context.Background(), GroupIDsKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"net", "sys"}, ids)
	assert.Equal(t, path, store.Path())
}

func TestFileStore_Errors(t *testing.T) {
	path := writeFile(t, "settings.hjson", `{
		controlpanel: {
			group_ids: "net"
			group_names: ["Network", 3]
		}
	}`)

	store, err := OpenFile(path)
	require.NoError(t, err)

	_, err = store.GetStringList(context.Background(), GroupIDsKey)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = store.GetStringList(context.Background(), GroupNamesKey)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = store.GetStringList(context.Background(), "controlpanel/missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetStringList(context.Background(), "controlpanel/group_ids/deeper")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenFile_Missing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "nope.hjson"))
	assert.Error(t, err)
}

func TestOpenFile_Invalid(t *testing.T) {
	_, err := OpenFile(writeFile(t, "bad.yaml", "controlpanel: [unclosed"))
	assert.Error(t, err)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)

	_, err = store.GetStringList(ctx, GroupIDsKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SetStringList(ctx, GroupIDsKey, []string{"net", "sys"}))
	require.NoError(t, store.SetStringList(ctx, GroupIDsKey, []string{"net", "sys", "conn"}))
	require.NoError(t, store.SetStringList(ctx, GroupNamesKey, nil))
	require.NoError(t, store.Close())

	// Values survive reopening.
	store, err = OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	ids, err := store.GetStringList(ctx, GroupIDsKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"net", "sys", "conn"}, ids)

	names, err := store.GetStringList(ctx, GroupNamesKey)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestOpen_Backends(t *testing.T) {
	fileStore, err := Open(BackendFile, writeFile(t, "s.hjson", "{}"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, fileStore)

	dbStore, err := Open(BackendSQLite, filepath.Join(t.TempDir(), "s.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, dbStore)
	dbStore.Close()

	_, err = Open("gconf", "")
	assert.Error(t, err)

	_, err = Open(BackendFile, filepath.Join(t.TempDir(), "missing.hjson"))
	assert.Error(t, err)
}
