// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wingedpig/cpanel/internal/settings"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func setup(t *testing.T) (appletsDir, configPath string) {
	t.Helper()
	root := t.TempDir()

	appletsDir = filepath.Join(root, "applets")
	require.NoError(t, os.Mkdir(appletsDir, 0755))
	writeFile(t, filepath.Join(appletsDir, "a.desktop"),
		"[Desktop Entry]\nName=Connectivity\nX-control-panel-plugin=libconn.so\nX-control-panel-category=net\n")

	settingsPath := filepath.Join(root, "settings.hjson")
	writeFile(t, settingsPath, `{
		controlpanel: {
			group_ids: ["net"]
			group_names: ["Network"]
		}
	}`)

	configPath = filepath.Join(root, "cpanel.hjson")
	writeFile(t, configPath, fmt.Sprintf(`{
		applets: { dir: %q, locale: "C" }
		settings: { backend: "file", path: %q }
		categories: { fallback_name: "Other" }
		watch: { disabled: true }
	}`, appletsDir, settingsPath))

	return appletsDir, configPath
}

func TestNew_Defaults(t *testing.T) {
	a, err := New(Options{LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)

	assert.Equal(t, "/usr/share/applications/hildon-control-panel", a.Config().Applets.Dir)
	assert.Nil(t, a.Registry())
	assert.Nil(t, a.EventBus())
}

func TestNew_Overrides(t *testing.T) {
	_, configPath := setup(t)

	a, err := New(Options{
		ConfigPath:   configPath,
		Host:         "0.0.0.0",
		Port:         9999,
		AppletsDir:   "/elsewhere",
		Locale:       "de_DE",
		DisableWatch: true,
		Debug:        true,
		LogOutput:    &bytes.Buffer{},
	})
	require.NoError(t, err)

	cfg := a.Config()
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "/elsewhere", cfg.Applets.Dir)
	assert.Equal(t, "de_DE", cfg.Applets.Locale)
	assert.True(t, cfg.Watch.Disabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, a.Logger().IsDebug())
}

func TestNew_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpanel.hjson")
	writeFile(t, path, `{ logging: { level: "loud" } }`)

	_, err := New(Options{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestNew_MissingConfig(t *testing.T) {
	_, err := New(Options{ConfigPath: "/nonexistent/cpanel.hjson"})
	assert.Error(t, err)
}

func TestInitialize_BuildsRegistry(t *testing.T) {
	_, configPath := setup(t)

	a, err := New(Options{ConfigPath: configPath, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	require.NoError(t, a.Initialize(context.Background()))
	defer a.Shutdown(context.Background())

	reg := a.Registry()
	require.NotNil(t, reg)
	assert.NotNil(t, a.EventBus())
	assert.False(t, reg.Watching())
	assert.Equal(t, "", reg.Locale())

	cats := reg.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "Network", cats[0].Name)
	assert.Equal(t, "Other", cats[1].Name)
	require.Len(t, cats[0].Apps, 1)
	assert.Equal(t, "libconn.so", cats[0].Apps[0].Plugin)

	// Initialize is idempotent.
	require.NoError(t, a.Initialize(context.Background()))
	assert.Same(t, reg, a.Registry())
}

func TestInitialize_SQLiteStore(t *testing.T) {
	appletsDir, _ := setup(t)
	dbPath := filepath.Join(t.TempDir(), "settings.db")

	store, err := settings.OpenSQLite(dbPath)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.SetStringList(ctx, settings.GroupIDsKey, []string{"net"}))
	require.NoError(t, store.SetStringList(ctx, settings.GroupNamesKey, []string{"Netzwerk"}))
	require.NoError(t, store.Close())

	configPath := filepath.Join(t.TempDir(), "cpanel.hjson")
	writeFile(t, configPath, fmt.Sprintf(`{
		applets: { dir: %q, locale: "C" }
		settings: { backend: "sqlite", path: %q }
		watch: { disabled: true }
	}`, appletsDir, dbPath))

	a, err := New(Options{ConfigPath: configPath, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	require.NoError(t, a.Initialize(ctx))
	defer a.Shutdown(ctx)

	cats := a.Registry().Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "Netzwerk", cats[0].Name)
}

func TestInitialize_BrokenStoreFallsBack(t *testing.T) {
	appletsDir, _ := setup(t)

	configPath := filepath.Join(t.TempDir(), "cpanel.hjson")
	writeFile(t, configPath, fmt.Sprintf(`{
		applets: { dir: %q, locale: "C" }
		settings: { backend: "file", path: "/nonexistent/settings.hjson" }
		categories: { fallback_name: "Other" }
		watch: { disabled: true }
	}`, appletsDir))

	var logs bytes.Buffer
	a, err := New(Options{ConfigPath: configPath, LogOutput: &logs})
	require.NoError(t, err)
	require.NoError(t, a.Initialize(context.Background()))
	defer a.Shutdown(context.Background())

	cats := a.Registry().Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, "Other", cats[0].Name)
	assert.Len(t, cats[0].Apps, 1)
	assert.Contains(t, logs.String(), "failed to open settings store")
}

func TestRun_ServesAndStops(t *testing.T) {
	_, configPath := setup(t)
	port := freePort(t)

	a, err := New(Options{ConfigPath: configPath, Port: port, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(context.Background()) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/api/v1/apps/libconn.so", port)
	assert.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	a.Stop()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestRun_ContextCancel(t *testing.T) {
	_, configPath := setup(t)

	a, err := New(Options{ConfigPath: configPath, Port: freePort(t), LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_PortInUse(t *testing.T) {
	_, configPath := setup(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	a, err := New(Options{ConfigPath: configPath, Port: ln.Addr().(*net.TCPAddr).Port, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)

	err = a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server")
}
