package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dusk-indust/userposts/internal/export"
	"github.com/dusk-indust/userposts/internal/fakeapi"
	"github.com/dusk-indust/userposts/internal/orchestrator"
	"github.com/dusk-indust/userposts/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Version(t *testing.T) {
	require.NoError(t, run([]string{"-version"}))
}

func TestRun_BadFlag(t *testing.T) {
	assert.Error(t, run([]string{"-no-such-flag"}))
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := resolveConfig(cliFlags{ConfigDir: t.TempDir()})

	require.NoError(t, err)
	assert.Equal(t, resource.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, resource.DefaultTimeout, cfg.Timeout)
	assert.False(t, cfg.Verbose)
}

func TestResolveConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "userposts.yml"), []byte(
		"baseURL: http://file.test/\ntimeout: 3s\nuserAgent: file-agent\n"), 0o644))
	t.Setenv("USERPOSTS_TIMEOUT", "4s")

	cfg, err := resolveConfig(cliFlags{ConfigDir: dir, BaseURL: "http://flag.test/", Verbose: true})

	require.NoError(t, err)
	assert.Equal(t, "http://flag.test/", cfg.BaseURL, "flag beats file")
	assert.Equal(t, 4*time.Second, cfg.Timeout, "env beats file")
	assert.Equal(t, "file-agent", cfg.UserAgent)
	assert.True(t, cfg.Verbose)
}

func TestResolveConfig_TraceEndpoint(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "userposts.yml"), []byte(
		"traceEndpoint: http://file-collector.test:4318\n"), 0o644))

	cfg, err := resolveConfig(cliFlags{ConfigDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "http://file-collector.test:4318", cfg.TraceEndpoint)

	cfg, err = resolveConfig(cliFlags{ConfigDir: dir, TraceEndpoint: "http://flag-collector.test:4318"})
	require.NoError(t, err)
	assert.Equal(t, "http://flag-collector.test:4318", cfg.TraceEndpoint, "flag beats file")
}

func TestResolveConfig_Invalid(t *testing.T) {
	_, err := resolveConfig(cliFlags{ConfigDir: t.TempDir(), BaseURL: "not-a-url"})

	assert.Error(t, err)
}

func TestRunDump(t *testing.T) {
	fx := fakeapi.Generate(21, 2, 3)
	ts := httptest.NewServer(fakeapi.New(fx))
	defer ts.Close()

	var buf bytes.Buffer
	err := runDump(context.Background(), orchestrator.Config{BaseURL: ts.URL}, &buf)
	require.NoError(t, err)

	var snap export.SnapshotExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
	assert.Equal(t, ts.URL+"/", snap.BaseURL)
	require.Len(t, snap.Users, 2)
	assert.Equal(t, fx.PostsByUser(snap.Users[1].ID), snap.Users[1].Posts)
}
