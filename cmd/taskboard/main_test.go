// ABOUTME: Tests for the taskboard CLI commands
// ABOUTME: Runs the cobra tree against a temporary database and config file

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/taskboard/internal/config"
	"github.com/2389/taskboard/internal/store"
)

// setupCLI writes a config pointing at a fresh database and returns its path.
func setupCLI(t *testing.T) (configPath, dir string) {
	t.Helper()
	color.NoColor = true
	dir = t.TempDir()
	configPath = filepath.Join(dir, "config.yaml")
	content := "database:\n  path: \"" + filepath.Join(dir, "tasks.db") + "\"\n" +
		"export:\n  filename: \"exported_tasks.json\"\n" +
		"logging:\n  level: error\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return configPath, dir
}

func run(t *testing.T, configPath string, stdin string, args ...string) (string, error) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cmd := newRootCmd("test")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", configPath}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAddListDoneRm(t *testing.T) {
	cfg, _ := setupCLI(t)

	out, err := run(t, cfg, "", "add", "Buy", "milk", "-d", "2 litres")
	require.NoError(t, err)
	assert.Equal(t, "Added task 1\n", out)

	out, err = run(t, cfg, "", "list")
	require.NoError(t, err)
	assert.Equal(t, "   1  Pending    Buy milk\n", out)

	_, err = run(t, cfg, "", "rm", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "still pending")

	out, err = run(t, cfg, "", "done", "1")
	require.NoError(t, err)
	assert.Equal(t, "   1  Completed  Buy milk\n", out)

	out, err = run(t, cfg, "", "rm", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted task 1: Buy milk\n", out)

	out, err = run(t, cfg, "", "list")
	require.NoError(t, err)
	assert.Equal(t, "No tasks available.\n", out)
}

func TestRm_Force(t *testing.T) {
	cfg, _ := setupCLI(t)
	_, err := run(t, cfg, "", "add", "pending")
	require.NoError(t, err)

	_, err = run(t, cfg, "", "rm", "--force", "1")
	require.NoError(t, err)
}

func TestAdd_BlankTitle(t *testing.T) {
	cfg, _ := setupCLI(t)

	_, err := run(t, cfg, "", "add", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
}

func TestDone_Errors(t *testing.T) {
	cfg, _ := setupCLI(t)

	_, err := run(t, cfg, "", "done", "abc")
	assert.ErrorContains(t, err, "invalid task id")

	_, err = run(t, cfg, "", "done", "7")
	assert.ErrorContains(t, err, "no task with id 7")
}

func TestListJSON(t *testing.T) {
	cfg, _ := setupCLI(t)
	_, err := run(t, cfg, "", "add", "json me")
	require.NoError(t, err)

	out, err := run(t, cfg, "", "list", "--json")
	require.NoError(t, err)

	var tasks []store.Task
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(1), tasks[0].ID)
	assert.Equal(t, "json me", tasks[0].Title)
}

func TestExportImport(t *testing.T) {
	cfg, dir := setupCLI(t)
	_, err := run(t, cfg, "", "add", "A", "-d", "d1")
	require.NoError(t, err)
	_, err = run(t, cfg, "", "add", "B", "-d", "d2")
	require.NoError(t, err)
	_, err = run(t, cfg, "", "done", "2")
	require.NoError(t, err)

	path := filepath.Join(dir, "out.json")
	out, err := run(t, cfg, "", "export", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"completed": true`)

	stdout, err := run(t, cfg, "", "export", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, string(data), stdout)

	out, err = run(t, cfg, "", "import", "--dry-run", path)
	require.NoError(t, err)
	assert.Equal(t, "2 tasks would be imported\n", out)

	out, err = run(t, cfg, "", "import", path)
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 tasks\n", out)

	out, err = run(t, cfg, "", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[3], "Pending")
	assert.Contains(t, lines[3], "B")
}

func TestExport_DefaultFilename(t *testing.T) {
	cfg, dir := setupCLI(t)
	t.Chdir(dir)

	_, err := run(t, cfg, "", "export")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "exported_tasks.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestImport_InvalidWritesNothing(t *testing.T) {
	cfg, _ := setupCLI(t)

	_, err := run(t, cfg, `[{"title":"ok","description":""},{"title":"","description":""}]`, "import", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 1")

	out, err := run(t, cfg, "", "list")
	require.NoError(t, err)
	assert.Equal(t, "No tasks available.\n", out)
}

func TestInit(t *testing.T) {
	color.NoColor = true
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cmd := newRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"init", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Config written to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Sample, string(data))

	cmd = newRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"init", path})
	assert.ErrorContains(t, cmd.Execute(), "already exists")

	cmd = newRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"init", "--force", path})
	assert.NoError(t, cmd.Execute())
}

func TestMissingExplicitConfig(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "nope.yaml"), "", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestCommands_QuietAtInfoLevel(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := "database:\n  path: \"" + filepath.Join(dir, "tasks.db") + "\"\n" +
		"logging:\n  level: info\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	for _, args := range [][]string{{"add", "quiet"}, {"list"}, {"done", "1"}} {
		cmd := newRootCmd("test")
		var out, errOut bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs(append([]string{"--config", configPath}, args...))

		require.NoError(t, cmd.ExecuteContext(context.Background()))
		assert.Empty(t, errOut.String(), "stderr of %v", args)
	}
}

func TestSetupLogger(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	logger := setupLogger(config.LoggingConfig{Level: "warn", Format: "text"}, &buf)
	logger.Info("hidden")
	logger.With("component", "test").WithGroup("g").Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WRN shown")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "g.k=v")

	buf.Reset()
	logger = setupLogger(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)
	logger.Debug("structured", "n", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "structured", rec["msg"])
	assert.Equal(t, "DEBUG", rec["level"])
}
