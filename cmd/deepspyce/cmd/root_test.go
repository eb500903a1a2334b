package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Gianuzzi/DeepSpyce/pkg/array"
	"github.com/Gianuzzi/DeepSpyce/pkg/config"
	"github.com/Gianuzzi/DeepSpyce/pkg/di"
	"github.com/Gianuzzi/DeepSpyce/pkg/filterbank"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
)

// testWorkspace holds a config file whose archive lives in a temp dir.
type testWorkspace struct {
	dir        string
	configPath string
	config     *config.Config
}

func setupWorkspace(t *testing.T) *testWorkspace {
	t.Helper()
	SetContainer(di.NewContainer())

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Codec.Channels = 2
	cfg.Archive.Dir = filepath.Join(dir, "archive")
	cfg.Security.APIKey = "test-key"
	cfg.Logging.Level = "error"

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.SaveConfig(cfg, configPath))

	return &testWorkspace{dir: dir, configPath: configPath, config: cfg}
}

// run executes the command tree with the workspace config.
func (w *testWorkspace) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return execute(t, append([]string{"--config", w.configPath}, args...)...)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// writeFilterbank writes a two channel, three record file.
func (w *testWorkspace) writeFilterbank(t *testing.T, name string, h *header.Header) string {
	t.Helper()
	if h == nil {
		var err error
		h, err = header.FromPairs(
			"rawdatafile", name,
			"source_name", "vela",
			"nchans", 2,
			"tsamp", 0.000128,
		)
		require.NoError(t, err)
	}
	data, err := array.FromIntColumns([][]int64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)

	opts, err := w.config.ReadOptions()
	require.NoError(t, err)

	path, _, err := filterbank.Write(data, h, filterbank.WriteOptions{
		Options: opts,
		Outfile: filepath.Join(w.dir, name),
	})
	require.NoError(t, err)
	return path
}
