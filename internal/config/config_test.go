package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Journal.Enabled)

	size, err := cfg.ChunkSizeBytes()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carton.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 3\nchunk_size: 64KiB\nlog:\n  level: debug\n"), 0o644))

	t.Setenv("CARTON_LOG_FORMAT", "json")
	t.Setenv("CARTON_WORKERS", "5")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Workers, "env overrides file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	size, err := cfg.ChunkSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(64*1024), size)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "carton.toml")
	require.NoError(t, os.WriteFile(path, []byte("workers = 0\n"), 0o644))
	_, err = Load(viper.New(), path)
	assert.ErrorContains(t, err, "workers")
}

func TestChunkSizeBytes(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "4096", want: 4096},
		{in: "1MB", want: 1_000_000},
		{in: "1MiB", want: 1 << 20},
		{in: "0", wantErr: true},
		{in: "lots", wantErr: true},
	} {
		got, err := (&Config{ChunkSize: tc.in}).ChunkSizeBytes()
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
