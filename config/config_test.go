package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/framereel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FRAMEREEL_WORKERS", "FRAMEREEL_FFMPEG", "FRAMEREEL_DATA_DIR", "FRAMEREEL_LEDGER"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{"frames/*.jpg"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "frames/*.jpg", cfg.Images)
	assert.Equal(t, "out", cfg.Prefix)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
	assert.Equal(t, 60.0, cfg.FPS)
	assert.Equal(t, "jpg", cfg.Ext)
	assert.Equal(t, 0, cfg.FramesPerVideo)
	assert.Equal(t, 0, cfg.Start)
	assert.Equal(t, 0, cfg.End)
	assert.Equal(t, 6, cfg.Workers)
	assert.Equal(t, 4, cfg.Pad)
	assert.Equal(t, LedgerNone, cfg.Ledger)
	assert.False(t, cfg.Strict)
}

func TestLoad_Flags(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{
		"--prefix", "clips/run", "--width", "1280", "--height=720", "--fps", "29.97",
		"--ext", "png", "--fpv", "10", "--start", "5", "--end", "3", "-j", "2", "-p", "6",
		"--ledger", "sqlite", "-v", "frames/*.png",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "clips/run", cfg.Prefix)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, 29.97, cfg.FPS)
	assert.Equal(t, "png", cfg.Ext)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 6, cfg.Pad)
	assert.Equal(t, LedgerSQLite, cfg.Ledger)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, domain.PoolConfig{GroupSize: 10, WorkerLimit: 2, WindowStart: 5, WindowCount: 3, Pad: 6}, cfg.Pool())
}

func TestLoad_FlagsAfterPositional(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{"frames/*.jpg", "--fpv", "10", "--workers", "3"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "frames/*.jpg", cfg.Images)
	assert.Equal(t, 10, cfg.FramesPerVideo)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("FRAMEREEL_WORKERS", "12")
	t.Setenv("FRAMEREEL_LEDGER", "json")

	cfg, err := Load([]string{"x/*.jpg"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Workers)
	assert.Equal(t, LedgerJSON, cfg.Ledger)

	cfg, err = Load([]string{"-j", "1", "x/*.jpg"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Workers, "flags override environment")
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("FRAMEREEL_WORKERS", "many")

	_, err := Load([]string{"x/*.jpg"}, io.Discard)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "FRAMEREEL_WORKERS")
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "framereel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
images: "shots/*.jpg"
prefix: shot
fpv: 120
fps: 24
workers: 4
pad: 3
`), 0600))

	t.Run("file values", func(t *testing.T) {
		cfg, err := Load([]string{"--config", path}, io.Discard)
		require.NoError(t, err)

		assert.Equal(t, "shots/*.jpg", cfg.Images)
		assert.Equal(t, "shot", cfg.Prefix)
		assert.Equal(t, 120, cfg.FramesPerVideo)
		assert.Equal(t, 24.0, cfg.FPS)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, 3, cfg.Pad)
		assert.Equal(t, 800, cfg.Width, "unset keys keep defaults")
	})

	t.Run("flags override file", func(t *testing.T) {
		cfg, err := Load([]string{"--config=" + path, "--fpv", "60", "other/*.jpg"}, io.Discard)
		require.NoError(t, err)

		assert.Equal(t, 60, cfg.FramesPerVideo)
		assert.Equal(t, "other/*.jpg", cfg.Images)
		assert.Equal(t, "shot", cfg.Prefix)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}, io.Discard)

		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("workers: [1, 2"), 0600))

		_, err := Load([]string{"--config", bad}, io.Discard)

		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}

func TestLoad_Help(t *testing.T) {
	_, err := Load([]string{"-h"}, io.Discard)

	assert.ErrorIs(t, err, ErrHelp)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{name: "missing images", args: []string{}, errMsg: "images glob is required"},
		{name: "two positionals", args: []string{"a/*.jpg", "b/*.jpg"}, errMsg: "expected one images glob"},
		{name: "zero width", args: []string{"--width", "0", "x/*.jpg"}, errMsg: "resolution must be positive"},
		{name: "negative fps", args: []string{"--fps", "-1", "x/*.jpg"}, errMsg: "fps must be positive"},
		{name: "NaN fps", args: []string{"--fps", "NaN", "x/*.jpg"}, errMsg: "fps must be positive"},
		{name: "infinite fps", args: []string{"--fps", "+Inf", "x/*.jpg"}, errMsg: "fps must be positive"},
		{name: "oversized pad", args: []string{"--pad", "2000000", "x/*.jpg"}, errMsg: "pad must not exceed"},
		{name: "bad ext", args: []string{"--ext", "gif", "x/*.gif"}, errMsg: "unsupported ext"},
		{name: "negative fpv", args: []string{"--fpv", "-5", "x/*.jpg"}, errMsg: "frames per video must not be negative"},
		{name: "zero workers", args: []string{"-j", "0", "x/*.jpg"}, errMsg: "workers must be positive"},
		{name: "negative start", args: []string{"--start", "-1", "x/*.jpg"}, errMsg: "start must not be negative"},
		{name: "unknown ledger", args: []string{"--ledger", "postgres", "x/*.jpg"}, errMsg: "unknown ledger"},
		{name: "empty prefix", args: []string{"--prefix", "", "x/*.jpg"}, errMsg: "prefix must not be empty"},
		{name: "unknown flag", args: []string{"--bogus", "x/*.jpg"}, errMsg: "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.args, io.Discard)

			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfigFileArg(t *testing.T) {
	assert.Equal(t, "a.yaml", configFileArg([]string{"--config", "a.yaml"}))
	assert.Equal(t, "b.yaml", configFileArg([]string{"x", "-config=b.yaml"}))
	assert.Equal(t, "", configFileArg([]string{"--", "--config", "c.yaml"}))
	assert.Equal(t, "", configFileArg([]string{"--config"}))
	assert.Equal(t, "", configFileArg([]string{"config", "d.yaml"}))
}
