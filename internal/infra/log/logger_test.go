package logs

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"ratehub/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TagsRecordsWithServiceAttributes(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.Env = "test"
	cfg.Env.ServiceName = "ratehub"
	cfg.Env.Log.Level = "info"
	cfg.Env.Log.Pretty = true

	read, write, err := os.Pipe()
	require.NoError(t, err)

	origStdout := os.Stdout
	os.Stdout = write
	defer func() { os.Stdout = origStdout }()

	logger, err := New(Params{Config: cfg})
	require.NoError(t, err)

	logger.Info("startup complete")
	require.NoError(t, write.Close())
	os.Stdout = origStdout

	out, err := io.ReadAll(read)
	require.NoError(t, err)

	assert.Contains(t, string(out), "startup complete")
	assert.Contains(t, string(out), "service=ratehub")
	assert.Contains(t, string(out), "env=test")
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.Log.Level = "verbose"

	_, err := New(Params{Config: cfg})
	require.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"Error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			level, err := parseLogLevel(tc.input)
			if tc.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, level)
		})
	}
}
