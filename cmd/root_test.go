package cmd

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantErr        bool
		expectedOutput string
	}{
		{
			name:           "root command without args shows help",
			args:           []string{},
			expectedOutput: "semantic search over podcast transcripts",
		},
		{
			name:           "root command with --help",
			args:           []string{"--help"},
			expectedOutput: "Available Commands:",
		},
		{
			name:    "root command with invalid flag",
			args:    []string{"--invalid-flag"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.expectedOutput != "" && !strings.Contains(buf.String(), tt.expectedOutput) {
				t.Errorf("Expected output to contain %q, got %q", tt.expectedOutput, buf.String())
			}
		})
	}
}

func TestLogFlags(t *testing.T) {
	cmd := NewRootCmd()

	logFlag := cmd.PersistentFlags().Lookup("log-level")
	if logFlag == nil {
		t.Fatal("Expected log-level flag to be registered")
	}
	if logFlag.DefValue != "info" {
		t.Errorf("Expected default log-level to be 'info', got %s", logFlag.DefValue)
	}

	if cmd.PersistentFlags().Lookup("json-logs") == nil {
		t.Error("Expected json-logs flag to be registered")
	}
	if cmd.PersistentFlags().Lookup("config") == nil {
		t.Error("Expected config flag to be registered")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, path := range [][]string{
		{"serve"},
		{"channels", "add"},
		{"channels", "add-defaults"},
		{"channels", "add-local"},
		{"channels", "update"},
		{"channels", "list"},
		{"channels", "delete"},
		{"transcribe"},
		{"reconcile"},
		{"index"},
		{"query"},
		{"version"},
	} {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			found, _, err := NewRootCmd().Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], found.Name())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	logger, err := newLogger(buf, "warn", true)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "component", "test")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"component":"test"`)

	_, err = newLogger(buf, "loud", false)
	assert.Error(t, err)
}
