package cmd

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTranscribeFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "transcribe"}
	addTranscribeFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestTranscribeOptions(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantDays  int
		wantID    *uint
		randomize bool
		wantErr   bool
	}{
		{"config window", nil, 7, nil, true, false},
		{"explicit window", []string{"--days", "30"}, 30, nil, true, false},
		{"all episodes", []string{"--days", "0"}, 0, nil, true, false},
		{"one channel in order", []string{"--channel", "3", "--no-shuffle"}, 7, ptr(uint(3)), false, false},
		{"negative window", []string{"--days", "-2"}, 0, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := transcribeOptions(parseTranscribeFlags(t, tt.args...), 7)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDays, opts.WindowDays)
			assert.Equal(t, tt.wantID, opts.ChannelID)
			assert.Equal(t, tt.randomize, opts.Randomize)
		})
	}
}

func TestScheduleUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan struct{})

	go func() {
		scheduleUpdates(ctx, 5*time.Millisecond, func() error {
			if calls.Add(1) == 1 {
				return errors.New("pool busy")
			}
			return nil
		})
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond,
		"a failing enqueue does not stop the schedule")
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestFormatOffset(t *testing.T) {
	assert.Equal(t, "0:00:00", formatOffset(0))
	assert.Equal(t, "0:01:05", formatOffset(65.9))
	assert.Equal(t, "1:02:03", formatOffset(3723))
}

func TestServeCommandFlags(t *testing.T) {
	serve, _, err := NewRootCmd().Find([]string{"serve"})
	require.NoError(t, err)

	for _, name := range []string{"host", "port", "update-every"} {
		assert.NotNil(t, serve.Flags().Lookup(name), name)
	}
}

func ptr[T any](v T) *T {
	return &v
}
