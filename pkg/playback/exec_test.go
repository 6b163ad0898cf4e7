package playback

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecBackend_NaturalEnd(t *testing.T) {
	requireShell(t)
	b := NewExecBackend([]string{"sh", "-c", "exit 0", "sh"})

	clip, err := b.Start(context.Background(), "https://example.com/a.mp3")
	require.NoError(t, err)

	select {
	case err := <-clip.Done():
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("player did not exit")
	}
}

func TestExecBackend_Stop(t *testing.T) {
	requireShell(t)
	b := NewExecBackend([]string{"sh", "-c", "sleep 30", "sh"})

	clip, err := b.Start(context.Background(), "https://example.com/a.mp3")
	require.NoError(t, err)
	require.NoError(t, clip.Stop())

	select {
	case err := <-clip.Done():
		assert.Error(t, err, "killed process reports a non-nil exit")
	case <-time.After(5 * time.Second):
		t.Fatal("player was not stopped")
	}
}

func TestExecBackend_Errors(t *testing.T) {
	_, err := NewExecBackend([]string{"definitely-not-a-player-binary"}).Start(context.Background(), "x.mp3")
	require.Error(t, err)

	_, err = NewExecBackend(nil).Start(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, DefaultCommand, NewExecBackend(nil).command)
}
