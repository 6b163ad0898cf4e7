package playback

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
)

// DefaultCommand plays audio through mpv without a window.
var DefaultCommand = []string{"mpv", "--no-video", "--really-quiet"}

// ExecBackend plays a clip by running an external player with the clip URL
// as its last argument.
type ExecBackend struct {
	command []string
}

// NewExecBackend returns a backend for command, or DefaultCommand when empty.
func NewExecBackend(command []string) *ExecBackend {
	if len(command) == 0 {
		command = DefaultCommand
	}
	return &ExecBackend{command: command}
}

// Start launches the player.
func (b *ExecBackend) Start(ctx context.Context, url string) (Clip, error) {
	if url == "" {
		return nil, fmt.Errorf("empty clip url")
	}
	path, err := exec.LookPath(b.command[0])
	if err != nil {
		return nil, fmt.Errorf("player %q: %w", b.command[0], err)
	}

	args := append(append([]string{}, b.command[1:]...), url)
	cmd := exec.CommandContext(ctx, path, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start player: %w", err)
	}

	clip := &processClip{cmd: cmd, done: make(chan error, 1)}
	go func() {
		clip.done <- cmd.Wait()
		close(clip.done)
	}()
	return clip, nil
}

type processClip struct {
	cmd  *exec.Cmd
	done chan error
	once sync.Once
}

func (p *processClip) Done() <-chan error { return p.done }

func (p *processClip) Stop() error {
	var err error
	p.once.Do(func() {
		err = p.cmd.Process.Kill()
	})
	return err
}
