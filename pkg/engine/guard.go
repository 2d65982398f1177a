package engine

import (
	"io"
	"os/exec"
	"sync"
)

// guard owns a started process and its three pipes. release closes every
// pipe and, unless the process was already reaped, kills and reaps it. It is
// safe to call release more than once and from more than one goroutine.
type guard struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	mu      sync.Mutex
	started bool
	reaped  bool
	closed  sync.Once
}

// startGuarded wires the pipes of cmd and starts it. On error nothing is
// left open.
func startGuarded(cmd *exec.Cmd) (*guard, error) {
	g := &guard{cmd: cmd}
	var err error
	if g.stdin, err = cmd.StdinPipe(); err != nil {
		g.release()
		return nil, err
	}
	if g.stdout, err = cmd.StdoutPipe(); err != nil {
		g.release()
		return nil, err
	}
	if g.stderr, err = cmd.StderrPipe(); err != nil {
		g.release()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		g.release()
		return nil, err
	}
	g.started = true
	return g, nil
}

// wait reaps the process. Call only after both output pipes were drained.
func (g *guard) wait() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.reaped {
		return nil
	}
	g.reaped = true
	return g.cmd.Wait()
}

// closePipes unblocks any goroutine still reading or writing.
func (g *guard) closePipes() {
	g.closed.Do(func() {
		for _, c := range []io.Closer{g.stdin, g.stdout, g.stderr} {
			if c != nil {
				_ = c.Close()
			}
		}
	})
}

func (g *guard) release() {
	g.closePipes()

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.started || g.reaped {
		return
	}
	_ = g.cmd.Process.Kill()
	_ = g.cmd.Wait()
	g.reaped = true
}
