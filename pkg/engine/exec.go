package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/gvlayout/pkg/errors"
)

// DefaultWaitDelay bounds how long pipes stay open after the context is
// done, for engines whose children keep the output pipes alive.
const DefaultWaitDelay = 2 * time.Second

// maxStderrInError caps the diagnostic text copied into error messages.
const maxStderrInError = 512

// Exec runs an external Graphviz binary.
type Exec struct {
	Binary     string        // Path or name looked up in PATH
	Format     string        // Output format passed as -T; DefaultFormat when empty
	StrictExit bool          // Treat every non-zero exit as an error
	WaitDelay  time.Duration // DefaultWaitDelay when zero
	Env        []string      // Extra KEY=VALUE entries appended to the environment
}

// Name returns "exec:<binary>:-T<format>".
func (e *Exec) Name() string {
	return "exec:" + e.Binary + ":-T" + e.format()
}

func (e *Exec) format() string {
	if e.Format == "" {
		return DefaultFormat
	}
	return e.Format
}

func (e *Exec) waitDelay() time.Duration {
	if e.WaitDelay <= 0 {
		return DefaultWaitDelay
	}
	return e.WaitDelay
}

// Run launches the binary, streams doc to it and collects its output.
func (e *Exec) Run(ctx context.Context, doc []byte) (*Output, error) {
	if err := errs.ValidateBinary(e.Binary); err != nil {
		return nil, err
	}
	if err := errs.ValidateFormat(e.format()); err != nil {
		return nil, err
	}
	if err := contextError(ctx, e.Binary); err != nil {
		return nil, err
	}

	start := time.Now()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.Binary, "-T"+e.format())
	cmd.WaitDelay = e.waitDelay()
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}

	g, err := startGuarded(cmd)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeLaunch, err, "start %s", e.Binary)
	}
	defer g.release()

	// exec kills the process when runCtx is done; pipes held open by its
	// children are closed after the wait delay.
	stopWatch := context.AfterFunc(runCtx, func() {
		time.AfterFunc(e.waitDelay(), g.closePipes)
	})
	defer stopWatch()

	var stdout, stderr bytes.Buffer
	var eg errgroup.Group
	eg.Go(func() error {
		_, err := g.stdin.Write(doc)
		if cerr := g.stdin.Close(); err == nil {
			err = cerr
		}
		if err != nil && !isBrokenPipe(err) {
			cancel()
			return fmt.Errorf("write document: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		if _, err := io.Copy(&stdout, g.stdout); err != nil {
			cancel()
			return fmt.Errorf("read output: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		if _, err := io.Copy(&stderr, g.stderr); err != nil {
			cancel()
			return fmt.Errorf("read diagnostics: %w", err)
		}
		return nil
	})
	ioErr := eg.Wait()
	waitErr := g.wait()

	out := &Output{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	if err := contextError(ctx, e.Binary); err != nil {
		return out, err
	}
	if ioErr != nil {
		return out, errs.Wrap(errs.ErrCodeIO, ioErr, "stream %s", e.Binary)
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) {
		return out, errs.Wrap(errs.ErrCodeIO, waitErr, "wait for %s", e.Binary)
	}

	if out.ExitCode != 0 {
		if e.StrictExit || len(bytes.TrimSpace(out.Stdout)) == 0 {
			cause := &errs.ExitError{Status: out.ExitCode, Stderr: truncate(out.Stderr, maxStderrInError)}
			return out, errs.Wrap(errs.ErrCodeEngineExit, cause, "%s failed", e.Binary)
		}
		out.Warnings = append(out.Warnings, fmt.Sprintf("engine exited with status %d", out.ExitCode))
	}
	return out, nil
}

// contextError maps a finished context to TIMEOUT or CANCELED.
func contextError(ctx context.Context, name string) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return errs.Wrap(errs.ErrCodeTimeout, err, "%s did not finish before the deadline", name)
	default:
		return errs.Wrap(errs.ErrCodeCanceled, err, "%s canceled", name)
	}
}

// isBrokenPipe reports whether err means the engine stopped reading stdin.
// The engine's exit status then says what went wrong.
func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed)
}

func truncate(b []byte, n int) string {
	b = bytes.TrimSpace(b)
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ Engine = (*Exec)(nil)
