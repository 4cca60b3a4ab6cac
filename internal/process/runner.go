package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

const (
	defaultCaptureMaxBytes = 1 << 20
	defaultTermGrace       = 2 * time.Second
)

// Command is a fully resolved program invocation.
type Command struct {
	Program string
	Args    Arguments
	Dir     string
	// Timeout of zero means no limit.
	Timeout time.Duration
}

// Result is the outcome of a finished program.
type Result struct {
	ExitCode  int
	Output    string
	Truncated bool
	TimedOut  bool
}

// Successful reports whether the program exited with status 0 in time.
func (r Result) Successful() bool {
	return r.ExitCode == 0 && !r.TimedOut
}

// Runner executes a command and blocks until it has finished.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec, capturing stdout and stderr into a
// single buffer in the order they are written.
type ExecRunner struct {
	CaptureMaxBytes int
	TermGrace       time.Duration
}

// NewExecRunner returns an ExecRunner with default capture and grace limits.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{CaptureMaxBytes: defaultCaptureMaxBytes, TermGrace: defaultTermGrace}
}

type limitedBuffer struct {
	max       int
	buf       bytes.Buffer
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if b.max <= 0 {
		return n, nil
	}
	remain := b.max - b.buf.Len()
	if remain > 0 {
		if remain > len(p) {
			remain = len(p)
		}
		_, _ = b.buf.Write(p[:remain])
	}
	if len(p) > remain {
		b.truncated = true
	}
	return n, nil
}

func (b *limitedBuffer) String() string { return b.buf.String() }

// Run starts cmd and waits for it. A non-zero exit is reported in the Result,
// not as an error; errors are reserved for programs that could not run.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	if c.Program == "" {
		return Result{}, errors.New("missing program")
	}
	cmd := exec.Command(c.Program, c.Args...)
	cmd.Dir = c.Dir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Same writer for both streams: os/exec serialises the writes.
	out := &limitedBuffer{max: r.CaptureMaxBytes}
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		var ee *exec.Error
		if errors.As(err, &ee) {
			return Result{ExitCode: -1}, fmt.Errorf("program %s not found: %w", c.Program, err)
		}
		return Result{ExitCode: -1}, fmt.Errorf("program %s start failed: %w", c.Program, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var deadline <-chan time.Time
	if c.Timeout > 0 {
		timer := time.NewTimer(c.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	var runErr error
	timedOut := false
	select {
	case runErr = <-done:
	case <-deadline:
		timedOut = true
		runErr = r.terminate(cmd, done)
	case <-ctx.Done():
		_ = r.terminate(cmd, done)
		return Result{ExitCode: -1, Output: out.String(), Truncated: out.truncated}, ctx.Err()
	}

	res := Result{Output: out.String(), Truncated: out.truncated, TimedOut: timedOut}
	if timedOut {
		res.ExitCode = -2
		return res, nil
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, fmt.Errorf("program %s execution failed: %w", c.Program, runErr)
	}
	return res, nil
}

// terminate sends SIGTERM to the process group, then SIGKILL after the grace period.
func (r *ExecRunner) terminate(cmd *exec.Cmd, done <-chan error) error {
	signalProcess(cmd, syscall.SIGTERM)
	grace := time.NewTimer(r.TermGrace)
	defer grace.Stop()
	select {
	case err := <-done:
		return err
	case <-grace.C:
		signalProcess(cmd, syscall.SIGKILL)
		return <-done
	}
}

func signalProcess(cmd *exec.Cmd, sig syscall.Signal) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	pid := cmd.Process.Pid
	if pid > 0 {
		if err := syscall.Kill(-pid, sig); err == nil {
			return
		}
	}
	_ = cmd.Process.Signal(sig)
}
