// Package tuitest drives a terminal program through a pseudo-terminal and
// records what it draws, for end-to-end tests of the interactive client.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 120
	defaultHeight  = 32
	defaultTimeout = 10 * time.Second
	defaultTerm    = "xterm-256color"
)

// Step is one scripted interaction. Delay elapses before Input is written.
type Step struct {
	Delay time.Duration
	Input []byte
}

// Wait pauses the script.
func Wait(d time.Duration) Step {
	return Step{Delay: d}
}

// Type writes s as typed keystrokes.
func Type(s string) Step {
	return Step{Input: []byte(s)}
}

// Press writes a control sequence such as KeyEnter.
func Press(key []byte) Step {
	return Step{Input: key}
}

// Drop writes path in a single write, the way a terminal delivers a file
// dragged onto it. The program sees one burst of runes.
func Drop(path string) Step {
	return Step{Input: []byte(path)}
}

// Config describes the program to start and the script to play against it.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if c.Height <= 0 {
		c.Height = defaultHeight
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// exitAccepted reports whether the program's exit status is one the caller
// expects.
func (c Config) exitAccepted(err error) bool {
	if err == nil {
		return true
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		for _, code := range c.AllowedExitCodes {
			if exitErr.ExitCode() == code {
				return true
			}
		}
	}
	return c.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt")
}

// Recording contains the raw terminal stream plus parsed frames.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// capture collects program output while answering terminal queries.
type capture struct {
	mu   sync.Mutex
	out  bytes.Buffer
	done chan struct{}
}

func startCapture(ptmx *os.File) *capture {
	c := &capture{done: make(chan struct{})}
	go func() {
		defer close(c.done)
		responder := newTerminalResponder(ptmx)
		buf := make([]byte, 4096)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				responder.Process(buf[:n])
				c.mu.Lock()
				c.out.Write(buf[:n])
				c.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
	return c
}

func (c *capture) bytes() []byte {
	<-c.done
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.out.Bytes()...)
}

// Run starts cfg.Command inside a PTY, plays the script, waits for the
// program to exit and returns everything it wrote to the terminal.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	cfg = cfg.withDefaults()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(cfg.Height), Cols: uint16(cfg.Width)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	output := startCapture(ptmx)
	start := time.Now()
	if err := play(ctx, ptmx, cfg.Steps); err != nil {
		return nil, err
	}

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()
	select {
	case err := <-exited:
		if !cfg.exitAccepted(err) {
			return nil, fmt.Errorf("tuitest: program exited with error: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}

	// Closing the PTY ends the capture goroutine.
	_ = ptmx.Close()
	raw := output.bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

func play(ctx context.Context, ptmx *os.File, steps []Step) error {
	for _, step := range steps {
		if step.Delay > 0 {
			timer := time.NewTimer(step.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("tuitest: context cancelled before script finished: %w", ctx.Err())
			case <-timer.C:
			}
		}
		if len(step.Input) == 0 {
			continue
		}
		if _, err := ptmx.Write(step.Input); err != nil {
			return fmt.Errorf("tuitest: write input: %w", err)
		}
	}
	return nil
}

func buildEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM="+defaultTerm)
}

var (
	// KeyEnter submits the prompt or the generation form.
	KeyEnter = []byte{'\r'}
	// KeyTab moves to the next form field.
	KeyTab = []byte{'\t'}
	// KeyRight cycles the academic level forward.
	KeyRight = []byte("\x1b[C")
	// KeyCtrlC quits.
	KeyCtrlC = []byte{3}
	// KeyEsc closes the file prompt.
	KeyEsc = []byte{27}
)
