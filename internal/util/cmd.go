package util

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// CmdSpec describes a subprocess to run.
type CmdSpec struct {
	Path    string   // Binary path
	Args    []string // Arguments
	Env     []string // Optional environment variables (KEY=VALUE). If nil, inherit.
	Dir     string   // Working directory; empty = inherit.
	Verbose bool     // Echo the command line and stream stdout/stderr while capturing

	StdoutLine    func(string) // Called for each stdout line (if non-nil)
	StderrLine    func(string) // Called for each stderr line (if non-nil)
	CaptureStdout bool         // When false and StdoutLine is set, stdout is not buffered
}

// CmdResult contains captured output and exit status.
// Code is -1 when the process could not be started.
type CmdResult struct {
	Stdout []byte
	Stderr []byte
	Code   int
	Err    error
}

// CmdRunner runs external commands. The pipeline depends on this
// interface so tests can simulate yt-dlp and ffmpeg.
type CmdRunner interface {
	Run(ctx context.Context, spec CmdSpec) (CmdResult, error)
}

// StartError reports that a command could not be spawned at all.
type StartError struct {
	Path string
	Err  error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Path, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }

// ExitStatusError reports that a command ran but did not exit cleanly.
type ExitStatusError struct {
	Path   string
	Code   int    // -1 when killed by a signal or context cancellation
	Stderr string // tail of stderr for diagnostics
	Err    error
}

func (e *ExitStatusError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Path, e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExitStatusError) Unwrap() error { return e.Err }

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Stdout and Stderr receive verbose streaming; nil means os.Stdout / os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// NewDefaultRunner returns an ExecRunner bound to the process's stdio.
func NewDefaultRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command, optionally streaming output if Verbose is true.
// It always captures stderr. On failure the returned error is a *StartError
// or an *ExitStatusError, and CmdResult.Code is populated.
func (r *ExecRunner) Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	outW, errW := r.writers()
	var stdoutBuf, stderrBuf bytes.Buffer

	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	if spec.Env != nil {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return startFailure(spec.Path, err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return startFailure(spec.Path, err)
	}

	if spec.Verbose {
		fmt.Fprintf(errW, "+ %s\n", ShellQuote(spec.Path, spec.Args))
	}

	if err := cmd.Start(); err != nil {
		return startFailure(spec.Path, err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		capture := spec.CaptureStdout || spec.StdoutLine == nil
		scanLines(stdoutPipe, func(line string) {
			if spec.StdoutLine != nil {
				spec.StdoutLine(line)
			}
			if spec.Verbose {
				fmt.Fprintln(outW, line)
			}
			if capture {
				stdoutBuf.WriteString(line)
				stdoutBuf.WriteByte('\n')
			}
		})
	}()
	go func() {
		defer wg.Done()
		scanLines(stderrPipe, func(line string) {
			if spec.StderrLine != nil {
				spec.StderrLine(line)
			}
			if spec.Verbose {
				fmt.Fprintln(errW, line)
			}
			stderrBuf.WriteString(line)
			stderrBuf.WriteByte('\n')
		})
	}()

	// Readers must drain before Wait closes the pipes.
	wg.Wait()
	waitErr := cmd.Wait()

	res := CmdResult{
		Stdout: stdoutBuf.Bytes(),
		Stderr: stderrBuf.Bytes(),
	}
	if waitErr == nil {
		return res, nil
	}

	res.Code = -1
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		res.Code = exitErr.ExitCode()
	}
	res.Err = &ExitStatusError{
		Path:   spec.Path,
		Code:   res.Code,
		Stderr: LastLines(string(res.Stderr), 3),
		Err:    waitErr,
	}
	return res, res.Err
}

func (r *ExecRunner) writers() (io.Writer, io.Writer) {
	out, errw := r.Stdout, r.Stderr
	if out == nil {
		out = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	return out, errw
}

func startFailure(path string, err error) (CmdResult, error) {
	se := &StartError{Path: path, Err: err}
	return CmdResult{Code: -1, Err: se}, se
}

// scanLines splits on both \n and \r so carriage-return progress bars
// arrive as separate lines.
func scanLines(r io.Reader, fn func(string)) {
	sc := bufio.NewScanner(r)
	const maxCapacity = 1024 * 1024
	sc.Buffer(make([]byte, 0, 64*1024), maxCapacity)
	sc.Split(splitCRLF)
	for sc.Scan() {
		fn(sc.Text())
	}
	// Keep draining after an oversized line so the child never blocks on a full pipe.
	if sc.Err() != nil {
		_, _ = io.Copy(io.Discard, r)
	}
}

func splitCRLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// LastLines returns the last n non-empty lines of s joined by "; ".
func LastLines(s string, n int) string {
	lines := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' })
	var kept []string
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			kept = append([]string{l}, kept...)
		}
	}
	return strings.Join(kept, "; ")
}

// ShellQuote returns a printable shell-like command string for logging.
func ShellQuote(path string, args []string) string {
	b := &strings.Builder{}
	b.WriteString(quote(path))
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(quote(a))
	}
	return b.String()
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n\"'\\$`(){}[]*&;|<>?!") {
		return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
	}
	return s
}
