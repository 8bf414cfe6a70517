// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stagehand/stagehand/internal/issue"
)

type (
	// Runner spawns Invocations. The zero value is not usable; build one
	// with NewRunner.
	Runner struct {
		log    *log.Logger
		stdin  io.Reader
		stdout io.Writer
		input  *inputPump
	}

	// RunnerOption configures a Runner.
	RunnerOption func(*Runner)

	// CommandFailedError reports a child process that exited with a
	// nonzero status. It wraps issue.ErrCommandFailed.
	CommandFailedError struct {
		Program     string
		Args        []string
		Description string
		ExitCode    ExitCode
	}
)

// Error implements the error interface.
func (e *CommandFailedError) Error() string {
	cmdline := e.Program
	if len(e.Args) > 0 {
		cmdline += " " + strings.Join(e.Args, " ")
	}
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s: %q was terminated by a signal", issue.ErrCommandFailed, cmdline)
	}
	return fmt.Sprintf("%s: %q exited with code %s", issue.ErrCommandFailed, cmdline, e.ExitCode)
}

// Unwrap returns issue.ErrCommandFailed.
func (e *CommandFailedError) Unwrap() error { return issue.ErrCommandFailed }

// WithLogger sets the logger that receives command output and markers.
func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithStdin sets the reader forwarded to interactive invocations.
func WithStdin(in io.Reader) RunnerOption {
	return func(r *Runner) { r.stdin = in }
}

// WithStdout sets the writer interactive invocations echo to.
func WithStdout(out io.Writer) RunnerOption {
	return func(r *Runner) { r.stdout = out }
}

// NewRunner creates a Runner. Without options it logs through
// log.Default() and attaches interactive children to os.Stdin/os.Stdout.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		log:    log.Default(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.stdin != nil {
		r.input = newInputPump(r.stdin)
	}
	return r
}

// Logger returns the runner's logger.
func (r *Runner) Logger() *log.Logger { return r.log }

// Stdin returns the reader other consumers of the runner's stdin, such as
// a yes/no prompt, must read from. It shares one reader with interactive
// invocations so that no input is lost between them.
func (r *Runner) Stdin() io.Reader {
	if r.input == nil {
		return strings.NewReader("")
	}
	return r.input
}

// Run executes inv and logs each line of its merged stdout/stderr as it is
// produced. It blocks until the child exits.
func (r *Runner) Run(ctx context.Context, inv *Invocation) error {
	if err := inv.consume(); err != nil {
		return err
	}

	done := r.begin(inv)
	var err error
	if inv.interactive && inv.input == nil {
		err = r.runTerminal(ctx, inv)
	} else {
		err = r.runStream(ctx, inv)
	}
	done(err)
	return err
}

// Output executes inv and returns its merged stdout/stderr.
func (r *Runner) Output(ctx context.Context, inv *Invocation) (string, error) {
	if err := inv.consume(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	cmd := r.command(ctx, inv)
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := cmd.Start(); err != nil {
		return "", issue.IOFailure("spawn "+inv.program, err)
	}
	if err := failure(inv, cmd.Wait()); err != nil {
		return buf.String(), err
	}
	return buf.String(), nil
}

// ToFile executes inv, logs its stderr, and writes its stdout to path.
// When the command prints nothing on stdout the destination is left
// untouched and the error wraps issue.ErrEmptyCommandOutput.
func (r *Runner) ToFile(ctx context.Context, inv *Invocation, path string) error {
	if err := inv.consume(); err != nil {
		return err
	}

	done := r.begin(inv)
	err := r.toFile(ctx, inv, path)
	done(err)
	return err
}

func (r *Runner) toFile(ctx context.Context, inv *Invocation, path string) error {
	var stdout bytes.Buffer
	stderr := &lineLogger{log: r.log, program: inv.program}

	cmd := r.command(ctx, inv)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return issue.IOFailure("spawn "+inv.program, err)
	}
	waitErr := cmd.Wait()
	stderr.Flush()
	if err := failure(inv, waitErr); err != nil {
		return err
	}

	if stdout.Len() == 0 {
		return fmt.Errorf("%w: %s (destination %s left untouched)", issue.ErrEmptyCommandOutput, inv, path)
	}
	return WriteFileAtomic(path, stdout.Bytes(), 0o644)
}

func (r *Runner) runStream(ctx context.Context, inv *Invocation) error {
	pr, pw, err := os.Pipe()
	if err != nil {
		return issue.IOFailure("create output pipe", err)
	}

	cmd := r.command(ctx, inv)
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err = cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return issue.IOFailure("spawn "+inv.program, err)
	}
	// The child holds its own copy of the write end.
	_ = pw.Close()

	drainErr := r.logLines(inv.program, pr)
	_ = pr.Close()
	waitErr := cmd.Wait()

	if err = failure(inv, waitErr); err != nil {
		return err
	}
	if drainErr != nil {
		return issue.IOFailure("read output of "+inv.program, drainErr)
	}
	return nil
}

// command builds the exec.Cmd shared by every mode. The environment is
// copied explicitly at spawn time so that variables set by earlier tasks
// reach the child.
func (r *Runner) command(ctx context.Context, inv *Invocation) *exec.Cmd {
	cmd := exec.CommandContext(ctx, inv.program, inv.args...)
	cmd.Env = os.Environ()
	cmd.Dir = inv.dir
	if inv.input != nil {
		cmd.Stdin = bytes.NewReader(inv.input)
	}
	return cmd
}

func (r *Runner) logLines(program string, src io.Reader) error {
	br := bufio.NewReader(src)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			r.logLine(program, line)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (r *Runner) logLine(program, line string) {
	r.log.Info(strings.TrimRight(line, "\r\n"), "cmd", program)
}

// begin logs the start marker of a described invocation and returns the
// matching completion callback.
func (r *Runner) begin(inv *Invocation) func(error) {
	if inv.description == "" {
		return func(error) {}
	}
	r.log.Info("start", "step", inv.description)
	started := time.Now()
	return func(err error) {
		if err != nil {
			r.log.Debug("failed", "step", inv.description, "elapsed", time.Since(started).Round(time.Millisecond))
			return
		}
		r.log.Info("done", "step", inv.description, "elapsed", time.Since(started).Round(time.Millisecond))
	}
}

// failure converts the result of cmd.Wait into the runner's error model.
func failure(inv *Invocation, waitErr error) error {
	if waitErr == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return &CommandFailedError{
			Program:     inv.program,
			Args:        inv.Args(),
			Description: inv.description,
			ExitCode:    ExitCode(exitErr.ExitCode()),
		}
	}
	return issue.IOFailure("wait for "+inv.program, waitErr)
}

// WriteFileAtomic writes data to a temporary file in the destination
// directory and renames it over path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return issue.IOFailure("create temporary file in "+dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return issue.IOFailure("write "+tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return issue.IOFailure("sync "+tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return issue.IOFailure("close "+tmpName, err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return issue.IOFailure("chmod "+tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return issue.IOFailure("rename "+tmpName+" to "+path, err)
	}
	return nil
}

// lineLogger is an io.Writer that logs complete lines.
type lineLogger struct {
	log     *log.Logger
	program string
	partial []byte
}

func (w *lineLogger) Write(p []byte) (int, error) {
	w.partial = append(w.partial, p...)
	for {
		i := bytes.IndexByte(w.partial, '\n')
		if i < 0 {
			break
		}
		w.log.Info(strings.TrimRight(string(w.partial[:i]), "\r"), "cmd", w.program)
		w.partial = w.partial[i+1:]
	}
	return len(p), nil
}

// Flush logs a trailing line without a newline.
func (w *lineLogger) Flush() {
	if len(w.partial) > 0 {
		w.log.Info(strings.TrimRight(string(w.partial), "\r"), "cmd", w.program)
		w.partial = nil
	}
}
