// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/stagehand/stagehand/internal/issue"
)

// runTerminal runs inv on a pseudo-terminal. The runner's stdin is
// forwarded into the terminal while the child runs and everything the
// child writes is echoed verbatim to the runner's stdout.
func (r *Runner) runTerminal(ctx context.Context, inv *Invocation) (err error) {
	cmd := r.command(ctx, inv)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return issue.IOFailure("spawn "+inv.program+" on a pseudo-terminal", err)
	}

	done := make(chan struct{})
	stopInput := sync.OnceFunc(func() { close(done) })
	var forwarding sync.WaitGroup
	defer func() {
		stopInput()
		if closeErr := ptmx.Close(); closeErr != nil && err == nil {
			err = issue.IOFailure("close pseudo-terminal", closeErr)
		}
		forwarding.Wait()
	}()

	if f, ok := r.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_ = pty.InheritSize(f, ptmx)
		if state, rawErr := term.MakeRaw(int(f.Fd())); rawErr == nil {
			defer func() { _ = term.Restore(int(f.Fd()), state) }()
		}
	}

	if r.input != nil {
		forwarding.Add(1)
		go func() {
			defer forwarding.Done()
			r.input.forward(ptmx, done)
		}()
	}

	out := r.stdout
	if out == nil {
		out = io.Discard
	}
	_, copyErr := io.Copy(out, ptmx)
	stopInput()
	if terminalClosed(copyErr) {
		copyErr = nil
	}

	if err = failure(inv, cmd.Wait()); err != nil {
		return err
	}
	if copyErr != nil {
		return issue.IOFailure("read output of "+inv.program, copyErr)
	}
	return nil
}

// terminalClosed reports whether err is how Linux signals that the child
// side of a pseudo-terminal has gone away.
func terminalClosed(err error) bool {
	return err == nil || errors.Is(err, unix.EIO) || errors.Is(err, os.ErrClosed)
}
