//go:build unix

package supervisor

import (
	"os/exec"
	"syscall"
	"time"

	"github.com/extractcli/extractcli/pkg/constants"
)

// gracefulShutdown sends SIGTERM and waits up to constants.GracefulShutdownGrace
// for the child to exit; on timeout it escalates to SIGKILL and waits
// unconditionally so the child is always reaped (spec §4.A "Graceful
// shutdown", Unix path).
//
// The grace-period wait is implemented as an async wait-for-exit wrapped in
// a timeout, not a blocking sleep (spec §9): if the child exits the instant
// SIGTERM is delivered, shutdown returns immediately rather than always
// paying the full grace period.
func gracefulShutdown(cmd *exec.Cmd, waitDone <-chan error) error {
	pid := cmd.Process.Pid

	var signalErr error
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		signalErr = &SignalFailedError{Signal: "SIGTERM", Pid: pid, Reason: err}
	}

	select {
	case <-waitDone:
		return signalErr
	case <-time.After(constants.GracefulShutdownGrace):
	}

	if err := cmd.Process.Kill(); err != nil {
		// A kill failing (e.g. already exited) is a secondary detail; the
		// subsequent <-waitDone still reaps the process.
		signalErr = &SignalFailedError{Signal: "SIGKILL", Pid: pid, Reason: err}
	}
	<-waitDone
	return signalErr
}
