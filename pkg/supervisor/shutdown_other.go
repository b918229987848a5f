//go:build !unix

package supervisor

import "os/exec"

// gracefulShutdown on non-Unix platforms issues an immediate forceful
// termination and waits for reap (spec §4.A "Graceful shutdown", "Other
// platforms" path).
func gracefulShutdown(cmd *exec.Cmd, waitDone <-chan error) error {
	var signalErr error
	if err := cmd.Process.Kill(); err != nil {
		signalErr = &SignalFailedError{Signal: "KILL", Pid: cmd.Process.Pid, Reason: err}
	}
	<-waitDone
	return signalErr
}
