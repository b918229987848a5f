// Package supervisor spawns a single CLI binary, streams its stdout/stderr
// through bounded queues, enforces an output-size cap and a wall-clock
// timeout, and shuts it down without leaking processes or goroutines (spec
// §4.A). It is general infrastructure: it knows nothing about MCP, schemas,
// or retries — those live in pkg/mcpserver, pkg/toolkit, and pkg/extract.
package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/extractcli/extractcli/internal/obslog"
	"github.com/extractcli/extractcli/pkg/constants"
	"github.com/sourcegraph/conc/pool"
)

var log = obslog.New("supervisor")

// LineDecoder turns one raw line of child output into a StreamEvent,
// given which stream ("stdout"/"stderr") it came from. Each adapter
// (pkg/adapter/*) supplies its own, per spec §6 "Stream protocols".
type LineDecoder func(stream, line string) StreamEvent

// Supervisor runs one child process per Run/Stream call. It holds no
// process-global state (spec §3 "Lifecycle"); constants.* values are its
// only compile-time tuning.
type Supervisor struct {
	// StdoutDecoder and StderrDecoder decode raw lines into StreamEvents.
	// If nil, lines become TextEvent verbatim.
	StdoutDecoder LineDecoder
	StderrDecoder LineDecoder
}

// New creates a Supervisor that treats all output as plain text lines.
func New() *Supervisor {
	return &Supervisor{}
}

// Run spawns binary with config and blocks until the child exits, the
// timeout fires, or spawn fails outright. It is Stream with a nil sink.
func (s *Supervisor) Run(ctx context.Context, binary string, cfg RunConfig) (RunResult, error) {
	return s.Stream(ctx, binary, cfg, nil)
}

// Stream is Run's streaming variant: as well as returning the final
// RunResult, it enqueues every StreamEvent onto sink as it arrives (spec
// §4.A "Contract"). sink may be nil, in which case events are only used
// internally to assemble the RunResult.
func (s *Supervisor) Stream(ctx context.Context, binary string, cfg RunConfig, sink chan<- StreamEvent) (result RunResult, err error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultRunTimeout
	}

	if cfg.Dir != "" {
		if info, statErr := os.Stat(cfg.Dir); statErr != nil || !info.IsDir() {
			if statErr == nil {
				statErr = fmt.Errorf("%q is not a directory", cfg.Dir)
			}
			return RunResult{}, &SpawnFailedError{Stage: "set_cwd", Cause: statErr}
		}
	}

	cmd := exec.Command(binary, cfg.Args...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	var stdinReader, stdinWriter *os.File
	if cfg.StdinClosed {
		cmd.Stdin = nil
	} else {
		// Keep the child's stdin open (but silent) for the run's duration,
		// rather than the implicit /dev/null a nil cmd.Stdin gives it: some
		// CLI agents probe stdin and behave differently if it is already
		// closed at startup.
		var pipeErr error
		stdinReader, stdinWriter, pipeErr = os.Pipe()
		if pipeErr != nil {
			return RunResult{}, &SpawnFailedError{Stage: "stdin_pipe", Cause: pipeErr}
		}
		cmd.Stdin = stdinReader
	}
	if stdinWriter != nil {
		defer stdinWriter.Close()
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return RunResult{}, &NoStdoutError{}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return RunResult{}, &NoStderrError{}
	}

	start := time.Now()
	if startErr := cmd.Start(); startErr != nil {
		return RunResult{}, &SpawnFailedError{Stage: "spawn", Cause: startErr}
	}
	if stdinReader != nil {
		stdinReader.Close() // the child has its own dup'd copy of the fd now
	}
	if cmd.Process == nil {
		return RunResult{}, &NoPidError{}
	}
	pid := cmd.Process.Pid
	log.Printf("spawned %s (pid %d)", binary, pid)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stdoutCh := make(chan StreamEvent, constants.ReaderQueueCapacity)
	stderrCh := make(chan StreamEvent, constants.ReaderQueueCapacity)

	readers := pool.New().WithContext(runCtx)
	readers.Go(func(ctx context.Context) error {
		defer close(stdoutCh)
		_, rerr := newStreamReader("stdout", decoderOrText(s.StdoutDecoder), stdoutCh).run(ctx, stdoutPipe)
		return rerr
	})
	readers.Go(func(ctx context.Context) error {
		defer close(stderrCh)
		_, rerr := newStreamReader("stderr", decoderOrText(s.StderrDecoder), stderrCh).run(ctx, stderrPipe)
		return rerr
	})

	accDone := make(chan accumulated, 1)
	go drain(stdoutCh, stderrCh, sink, accDone)

	waitDone := make(chan error, 1)
	go func() { waitDone <- cmd.Wait() }()

	readersDone := make(chan error, 1)
	go func() { readersDone <- readers.Wait() }()

	// accDone and waitDone each have exactly one sender and a single
	// buffered slot. Only one of the two branches below may ever receive
	// from them — on timeout, gracefulShutdown and bestEffortDrain are the
	// sole consumers; on normal completion, this select's first case is.
	// A separate goroutine racing either branch for those values would
	// either leak forever waiting on the channel the other branch already
	// drained, or steal the timeout branch's partial output.
	select {
	case readErr := <-readersDone:
		acc := <-accDone
		waitErr := <-waitDone
		result = RunResult{
			Stdout:   acc.stdout,
			Stderr:   acc.stderr,
			ExitCode: exitCodeOf(cmd, waitErr),
			Duration: time.Since(start),
		}
		if readErr != nil {
			return result, &StreamFailedError{Stage: "reader", Cause: readErr}
		}
		return result, nil

	case <-time.After(timeout):
		elapsed := time.Since(start)
		log.Printf("run timed out after %s (pid %d), shutting down", elapsed, pid)
		shutdownErr := gracefulShutdown(cmd, waitDone)
		if shutdownErr != nil {
			log.Errorf("graceful shutdown reported: %v", shutdownErr)
		}
		cancel() // abort reader goroutines; best-effort partial output follows
		acc := bestEffortDrain(stdoutCh, stderrCh, accDone)
		partial := RunResult{Stdout: acc.stdout, Stderr: acc.stderr, ExitCode: -1, Duration: elapsed}
		return partial, &TimeoutError{Pid: pid, Elapsed: elapsed, PartialOutput: partial}
	}
}

type accumulated struct {
	stdout string
	stderr string
}

// drain reads both event channels until each is closed, accumulating text
// content and forwarding every event to sink (if non-nil). Stdout and
// stderr are merged at this point by whichever is ready first — spec §5
// "Ordering guarantees": no cross-stream ordering is promised.
func drain(stdoutCh, stderrCh <-chan StreamEvent, sink chan<- StreamEvent, done chan<- accumulated) {
	var acc accumulated
	for stdoutCh != nil || stderrCh != nil {
		select {
		case ev, ok := <-stdoutCh:
			if !ok {
				stdoutCh = nil
				continue
			}
			acc.stdout += textOf(ev)
			forward(sink, ev)
		case ev, ok := <-stderrCh:
			if !ok {
				stderrCh = nil
				continue
			}
			acc.stderr += textOf(ev)
			forward(sink, ev)
		}
	}
	done <- acc
}

// bestEffortDrain waits up to 50ms for drain() to finish after a timeout and
// returns what it accumulated; if drain() has not finished by then, it
// returns empty output (spec §5 "Cancellation and timeouts" step 3:
// "remaining buffered output is collected best-effort before abort").
func bestEffortDrain(stdoutCh, stderrCh <-chan StreamEvent, accDone <-chan accumulated) accumulated {
	select {
	case acc := <-accDone:
		return acc
	case <-time.After(50 * time.Millisecond):
		return accumulated{}
	}
}

func forward(sink chan<- StreamEvent, ev StreamEvent) {
	if sink == nil {
		return
	}
	defer func() { _ = recover() }()
	sink <- ev
}

func textOf(ev StreamEvent) string {
	switch e := ev.(type) {
	case TextEvent:
		return e.Text + "\n"
	case UnknownEvent:
		return e.Raw + "\n"
	case TruncatedEvent:
		return fmt.Sprintf("[output truncated at %d bytes]\n", e.LimitBytes)
	default:
		return ""
	}
}

func decoderOrText(d LineDecoder) func(string, string) StreamEvent {
	if d != nil {
		return d
	}
	return func(stream, line string) StreamEvent { return NewTextEvent(stream, line) }
}

func buildEnv(overrides []EnvVar) []string {
	env := os.Environ()
	for _, kv := range overrides {
		env = append(env, kv.Key+"="+kv.Value)
	}
	return env
}

func exitCodeOf(cmd *exec.Cmd, waitErr error) int {
	if waitErr == nil {
		return cmd.ProcessState.ExitCode()
	}
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		if exitErr.ProcessState.Exited() {
			return exitErr.ExitCode()
		}
		return -1 // signaled
	}
	return -1
}
