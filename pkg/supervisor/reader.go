package supervisor

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/extractcli/extractcli/pkg/constants"
)

// streamReader reads line-delimited output from one child pipe, enforcing
// constants.MaxCapturedOutputBytes and enqueuing StreamEvents onto a bounded
// channel (spec §4.A step 4).
//
// A bufio.Scanner's default token-size limit makes it awkward to say
// "truncate, but keep reading so the pipe doesn't back up the child" —  so,
// like the teacher's own chunked-read helpers (pkg/cli/logs_download.go),
// this uses bufio.Reader.ReadString directly and does its own byte
// accounting line by line.
type streamReader struct {
	stream  string // "stdout" or "stderr"
	decode  func(stream, line string) StreamEvent
	sink    chan<- StreamEvent
	maxSize int64
}

func newStreamReader(stream string, decode func(string, string) StreamEvent, sink chan<- StreamEvent) *streamReader {
	return &streamReader{stream: stream, decode: decode, sink: sink, maxSize: constants.MaxCapturedOutputBytes}
}

// run drains r from pipe until EOF or ctx cancellation, returning the
// cumulative byte count actually captured (pre-truncation) and any
// non-EOF read error.
func (sr *streamReader) run(ctx context.Context, pipe io.Reader) (int64, error) {
	reader := bufio.NewReaderSize(pipe, 64*1024)
	var captured int64
	truncated := false

	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if !truncated {
				if captured+int64(len(line)) > sr.maxSize {
					sr.emit(ctx, TruncatedEvent{base: base{sr.stream}, CapturedBytes: captured, LimitBytes: sr.maxSize})
					truncated = true
					// Keep draining so the child's writes don't block on a
					// full pipe buffer, but stop accumulating/emitting.
				} else {
					captured += int64(len(line))
					sr.emit(ctx, sr.decode(sr.stream, strings.TrimRight(line, "\r\n")))
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return captured, nil
			}
			if !truncated {
				sr.emit(ctx, NewErrorEvent(sr.stream, err.Error()))
			}
			return captured, err
		}
	}
}

// emit sends an event to the sink, or returns silently if the receiver has
// gone away (channel closed / context cancelled) — per spec §4.A step 4(c)
// and §5 "Backpressure": "If the downstream receiver disappears, the
// reader exits silently."
func (sr *streamReader) emit(ctx context.Context, ev StreamEvent) {
	defer func() {
		// Sending on a closed channel panics; a reader racing shutdown
		// against channel closure should exit silently, not crash the
		// process.
		_ = recover()
	}()
	select {
	case sr.sink <- ev:
	case <-ctx.Done():
	}
}
