package supervisor

// StreamEvent is a tagged record carried over the supervisor's streaming
// sink (spec §3 "StreamEvent"). It is a closed sum type expressed as an
// interface with an unexported marker method, the idiomatic Go shape for a
// Rust-style enum: concrete StreamEvent implementations live in this file
// only, so a type switch over StreamEvent is exhaustive by inspection.
type StreamEvent interface {
	isStreamEvent()
	// Stream identifies which pipe the event came from: "stdout" or "stderr".
	Stream() string
}

type base struct{ stream string }

func (b base) isStreamEvent() {}
func (b base) Stream() string { return b.stream }

// TextEvent carries one line of plain, undecoded child output.
type TextEvent struct {
	base
	Text string
}

// NewTextEvent constructs a TextEvent for the given stream ("stdout"/"stderr").
func NewTextEvent(stream, text string) TextEvent {
	return TextEvent{base: base{stream}, Text: text}
}

// ErrorEvent carries an error message: either a read error on one of the
// child's pipes, or an error frame that an adapter's LineDecoder decoded
// from the child's own output.
type ErrorEvent struct {
	base
	Message string
}

// NewErrorEvent constructs an ErrorEvent for the given stream.
func NewErrorEvent(stream, message string) ErrorEvent {
	return ErrorEvent{base: base{stream}, Message: message}
}

// ToolCallEvent surfaces an agent's tool invocation, for adapters (like
// Claude Code's stream-json format) that expose structured tool-use frames.
type ToolCallEvent struct {
	base
	ToolName string
	Args     map[string]any
}

// NewToolCallEvent constructs a ToolCallEvent for the given stream.
func NewToolCallEvent(stream, toolName string, args map[string]any) ToolCallEvent {
	return ToolCallEvent{base: base{stream}, ToolName: toolName, Args: args}
}

// ToolResultEvent surfaces the result of a tool invocation.
type ToolResultEvent struct {
	base
	ToolName string
	Result   string
	IsError  bool
}

// NewToolResultEvent constructs a ToolResultEvent for the given stream.
func NewToolResultEvent(stream, toolName, result string, isError bool) ToolResultEvent {
	return ToolResultEvent{base: base{stream}, ToolName: toolName, Result: result, IsError: isError}
}

// UnknownEvent wraps a line that parsed as JSON but carried no recognized
// discriminator (spec §6 "Stream protocols": "unknown payloads become an
// Unknown(raw-json) variant rather than a parse failure").
type UnknownEvent struct {
	base
	Raw string
}

// NewUnknownEvent constructs an UnknownEvent for the given stream.
func NewUnknownEvent(stream, raw string) UnknownEvent {
	return UnknownEvent{base: base{stream}, Raw: raw}
}

// TruncatedEvent marks the point at which the supervisor stopped consuming
// a stream because it hit the output-size cap (spec §3 "Invariants on
// streams", §4.A "Output bounding").
type TruncatedEvent struct {
	base
	CapturedBytes int64
	LimitBytes    int64
}
