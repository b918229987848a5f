package supervisor

import "time"

// SystemPromptMode selects how a caller wants the system prompt delivered to
// the child process (spec §3 "RunConfig", §4.B "System prompt").
type SystemPromptMode int

const (
	// SystemPromptNone means no system prompt handling is requested.
	SystemPromptNone SystemPromptMode = iota
	// SystemPromptFlag means the system prompt is passed via a named flag
	// (e.g. Claude Code's --system-prompt).
	SystemPromptFlag
	// SystemPromptPrepend marks CLIs with no dedicated flag (Codex,
	// OpenCode), where the system prompt travels inside the user prompt,
	// joined with a blank-line separator. The supervisor does not perform
	// this concatenation; it passes Args through unchanged.
	SystemPromptPrepend
)

// SystemPromptSpec describes how the system prompt, if any, should be
// delivered for one run.
type SystemPromptSpec struct {
	Mode SystemPromptMode
	// FlagName is the flag to use when Mode == SystemPromptFlag (e.g. "--system-prompt").
	FlagName string
}

// EnvVar is one environment variable override. RunConfig carries these as a
// slice rather than a map so insertion order is preserved, as spec §3
// requires ("environment overrides ... insertion order preserved").
type EnvVar struct {
	Key   string
	Value string
}

// RunConfig is the immutable contract a caller hands the supervisor for one
// child invocation (spec §3 "RunConfig"). Nothing in the supervisor mutates
// a RunConfig after Run/Stream begins.
type RunConfig struct {
	// Args is the full argument vector to pass to the resolved binary path.
	// The binary path itself is a separate parameter to Run/Stream, not
	// part of RunConfig (spec §6: the supervisor "does not consult PATH").
	Args []string

	// Dir is the child's working directory. Empty means inherit the
	// caller's current directory.
	Dir string

	// Env is the set of environment variable overrides to apply on top of
	// the caller's ambient environment, in insertion order.
	Env []EnvVar

	// Timeout is the wall-clock budget for the whole run. Zero means
	// constants.DefaultRunTimeout.
	Timeout time.Duration

	// SystemPrompt describes how a system prompt is delivered for this run.
	// No adapter in this module sets it and the supervisor never reads it:
	// only Args reach the child.
	SystemPrompt SystemPromptSpec

	// AdapterOptions is an opaque bag a specific pkg/adapter implementation
	// may stash extra per-CLI state in (tool policy, MCP config paths).
	// The supervisor never inspects it.
	AdapterOptions any

	// StdinClosed, when true, connects the child's stdin to the null device
	// instead of an open, silent pipe. Most CLI agents expect no stdin.
	StdinClosed bool
}
