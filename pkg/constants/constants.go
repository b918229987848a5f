// Package constants centralizes extractcli's compile-time tuning values —
// the spec's "Lifecycle" exception to "every entity is created per call":
// queue capacity, output cap, grace period, and default timeouts never
// change at runtime, the same way the teacher's pkg/constants centralizes
// version pins and default timeouts as typed package-level constants.
package constants

import "time"

// ReaderQueueCapacity is the bounded capacity of each stdout/stderr line
// queue a supervised run uses (spec §3 "Invariants on streams", §4.A step 3).
const ReaderQueueCapacity = 100

// MaxCapturedOutputBytes is the hard per-stream cap on captured stdout and
// stderr (spec §3 "Invariants on streams"): 10 MiB.
const MaxCapturedOutputBytes = 10 * 1024 * 1024

// GracefulShutdownGrace is how long the supervisor waits for a SIGTERM'd
// child to exit before escalating to SIGKILL (spec §4.A "Graceful shutdown").
const GracefulShutdownGrace = 5 * time.Second

// DefaultRunTimeout is the wall-clock timeout applied to a supervised run
// when the caller's RunConfig does not specify one.
const DefaultRunTimeout = 5 * time.Minute

// DefaultMaxAttempts is the orchestrator's default retry budget (spec §4.E).
const DefaultMaxAttempts = 3

// MCPProtocolVersion is the MCP wire version this module speaks (spec §6).
const MCPProtocolVersion = "2024-11-05"

// TokenEstimateDivisor is the divisor the cheap token estimator uses: one
// token per four Unicode scalars (spec §3 "ExtractionMetrics", §8 property 7).
const TokenEstimateDivisor = 4

// ServerName is the default MCP server name extractcli registers itself
// under; peers address its tools as mcp__<ServerName>__<tool> (spec §4.C).
const ServerName = "extractcli"

// ServeModeEnvVar is the environment variable that selects the binary's
// in-process mode: present means "I am the tool server", absent means
// "I am the caller" (spec §6 "Environment variables").
const ServeModeEnvVar = "EXTRACTCLI_MCP_SERVE"

// SchemaPathEnvVar points the re-exec'd tool-server process at the schema
// file the orchestrator wrote to scratch space for this run (spec §5
// "Temporary files... are owned by scoped handles").
const SchemaPathEnvVar = "EXTRACTCLI_SCHEMA_PATH"

// SubmitPathEnvVar points the re-exec'd tool-server process at the
// submission scratch file its on_submit handler writes to, and that the
// orchestrator's agent_fn reads back after the CLI agent process exits
// (spec §5 "Submission sink").
const SubmitPathEnvVar = "EXTRACTCLI_SUBMIT_PATH"
