package supervisor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_HappyPath(t *testing.T) {
	sh, err := exec.LookPath("sh")
	require.NoError(t, err)

	sv := New()
	result, err := sv.Run(context.Background(), sh, RunConfig{
		Args:    []string{"-c", "echo hello; echo world 1>&2"},
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Stdout, "hello")
	assert.Contains(t, result.Stderr, "world")
}

func TestRun_NonZeroExitIsNotAnError(t *testing.T) {
	sh, err := exec.LookPath("sh")
	require.NoError(t, err)

	sv := New()
	result, err := sv.Run(context.Background(), sh, RunConfig{
		Args:    []string{"-c", "echo partial; exit 3"},
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, result.Stdout, "partial")
}

func TestRun_Timeout(t *testing.T) {
	sh, err := exec.LookPath("sh")
	require.NoError(t, err)

	sv := New()
	start := time.Now()
	result, err := sv.Run(context.Background(), sh, RunConfig{
		Args:    []string{"-c", "echo hello; sleep 30"},
		Timeout: 200 * time.Millisecond,
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.GreaterOrEqual(t, timeoutErr.Elapsed, 200*time.Millisecond)
	assert.Greater(t, timeoutErr.Pid, 0)
	assert.Less(t, elapsed, 5*time.Second, "timeout path must not block on the sleeping child")
	assert.Contains(t, result.Stdout, "hello")
}

func TestRun_OutputCapTruncates(t *testing.T) {
	sh, err := exec.LookPath("sh")
	require.NoError(t, err)

	// Write well beyond the 10 MiB cap, one line per "chunk".
	script := "i=0; while [ $i -lt 200000 ]; do echo '0123456789012345678901234567890123456789012345678901234567890123456789'; i=$((i+1)); done"

	sv := New()
	result, err := sv.Run(context.Background(), sh, RunConfig{
		Args:    []string{"-c", script},
		Timeout: 30 * time.Second,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Stdout), 10*1024*1024+1024)
}

func TestRun_SpawnFailed(t *testing.T) {
	sv := New()
	_, err := sv.Run(context.Background(), "/nonexistent/binary/path", RunConfig{
		Timeout: time.Second,
	})
	require.Error(t, err)
	var spawnErr *SpawnFailedError
	require.ErrorAs(t, err, &spawnErr)
	assert.Equal(t, "spawn", spawnErr.Stage)
}

func TestRun_BadWorkingDirectory(t *testing.T) {
	sv := New()
	_, err := sv.Run(context.Background(), "sh", RunConfig{
		Args: []string{"-c", "true"},
		Dir:  "/this/does/not/exist",
	})
	require.Error(t, err)
	var spawnErr *SpawnFailedError
	require.ErrorAs(t, err, &spawnErr)
	assert.Equal(t, "set_cwd", spawnErr.Stage)
}

func TestStream_ForwardsEvents(t *testing.T) {
	sh, err := exec.LookPath("sh")
	require.NoError(t, err)

	sv := New()
	sink := make(chan StreamEvent, 100)
	_, err = sv.Stream(context.Background(), sh, RunConfig{
		Args:    []string{"-c", "echo one; echo two"},
		Timeout: 5 * time.Second,
	}, sink)
	require.NoError(t, err)
	close(sink)

	var lines []string
	for ev := range sink {
		if te, ok := ev.(TextEvent); ok {
			lines = append(lines, te.Text)
		}
	}
	assert.Contains(t, strings.Join(lines, "\n"), "one")
	assert.Contains(t, strings.Join(lines, "\n"), "two")
}

func TestRun_NoZombieAfterTimeout(t *testing.T) {
	sh, err := exec.LookPath("sh")
	require.NoError(t, err)

	sv := New()
	_, err = sv.Run(context.Background(), sh, RunConfig{
		Args:    []string{"-c", "sleep 30"},
		Timeout: 150 * time.Millisecond,
	})
	require.Error(t, err)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)

	// A reaped child is no longer visible to kill(pid, 0).
	checkCmd := exec.Command("kill", "-0", fmt.Sprintf("%d", timeoutErr.Pid))
	checkErr := checkCmd.Run()
	assert.Error(t, checkErr, "child process must not still be running after timeout recovery")
}
