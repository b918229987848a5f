// Command extractcli is extractcli's single multi-mode binary (spec.md §2
// "Module identity"): it doubles as the orchestrator-driving demo CLI and,
// when re-exec'd by a CLI agent under the right environment variable, as
// the MCP tool-server process itself (spec.md §4.C "Server launch mode").
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/extractcli/extractcli/internal/obslog"
	"github.com/extractcli/extractcli/pkg/mcpserver"
)

var log = obslog.New("cmd")

// version is overwritten at build time, matching the teacher's
// cmd/gh-aw's GoReleaser-injected version variable.
var version = "dev"

func main() {
	// spec.md §4.C: "When the binary starts and the variable is present,
	// it must route straight into tool-server mode before emitting
	// anything on stdout." This check happens before cobra is even
	// constructed, so nothing — not even a cobra usage error — can beat
	// it onto stdout.
	if mcpserver.ShouldServe(os.LookupEnv) {
		if err := runServe(context.Background()); err != nil {
			log.Errorf("tool server exited with error: %v", err)
			os.Exit(1)
		}
		return
	}

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
