package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "extractcli",
		Short:   "Turn local CLI coding agents into structured-extraction providers",
		Version: version,
		Long: `extractcli drives a local CLI coding agent (Claude Code, Codex, or
OpenCode) through a bounded-retry extraction loop: you supply a JSON schema
and a natural-language task, and the returned value either conforms to that
schema or you get back a complete, inspectable attempt history.

Conformance is enforced at the protocol level: the agent must call a
dedicated submit tool whose arguments are schema-validated before the value
is accepted, not by hoping the agent's prose happens to contain valid JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(newExtractCommand())
	return root
}
