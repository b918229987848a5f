package extract

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// FileSink is the cross-process counterpart to Sink: the tool server runs
// as a re-exec'd child of the CLI agent (spec.md §4.C "Server launch
// mode"), a different OS process from the orchestrator, so an in-memory
// Sink cannot bridge the two. FileSink persists the submitted value to a
// scratch file instead; the orchestrator's agent_fn reads it back once the
// agent process has exited (spec.md §5 "Temporary files... are owned by
// scoped handles; they are deleted when the handle is dropped").
type FileSink struct {
	path string
}

// NewFileSink wraps a scratch file path. The file need not exist yet.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Set atomically writes value to the sink's file: write to a sibling temp
// file, then rename over the target, so a reader never observes a partial
// write.
func (f *FileSink) Set(value json.RawMessage) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".extractcli-submit-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path)
}

// TakeAndClear reads the sink's file and removes it, returning (nil, false,
// nil) if it does not exist — "the agent never submitted" (spec.md §4.E).
func (f *FileSink) TakeAndClear() (json.RawMessage, bool, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	_ = os.Remove(f.path)
	return data, true, nil
}
