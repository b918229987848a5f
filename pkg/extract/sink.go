package extract

import (
	"encoding/json"
	"sync"
)

// Sink is the single-slot submission container spec.md §5 "Shared
// resources and mutation" describes: the tool server's on_submit handler
// writes into it, and the orchestrator reads it after each agent_fn call.
// The mutex is held only for the duration of Set/TakeAndClear, never across
// an agent invocation.
type Sink struct {
	mu    sync.Mutex
	value *json.RawMessage
}

// NewSink returns an empty submission sink.
func NewSink() *Sink {
	return &Sink{}
}

// Set deposits value into the slot, overwriting whatever was there. It is
// the callback an agent_fn implementation passes to toolkit.Register as
// on_submit's storage side.
func (s *Sink) Set(value json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := append(json.RawMessage(nil), value...)
	s.value = &cp
}

// TakeAndClear returns the slot's contents and clears it, so the next
// attempt starts from "nothing submitted yet" (spec.md §4.E: "A cleared
// slot on loop entry means the agent never submitted").
func (s *Sink) TakeAndClear() (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value == nil {
		return nil, false
	}
	v := *s.value
	s.value = nil
	return v, true
}
