// Package builder holds the editing-session state around a form: undo/redo
// history, the transient field selection and the debounced autosave. None of
// this state belongs on the persisted aggregate.
package builder

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/formforge/formforge/log"
	"github.com/formforge/formforge/model"
)

const DefaultAutosaveDelay = 10 * time.Second

// SaveFunc persists the current form. It runs on the autosave timer's
// goroutine, outside the session lock.
type SaveFunc func(model.Form)

type Session struct {
	mu        sync.Mutex
	hist      *history
	selected  string
	save      SaveFunc
	delay     time.Duration
	timer     *time.Timer
	lastSaved string
	closed    bool
}

// NewSession starts an editing session on the given form. save may be nil to
// disable autosave.
func NewSession(initial model.Form, save SaveFunc, delay time.Duration) *Session {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Session{
		hist:      newHistory(initial),
		save:      save,
		delay:     delay,
		lastSaved: marshal(initial),
	}
}

// Form returns a snapshot of the current form state.
func (s *Session) Form() model.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.current()
}

// Set pushes a new form snapshot, truncating any redo tail, and rearms the
// autosave timer. A selection pointing at a field that no longer exists is
// cleared.
func (s *Session) Set(f model.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist.push(f)
	s.syncSelectionLocked()
	s.rearmLocked()
}

func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.hist.undo()
	if ok {
		s.syncSelectionLocked()
		s.rearmLocked()
	}
	return ok
}

func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.hist.redo()
	if ok {
		s.syncSelectionLocked()
		s.rearmLocked()
	}
	return ok
}

func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.canUndo()
}

func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.canRedo()
}

// Reset reinitializes the history on the given form, e.g. after loading a
// saved form into the builder.
func (s *Session) Reset(f model.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist.reset(f)
	s.selected = ""
	s.lastSaved = marshal(f)
	if s.timer != nil {
		s.timer.Stop()
	}
}

// Select marks a field as selected for the configuration panel. The id is
// not required to exist; a stale selection is cleared on the next Set.
func (s *Session) Select(fieldID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = fieldID
}

func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// MarkSaved records the last persisted state after an explicit save, so the
// autosave timer does not rewrite it.
func (s *Session) MarkSaved(f model.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSaved = marshal(f)
}

// Close tears the session down and cancels any pending autosave.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Session) syncSelectionLocked() {
	if s.selected == "" {
		return
	}
	f := s.hist.snaps[s.hist.idx]
	if _, ok := f.FieldByID(s.selected); !ok {
		s.selected = ""
	}
}

// rearmLocked debounces the autosave: every change cancels the pending timer
// and starts a new one. Only forms that already have an internal id and have
// actually changed since the last save are scheduled.
func (s *Session) rearmLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.closed || s.save == nil {
		return
	}
	f := s.hist.snaps[s.hist.idx]
	if f.ID == 0 || marshal(f) == s.lastSaved {
		return
	}
	s.timer = time.AfterFunc(s.delay, s.autosave)
}

func (s *Session) autosave() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	f := s.hist.current()
	ser := marshal(f)
	if ser == s.lastSaved {
		s.mu.Unlock()
		return
	}
	s.lastSaved = ser
	save := s.save
	s.mu.Unlock()

	save(f)
}

func marshal(f model.Form) string {
	b, err := json.Marshal(f)
	if err != nil {
		log.Errorf("builder.marshal_form: %s", err)
		return ""
	}
	return string(b)
}
