package session

import (
	"errors"

	"github.com/google/uuid"
	"github.com/kks007-dev/syllabuser/pkg/model"
)

var ErrNotFound = errors.New("no event with that id in the session")

// Session holds the user-editable working copy of extracted events between
// extraction and synchronization. It is single-writer: one session belongs
// to one user flow and all mutations are synchronous.
type Session struct {
	SourceName string

	events     []model.Event
	generation uint64
}

func New() *Session {
	return &Session{}
}

// Generation identifies the current lifetime of the session's contents.
// Callers snapshot it before a slow operation and check it again before
// applying the result, so work finishing after a reset is discarded.
func (s *Session) Generation() uint64 {
	return s.generation
}

// Admit installs freshly normalized events as the working copy, assigning
// each a stable identity. If the session was reset after gen was taken the
// results are stale and are dropped.
func (s *Session) Admit(gen uint64, sourceName string, events []model.Event) bool {
	if gen != s.generation {
		return false
	}
	s.SourceName = sourceName
	s.events = make([]model.Event, len(events))
	for i, ev := range events {
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		s.events[i] = ev
	}
	return true
}

// Restore reinstalls a pending-sync snapshot, e.g. after returning from an
// authorization redirect. Identities from the snapshot are kept.
func (s *Session) Restore(pending *model.PendingSync) {
	s.generation++
	s.SourceName = pending.SourceName
	s.events = append([]model.Event(nil), pending.Events...)
}

// Events returns a copy of the working list in its current order.
func (s *Session) Events() []model.Event {
	return append([]model.Event(nil), s.events...)
}

func (s *Session) Len() int {
	return len(s.events)
}

// Edit overwrites a single event's date, type and description in place.
// Other entries are untouched.
func (s *Session) Edit(id, date, typ, description string) error {
	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i].Date = date
			s.events[i].Type = typ
			s.events[i].Description = description
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes a single event. Remaining entries keep their identity.
func (s *Session) Delete(id string) error {
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Reset discards the working copy and returns the session to its initial
// upload state. Any in-flight operation started before the reset will fail
// its generation check and its results will be ignored.
func (s *Session) Reset() {
	s.generation++
	s.SourceName = ""
	s.events = nil
}

// Snapshot captures the current working copy for persistence across an
// authorization redirect.
func (s *Session) Snapshot(calendarLabel string) *model.PendingSync {
	return &model.PendingSync{
		Events:        s.Events(),
		SourceName:    s.SourceName,
		CalendarLabel: calendarLabel,
	}
}
