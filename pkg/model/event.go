package model

// DateLayout is the canonical calendar-date format used across the whole
// pipeline, from extraction through synchronization.
const DateLayout = "2006-01-02"

// Event is a single dated syllabus entry.
type Event struct {
	// ID is a locally assigned identity. It is empty on events coming
	// straight from extraction and is filled in when the event is admitted
	// into a review session.
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Summary is the remote calendar event title for this event.
func (e Event) Summary() string {
	return e.Type + ": " + e.Description
}

// PendingSync is the snapshot written right before the authorization
// redirect so an interrupted flow does not lose review work.
type PendingSync struct {
	Events        []Event `json:"events"`
	SourceName    string  `json:"source_document_name"`
	CalendarLabel string  `json:"calendar_label"`
}

// EventOutcome records the result of one event's remote insertion.
type EventOutcome struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
	EventID string `json:"event_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SyncResult aggregates a whole synchronization run. Outcomes preserve the
// input event order.
type SyncResult struct {
	CalendarID string         `json:"calendar_id"`
	Total      int            `json:"total_events"`
	Succeeded  int            `json:"successful_events"`
	Failed     int            `json:"failed_events"`
	Outcomes   []EventOutcome `json:"results"`
}
