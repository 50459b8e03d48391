package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/kks007-dev/syllabuser/pkg/auth"
	"github.com/kks007-dev/syllabuser/pkg/model"
)

const (
	// Remote limits on the calendar container's name and description.
	maxSummaryLen     = 100
	maxDescriptionLen = 1024

	calendarDescription = "All syllabus-related events"
)

// ContainerError means the target calendar could not be resolved or
// created. No events can be attributed without a container, so it aborts
// the whole sync call.
type ContainerError struct {
	Op  string
	Err error
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("calendar %s failed: %v", e.Op, e.Err)
}

func (e *ContainerError) Unwrap() error {
	return e.Err
}

// Syncer maps a reviewed event list onto a Google Calendar.
type Syncer struct {
	srv *calendar.Service
}

// NewSyncer builds a calendar client from a stored credential. The oauth2
// client refreshes the access token at call time when a refresh token is
// present; extra options let tests point it at a fake endpoint.
func NewSyncer(ctx context.Context, cfg *oauth2.Config, cred *auth.Credential, opts ...option.ClientOption) (*Syncer, error) {
	client := cfg.Client(ctx, cred.Token())
	srv, err := calendar.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %w", err)
	}
	return &Syncer{srv: srv}, nil
}

// NewSyncerFromService wraps an existing calendar service.
func NewSyncerFromService(srv *calendar.Service) *Syncer {
	return &Syncer{srv: srv}
}

// EnsureCalendar resolves the target container by exact label match,
// creating it only when absent, so repeated syncs of the same document
// reuse one calendar instead of piling up duplicates.
func (s *Syncer) EnsureCalendar(label string) (string, error) {
	summary := truncate(label, maxSummaryLen)

	list, err := s.srv.CalendarList.List().Do()
	if err != nil {
		return "", &ContainerError{Op: "list", Err: err}
	}
	for _, item := range list.Items {
		if item.Summary == summary {
			return item.Id, nil
		}
	}

	created, err := s.srv.Calendars.Insert(&calendar.Calendar{
		Summary:     summary,
		Description: truncate(calendarDescription, maxDescriptionLen),
	}).Do()
	if err != nil {
		return "", &ContainerError{Op: "create", Err: err}
	}
	return created.Id, nil
}

// Sync inserts each event into the resolved container independently and
// aggregates the per-event outcomes in input order. A rejected event never
// aborts or rolls back its siblings.
func (s *Syncer) Sync(calendarID string, events []model.Event) *model.SyncResult {
	result := &model.SyncResult{
		CalendarID: calendarID,
		Total:      len(events),
		Outcomes:   make([]model.EventOutcome, len(events)),
	}

	for i, ev := range events {
		result.Outcomes[i] = s.insertOne(calendarID, ev)
		if result.Outcomes[i].Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	return result
}

func (s *Syncer) insertOne(calendarID string, ev model.Event) model.EventOutcome {
	created, err := s.srv.Events.Insert(calendarID, buildEvent(ev)).Do()
	if err != nil {
		return model.EventOutcome{Summary: ev.Summary(), Error: err.Error()}
	}
	return model.EventOutcome{Success: true, Summary: ev.Summary(), EventID: created.Id}
}

// buildEvent maps an extracted event to its remote record: an all-day
// event on the event date with a fixed reminder policy.
func buildEvent(ev model.Event) *calendar.Event {
	return &calendar.Event{
		Summary:     ev.Summary(),
		Description: ev.Description,
		Start:       &calendar.EventDateTime{Date: ev.Date},
		End:         &calendar.EventDateTime{Date: ev.Date},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 60},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
