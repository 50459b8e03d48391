package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/kks007-dev/syllabuser/pkg/model"
)

// fakeCalendarAPI emulates the three Calendar endpoints the syncer touches.
type fakeCalendarAPI struct {
	calendars   []*calendar.CalendarListEntry
	createCalls int
	failSummary string // events whose summary contains this are rejected
	inserted    []string
}

func (f *fakeCalendarAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /users/me/calendarList", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&calendar.CalendarList{Items: f.calendars})
	})

	mux.HandleFunc("POST /calendars", func(w http.ResponseWriter, r *http.Request) {
		f.createCalls++
		var cal calendar.Calendar
		json.NewDecoder(r.Body).Decode(&cal)
		cal.Id = fmt.Sprintf("created-%d", f.createCalls)
		f.calendars = append(f.calendars, &calendar.CalendarListEntry{Id: cal.Id, Summary: cal.Summary})
		json.NewEncoder(w).Encode(&cal)
	})

	mux.HandleFunc("POST /calendars/{id}/events", func(w http.ResponseWriter, r *http.Request) {
		var ev calendar.Event
		json.NewDecoder(r.Body).Decode(&ev)
		if f.failSummary != "" && strings.Contains(ev.Summary, f.failSummary) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"code":403,"message":"rate limit exceeded"}}`)
			return
		}
		ev.Id = fmt.Sprintf("event-%d", len(f.inserted)+1)
		f.inserted = append(f.inserted, ev.Summary)
		json.NewEncoder(w).Encode(&ev)
	})

	return mux
}

func newTestSyncer(t *testing.T, fake *fakeCalendarAPI) *Syncer {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	service, err := calendar.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("failed to build calendar service: %v", err)
	}
	return NewSyncerFromService(service)
}

func TestEnsureCalendarReusesExistingContainer(t *testing.T) {
	fake := &fakeCalendarAPI{
		calendars: []*calendar.CalendarListEntry{
			{Id: "personal", Summary: "Personal"},
			{Id: "engr-1300", Summary: "ENGR 1300"},
		},
	}
	s := newTestSyncer(t, fake)

	id, err := s.EnsureCalendar("ENGR 1300")
	if err != nil {
		t.Fatalf("EnsureCalendar failed: %v", err)
	}
	if id != "engr-1300" {
		t.Errorf("got id %q, want the existing container", id)
	}
	if fake.createCalls != 0 {
		t.Errorf("matching label must not create a container, created %d", fake.createCalls)
	}
}

func TestEnsureCalendarIsIdempotentAcrossSyncs(t *testing.T) {
	fake := &fakeCalendarAPI{}
	s := newTestSyncer(t, fake)

	first, err := s.EnsureCalendar("ENGR 1300")
	if err != nil {
		t.Fatalf("first EnsureCalendar failed: %v", err)
	}
	second, err := s.EnsureCalendar("ENGR 1300")
	if err != nil {
		t.Fatalf("second EnsureCalendar failed: %v", err)
	}
	if first != second {
		t.Errorf("repeated sync resolved different containers: %q then %q", first, second)
	}
	if fake.createCalls != 1 {
		t.Errorf("expected exactly one container creation, got %d", fake.createCalls)
	}
}

func TestEnsureCalendarTruncatesLongLabels(t *testing.T) {
	fake := &fakeCalendarAPI{}
	s := newTestSyncer(t, fake)

	long := strings.Repeat("x", 150)
	if _, err := s.EnsureCalendar(long); err != nil {
		t.Fatalf("EnsureCalendar failed: %v", err)
	}
	if got := fake.calendars[0].Summary; len([]rune(got)) != maxSummaryLen {
		t.Errorf("label not truncated to %d, got %d runes", maxSummaryLen, len([]rune(got)))
	}
}

func TestSyncAggregatesIndependentOutcomes(t *testing.T) {
	fake := &fakeCalendarAPI{failSummary: "Midterm"}
	s := newTestSyncer(t, fake)

	events := []model.Event{
		{Date: "2024-09-10", Type: "assignment", Description: "Project Proposal Due"},
		{Date: "2024-10-22", Type: "test", Description: "Midterm"},
		{Date: "2024-12-10", Type: "assignment", Description: "Final project"},
	}

	result := s.Sync("cal-1", events)
	if result.Total != 3 || result.Succeeded != 2 || result.Failed != 1 {
		t.Fatalf("counts = %d/%d/%d, want 3 total, 2 ok, 1 failed", result.Total, result.Succeeded, result.Failed)
	}
	if result.Succeeded+result.Failed != result.Total {
		t.Errorf("success + failure must equal total")
	}
	// Outcomes keep the input event order and the failure is isolated in
	// the middle without aborting its successors.
	if !result.Outcomes[0].Success || result.Outcomes[1].Success || !result.Outcomes[2].Success {
		t.Errorf("outcome pattern wrong: %+v", result.Outcomes)
	}
	if result.Outcomes[1].Error == "" {
		t.Error("failed outcome carries no error detail")
	}
	if result.Outcomes[0].EventID == "" {
		t.Error("successful outcome carries no remote id")
	}
	if result.Outcomes[1].Summary != "test: Midterm" {
		t.Errorf("summary = %q, want \"test: Midterm\"", result.Outcomes[1].Summary)
	}
}

func TestBuildEventShape(t *testing.T) {
	ev := buildEvent(model.Event{Date: "2024-09-10", Type: "assignment", Description: "Project Proposal Due"})

	if ev.Summary != "assignment: Project Proposal Due" {
		t.Errorf("summary = %q", ev.Summary)
	}
	if ev.Start.Date != "2024-09-10" || ev.End.Date != "2024-09-10" {
		t.Errorf("all-day bounds wrong: %+v %+v", ev.Start, ev.End)
	}
	if ev.Reminders.UseDefault {
		t.Error("reminder policy must override the defaults")
	}
	var email, popup *calendar.EventReminder
	for _, r := range ev.Reminders.Overrides {
		switch r.Method {
		case "email":
			email = r
		case "popup":
			popup = r
		}
	}
	if email == nil || email.Minutes != 24*60 {
		t.Errorf("want an email reminder 24 hours prior, got %+v", email)
	}
	if popup == nil || popup.Minutes != 60 {
		t.Errorf("want a popup reminder 60 minutes prior, got %+v", popup)
	}
}
