package schedule

import (
	"reflect"
	"testing"

	"github.com/kks007-dev/syllabuser/pkg/model"
)

func TestNormalizeSortsAscending(t *testing.T) {
	events := []model.Event{
		{Date: "2024-11-27", Type: "holiday", Description: "Thanksgiving Break ends"},
		{Date: "2024-09-10", Type: "assignment", Description: "Project Proposal Due"},
		{Date: "2024-11-23", Type: "holiday", Description: "Thanksgiving Break begins"},
	}

	valid, rejected := Normalize(events)
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %+v", rejected)
	}
	var got []string
	for _, ev := range valid {
		got = append(got, ev.Date)
	}
	want := []string{"2024-09-10", "2024-11-23", "2024-11-27"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestNormalizeIsStableAndIdempotent(t *testing.T) {
	events := []model.Event{
		{Date: "2024-10-01", Type: "quiz", Description: "Quiz 1"},
		{Date: "2024-10-01", Type: "lab", Description: "Lab 3"},
		{Date: "2024-09-01", Type: "assignment", Description: "HW 1"},
	}

	once, _ := Normalize(events)
	twice, _ := Normalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("re-sorting a sorted list changed it:\n%v\n%v", once, twice)
	}
	// Equal dates keep their input order.
	if once[1].Description != "Quiz 1" || once[2].Description != "Lab 3" {
		t.Errorf("tie order not stable: %+v", once)
	}
}

func TestNormalizeRejectsUnusableEntries(t *testing.T) {
	events := []model.Event{
		{Date: "2024-02-30", Type: "test", Description: "impossible date"},
		{Date: "soon", Type: "test", Description: "not a date"},
		{Date: "", Type: "test", Description: "no date"},
		{Date: "2024-03-01", Type: "test", Description: ""},
		{Date: "2024-03-01", Type: "test", Description: "fine"},
	}

	valid, rejected := Normalize(events)
	if len(valid) != 1 || valid[0].Description != "fine" {
		t.Errorf("valid = %+v, want only the well-formed entry", valid)
	}
	if len(rejected) != 4 {
		t.Errorf("expected 4 rejections, got %d: %+v", len(rejected), rejected)
	}
	for _, r := range rejected {
		if r.Reason == "" {
			t.Errorf("rejection without a reason: %+v", r)
		}
	}
}
