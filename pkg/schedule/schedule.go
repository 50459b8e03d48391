package schedule

import (
	"sort"
	"time"

	"github.com/kks007-dev/syllabuser/pkg/model"
)

// Rejected is an event the normalizer refused, with the reason why. Making
// rejection explicit keeps bad entries out of presentation and sync without
// silently repairing them.
type Rejected struct {
	Event  model.Event
	Reason string
}

// Normalize validates and chronologically orders extracted events. Entries
// whose date does not parse as a real calendar date, or that are missing a
// date or description, are rejected. Ties keep their input order, so
// normalizing an already-sorted list is a no-op.
func Normalize(events []model.Event) ([]model.Event, []Rejected) {
	valid := make([]model.Event, 0, len(events))
	var rejected []Rejected

	for _, ev := range events {
		switch {
		case ev.Date == "":
			rejected = append(rejected, Rejected{Event: ev, Reason: "missing date"})
		case ev.Description == "":
			rejected = append(rejected, Rejected{Event: ev, Reason: "missing description"})
		default:
			if _, err := time.Parse(model.DateLayout, ev.Date); err != nil {
				rejected = append(rejected, Rejected{Event: ev, Reason: "invalid date " + ev.Date})
				continue
			}
			valid = append(valid, ev)
		}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Date < valid[j].Date
	})
	return valid, rejected
}
