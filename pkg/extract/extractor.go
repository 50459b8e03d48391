package extract

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kks007-dev/syllabuser/pkg/academic"
	"github.com/kks007-dev/syllabuser/pkg/gemini"
	"github.com/kks007-dev/syllabuser/pkg/model"
)

// Extractor is the second inference phase: it turns document text plus an
// already-inferred academic context into dated events.
type Extractor struct {
	gen academic.Generator
}

func NewExtractor(gen academic.Generator) *Extractor {
	return &Extractor{gen: gen}
}

var eventsSchema = &gemini.Schema{
	Type: "array",
	Items: &gemini.Schema{
		Type: "object",
		Properties: map[string]*gemini.Schema{
			"date":        {Type: "string", Description: "The date of the event (YYYY-MM-DD)."},
			"type":        {Type: "string", Description: "The type of event (e.g., 'assignment', 'test', 'holiday')."},
			"description": {Type: "string", Description: "A brief description of the event."},
		},
		Required: []string{"date", "type", "description"},
	},
}

// Extract returns every dated event found in the syllabus. Year-less
// mentions are dated from the academic context; the result never carries a
// year earlier than the context's academic year unless that year appears
// literally in the source text.
func (e *Extractor) Extract(ctx context.Context, syllabusText string, acad *academic.Context) ([]model.Event, error) {
	prompt := buildPrompt(syllabusText, acad)

	var events []model.Event
	if err := e.gen.GenerateJSON(ctx, "date-extraction", prompt, eventsSchema, &events); err != nil {
		return nil, err
	}

	return applyYearFloor(events, syllabusText, acad), nil
}

// applyYearFloor enforces the hard invariant that a year-less mention can
// never regress below the inferred academic year. Any event dated before
// the context's starting year whose year literal is absent from the source
// text is re-dated through the month-to-term mapping.
func applyYearFloor(events []model.Event, syllabusText string, acad *academic.Context) []model.Event {
	floor, ok := acad.FallYear()
	if !ok {
		return events
	}

	for i, ev := range events {
		t, err := time.Parse(model.DateLayout, ev.Date)
		if err != nil || t.Year() >= floor {
			continue
		}
		if strings.Contains(syllabusText, strconv.Itoa(t.Year())) {
			// An explicit year literal in the document wins.
			continue
		}
		if year, ok := acad.YearFor(t.Month()); ok {
			events[i].Date = time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Format(model.DateLayout)
		}
	}
	return events
}

func buildPrompt(syllabusText string, acad *academic.Context) string {
	fallYear, _ := acad.FallYear()

	return fmt.Sprintf(`Based on the year detection analysis, extract all academic events from this syllabus.

**DETECTED ACADEMIC CONTEXT:**
- Primary Year: %[1]s
- Semester: %[2]s
- Evidence: %[3]s

**INSTRUCTIONS:**
- Use the detected year (%[1]s) for all dates that don't have explicit years
- For academic year spans:
  * Academic Year %[4]d-%[5]d: Fall dates = %[4]d, Spring dates = %[5]d, Summer dates = %[5]d
- Extract every date associated with assignments, tests, quizzes, projects, presentations, holidays, or academic events
- Multi-day ranges such as "November 23-27" must produce TWO events, one for the start date and one for the end date, both with the same type
- Format all dates as YYYY-MM-DD using the correct year identified above
- NEVER use years before the detected year unless explicitly stated in the syllabus

**MONTH-TO-SEMESTER MAPPING:**
- August, September, October, November, December = Fall semester (year %[4]d)
- January, February, March, April, May = Spring semester (year %[5]d)
- June, July = Summer semester (year %[5]d)

Syllabus Text: %[6]s`,
		acad.Year, acad.Semester, acad.Evidence, fallYear, fallYear+1, syllabusText)
}
