package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/kks007-dev/syllabuser/pkg/academic"
	"github.com/kks007-dev/syllabuser/pkg/auth"
	"github.com/kks007-dev/syllabuser/pkg/extract"
	"github.com/kks007-dev/syllabuser/pkg/gemini"
	"github.com/kks007-dev/syllabuser/pkg/google"
	"github.com/kks007-dev/syllabuser/pkg/model"
	"github.com/kks007-dev/syllabuser/pkg/schedule"
)

// TextExtractor is the document-to-text collaborator boundary: raw bytes
// in, plain text out, failures opaque to the rest of the pipeline.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// PlainText accepts documents that already are UTF-8 text (.txt, .md).
type PlainText struct{}

func (PlainText) ExtractText(_ context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("document is empty")
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("document is not plain text")
	}
	return string(data), nil
}

// Pipeline wires the two inference phases, normalization and calendar
// synchronization behind the two public call points. All session and auth
// state is passed in explicitly; the only time source is the anchor date
// given at construction.
type Pipeline struct {
	gen    academic.Generator
	anchor time.Time
}

func New(gen academic.Generator, anchor time.Time) *Pipeline {
	return &Pipeline{gen: gen, anchor: anchor}
}

// Analyze runs the full extraction flow over document text: infer the
// academic context, extract events against it, then validate and sort.
// The two phases are strictly sequential; the second depends on the
// first's output. A failure in either phase is terminal for the call.
func (p *Pipeline) Analyze(ctx context.Context, text string) ([]model.Event, *academic.Context, error) {
	acad, err := academic.NewInferencer(p.gen, p.anchor).Infer(ctx, text)
	if err != nil {
		return nil, nil, err
	}

	events, err := extract.NewExtractor(p.gen).Extract(ctx, text, acad)
	if err != nil {
		return nil, acad, err
	}

	valid, rejected := schedule.Normalize(events)
	for _, r := range rejected {
		log.Printf("Dropping unusable extracted event (%s): %+v", r.Reason, r.Event)
	}
	return valid, acad, nil
}

var summarySchema = &gemini.Schema{
	Type: "object",
	Properties: map[string]*gemini.Schema{
		"summary": {Type: "string", Description: "A summary of the syllabus, including key topics, grading policies, and important dates."},
	},
	Required: []string{"summary"},
}

// Summarize produces a prose summary of the syllabus through the same
// inference collaborator.
func (p *Pipeline) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`You are an AI assistant designed to summarize syllabi.

Summarize the following syllabus, extracting key topics, grading policies, and important dates:

%s`, text)

	var out struct {
		Summary string `json:"summary"`
	}
	if err := p.gen.GenerateJSON(ctx, "summarize", prompt, summarySchema, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}

// Sync pushes a reviewed event list into the user's calendar. It fails
// before any remote call when no valid credential is stored, and as a
// whole only when the container cannot be resolved; individual event
// failures are recorded in the result instead.
func (p *Pipeline) Sync(ctx context.Context, mgr *auth.Manager, events []model.Event, label string) (*model.SyncResult, error) {
	cred, err := mgr.Credential()
	if err != nil {
		return nil, err
	}

	syncer, err := google.NewSyncer(ctx, mgr.OAuthConfig(), cred)
	if err != nil {
		return nil, err
	}

	calendarID, err := syncer.EnsureCalendar(label)
	if err != nil {
		return nil, err
	}
	return syncer.Sync(calendarID, events), nil
}
