package academic

import (
	"context"
	"fmt"
	"time"

	"github.com/kks007-dev/syllabuser/pkg/gemini"
)

// Generator is the inference collaborator: a prompt plus an output schema
// in, schema-conformant JSON out. *gemini.Client satisfies it.
type Generator interface {
	GenerateJSON(ctx context.Context, op, prompt string, schema *gemini.Schema, out any) error
}

// Inferencer determines the academic-year context of a syllabus. The
// anchor date stands in for "today" in all disambiguation rules so the
// component never reads the wall clock itself.
type Inferencer struct {
	gen    Generator
	anchor time.Time
}

func NewInferencer(gen Generator, anchor time.Time) *Inferencer {
	return &Inferencer{gen: gen, anchor: anchor}
}

var contextSchema = &gemini.Schema{
	Type: "object",
	Properties: map[string]*gemini.Schema{
		"academicYear": {Type: "string", Description: "The primary academic year identified from the syllabus (e.g., '2024', '2025')"},
		"semester":     {Type: "string", Enum: []string{"Fall", "Spring", "Summer", "Unknown"}},
		"confidence":   {Type: "string", Enum: []string{"High", "Medium", "Low"}},
		"evidence":     {Type: "string", Description: "The text or context that led to this year determination"},
	},
	Required: []string{"academicYear", "semester", "confidence", "evidence"},
}

// Infer runs the first inference phase over the full document text and
// returns exactly one Context. Any failure of the underlying call, or any
// result whose year cannot be read back, surfaces as-is; no fallback year
// is fabricated here.
func (inf *Inferencer) Infer(ctx context.Context, syllabusText string) (*Context, error) {
	prompt := inf.buildPrompt(syllabusText)

	var out Context
	if err := inf.gen.GenerateJSON(ctx, "year-detection", prompt, contextSchema, &out); err != nil {
		return nil, err
	}
	if _, ok := out.FallYear(); !ok {
		return nil, &gemini.APIError{Op: "year-detection", Msg: fmt.Sprintf("unusable academic year %q", out.Year)}
	}
	switch out.Semester {
	case Fall, Spring, Summer, Unknown:
	default:
		return nil, &gemini.APIError{Op: "year-detection", Msg: fmt.Sprintf("unknown semester %q", out.Semester)}
	}
	return &out, nil
}

func (inf *Inferencer) buildPrompt(syllabusText string) string {
	anchorDay := inf.anchor.Format("January 2, 2006")
	fallYear := ResolveBareTerm(inf.anchor, Fall)
	springYear := ResolveBareTerm(inf.anchor, Spring)
	summerYear := ResolveBareTerm(inf.anchor, Summer)

	return fmt.Sprintf(`You are an expert at analyzing academic syllabi to determine the correct academic year and semester.

**CURRENT CONTEXT: Today is %[1]s**

**Your task:** Carefully analyze the syllabus text to identify the academic year and semester.

**Look for these indicators (in order of priority):**
1. **Explicit semester/year statements**: "Fall %[2]d", "Spring %[3]d", "Summer %[4]d"
2. **Academic year ranges**: "Academic Year %[2]d-%[5]d", "AY %[2]d-%[6]d"
3. **Course scheduling**: "ENGR 1300 - Fall %[2]d", "CS 101 Spring %[3]d"
4. **Full dates with years**: Any complete dates mentioned in the body
5. **Document metadata**: Copyright dates, "Last updated" dates
6. **Calendar references**: Academic calendar years mentioned

**Critical Rules for academic year determination:**
- Current date context: today is %[1]s
- Fall semester runs August-December; Spring runs January-May; Summer runs June-July
- If you see an academic year range like "%[2]d-%[5]d": Fall belongs to %[2]d, Spring and Summer to %[5]d

**If no explicit year found:**
- For Fall semester mentions: default to %[2]d
- For Spring semester mentions: default to %[3]d
- For Summer semester mentions: default to %[4]d
- DO NOT default to any earlier year unless it is explicitly stated in the syllabus

**Return the MOST LIKELY academic year based on the current date context.**

Syllabus Text: %[7]s`,
		anchorDay, fallYear, springYear, summerYear, fallYear+1, (fallYear+1)%100, syllabusText)
}
