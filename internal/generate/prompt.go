// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/pdiddy/elective-advisor/pkg/types"
)

// systemPromptTmpl sets up the counsellor role and pins the reply format the
// parse package understands.
var systemPromptTmpl = template.Must(template.New("system").Parse(`Role: college counselor.
Response length: detailed.

You advise a student working towards a degree in {{.Degree}} who wants to specialize in {{.CareerPath}}.
The student needs to take 5 electives. Recommend 10 to choose from.

For every elective:
- Rate it from 1 to 100, where 100 is the best preparation for {{.CareerPath}}.
- Explain in 100 to 200 words, in an academic voice, why the elective matters for a career in {{.CareerPath}}.
- List its prerequisites. The student has not completed any course unless they say so, so mark each prerequisite "Need to take:" or "Completed:". When there are none, write "None".

Sort the electives by rating, best first.

Answer with one block per elective, each line tagged exactly like this example:

**Number:** 1
**Course Code:** CPSC 483
**Course Name:** Introduction to Machine Learning
**Rating:** 100
**Explanation:** Machine Learning is a cornerstone of AI development...
**Prerequisites:** Need to take: CPSC 335, MATH 338
`))

var userPromptTmpl = template.Must(template.New("user").Parse(
	`Here are the electives I have to choose from, one per line, in the format 'Prerequisite1,Prerequisite2,Prerequisite3,Course,Units,Name,Description':
{{range .Electives}}{{.}}
{{end}}`))

// PromptInput is the data a recommendation prompt is built from.
type PromptInput struct {
	CareerPath string
	Degree     string
	Electives  []types.Elective
}

// BuildPrompt renders the system and user messages for one recommendation
// request.
func BuildPrompt(in PromptInput) (Prompt, error) {
	if strings.TrimSpace(in.CareerPath) == "" {
		return Prompt{}, fmt.Errorf("career path is required")
	}
	if strings.TrimSpace(in.Degree) == "" {
		return Prompt{}, fmt.Errorf("degree is required")
	}

	var sys bytes.Buffer
	if err := systemPromptTmpl.Execute(&sys, in); err != nil {
		return Prompt{}, fmt.Errorf("rendering system prompt: %w", err)
	}

	lines := make([]string, len(in.Electives))
	for i, e := range in.Electives {
		lines[i] = FormatElective(e)
	}
	var user bytes.Buffer
	if err := userPromptTmpl.Execute(&user, struct{ Electives []string }{lines}); err != nil {
		return Prompt{}, fmt.Errorf("rendering user prompt: %w", err)
	}

	return Prompt{System: sys.String(), User: user.String()}, nil
}

// FormatElective renders one elective as a CSV line:
//
//	Prerequisite1,Prerequisite2,Prerequisite3,Code,Units,Name,Description
//
// Empty or "none" prerequisites become "None,,". A shorter list is padded
// with empty fields and a longer one is cut to three. Zero units are left
// blank.
func FormatElective(e types.Elective) string {
	fields := make([]string, 0, 7)
	fields = append(fields, prerequisiteFields(e.Prerequisites)...)

	units := ""
	if e.Units != 0 {
		units = strconv.Itoa(e.Units)
	}
	fields = append(fields,
		strings.TrimSpace(e.Code), units,
		strings.TrimSpace(e.Name), strings.TrimSpace(e.Description))

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(fields)
	w.Flush()
	return strings.TrimRight(buf.String(), "\n")
}

func prerequisiteFields(prereqs string) []string {
	prereqs = strings.TrimSpace(prereqs)
	if prereqs == "" || strings.EqualFold(prereqs, types.NoPrerequisites) {
		return []string{types.NoPrerequisites, "", ""}
	}

	var out []string
	for _, p := range strings.Split(prereqs, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	for len(out) < 3 {
		out = append(out, "")
	}
	return out[:3]
}
