package usecase

import (
	"fmt"
	"math"
	"strings"

	"billboard-report/internal/data/entity"
	"billboard-report/internal/dto/request"
)

// SubmissionState tracks a report form from first keystroke to result.
type SubmissionState string

const (
	StateEmpty      SubmissionState = "empty"
	StatePartial    SubmissionState = "partially_filled"
	StateReady      SubmissionState = "ready"
	StateSubmitting SubmissionState = "submitting"
	StateSubmitted  SubmissionState = "submitted"
	StateFailed     SubmissionState = "failed"
)

var submissionTransitions = map[SubmissionState][]SubmissionState{
	StateEmpty:      {StatePartial, StateReady},
	StatePartial:    {StateEmpty, StatePartial, StateReady},
	StateReady:      {StatePartial, StateSubmitting},
	StateSubmitting: {StateSubmitted, StateFailed},
	StateSubmitted:  {StateEmpty},
	StateFailed:     {StateReady, StatePartial, StateSubmitting},
}

// Advance moves to next if the transition is allowed.
func (s SubmissionState) Advance(next SubmissionState) (SubmissionState, error) {
	for _, allowed := range submissionTransitions[s] {
		if allowed == next {
			return next, nil
		}
	}
	return s, fmt.Errorf("submission cannot move from %s to %s", s, next)
}

const (
	minLatitude  = -90
	maxLatitude  = 90
	minLongitude = -180
	maxLongitude = 180
)

// EvaluateSubmission checks a draft without touching storage or the database.
// Problems are ordered title, images, coordinates, flag, description.
func EvaluateSubmission(draft *request.SubmitReportRequest) (SubmissionState, []FieldProblem) {
	if draft == nil || isEmptyDraft(draft) {
		return StateEmpty, requiredProblems()
	}

	var problems []FieldProblem

	if strings.TrimSpace(draft.Title) == "" {
		problems = append(problems, FieldProblem{"title", "Title is required"})
	}

	switch {
	case len(draft.Images) == 0:
		problems = append(problems, FieldProblem{"images", "At least one image is required"})
	case len(draft.Images) > entity.MaxReportImages:
		problems = append(problems, FieldProblem{"images", fmt.Sprintf("At most %d images are allowed", entity.MaxReportImages)})
	}

	switch {
	case draft.Latitude == nil || draft.Longitude == nil:
		problems = append(problems, FieldProblem{"coordinates", "Coordinates are required"})
	case !finite(*draft.Latitude) || !finite(*draft.Longitude),
		*draft.Latitude < minLatitude || *draft.Latitude > maxLatitude ||
		*draft.Longitude < minLongitude || *draft.Longitude > maxLongitude:
		problems = append(problems, FieldProblem{"coordinates", "Coordinates are out of range"})
	}

	flag := entity.NormalizeFlag(draft.Flag)
	switch {
	case flag == "":
		problems = append(problems, FieldProblem{"flag", "Flag is required"})
	case !flag.Valid():
		problems = append(problems, FieldProblem{"flag", "Must be one of: red, yellow, green, orange"})
	}

	if strings.TrimSpace(draft.Description) == "" {
		problems = append(problems, FieldProblem{"description", "Description is required"})
	}

	if len(problems) > 0 {
		return StatePartial, problems
	}
	return StateReady, nil
}

func isEmptyDraft(d *request.SubmitReportRequest) bool {
	return strings.TrimSpace(d.Title) == "" &&
		strings.TrimSpace(d.Description) == "" &&
		strings.TrimSpace(d.Flag) == "" &&
		d.Latitude == nil && d.Longitude == nil &&
		len(d.Images) == 0
}

func requiredProblems() []FieldProblem {
	return []FieldProblem{
		{"title", "Title is required"},
		{"images", "At least one image is required"},
		{"coordinates", "Coordinates are required"},
		{"flag", "Flag is required"},
		{"description", "Description is required"},
	}
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
