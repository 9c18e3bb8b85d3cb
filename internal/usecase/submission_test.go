package usecase

import (
	"math"
	"testing"

	"billboard-report/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateSubmissionEmptyDraft(t *testing.T) {
	state, problems := EvaluateSubmission(&request.SubmitReportRequest{})

	assert.Equal(t, StateEmpty, state)
	require.Len(t, problems, 5)
	assert.Equal(t, []string{"title", "images", "coordinates", "flag", "description"}, fieldsOf(problems))
}

func TestEvaluateSubmissionProblems(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*request.SubmitReportRequest)
		field   string
		message string
	}{
		{"missing title", func(d *request.SubmitReportRequest) { d.Title = "  " }, "title", "Title is required"},
		{"no images", func(d *request.SubmitReportRequest) { d.Images = nil }, "images", "At least one image is required"},
		{"too many images", func(d *request.SubmitReportRequest) { d.Images = images(5) }, "images", "At most 4 images are allowed"},
		{"missing coordinates", func(d *request.SubmitReportRequest) { d.Longitude = nil }, "coordinates", "Coordinates are required"},
		{"latitude out of range", func(d *request.SubmitReportRequest) { d.Latitude = floatPtr(91) }, "coordinates", "Coordinates are out of range"},
		{"latitude NaN", func(d *request.SubmitReportRequest) { d.Latitude = floatPtr(math.NaN()) }, "coordinates", "Coordinates are out of range"},
		{"longitude NaN", func(d *request.SubmitReportRequest) { d.Longitude = floatPtr(math.NaN()) }, "coordinates", "Coordinates are out of range"},
		{"latitude infinite", func(d *request.SubmitReportRequest) { d.Latitude = floatPtr(math.Inf(1)) }, "coordinates", "Coordinates are out of range"},
		{"longitude negative infinite", func(d *request.SubmitReportRequest) { d.Longitude = floatPtr(math.Inf(-1)) }, "coordinates", "Coordinates are out of range"},
		{"missing flag", func(d *request.SubmitReportRequest) { d.Flag = "" }, "flag", "Flag is required"},
		{"unknown flag", func(d *request.SubmitReportRequest) { d.Flag = "purple" }, "flag", "Must be one of: red, yellow, green, orange"},
		{"missing description", func(d *request.SubmitReportRequest) { d.Description = "" }, "description", "Description is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft(1)
			tt.mutate(draft)

			state, problems := EvaluateSubmission(draft)

			assert.Equal(t, StatePartial, state)
			require.Len(t, problems, 1)
			assert.Equal(t, tt.field, problems[0].Field)
			assert.Equal(t, tt.message, problems[0].Message)
		})
	}
}

func TestEvaluateSubmissionReady(t *testing.T) {
	draft := validDraft(4)
	draft.Flag = " Orange "

	state, problems := EvaluateSubmission(draft)

	assert.Equal(t, StateReady, state)
	assert.Empty(t, problems)
}

func TestSubmissionStateAdvance(t *testing.T) {
	state, err := StateReady.Advance(StateSubmitting)
	require.NoError(t, err)
	assert.Equal(t, StateSubmitting, state)

	state, err = state.Advance(StateFailed)
	require.NoError(t, err)

	state, err = state.Advance(StateSubmitting)
	require.NoError(t, err)

	state, err = state.Advance(StateSubmitted)
	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, state)

	_, err = StateEmpty.Advance(StateSubmitting)
	assert.Error(t, err)

	state, err = StateSubmitted.Advance(StateReady)
	assert.Error(t, err)
	assert.Equal(t, StateSubmitted, state)
}

func fieldsOf(problems []FieldProblem) []string {
	out := make([]string, len(problems))
	for i, p := range problems {
		out[i] = p.Field
	}
	return out
}
