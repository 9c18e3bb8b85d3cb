package request

import (
	"math"
	"testing"

	"billboard-report/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestFlagValidation(t *testing.T) {
	assert.Nil(t, utils.ValidateStruct(UpdateReportRequest{Description: "ok", Flag: "Orange"}))

	errs := utils.ValidateStruct(UpdateReportRequest{Description: "ok", Flag: "blue"})
	assert.Equal(t, map[string]string{"flag": "Must be one of: red, yellow, green, orange"}, errs)
}

func TestChangePasswordMustDiffer(t *testing.T) {
	errs := utils.ValidateStruct(ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "secret123"})
	assert.Contains(t, errs, "new_password")
}

func TestPaginatedRequestNormalized(t *testing.T) {
	p := PaginatedRequest{}.Normalized(5)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 5, p.PerPage)
	assert.Equal(t, 0, p.Offset())

	p = PaginatedRequest{Page: 3, PerPage: 500}.Normalized(5)
	assert.Equal(t, 100, p.PerPage)
	assert.Equal(t, 200, p.Offset())

	p = PaginatedRequest{Page: math.MaxInt, PerPage: 10}.Normalized(5)
	assert.Equal(t, math.MaxInt/10, p.Page)
	assert.Positive(t, p.Offset())
	assert.Positive(t, p.Offset()+p.Limit())
}

func TestPaginatedRequestOffsetSaturates(t *testing.T) {
	p := PaginatedRequest{Page: math.MaxInt, PerPage: 10}
	assert.Equal(t, math.MaxInt, p.Offset())
}
