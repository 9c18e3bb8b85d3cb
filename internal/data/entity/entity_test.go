package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagColor(t *testing.T) {
	for _, f := range Flags {
		assert.True(t, f.Valid())
		assert.Equal(t, string(f), f.Color())
	}

	assert.Equal(t, DefaultMarkerColor, Flag("").Color())
	assert.Equal(t, DefaultMarkerColor, Flag("purple").Color())
	assert.False(t, Flag("Red").Valid())
	assert.Equal(t, FlagRed, NormalizeFlag(" Red "))
}

func TestReportNormalize(t *testing.T) {
	r := &Report{
		Title:     "  Highway 9  ",
		Flag:      "YELLOW",
		ImageKeys: []string{"a", "b", "c", "d", "e"},
	}
	r.Normalize()

	assert.Equal(t, "Highway 9", r.Title)
	assert.Equal(t, FlagYellow, r.Flag)
	assert.Equal(t, StatusPending, r.Status)
	assert.Len(t, r.ImageKeys, MaxReportImages)
	assert.Equal(t, "a", r.FirstImageKey())

	empty := &Report{Status: StatusApproved}
	empty.Normalize()
	assert.NotNil(t, empty.ImageKeys)
	assert.Empty(t, empty.FirstImageKey())
	assert.Equal(t, StatusApproved, empty.Status)
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole(" ADMIN "))
	assert.Equal(t, RoleUser, ParseRole("user"))
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("superuser"))
}
