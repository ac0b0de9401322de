package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ProfileInput {
	return &ProfileInput{
		UserID:       "user_1",
		Bio:          "  I love trail running and weekend chess tournaments.  ",
		InterestTags: []string{"Hiking", " chess ", "hiking", ""},
		City:         "Bangalore",
		Timezone:     "Asia/Kolkata",
	}
}

func TestValidateProfileInput_Normalizes(t *testing.T) {
	in := validInput()
	require.NoError(t, ValidateProfileInput(in))

	assert.Equal(t, "I love trail running and weekend chess tournaments.", in.Bio)
	assert.Equal(t, []string{"hiking", "chess"}, in.InterestTags)
}

func TestValidateProfileInput_Rules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ProfileInput)
		wantErr error
	}{
		{"empty user", func(p *ProfileInput) { p.UserID = " " }, ErrEmptyUserID},
		{"short bio", func(p *ProfileInput) { p.Bio = "   too short " }, ErrBioLength},
		{"long bio", func(p *ProfileInput) { p.Bio = strings.Repeat("a", 501) }, ErrBioLength},
		{"no tags", func(p *ProfileInput) { p.InterestTags = []string{" ", ""} }, ErrTagCount},
		{"too many tags", func(p *ProfileInput) {
			p.InterestTags = nil
			for i := 0; i < 21; i++ {
				p.InterestTags = append(p.InterestTags, strings.Repeat("t", i+1))
			}
		}, ErrTagCount},
		{"empty city", func(p *ProfileInput) { p.City = "" }, ErrEmptyCity},
		{"bad timezone", func(p *ProfileInput) { p.Timezone = "Mars/Olympus" }, ErrInvalidTimezone},
		{"empty timezone", func(p *ProfileInput) { p.Timezone = "" }, ErrInvalidTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)
			err := ValidateProfileInput(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateProfileInput_Nil(t *testing.T) {
	assert.ErrorIs(t, ValidateProfileInput(nil), ErrValidation)
}

func TestBioLengthBoundaries(t *testing.T) {
	in := validInput()
	in.Bio = strings.Repeat("b", MinBioLength)
	assert.NoError(t, ValidateProfileInput(in))

	in = validInput()
	in.Bio = strings.Repeat("b", MaxBioLength)
	assert.NoError(t, ValidateProfileInput(in))
}

func TestValidateCommunity(t *testing.T) {
	assert.NoError(t, ValidateCommunity(&Community{ID: "comm_001"}))
	assert.ErrorIs(t, ValidateCommunity(&Community{}), ErrEmptyCommunityID)
	assert.ErrorIs(t, ValidateCommunity(&Community{ID: "c", MemberCount: -1}), ErrValidation)
	assert.ErrorIs(t, ValidateCommunity(nil), ErrValidation)
}
