package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellbeing-assessment/internal/assessment"
)

func conditions(codes ...string) []assessment.Condition {
	out := make([]assessment.Condition, 0, len(codes))
	for _, c := range codes {
		out = append(out, assessment.Condition{Code: c})
	}
	return out
}

func clinicianIDs(cs []Clinician) []int {
	out := make([]int, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestMatch_FamilyPrefix(t *testing.T) {
	roster := []Clinician{
		{ID: 1, Name: "Anxiety", SpecializesIn: []string{"F41"}, Rating: 4.0},
		{ID: 2, Name: "Eating", SpecializesIn: []string{"F50"}, Rating: 5.0},
	}

	got := Match(conditions("F41.1"), roster)

	assert.Equal(t, []int{1}, clinicianIDs(got))
}

func TestMatch_ExactSubCode(t *testing.T) {
	roster := []Clinician{
		{ID: 1, SpecializesIn: []string{"F43.1"}, Rating: 4.0},
		{ID: 2, SpecializesIn: []string{"F43.2"}, Rating: 4.5},
	}

	assert.Equal(t, []int{1}, clinicianIDs(Match(conditions("F43.1"), roster)))
	// A broad code does not match a clinician who only lists sub-codes.
	assert.Empty(t, Match(conditions("F43"), roster))
}

func TestMatch_DefaultRosterRankingAndCap(t *testing.T) {
	got := Match(conditions("F32.1", "F41.1"), DefaultRoster())

	require.Len(t, got, MaxMatches)
	assert.Equal(t, []int{2, 1, 8, 3, 7}, clinicianIDs(got))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Rating, got[i].Rating)
	}
}

func TestMatch_NoMatchesIsEmptyNotNil(t *testing.T) {
	got := Match(conditions("F99"), DefaultRoster())
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = Match(nil, DefaultRoster())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMatch_StableAmongEqualRatings(t *testing.T) {
	roster := []Clinician{
		{ID: 10, SpecializesIn: []string{"F50"}, Rating: 4.5},
		{ID: 11, SpecializesIn: []string{"F50"}, Rating: 4.5},
		{ID: 12, SpecializesIn: []string{"F50"}, Rating: 4.9},
		{ID: 13, SpecializesIn: []string{"F50"}, Rating: 4.5},
	}

	got := Match(conditions("F50.2"), roster)

	assert.Equal(t, []int{12, 10, 11, 13}, clinicianIDs(got))
}

func TestMatch_DoesNotReorderRoster(t *testing.T) {
	roster := DefaultRoster()
	Match(conditions("F32"), roster)
	assert.Equal(t, DefaultRoster(), roster)
}

func TestByRating(t *testing.T) {
	got := ByRating(DefaultRoster())
	assert.Equal(t, []int{2, 5, 1, 6, 8, 3, 7, 4}, clinicianIDs(got))
}
