package matching

import (
	"slices"
	"sort"

	"wellbeing-assessment/internal/assessment"
)

// MaxMatches caps the number of clinicians returned by Match.
const MaxMatches = 5

// Match ranks the roster against the condition codes. A clinician matches when
// any code, or its top-level family, appears in their specializations. Results
// are in descending rating order and never longer than MaxMatches.
func Match(conditions []assessment.Condition, roster []Clinician) []Clinician {
	matches := []Clinician{}
	if len(conditions) == 0 {
		return matches
	}

	for _, c := range ByRating(roster) {
		if !specializesIn(c, conditions) {
			continue
		}
		matches = append(matches, c)
		if len(matches) == MaxMatches {
			break
		}
	}
	return matches
}

func specializesIn(c Clinician, conditions []assessment.Condition) bool {
	for _, cond := range conditions {
		if slices.Contains(c.SpecializesIn, cond.Code) ||
			slices.Contains(c.SpecializesIn, assessment.Family(cond.Code)) {
			return true
		}
	}
	return false
}

func sortByRating(roster []Clinician) {
	sort.SliceStable(roster, func(i, j int) bool {
		return roster[i].Rating > roster[j].Rating
	})
}
