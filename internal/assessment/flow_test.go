package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(questions []Question) []QuestionID {
	out := make([]QuestionID, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.ID)
	}
	return out
}

func TestResolve_NoAnswersShowsOnlyBaseQuestions(t *testing.T) {
	got := Resolve(map[QuestionID]string{}, DefaultCatalog())

	assert.Equal(t, []QuestionID{1, 3, 4, 5, 7, 9, 10, 13, 14, 15, 16}, ids(got))
	for _, q := range got {
		assert.False(t, q.FollowUp, "question %d", q.ID)
	}
}

func TestResolve_FollowUpsFollowTheirParent(t *testing.T) {
	answers := map[QuestionID]string{
		1:  "3",
		5:  "8",
		7:  " yes ",
		10: "No",
	}

	got := Resolve(answers, DefaultCatalog())

	assert.Equal(t, []QuestionID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 12, 13, 14, 15, 16}, ids(got))
}

func TestResolve_TriggersThatDoNotFire(t *testing.T) {
	answers := map[QuestionID]string{
		1:  "5",
		5:  "5",
		7:  "No",
		10: "Maybe",
	}

	got := Resolve(answers, DefaultCatalog())

	assert.Equal(t, []QuestionID{1, 3, 4, 5, 7, 9, 10, 13, 14, 15, 16}, ids(got))
}

func TestResolve_NonNumericParentAnswerDoesNotPanic(t *testing.T) {
	answers := map[QuestionID]string{1: "terrible", 5: ""}

	var got []Question
	require.NotPanics(t, func() { got = Resolve(answers, DefaultCatalog()) })
	assert.NotContains(t, ids(got), QuestionID(2))
	assert.NotContains(t, ids(got), QuestionID(6))
}

func TestResolve_Deterministic(t *testing.T) {
	answers := map[QuestionID]string{1: "2", 7: "Yes", 10: "Yes"}

	first := Resolve(answers, DefaultCatalog())
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Resolve(answers, DefaultCatalog()))
	}
}

func TestResolve_NestedFollowUps(t *testing.T) {
	catalog, err := NewCatalog([]Question{
		{ID: 1, Type: TypeNegativeThoughts, Text: "Any?", Options: []string{"Yes", "No"}},
		{ID: 2, Type: TypeThoughtDescription, Text: "How often?", FollowUp: true, ParentID: 1, Trigger: Equals("yes"), Scale: scale(0, 10)},
		{ID: 3, Type: TypeThoughtDescription, Text: "Describe", FollowUp: true, ParentID: 2, Trigger: GreaterThan(3)},
		{ID: 4, Type: TypeGratitude, Text: "Grateful for?"},
	})
	require.NoError(t, err)

	got := Resolve(map[QuestionID]string{1: "Yes", 2: "7"}, catalog)
	assert.Equal(t, []QuestionID{1, 2, 3, 4}, ids(got))

	// The grandchild stays hidden while its own parent is unanswered.
	got = Resolve(map[QuestionID]string{1: "Yes"}, catalog)
	assert.Equal(t, []QuestionID{1, 2, 4}, ids(got))

	// An answer to a hidden parent does not surface its children.
	got = Resolve(map[QuestionID]string{1: "No", 2: "9"}, catalog)
	assert.Equal(t, []QuestionID{1, 4}, ids(got))
}

func TestResolve_ParentPrecedesFollowUp(t *testing.T) {
	answers := map[QuestionID]string{1: "1", 5: "10", 7: "Yes", 10: "Yes"}
	got := Resolve(answers, DefaultCatalog())

	pos := make(map[QuestionID]int, len(got))
	for i, q := range got {
		pos[q.ID] = i
	}
	for _, q := range got {
		if q.FollowUp {
			assert.Less(t, pos[q.ParentID], pos[q.ID], "follow-up %d", q.ID)
		}
	}
}

func TestUnanswered(t *testing.T) {
	answers := map[QuestionID]string{1: "2", 3: "Okay"}

	got := Unanswered(answers, DefaultCatalog())

	assert.Equal(t, []QuestionID{2, 4, 5, 7, 9, 10, 13, 14, 15, 16}, ids(got))
}
