package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Equal(t, 16, c.Len())

	q, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, KindScale, q.Kind())

	q, ok = c.Get(3)
	require.True(t, ok)
	assert.Equal(t, KindOptions, q.Kind())

	q, ok = c.Get(13)
	require.True(t, ok)
	assert.Equal(t, KindFreeText, q.Kind())

	assert.Equal(t, []QuestionID{11, 12}, ids(c.Children(10)))
	assert.Empty(t, c.Children(3))

	_, ok = c.Get(99)
	assert.False(t, ok)
}

func TestNewCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
	}{
		{
			name: "scale and options",
			questions: []Question{
				{ID: 1, Text: "x", Scale: scale(1, 10), Options: []string{"a"}},
			},
		},
		{
			name: "inverted scale",
			questions: []Question{
				{ID: 1, Text: "x", Scale: scale(10, 1)},
			},
		},
		{
			name: "duplicate id",
			questions: []Question{
				{ID: 1, Text: "x"},
				{ID: 1, Text: "y"},
			},
		},
		{
			name: "follow-up without trigger",
			questions: []Question{
				{ID: 1, Text: "x"},
				{ID: 2, Text: "y", FollowUp: true, ParentID: 1},
			},
		},
		{
			name: "follow-up with unknown parent",
			questions: []Question{
				{ID: 2, Text: "y", FollowUp: true, ParentID: 7, Trigger: Equals("Yes")},
			},
		},
		{
			name: "base question with trigger",
			questions: []Question{
				{ID: 1, Text: "x", Trigger: LessThan(3)},
			},
		},
		{
			name: "empty equals trigger",
			questions: []Question{
				{ID: 1, Text: "x"},
				{ID: 2, Text: "y", FollowUp: true, ParentID: 1, Trigger: Equals("  ")},
			},
		},
		{
			name: "unknown trigger op",
			questions: []Question{
				{ID: 1, Text: "x"},
				{ID: 2, Text: "y", FollowUp: true, ParentID: 1, Trigger: &Trigger{Op: "between"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.questions)
			assert.Error(t, err)
		})
	}
}

func TestTrigger_Evaluate(t *testing.T) {
	tests := []struct {
		name    string
		trigger *Trigger
		raw     string
		want    bool
	}{
		{"less than fires", LessThan(5), "4", true},
		{"less than boundary", LessThan(5), "5", false},
		{"less than trims", LessThan(5), " 2 ", true},
		{"less than non numeric", LessThan(5), "low", false},
		{"less than float", LessThan(5), "3.5", false},
		{"greater than fires", GreaterThan(5), "6", true},
		{"greater than boundary", GreaterThan(5), "5", false},
		{"greater than empty", GreaterThan(5), "", false},
		{"equals case insensitive", Equals("Yes"), "YES", true},
		{"equals trims", Equals("No"), "  no\n", true},
		{"equals mismatch", Equals("Yes"), "Yes please", false},
		{"unknown op", &Trigger{Op: "between"}, "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.trigger.Evaluate(tt.raw))
		})
	}
}

func TestTrigger_String(t *testing.T) {
	assert.Equal(t, "<5", LessThan(5).String())
	assert.Equal(t, ">5", GreaterThan(5).String())
	assert.Equal(t, "Yes", Equals("Yes").String())
}

func TestTierForScore(t *testing.T) {
	assert.Equal(t, RiskLow, TierForScore(100))
	assert.Equal(t, RiskLow, TierForScore(71))
	assert.Equal(t, RiskModerate, TierForScore(70))
	assert.Equal(t, RiskModerate, TierForScore(41))
	assert.Equal(t, RiskHigh, TierForScore(40))
	assert.Equal(t, RiskHigh, TierForScore(10))
}

func TestFamilyAndKnownCode(t *testing.T) {
	assert.Equal(t, "F41", Family("F41.1"))
	assert.Equal(t, "F41", Family("F41"))
	assert.Equal(t, "", Family(""))
	assert.True(t, KnownCode("F50.2"))
	assert.False(t, KnownCode("F99"))
	assert.Len(t, ConditionCodes(), 15)
}
