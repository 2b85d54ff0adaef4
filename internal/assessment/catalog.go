package assessment

import (
	"fmt"
)

// Catalog is the ordered, read-only question set. It is built once at startup
// and shared by reference; nothing mutates it afterwards.
type Catalog struct {
	questions []Question
	byID      map[QuestionID]int
	children  map[QuestionID][]int
}

// NewCatalog validates the questions and indexes them by id and parent.
// Declaration order is preserved and defines presentation order.
func NewCatalog(questions []Question) (*Catalog, error) {
	c := &Catalog{
		questions: make([]Question, len(questions)),
		byID:      make(map[QuestionID]int, len(questions)),
		children:  make(map[QuestionID][]int),
	}
	copy(c.questions, questions)

	for i, q := range c.questions {
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("question %d: duplicate id", q.ID)
		}
		c.byID[q.ID] = i
	}

	for i, q := range c.questions {
		if err := validateQuestion(q); err != nil {
			return nil, fmt.Errorf("question %d: %w", q.ID, err)
		}
		if !q.FollowUp {
			continue
		}
		if _, ok := c.byID[q.ParentID]; !ok {
			return nil, fmt.Errorf("question %d: unknown parent %d", q.ID, q.ParentID)
		}
		if q.ParentID == q.ID {
			return nil, fmt.Errorf("question %d: is its own parent", q.ID)
		}
		c.children[q.ParentID] = append(c.children[q.ParentID], i)
	}

	return c, nil
}

func validateQuestion(q Question) error {
	if q.Scale != nil && len(q.Options) > 0 {
		return fmt.Errorf("has both a scale and an option set")
	}
	if q.Scale != nil && q.Scale.Min > q.Scale.Max {
		return fmt.Errorf("scale min %d exceeds max %d", q.Scale.Min, q.Scale.Max)
	}
	if q.FollowUp {
		if q.ParentID == 0 {
			return fmt.Errorf("follow-up without parent")
		}
		if q.Trigger == nil {
			return fmt.Errorf("follow-up without trigger")
		}
		return q.Trigger.validate()
	}
	if q.ParentID != 0 || q.Trigger != nil {
		return fmt.Errorf("base question carries a parent or trigger")
	}
	return nil
}

// MustCatalog is NewCatalog for static data known to be valid.
func MustCatalog(questions []Question) *Catalog {
	c, err := NewCatalog(questions)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Get(id QuestionID) (Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// Questions returns a copy of all questions in declaration order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Children returns the direct follow-ups of a question in declaration order.
func (c *Catalog) Children(id QuestionID) []Question {
	idx := c.children[id]
	out := make([]Question, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.questions[i])
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.questions)
}

func scale(min, max int) *Scale {
	return &Scale{Min: min, Max: max}
}

var defaultCatalog = MustCatalog([]Question{
	{ID: 1, Type: TypeMoodScale, Text: "On a scale of 1 to 10, how would you rate your overall mood today?", Scale: scale(1, 10)},
	{ID: 2, Type: TypeMoodFollowUp, Text: "What do you think contributed to this low mood today?", FollowUp: true, ParentID: 1, Trigger: LessThan(5)},
	{ID: 3, Type: TypeSleepQuality, Text: "How well did you sleep last night?", Options: []string{"Very well", "Okay", "Poorly", "Didn't sleep"}},
	{ID: 4, Type: TypeEnergyLevel, Text: "How would you describe your energy level today?", Options: []string{"High", "Moderate", "Low", "Extremely low"}},
	{ID: 5, Type: TypeStressScale, Text: "What is your stress level right now?", Scale: scale(1, 10)},
	{ID: 6, Type: TypeStressCauses, Text: "What is causing you stress today?", FollowUp: true, ParentID: 5, Trigger: GreaterThan(5)},
	{ID: 7, Type: TypeNegativeThoughts, Text: "Have you experienced any negative or intrusive thoughts today?", Options: []string{"Yes", "No"}},
	{ID: 8, Type: TypeThoughtDescription, Text: "Would you like to describe what came up?", FollowUp: true, ParentID: 7, Trigger: Equals("Yes")},
	{ID: 9, Type: TypeSocialInteraction, Text: "Did you interact with someone today in a way that felt meaningful or supportive?", Options: []string{"Yes", "No", "I avoided interactions"}},
	{ID: 10, Type: TypeDailyActivity, Text: "Were you able to do something you intended or enjoyed today?", Options: []string{"Yes", "No"}},
	{ID: 11, Type: TypeActivityDescription, Text: "What was it that you accomplished or enjoyed?", FollowUp: true, ParentID: 10, Trigger: Equals("Yes")},
	{ID: 12, Type: TypeActivityBarriers, Text: "What made it difficult to do what you intended?", FollowUp: true, ParentID: 10, Trigger: Equals("No")},
	{ID: 13, Type: TypeGratitude, Text: "What is one thing you felt grateful for or proud of today?"},
	{ID: 14, Type: TypePhysicalSymptoms, Text: "Have you noticed any physical symptoms today (headaches, stomach issues, muscle tension, etc.)?"},
	{ID: 15, Type: TypeCopingStrategies, Text: "What strategies did you use today to manage difficult emotions or stress?"},
	{ID: 16, Type: TypeSupportSystem, Text: "How connected do you feel to your support system (family, friends, community)?", Options: []string{"Very connected", "Somewhat connected", "Disconnected", "I don't have a support system"}},
})

// DefaultCatalog returns the built-in daily check-in questionnaire.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}
