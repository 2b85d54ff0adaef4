package assessment

// Resolve returns the questions currently applicable for a session, given the
// latest raw answer per question. Base questions keep catalog order and each
// one is immediately followed by its triggered follow-ups. A follow-up whose
// parent has no recorded answer is never shown.
func Resolve(answers map[QuestionID]string, catalog *Catalog) []Question {
	out := make([]Question, 0, catalog.Len())
	for _, q := range catalog.questions {
		if q.FollowUp {
			continue
		}
		out = appendWithFollowUps(out, q, answers, catalog)
	}
	return out
}

func appendWithFollowUps(out []Question, q Question, answers map[QuestionID]string, catalog *Catalog) []Question {
	out = append(out, q)
	raw, answered := answers[q.ID]
	if !answered {
		return out
	}
	for _, child := range catalog.Children(q.ID) {
		if child.Trigger != nil && child.Trigger.Evaluate(raw) {
			out = appendWithFollowUps(out, child, answers, catalog)
		}
	}
	return out
}

// Unanswered returns the resolved questions that have no answer yet.
func Unanswered(answers map[QuestionID]string, catalog *Catalog) []Question {
	var pending []Question
	for _, q := range Resolve(answers, catalog) {
		if _, ok := answers[q.ID]; !ok {
			pending = append(pending, q)
		}
	}
	return pending
}
