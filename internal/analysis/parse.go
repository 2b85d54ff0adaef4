package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"wellbeing-assessment/internal/assessment"
)

const (
	defaultScore = 50
	defaultRisk  = assessment.RiskModerate
)

var (
	// Greedy: spans from the first "{" to the last "}" across lines.
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

	ErrNoJSON = errors.New("no JSON object in model reply")
)

type modelCondition struct {
	Code        looseText   `json:"code"`
	Name        looseText   `json:"name"`
	Probability looseNumber `json:"probability"`
	Reasoning   looseText   `json:"reasoning"`
}

type modelReply struct {
	Conditions        []json.RawMessage `json:"conditions"`
	OverallAssessment looseText         `json:"overall_assessment"`
	RiskLevel         looseText         `json:"risk_level"`
	Recommendations   looseList         `json:"recommendations"`
	OverallScore      looseNumber       `json:"overall_score"`
}

// looseNumber accepts a JSON number or a numeric string such as "75" or "75%".
// Anything else leaves it unset.
type looseNumber struct {
	value float64
	set   bool
}

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch x := v.(type) {
	case float64:
		n.value, n.set = x, true
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(x), "%"))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			n.value, n.set = f, true
		}
	}
	return nil
}

func (n looseNumber) intOr(def int) int {
	if !n.set {
		return def
	}
	return int(math.Round(n.value))
}

// looseText accepts a string or a number; other values decode as empty.
type looseText string

func (t *looseText) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	*t = looseText(textOf(v))
	return nil
}

func textOf(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}

// looseList accepts an array of strings or a single string.
type looseList []string

func (l *looseList) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch x := v.(type) {
	case []any:
		for _, item := range x {
			if s := textOf(item); s != "" {
				*l = append(*l, s)
			}
		}
	case string:
		if x != "" {
			*l = looseList{x}
		}
	}
	return nil
}

// ParseReply extracts the structured result from free model text. Numeric
// fields are passed through without range checks and may arrive as strings;
// absent or unreadable score and risk level take the stored defaults. Only an
// undecodable object or a non-array condition list is an error.
func ParseReply(reply string) (assessment.Result, error) {
	raw := jsonObjectRe.FindString(reply)
	if raw == "" {
		return assessment.Result{}, ErrNoJSON
	}

	var m modelReply
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return assessment.Result{}, fmt.Errorf("decode model reply: %w", err)
	}

	res := assessment.Result{
		Conditions:        make([]assessment.Condition, 0, len(m.Conditions)),
		OverallAssessment: string(m.OverallAssessment),
		RiskLevel:         defaultRisk,
		Recommendations:   []string(m.Recommendations),
		OverallScore:      m.OverallScore.intOr(defaultScore),
	}
	for _, item := range m.Conditions {
		var c modelCondition
		if err := json.Unmarshal(item, &c); err != nil {
			// not an object
			continue
		}
		res.Conditions = append(res.Conditions, assessment.Condition{
			Code:        string(c.Code),
			Name:        string(c.Name),
			Probability: c.Probability.intOr(0),
			Reasoning:   string(c.Reasoning),
		})
	}
	if risk := strings.TrimSpace(string(m.RiskLevel)); risk != "" {
		res.RiskLevel = assessment.RiskTier(risk)
	}
	if res.Recommendations == nil {
		res.Recommendations = []string{}
	}
	return res, nil
}
