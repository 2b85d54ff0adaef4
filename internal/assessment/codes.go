package assessment

import "strings"

// ConditionCode is one row of the ICD-10 reference table.
type ConditionCode struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var conditionCodes = []ConditionCode{
	{Code: "F32", Name: "Depressive Episode"},
	{Code: "F32.1", Name: "Major Depressive Episode, Moderate"},
	{Code: "F33", Name: "Recurrent Depressive Disorder"},
	{Code: "F34", Name: "Persistent Mood Disorders"},
	{Code: "F41", Name: "Anxiety Disorders"},
	{Code: "F41.1", Name: "Generalized Anxiety Disorder"},
	{Code: "F40", Name: "Phobic Anxiety Disorders"},
	{Code: "F42", Name: "Obsessive-Compulsive Disorder"},
	{Code: "F42.0", Name: "Predominantly Obsessional Thoughts or Ruminations"},
	{Code: "F43", Name: "Reaction to Severe Stress and Adjustment Disorders"},
	{Code: "F43.1", Name: "Post-Traumatic Stress Disorder (PTSD)"},
	{Code: "F44", Name: "Dissociative [Conversion] Disorders"},
	{Code: "F50", Name: "Eating Disorders"},
	{Code: "F50.0", Name: "Anorexia Nervosa"},
	{Code: "F50.2", Name: "Bulimia Nervosa"},
}

// ConditionCodes returns a copy of the reference table.
func ConditionCodes() []ConditionCode {
	out := make([]ConditionCode, len(conditionCodes))
	copy(out, conditionCodes)
	return out
}

// KnownCode reports whether code is in the reference table. Codes outside the
// table are still valid analysis output and must be passed through.
func KnownCode(code string) bool {
	for _, c := range conditionCodes {
		if c.Code == code {
			return true
		}
	}
	return false
}

// Family returns the top-level part of a dotted code, e.g. "F41" for "F41.1".
func Family(code string) string {
	family, _, _ := strings.Cut(code, ".")
	return family
}
