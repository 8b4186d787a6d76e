package docanalysis

import "strings"

// Normalize lowercases extracted text for keyword search. Accented and
// unaccented trigger variants both live in the rule table, so no diacritic
// folding happens here.
func Normalize(text string) string {
	return strings.ToLower(text)
}

// Classifier evaluates the ordered rule table against normalized text. It
// holds no cross-call state and is safe for concurrent use.
type Classifier struct {
	rules []TypeRule
}

func NewClassifier(rules []TypeRule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify runs every base-type rule in table order. The last matching rule
// wins the single-type fields; when two or more base rules match, the type
// is overridden to MULTIPLE while qualifications and exam gaps still
// reflect the last match only.
func (c *Classifier) Classify(text string) Classification {
	normalized := Normalize(text)

	result := Classification{Type: TypeUnidentified}
	var winner *TypeRule
	for i := range c.rules {
		rule := &c.rules[i]
		if !containsAny(normalized, rule.Triggers) {
			continue
		}
		winner = rule
		result.MatchedBaseTypes = append(result.MatchedBaseTypes, rule.Type)
	}
	if winner == nil {
		return result
	}

	result.Type = winner.Type
	result.MatchedQualifications = append([]string(nil), winner.Qualifications...)
	if len(winner.ExamTriggers) > 0 && !containsAny(normalized, winner.ExamTriggers) {
		result.TypeSpecificGaps = append(result.TypeSpecificGaps, winner.ExamGap)
	}
	if len(result.MatchedBaseTypes) >= 2 {
		result.Type = TypeMultiple
	}
	return result
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}
