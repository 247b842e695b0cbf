// Package match implements the preference-based compatibility scoring used to
// recommend study groups. Scoring is a pure function over two preference sets:
// it has no persistence, no learning, and no side effects, which keeps it
// trivially testable and safe to run concurrently.
//
// A score is a weighted combination of three dimensions (subjects, topics,
// preferred times). Matching is case-insensitive substring containment: a
// student preference counts as matched when some group value contains it.
// Note the direction — the comparison is student-relative, so Score(a, b) and
// Score(b, a) generally differ.
package match

import (
	"strings"

	"golang.org/x/text/cases"
)

// Dimension weights. They sum to 1.0; the final division by the weight total
// keeps the score in [0,1] even if the weights are ever retuned.
const (
	subjectWeight = 0.4
	topicWeight   = 0.3
	timeWeight    = 0.3
)

// PreferenceSet holds the subject/topic/time-slot preferences of a student, or
// the derived attributes of a study group (a group contributes at most one
// subject and one topic).
type PreferenceSet struct {
	Subjects []string `json:"subjects"`
	Topics   []string `json:"topics"`
	Times    []string `json:"times"`
}

// folder performs Unicode case folding for caseless comparison.
var folder = cases.Fold()

// normalize lowercases a string for caseless substring matching.
func normalize(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// dimensionScore returns matched/max(len(student),1) for one dimension.
// A student value is matched when some group value contains it (caseless).
// An empty student dimension scores 0, which deliberately caps the overall
// score below 1.0 — callers should collect all three dimensions when they
// want a perfect match to be reachable.
func dimensionScore(student, group []string) float64 {
	matched := 0
	for _, s := range student {
		ns := normalize(s)
		if ns == "" {
			continue
		}
		for _, g := range group {
			if strings.Contains(normalize(g), ns) {
				matched++
				break
			}
		}
	}
	denom := len(student)
	if denom < 1 {
		denom = 1
	}
	return float64(matched) / float64(denom)
}

// Score computes the [0,1] compatibility of a student's preferences against a
// group's attributes. Subjects weigh 0.4, topics and times 0.3 each.
func Score(student, group PreferenceSet) float64 {
	score := 0.0
	total := 0.0

	score += dimensionScore(student.Subjects, group.Subjects) * subjectWeight
	total += subjectWeight

	score += dimensionScore(student.Topics, group.Topics) * topicWeight
	total += topicWeight

	score += dimensionScore(student.Times, group.Times) * timeWeight
	total += timeWeight

	// total is 1.0 today; clamp anyway so weight drift cannot push past 1.
	if s := score / total; s < 1 {
		return s
	}
	return 1
}

// CommonSubjects returns the student subjects that are contained (caseless) in
// at least one group subject, preserving the student's order with duplicates
// removed.
func CommonSubjects(student, group []string) []string {
	out := make([]string, 0, len(student))
	seen := make(map[string]struct{}, len(student))
	for _, s := range student {
		ns := normalize(s)
		if ns == "" {
			continue
		}
		if _, dup := seen[ns]; dup {
			continue
		}
		for _, g := range group {
			if strings.Contains(normalize(g), ns) {
				seen[ns] = struct{}{}
				out = append(out, s)
				break
			}
		}
	}
	return out
}
