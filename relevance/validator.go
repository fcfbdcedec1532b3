package relevance

import (
	"fmt"
	"regexp"
	"strings"
)

// MinConfidence is the acceptance threshold: entries scoring at or above
// this value are considered on-topic.
const MinConfidence = 0.6

// Result is the outcome of a relevance check. Reasons is a human-readable
// audit trail and is never used for control flow.
type Result struct {
	Valid      bool
	Category   string
	Confidence float64
	Reasons    []string
}

// wordPatterns holds one compiled whole-word pattern per taxonomy term,
// built once at package init since the taxonomy is fixed.
var wordPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	for _, group := range taxonomy {
		for _, t := range group.terms {
			if _, ok := patterns[t.word]; ok {
				continue
			}
			patterns[t.word] = regexp.MustCompile(`\b` + regexp.QuoteMeta(t.word) + `\b`)
		}
	}
	return patterns
}()

// Validate decides whether an entry described by title and explanation is
// on-topic. It is deterministic and side-effect free: identical input
// always yields an identical Result.
//
// The decision procedure:
//  1. Reject immediately (confidence 0) if any exclusion term appears as a
//     substring of the lower-cased text.
//  2. Count whole-word matches for every taxonomy term.
//  3. Reject (confidence 0) if nothing matched.
//  4. The best-matching term picks the category; confidence is
//     min(0.5 + 0.1*distinctTerms + 0.2*bestCount, 1.0).
//  5. Accept iff confidence >= MinConfidence.
func Validate(title, explanation string) Result {
	text := strings.ToLower(title + " " + explanation)

	for _, excluded := range exclusionTerms {
		if strings.Contains(text, excluded) {
			return Result{
				Valid:      false,
				Confidence: 0,
				Reasons:    []string{fmt.Sprintf("excluded term %q present", excluded)},
			}
		}
	}

	var (
		reasons       []string
		distinctTerms int
		bestCount     int
		bestCategory  string
	)
	for _, group := range taxonomy {
		groupMatches := 0
		for _, t := range group.terms {
			count := len(wordPatterns[t.word].FindAllStringIndex(text, -1))
			if count == 0 {
				continue
			}
			distinctTerms++
			groupMatches += count
			if count > bestCount {
				bestCount = count
				bestCategory = t.category
			}
		}
		if groupMatches > 0 {
			reasons = append(reasons, fmt.Sprintf("%s: %d match(es)", group.name, groupMatches))
		}
	}

	if distinctTerms == 0 {
		return Result{
			Valid:      false,
			Confidence: 0,
			Reasons:    []string{"no astronomical terms found"},
		}
	}

	confidence := 0.5 + 0.1*float64(distinctTerms) + 0.2*float64(bestCount)
	if confidence > 1.0 {
		confidence = 1.0
	}

	valid := confidence >= MinConfidence
	reasons = append(reasons, fmt.Sprintf(
		"%d distinct term(s), best term count %d, confidence %.2f", distinctTerms, bestCount, confidence))

	return Result{
		Valid:      valid,
		Category:   bestCategory,
		Confidence: confidence,
		Reasons:    reasons,
	}
}
