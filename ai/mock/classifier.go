package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/skysift/apodex/ai"
)

// Classifier is a test double for ai.Classifier.
type Classifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, uses default keyword behavior.
	ClassifyFunc func(ctx context.Context, text string) (ai.Classification, error)

	mu        sync.Mutex
	callCount int
}

// NewClassifier creates a mock classifier with default keyword behavior.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the first candidate label found as a substring of the
// text (case-insensitive) with score 0.9, or the last label ("Composite/
// Technical") with score 0.1 when nothing matches.
func (m *Classifier) Classify(ctx context.Context, text string) (ai.Classification, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, text)
	}

	lower := strings.ToLower(text)
	for _, label := range ai.CandidateLabels {
		if strings.Contains(lower, strings.ToLower(label)) {
			return ai.Classification{Label: label, Score: 0.9}, nil
		}
	}
	return ai.Classification{Label: ai.CandidateLabels[len(ai.CandidateLabels)-1], Score: 0.1}, nil
}

// CallCount returns the number of times Classify was called.
func (m *Classifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *Classifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ClassifyFunc = nil
}
