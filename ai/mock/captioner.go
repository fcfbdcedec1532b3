package mock

import (
	"context"
	"fmt"
	"sync"
)

// Captioner is a test double for ai.Captioner.
type Captioner struct {
	// CaptionFunc is called by Caption if set.
	// If nil, uses default deterministic behavior.
	CaptionFunc func(ctx context.Context, image []byte, mimeType string) (string, error)

	mu        sync.Mutex
	callCount int
}

// NewCaptioner creates a mock captioner with default deterministic behavior.
func NewCaptioner() *Captioner {
	return &Captioner{}
}

// Caption returns a deterministic caption describing the image size.
func (m *Captioner) Caption(ctx context.Context, image []byte, mimeType string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.CaptionFunc != nil {
		return m.CaptionFunc(ctx, image, mimeType)
	}

	return fmt.Sprintf("mock caption for %d-byte %s image", len(image), mimeType), nil
}

// CallCount returns the number of times Caption was called.
func (m *Captioner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *Captioner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.CaptionFunc = nil
}
