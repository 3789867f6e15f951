package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MockBackend is a scriptable Backend for tests and dry runs. With no script
// it echoes each input value with a marker prefix so output is recognizable.
type MockBackend struct {
	mu        sync.Mutex
	calls     int
	failUntil int
	failErr   error
	responses []string

	// Transform overrides the default echo translation when set.
	Transform func(value string) string
}

func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// FailFirst makes the first n calls return err before succeeding.
func (m *MockBackend) FailFirst(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failUntil = n
	m.failErr = err
}

// Enqueue schedules raw response texts returned before falling back to the
// echo behavior.
func (m *MockBackend) Enqueue(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, responses...)
}

// Calls reports how many times Complete was invoked.
func (m *MockBackend) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockBackend) Name() string { return "mock" }

func (m *MockBackend) Complete(ctx context.Context, systemPrompt, userPrompt string) (*Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls++
	if m.calls <= m.failUntil {
		err := m.failErr
		m.mu.Unlock()
		return nil, err
	}
	if len(m.responses) > 0 {
		resp := m.responses[0]
		m.responses = m.responses[1:]
		m.mu.Unlock()
		return &Completion{Text: resp, Usage: Usage{PromptTokens: 10, CompletionTokens: 10, TotalTokens: 20}}, nil
	}
	transform := m.Transform
	m.mu.Unlock()

	values, err := extractPromptValues(userPrompt)
	if err != nil {
		return nil, err
	}
	translations := make([]string, len(values))
	for i, v := range values {
		if transform != nil {
			translations[i] = transform(v)
		} else {
			translations[i] = "[mock] " + v
		}
	}
	payload, err := json.Marshal(map[string][]string{"translations": translations})
	if err != nil {
		return nil, err
	}
	return &Completion{Text: string(payload), Usage: Usage{PromptTokens: 10, CompletionTokens: 10, TotalTokens: 20}}, nil
}

// extractPromptValues recovers the input values from the user prompt's
// embedded JSON array.
func extractPromptValues(userPrompt string) ([]string, error) {
	start := strings.IndexByte(userPrompt, '[')
	if start < 0 {
		return nil, fmt.Errorf("mock: no unit array in prompt")
	}
	var units []promptUnit
	dec := json.NewDecoder(strings.NewReader(userPrompt[start:]))
	if err := dec.Decode(&units); err != nil {
		return nil, fmt.Errorf("mock: failed to parse unit array: %w", err)
	}
	values := make([]string, len(units))
	for i, u := range units {
		values[i] = u.Value
	}
	return values, nil
}
