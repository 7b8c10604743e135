package llm

import (
	"context"
	"sync"
)

// MockClient is a configurable LLM client for testing.
// Set ChatResponse or ChatError to control what Chat returns.
type MockClient struct {
	mu sync.Mutex

	ChatResponse string
	ChatError    error

	// Call tracking for assertions
	ChatCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{ChatResponse: "未知设备"}
}

func (c *MockClient) Chat(_ context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ChatCalls = append(c.ChatCalls, prompt)
	if c.ChatError != nil {
		return "", c.ChatError
	}
	return c.ChatResponse, nil
}

// Calls returns the number of Chat calls so far.
func (c *MockClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ChatCalls)
}

// Reset clears all recorded calls and restores the default response.
func (c *MockClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ChatResponse = "未知设备"
	c.ChatError = nil
	c.ChatCalls = nil
}
