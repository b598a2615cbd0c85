package llm

import (
	"context"
	"strings"
)

const (
	MockSummaryResponse  = "Mocked Summary Report"
	MockPersonalResponse = "Mocked Personal Report"
	MockDefaultResponse  = "Mocked AI Response"
)

// mockTable maps the opening marker of a prompt to its canned response. The
// markers are the first sentences of the summary and personal templates.
var mockTable = []struct {
	marker   string
	response string
}{
	{marker: "You are a Tech Lead", response: MockSummaryResponse},
	{marker: "You are a developer", response: MockPersonalResponse},
}

// MockBackend answers without network access. The response depends only on
// the prompt text.
type MockBackend struct{}

func (MockBackend) Name() string { return string(ProviderMock) }

func (MockBackend) Complete(_ context.Context, prompt string) (string, error) {
	return MockResponse(prompt), nil
}

func MockResponse(prompt string) string {
	opening := strings.TrimSpace(prompt)
	for _, entry := range mockTable {
		if strings.HasPrefix(opening, entry.marker) {
			return entry.response
		}
	}
	return MockDefaultResponse
}
