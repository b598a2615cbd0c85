package llm

import (
	"errors"
	"strings"
	"time"

	"github.com/roivaz/gitreport/internal/logging"
)

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
	ProviderMock   Provider = "mock"

	DefaultProvider = ProviderGemini
)

var defaultModels = map[Provider]string{
	ProviderGemini: "gemini-2.5-flash",
	ProviderOllama: "gemma3:4b",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderMock:   "mock",
}

// ErrMissingCredential is returned by New when the selected provider needs a
// credential that was not configured.
var ErrMissingCredential = errors.New("missing provider credential")

type Config struct {
	Provider      Provider
	Model         string
	Mock          bool // E2E_TEST_MOCK_AI; overrides Provider
	GeminiAPIKey  string
	OllamaURL     string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	CallTimeout   time.Duration
	Logger        logging.Logger // the zero value drops every message
}

// ParseProvider normalizes a provider name. ok is false for names outside the
// supported set; callers receive DefaultProvider in that case.
func ParseProvider(name string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	if p == "" {
		return DefaultProvider, true
	}
	if _, known := defaultModels[p]; known {
		return p, true
	}
	return DefaultProvider, false
}

// DefaultModel returns the model identifier used when none is given.
func DefaultModel(p Provider) string {
	return defaultModels[p]
}

// resolved returns the effective provider and model.
func (c Config) resolved() (Provider, string, bool) {
	if c.Mock {
		return ProviderMock, DefaultModel(ProviderMock), true
	}
	p, known := ParseProvider(string(c.Provider))
	model := strings.TrimSpace(c.Model)
	if model == "" || !known {
		model = DefaultModel(p)
	}
	return p, model, known
}
