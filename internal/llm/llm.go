// Package llm abstracts the text-generation collaborator consumed by the
// composition pipeline. Two independently configured clients are expected:
// a high-variance one for creative work (composing and repairing poems) and
// a zero-variance one for assessment, where identical input must yield
// identical output.
package llm

import "context"

// Turn is a single prior conversation message.
type Turn struct {
	Role    string
	Content string
}

// SchemaConstraint asks the collaborator to emit a value conforming to the
// given JSON schema instead of free text.
type SchemaConstraint struct {
	Name       string
	Definition map[string]any
}

// Request is one collaborator call: an instruction, optional prior turns,
// the current input, and an optional output-shape constraint.
type Request struct {
	Instruction string
	Turns       []Turn
	Input       string
	Schema      *SchemaConstraint
}

// Client is the collaborator handle. Implementations make exactly one
// upstream call per Complete and surface failures as errors rather than
// hanging; cancellation is honoured through ctx.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Settings configures a concrete client instance.
type Settings struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	Seed        int64
	// Deterministic requests reproducible output: temperature zero plus a
	// fixed seed where the provider supports one.
	Deterministic bool
}

// deterministicSeed is arbitrary but fixed; changing it changes every
// deterministic assessment.
const deterministicSeed = 7

// CreativeSettings returns settings tuned for output diversity.
func CreativeSettings(model, apiKey, baseURL string) Settings {
	return Settings{
		Model:       model,
		APIKey:      apiKey,
		BaseURL:     baseURL,
		Temperature: 1.0,
	}
}

// DeterministicSettings returns settings tuned for reproducible output.
func DeterministicSettings(model, apiKey, baseURL string) Settings {
	return Settings{
		Model:         model,
		APIKey:        apiKey,
		BaseURL:       baseURL,
		Temperature:   0,
		Seed:          deterministicSeed,
		Deterministic: true,
	}
}
