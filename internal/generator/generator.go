// Package generator produces the initial poem draft from a topic via one
// call to the creative collaborator.
//
// Freeform topics are a first-class outcome: the collaborator is instructed
// to answer them with one of two fixed non-poem responses, and Generate
// classifies its output so callers never treat a refusal as a poem.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/valpere/ottava/internal/llm"
	"github.com/valpere/ottava/internal/poem"
	"github.com/valpere/ottava/internal/postprocess"
)

// Fixed responses for topics outside the allowed set. The instruction asks
// the model to emit one of these verbatim; classification is by prefix so a
// trailing elaboration cannot smuggle a refusal past the caller.
const (
	RefusalResponse       = "I can only write poems about romance or world peace."
	ClarificationResponse = "Which would you like: a poem about romance, or a poem about world peace?"
)

// OutputKind tags what the generator actually produced.
type OutputKind int

const (
	OutputPoem OutputKind = iota
	OutputRefusal
	OutputClarification
)

// Output is the result of one Generate call. Poem is only meaningful when
// Kind is OutputPoem; Message carries the fixed response otherwise.
type Output struct {
	Kind    OutputKind
	Poem    poem.Poem
	Message string
}

// Generator composes initial drafts. It performs no validation of its own.
type Generator struct {
	client llm.Client
}

// New returns a Generator over the given creative client.
func New(client llm.Client) (*Generator, error) {
	if client == nil {
		return nil, errors.New("llm client is required")
	}
	return &Generator{client: client}, nil
}

// Generate makes exactly one creative call for the topic. Allowed topics
// yield a poem; freeform topics yield a refusal or clarification. Two calls
// with the same allowed topic may yield different poems.
func (g *Generator) Generate(ctx context.Context, topic poem.Topic) (Output, error) {
	req := llm.Request{
		Instruction: composeInstruction(),
		Input:       composeInput(topic),
	}

	raw, err := g.client.Complete(ctx, req)
	if err != nil {
		return Output{}, fmt.Errorf("compose call failed: %w", err)
	}

	text := postprocess.Clean(raw)
	return classify(topic, text), nil
}

// classify decides whether the collaborator produced a poem or one of the
// fixed non-poem responses. For a freeform topic any unrecognized output is
// coerced to the fixed refusal: whatever the model improvised, it is not a
// poem the caller may validate.
func classify(topic poem.Topic, text string) Output {
	switch {
	case strings.HasPrefix(text, refusalPrefix):
		return Output{Kind: OutputRefusal, Message: RefusalResponse}
	case strings.HasPrefix(text, clarificationPrefix):
		return Output{Kind: OutputClarification, Message: ClarificationResponse}
	}
	if !topic.IsAllowed() {
		return Output{Kind: OutputRefusal, Message: RefusalResponse}
	}
	return Output{Kind: OutputPoem, Poem: poem.Parse(text)}
}

const (
	refusalPrefix       = "I can only write"
	clarificationPrefix = "Which would you like"
)

func composeInstruction() string {
	var sb strings.Builder
	sb.WriteString("You are a poet. Compose a short poem to the following contract:\n")
	sb.WriteString("- Exactly 8 lines, each a single line of verse. No blank lines, no title, no numbering.\n")
	sb.WriteString("- Written entirely in English. No foreign words or phrases.\n")
	sb.WriteString("- The poem is exclusively about the requested topic.\n")
	sb.WriteString("- Output only the poem lines, nothing else.\n")
	sb.WriteString("\n")
	sb.WriteString("You only accept two topics: romance, and world peace.\n")
	sb.WriteString("If the request is for anything else, respond with exactly one of these two sentences and nothing more:\n")
	fmt.Fprintf(&sb, "1. %s\n", RefusalResponse)
	fmt.Fprintf(&sb, "2. %s\n", ClarificationResponse)
	return sb.String()
}

func composeInput(topic poem.Topic) string {
	if topic.IsAllowed() {
		return fmt.Sprintf("Write the poem about: %s", topic.DisplayValue())
	}
	return fmt.Sprintf("Request: %s", topic.Value())
}
