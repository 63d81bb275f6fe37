// Package validator produces a structured assessment of a poem via one
// schema-constrained call to the deterministic collaborator.
package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/valpere/ottava/internal/llm"
	"github.com/valpere/ottava/internal/poem"
	"github.com/valpere/ottava/internal/validation"
)

// Validator assesses poems. Determinism comes from the client: the same
// poem text against a zero-variance client yields the same Result. The
// Validator itself holds no state and uses no randomness.
type Validator struct {
	client llm.Client
}

// New returns a Validator over the given deterministic client.
func New(client llm.Client) (*Validator, error) {
	if client == nil {
		return nil, errors.New("llm client is required")
	}
	return &Validator{client: client}, nil
}

// Validate makes exactly one collaborator call, constrained to the
// validation result schema, and decodes the response. A response that does
// not conform is a *validation.SchemaError, never a defaulted verdict.
//
// The returned Result is exactly what the collaborator claimed; consumers
// must branch on Result.Conjunction, not on the raw overall field.
func (v *Validator) Validate(ctx context.Context, p poem.Poem) (validation.Result, error) {
	req := llm.Request{
		Instruction: assessInstruction(),
		Input:       fmt.Sprintf("Assess this text:\n\n%s", p.String()),
		Schema: &llm.SchemaConstraint{
			Name:       validation.SchemaName,
			Definition: validation.Schema(),
		},
	}

	raw, err := v.client.Complete(ctx, req)
	if err != nil {
		return validation.Result{}, fmt.Errorf("assessment call failed: %w", err)
	}

	return validation.Decode(raw)
}

func assessInstruction() string {
	var sb strings.Builder
	sb.WriteString("You are a strict structural assessor of poems. Perform three independent checks and report them in the required JSON shape.\n\n")

	fmt.Fprintf(&sb, "1. line_count: count only visual lines containing non-blank text. Blank spacing between lines does not add to the count, and a soft-wrapped continuation of the previous line counts as the same line. expected is %d; pass is true iff actual equals %d.\n",
		validation.ExpectedLineCount, validation.ExpectedLineCount)

	fmt.Fprintf(&sb, "2. language: expected is %q. pass is true iff no non-English word or phrase is present. Enumerate every violating span verbatim in issues; leave issues empty when there are none.\n",
		validation.ExpectedLanguage)

	fmt.Fprintf(&sb, "3. theme: classify the subject into exactly one of %s, %q (both love and global unity), or %q (anything else). expected is [%s]. pass is true iff the classification is exclusively %q or %q.\n",
		quoteJoin(validation.ExpectedThemes()), validation.ThemeMixed, validation.ThemeOther,
		quoteJoin(validation.ExpectedThemes()), validation.ThemeRomance, validation.ThemeWorldPeace)

	sb.WriteString("\noverall_result must be the conjunction of the three pass flags. ")
	sb.WriteString("explanation must state the specific reason for every failing check in natural language, or confirm conformance when all checks pass. It must never be empty.")
	return sb.String()
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
