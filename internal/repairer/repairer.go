// Package repairer revises a poem that failed assessment, addressing only
// the failing checks while preserving everything that already passes.
package repairer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/valpere/ottava/internal/llm"
	"github.com/valpere/ottava/internal/poem"
	"github.com/valpere/ottava/internal/postprocess"
	"github.com/valpere/ottava/internal/translator"
	"github.com/valpere/ottava/internal/validation"
)

// Repairer produces revised poems via one creative collaborator call per
// Repair. An optional span translator supplies English renderings of
// flagged spans as repair hints; hints is nil when not configured.
type Repairer struct {
	client llm.Client
	hints  translator.SpanTranslator
}

// New returns a Repairer. hints may be nil.
func New(client llm.Client, hints translator.SpanTranslator) (*Repairer, error) {
	if client == nil {
		return nil, errors.New("llm client is required")
	}
	return &Repairer{client: client, hints: hints}, nil
}

// Repair makes exactly one creative call carrying the original poem and a
// summary of the failing checks taken from res. The edit is intended to be
// minimal: passing checks must be preserved, not regenerated.
//
// The caller is expected to pass a res whose conjunction is false; a fully
// passing res is rejected because there is nothing to address.
func (r *Repairer) Repair(ctx context.Context, p poem.Poem, res validation.Result) (poem.Poem, error) {
	if res.Conjunction() {
		return poem.Poem{}, errors.New("nothing to repair: all checks pass")
	}

	// The draft is presented as the collaborator's own prior turn, so the
	// revision reads as a continuation rather than a fresh composition.
	req := llm.Request{
		Instruction: repairInstruction(),
		Turns: []llm.Turn{
			{Role: "assistant", Content: p.String()},
		},
		Input: r.repairInput(ctx, res),
	}

	raw, err := r.client.Complete(ctx, req)
	if err != nil {
		return poem.Poem{}, fmt.Errorf("repair call failed: %w", err)
	}

	revised := poem.Parse(postprocess.Clean(raw))
	if revised.IsEmpty() {
		// Model returned nothing usable; keep the current draft so the
		// next validation pass judges something real.
		return p, nil
	}
	return revised, nil
}

func repairInstruction() string {
	var sb strings.Builder
	sb.WriteString("You are an editor of poems. Your previous message is a poem draft; the user will list its structural problems.\n")
	sb.WriteString("Fix ONLY the listed problems with the smallest possible edit. Keep the poem's message, imagery, and style intact for everything not listed.\n")
	fmt.Fprintf(&sb, "- If line count is listed: the result must have exactly %d non-blank lines.\n", validation.ExpectedLineCount)
	sb.WriteString("- If language is listed: translate or replace the flagged spans with natural English; change nothing else.\n")
	fmt.Fprintf(&sb, "- If theme is listed: steer the content toward exactly one of: %s.\n",
		strings.Join(validation.ExpectedThemes(), ", "))
	sb.WriteString("Output only the revised poem lines, nothing else.\n")
	return sb.String()
}

// repairInput assembles the failing-check summary, the assessor's
// explanation, and any translation hints. Hint lookup failures are
// tolerated: hints improve repairs but are never required for one.
func (r *Repairer) repairInput(ctx context.Context, res validation.Result) string {
	var sb strings.Builder
	sb.WriteString("Your poem above has these problems:\n")
	sb.WriteString(res.FailureSummary())
	fmt.Fprintf(&sb, "\n\nAssessor's explanation: %s\n", res.Explanation)

	if r.hints != nil && !res.Language.Pass && len(res.Language.Issues) > 0 {
		if translated, err := r.hints.TranslateSpans(ctx, res.Language.Issues); err == nil && len(translated) > 0 {
			sb.WriteString("\nSuggested English renderings:\n")
			for _, span := range res.Language.Issues {
				if hint, ok := translated[span]; ok {
					fmt.Fprintf(&sb, "- %q -> %q\n", span, hint)
				}
			}
		}
	}

	sb.WriteString("\nOutput the revised poem now.")
	return sb.String()
}
