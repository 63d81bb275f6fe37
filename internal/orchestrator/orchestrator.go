// Package orchestrator drives the compose → assess → repair loop as a
// bounded state machine. One generate call, then alternating assessment and
// repair until the poem passes or the repair budget runs out. Collaborator
// calls are strictly sequential; no two are ever in flight at once.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/valpere/ottava/internal/generator"
	"github.com/valpere/ottava/internal/poem"
	"github.com/valpere/ottava/internal/validation"
	"github.com/valpere/ottava/internal/validator"
)

// State is a node of the pipeline state machine.
type State int

const (
	StateStart State = iota
	StateGenerated
	StateValidated
	StateRepairing
	StateDone
	StateExhausted
	StateDeclined
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateGenerated:
		return "generated"
	case StateValidated:
		return "validated"
	case StateRepairing:
		return "repairing"
	case StateDone:
		return "done"
	case StateExhausted:
		return "exhausted"
	case StateDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

// DefaultMaxRepairs is the repair-attempt budget when Config leaves it
// unset. The budget counts repairs, not assessments: every repair is
// followed by a fresh assessment before any terminal decision.
const DefaultMaxRepairs = 5

// Config tunes a Pipeline.
type Config struct {
	// MaxRepairs is the repair-attempt budget; <= 0 selects
	// DefaultMaxRepairs.
	MaxRepairs int
	// Progress, when non-nil, receives human-readable per-step notes.
	Progress io.Writer
}

// Repairer is the revision step. *repairer.Repairer satisfies it; tests
// substitute scripted implementations.
type Repairer interface {
	Repair(ctx context.Context, p poem.Poem, res validation.Result) (poem.Poem, error)
}

// Attempt records one assessment of one poem draft.
type Attempt struct {
	Poem   poem.Poem
	Result validation.Result
}

// Outcome is the terminal report of a run. Result is the last normalized
// assessment (nil when the run never reached one) and History holds every
// assessment in order, so a caller always has the full context behind the
// terminal state.
type Outcome struct {
	State          State
	Poem           poem.Poem
	Result         *validation.Result
	RepairAttempts int
	History        []Attempt
	// Message carries the fixed refusal or clarification text for
	// StateDeclined.
	Message string
}

// Converged reports whether the run ended in StateDone.
func (o *Outcome) Converged() bool {
	return o.State == StateDone
}

// UpstreamError tags a collaborator failure with the pipeline stage it
// occurred in. It is fatal for the run and never retried here.
type UpstreamError struct {
	Stage string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: collaborator call failed: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Pipeline owns the loop. The current poem and the repair counter are its
// only mutable state, and both live inside Run.
type Pipeline struct {
	gen    *generator.Generator
	val    *validator.Validator
	rep    Repairer
	config Config
}

// New assembles a Pipeline from its three components.
func New(gen *generator.Generator, val *validator.Validator, rep Repairer, config Config) (*Pipeline, error) {
	if gen == nil || val == nil || rep == nil {
		return nil, errors.New("generator, validator, and repairer are all required")
	}
	if config.MaxRepairs <= 0 {
		config.MaxRepairs = DefaultMaxRepairs
	}
	return &Pipeline{gen: gen, val: val, rep: rep, config: config}, nil
}

// Run executes the state machine for one topic.
//
// The returned Outcome is non-nil even when err is non-nil, carrying the
// last poem, last assessment, and repair count at the point of failure.
// Error kinds: *UpstreamError for collaborator failures,
// *validation.SchemaError (passed through) for undecodable assessments.
// Budget exhaustion is not an error: it is StateExhausted, reported
// distinctly from StateDone because the pipeline ran correctly but could
// not converge.
func (p *Pipeline) Run(ctx context.Context, topic poem.Topic) (*Outcome, error) {
	out := &Outcome{State: StateStart}

	produced, err := p.gen.Generate(ctx, topic)
	if err != nil {
		return out, &UpstreamError{Stage: "generate", Err: err}
	}
	if produced.Kind != generator.OutputPoem {
		out.State = StateDeclined
		out.Message = produced.Message
		p.progressf("Topic declined: %s\n", produced.Message)
		return out, nil
	}

	out.State = StateGenerated
	out.Poem = produced.Poem
	p.progressf("Draft generated (%d lines)\n", out.Poem.LineCount())

	for {
		res, err := p.val.Validate(ctx, out.Poem)
		if err != nil {
			var schemaErr *validation.SchemaError
			if errors.As(err, &schemaErr) {
				return out, err
			}
			return out, &UpstreamError{Stage: "validate", Err: err}
		}
		out.State = StateValidated

		// The collaborator's overall_result is untrusted; branch on the
		// recomputed conjunction and expose the corrected copy.
		norm := res.Normalized()
		out.Result = &norm
		out.History = append(out.History, Attempt{Poem: out.Poem, Result: norm})

		if norm.Conjunction() {
			out.State = StateDone
			p.progressf("Assessment passed after %d repair(s)\n", out.RepairAttempts)
			return out, nil
		}
		p.progressf("Assessment failed: %s\n", norm.Explanation)

		if out.RepairAttempts >= p.config.MaxRepairs {
			out.State = StateExhausted
			p.progressf("Repair budget of %d exhausted; reporting best effort\n", p.config.MaxRepairs)
			return out, nil
		}

		out.State = StateRepairing
		out.RepairAttempts++
		p.progressf("Repair attempt %d/%d\n", out.RepairAttempts, p.config.MaxRepairs)

		revised, err := p.rep.Repair(ctx, out.Poem, norm)
		if err != nil {
			return out, &UpstreamError{Stage: "repair", Err: err}
		}
		// Loop back to assessment: a repair is never assumed to have
		// fixed the poem.
		out.Poem = revised
	}
}

func (p *Pipeline) progressf(format string, args ...any) {
	if p.config.Progress != nil {
		fmt.Fprintf(p.config.Progress, format, args...)
	}
}
