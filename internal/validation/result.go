// Package validation defines the structured assessment contract for
// composed poems: three independent checks (line count, language, theme),
// an overall verdict, and a human-readable explanation.
//
// The collaborator that produces assessments is untrusted. Decode rejects
// responses that do not conform to the contract, and consumers must branch
// on the recomputed conjunction of the three pass flags rather than on the
// raw overall field.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Contract constants. ExpectedThemes doubles as the allowed classification
// values for a passing theme check.
const (
	ExpectedLineCount = 8
	ExpectedLanguage  = "English"
)

// Theme classification tokens.
const (
	ThemeRomance    = "romance"
	ThemeWorldPeace = "world_peace"
	ThemeMixed      = "mixed"
	ThemeOther      = "other"
)

// ExpectedThemes returns the allowed theme set in stable order.
func ExpectedThemes() []string {
	return []string{ThemeRomance, ThemeWorldPeace}
}

// LineCountCheck reports the non-blank line count against the expected
// constant.
type LineCountCheck struct {
	Expected int  `json:"expected"`
	Actual   int  `json:"actual"`
	Pass     bool `json:"pass"`
}

// LanguageCheck enumerates every non-English span found in the poem.
type LanguageCheck struct {
	Expected string   `json:"expected"`
	Issues   []string `json:"issues"`
	Pass     bool     `json:"pass"`
}

// ThemeCheck classifies the poem's subject into exactly one token.
type ThemeCheck struct {
	Expected []string `json:"expected"`
	Detected string   `json:"detected"`
	Pass     bool     `json:"pass"`
}

// Result is one immutable assessment of one poem.
type Result struct {
	LineCount   LineCountCheck `json:"line_count"`
	Language    LanguageCheck  `json:"language"`
	Theme       ThemeCheck     `json:"theme"`
	Overall     bool           `json:"overall_result"`
	Explanation string         `json:"explanation"`
}

// Conjunction recomputes the overall verdict from the three pass flags.
// This, not the Overall field, is what consumers branch on.
func (r Result) Conjunction() bool {
	return r.LineCount.Pass && r.Language.Pass && r.Theme.Pass
}

// Normalized returns a copy with the expected fields forced to the contract
// constants and Overall corrected to the conjunction. The receiver is not
// modified.
func (r Result) Normalized() Result {
	r.LineCount.Expected = ExpectedLineCount
	r.Language.Expected = ExpectedLanguage
	r.Theme.Expected = ExpectedThemes()
	r.Overall = r.Conjunction()
	return r
}

// FailureSummary renders the failing checks as a bullet list suitable for a
// repair instruction. Passing checks are omitted. Returns "" when all
// checks pass.
func (r Result) FailureSummary() string {
	var sb strings.Builder
	if !r.LineCount.Pass {
		fmt.Fprintf(&sb, "- Line count: the poem has %d non-blank lines but must have exactly %d.\n",
			r.LineCount.Actual, ExpectedLineCount)
	}
	if !r.Language.Pass {
		fmt.Fprintf(&sb, "- Language: the poem must be entirely %s. Non-English spans found: %s.\n",
			ExpectedLanguage, strings.Join(r.Language.Issues, "; "))
	}
	if !r.Theme.Pass {
		fmt.Fprintf(&sb, "- Theme: detected %q, but the poem must be exclusively about one of: %s.\n",
			r.Theme.Detected, strings.Join(ExpectedThemes(), ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// SchemaError reports a collaborator response that could not be decoded
// into a conforming Result. It is fatal: callers must not substitute a
// default pass or fail verdict.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assessment does not conform to contract: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("assessment does not conform to contract: %s", e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// validThemeToken reports whether detected is one of the four classification
// tokens.
func validThemeToken(detected string) bool {
	switch detected {
	case ThemeRomance, ThemeWorldPeace, ThemeMixed, ThemeOther:
		return true
	}
	return false
}

// Decode parses raw collaborator output into a Result, enforcing the shape
// contract. Violations return a *SchemaError; the partial value is never
// returned alongside one.
func Decode(raw string) (Result, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result{}, &SchemaError{Reason: "empty response"}
	}

	var r Result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return Result{}, &SchemaError{Reason: "invalid JSON", Err: err}
	}

	if r.LineCount.Actual < 0 {
		return Result{}, &SchemaError{Reason: fmt.Sprintf("negative line count %d", r.LineCount.Actual)}
	}
	if !validThemeToken(r.Theme.Detected) {
		return Result{}, &SchemaError{Reason: fmt.Sprintf("unknown theme classification %q", r.Theme.Detected)}
	}
	if strings.TrimSpace(r.Explanation) == "" {
		return Result{}, &SchemaError{Reason: "missing explanation"}
	}

	return r, nil
}
