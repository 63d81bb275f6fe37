// Package poem defines the poem and topic value types shared across the
// composition pipeline.
package poem

import "strings"

// Poem is an ordered sequence of non-empty text lines. Blank and
// whitespace-only lines are presentation, not content, and are dropped at
// parse time. A Poem is immutable; revision produces a new value.
type Poem struct {
	lines []string
}

// Parse builds a Poem from raw line-delimited text. Leading and trailing
// whitespace is trimmed per line and blank lines are discarded.
func Parse(raw string) Poem {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return Poem{lines: lines}
}

// FromLines builds a Poem directly from pre-split lines, applying the same
// blank-line filtering as Parse.
func FromLines(lines []string) Poem {
	return Parse(strings.Join(lines, "\n"))
}

// Lines returns a copy of the poem's lines.
func (p Poem) Lines() []string {
	out := make([]string, len(p.lines))
	copy(out, p.lines)
	return out
}

// LineCount returns the number of non-blank lines.
func (p Poem) LineCount() int {
	return len(p.lines)
}

// IsEmpty reports whether the poem has no content lines.
func (p Poem) IsEmpty() bool {
	return len(p.lines) == 0
}

// String renders the poem as newline-joined text, one line per content line.
func (p Poem) String() string {
	return strings.Join(p.lines, "\n")
}
