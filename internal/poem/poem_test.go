package poem

import (
	"testing"
)

func TestParse_DropsBlankLines(t *testing.T) {
	raw := "First line\n\n  \nSecond line\n\t\nThird line\n"
	p := Parse(raw)

	if p.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", p.LineCount())
	}
	lines := p.Lines()
	if lines[0] != "First line" || lines[1] != "Second line" || lines[2] != "Third line" {
		t.Errorf("unexpected lines: %v", lines)
	}
}

func TestParse_TrimsLineWhitespace(t *testing.T) {
	p := Parse("  padded line  \n")
	if got := p.Lines()[0]; got != "padded line" {
		t.Errorf("expected trimmed line, got %q", got)
	}
}

func TestParse_Empty(t *testing.T) {
	p := Parse("   \n\n\t\n")
	if !p.IsEmpty() {
		t.Error("expected empty poem for whitespace-only input")
	}
	if p.LineCount() != 0 {
		t.Errorf("expected 0 lines, got %d", p.LineCount())
	}
}

func TestFromLines(t *testing.T) {
	p := FromLines([]string{"one", "", "two"})
	if p.LineCount() != 2 {
		t.Errorf("expected 2 lines, got %d", p.LineCount())
	}
}

func TestLines_ReturnsCopy(t *testing.T) {
	p := Parse("one\ntwo")
	lines := p.Lines()
	lines[0] = "mutated"

	if p.Lines()[0] != "one" {
		t.Error("mutating the returned slice must not affect the poem")
	}
}

func TestString_RoundTrip(t *testing.T) {
	p := Parse("one\n\ntwo\nthree")
	if p.String() != "one\ntwo\nthree" {
		t.Errorf("unexpected render: %q", p.String())
	}
}

func TestParseTopic_Allowed(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"romance", TopicRomance},
		{"Romance", TopicRomance},
		{"  ROMANCE ", TopicRomance},
		{"world_peace", TopicWorldPeace},
		{"world peace", TopicWorldPeace},
		{"World-Peace", TopicWorldPeace},
	}

	for _, tc := range cases {
		topic := ParseTopic(tc.input)
		if !topic.IsAllowed() {
			t.Errorf("ParseTopic(%q): expected allowed topic", tc.input)
			continue
		}
		if topic.Value() != tc.want {
			t.Errorf("ParseTopic(%q): expected value %q, got %q", tc.input, tc.want, topic.Value())
		}
	}
}

func TestParseTopic_Freeform(t *testing.T) {
	topic := ParseTopic("a poem about my cat")
	if topic.IsAllowed() {
		t.Error("expected freeform topic")
	}
	if topic.Kind() != KindFreeform {
		t.Errorf("expected KindFreeform, got %v", topic.Kind())
	}
	if topic.Value() != "a poem about my cat" {
		t.Errorf("unexpected value: %q", topic.Value())
	}
}

func TestTopic_DisplayValue(t *testing.T) {
	if got := ParseTopic("world_peace").DisplayValue(); got != "world peace" {
		t.Errorf("expected %q, got %q", "world peace", got)
	}
}
