package poem

import "strings"

// Allowed topic values. These double as the allowed theme classifications
// used by validation.
const (
	TopicRomance    = "romance"
	TopicWorldPeace = "world_peace"
)

// TopicKind distinguishes the closed set of allowed topics from arbitrary
// free-text requests, which the generator must decline rather than fulfil.
type TopicKind int

const (
	KindAllowed TopicKind = iota
	KindFreeform
)

// Topic is a tagged union: either one of the allowed topic values or a
// freeform request string.
type Topic struct {
	kind  TopicKind
	value string
}

// AllowedTopics returns the closed topic set in stable order.
func AllowedTopics() []string {
	return []string{TopicRomance, TopicWorldPeace}
}

// ParseTopic classifies user input as an allowed topic or a freeform
// request. Matching is case-insensitive and tolerates "world peace" and
// "world-peace" spellings for the underscore form.
func ParseTopic(input string) Topic {
	normalized := strings.ToLower(strings.TrimSpace(input))
	canonical := strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	for _, t := range AllowedTopics() {
		if canonical == t {
			return Topic{kind: KindAllowed, value: t}
		}
	}
	return Topic{kind: KindFreeform, value: strings.TrimSpace(input)}
}

// Kind returns the union tag.
func (t Topic) Kind() TopicKind {
	return t.kind
}

// IsAllowed reports whether the topic is one of the allowed values.
func (t Topic) IsAllowed() bool {
	return t.kind == KindAllowed
}

// Value returns the canonical topic value for allowed topics, or the
// trimmed original request for freeform ones.
func (t Topic) Value() string {
	return t.value
}

// DisplayValue returns the topic in human-readable form ("world peace"
// rather than "world_peace").
func (t Topic) DisplayValue() string {
	return strings.ReplaceAll(t.value, "_", " ")
}
