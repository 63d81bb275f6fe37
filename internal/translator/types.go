// Package translator provides machine translation of flagged non-English
// spans into English. The repairer uses it, when configured, to attach
// concrete replacement suggestions to language-repair instructions.
package translator

import "context"

// Config carries provider credentials.
type Config struct {
	Credentials string `mapstructure:"credentials" json:"credentials"`
	ProjectID   string `mapstructure:"project_id" json:"project_id"`
}

// SpanTranslator translates short spans into English. Implementations
// return a span → translation map; spans that could not be translated are
// simply absent from the map.
type SpanTranslator interface {
	Name() string
	TranslateSpans(ctx context.Context, spans []string) (map[string]string, error)
}
