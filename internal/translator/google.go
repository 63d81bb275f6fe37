package translator

import (
	"context"
	"fmt"
	"os"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleTranslator translates spans using the Google Cloud Translation API.
type GoogleTranslator struct {
	cfg Config
}

func NewGoogleTranslator(cfg Config) *GoogleTranslator {
	return &GoogleTranslator{cfg: cfg}
}

func (g *GoogleTranslator) Name() string {
	return "google"
}

// TranslateSpans translates each span into English, letting the API detect
// the source language per span.
func (g *GoogleTranslator) TranslateSpans(ctx context.Context, spans []string) (map[string]string, error) {
	if len(spans) == 0 {
		return map[string]string{}, nil
	}

	if g.cfg.Credentials != "" {
		os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", g.cfg.Credentials)
	}

	opts := []option.ClientOption{}
	if g.cfg.Credentials != "" {
		opts = append(opts, option.WithCredentialsFile(g.cfg.Credentials))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	translations, err := client.Translate(ctx, spans, language.English, nil)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) != len(spans) {
		return nil, fmt.Errorf("expected %d translations, got %d", len(spans), len(translations))
	}

	out := make(map[string]string, len(spans))
	for i, tr := range translations {
		if tr.Text != "" {
			out[spans[i]] = tr.Text
		}
	}
	return out, nil
}
