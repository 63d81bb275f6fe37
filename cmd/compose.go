/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/valpere/ottava/internal"
	"github.com/valpere/ottava/internal/detector"
	"github.com/valpere/ottava/internal/generator"
	"github.com/valpere/ottava/internal/orchestrator"
	"github.com/valpere/ottava/internal/poem"
	"github.com/valpere/ottava/internal/repairer"
	"github.com/valpere/ottava/internal/store"
	"github.com/valpere/ottava/internal/translator"
	"github.com/valpere/ottava/internal/validator"
)

var (
	topicArg   string
	outputFile string

	modelName     string
	validatorName string
	apiKey        string
	baseURL       string

	dbPath     string
	noCache    bool
	maxRepairs int

	translateHints bool
	credentials    string
	projectID      string
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose a poem that satisfies the structural contract",
	Long: `Compose a poem for one of the allowed topics (romance, world peace) and
repair it until it has exactly 8 English lines on exactly one allowed theme.

Every repair is followed by a fresh assessment; the loop stops on the first
passing assessment or when the repair budget runs out. A run that exhausts
its budget still writes its best-effort poem but exits with an error.

Freeform topics are declined with a fixed refusal or a clarification
question; no poem is produced for them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := poem.ParseTopic(topicArg)

		ctx := context.Background()

		var db *store.Store
		if !noCache && dbPath != "" {
			var err error
			db, err = store.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			if topic.IsAllowed() {
				if cached, found, cacheErr := db.GetCachedPoem(ctx, topic.Value()); cacheErr == nil && found {
					fmt.Fprintf(os.Stderr, "Using cached poem\n")
					return writePoemOutput(cached)
				}
			}
		}

		creative, deterministic, err := buildClients(modelName, validatorName, apiKey, baseURL)
		if err != nil {
			return err
		}

		gen, err := generator.New(creative)
		if err != nil {
			return err
		}
		val, err := validator.New(deterministic)
		if err != nil {
			return err
		}

		var hints translator.SpanTranslator
		if translateHints {
			hints = translator.NewGoogleTranslator(translator.Config{
				Credentials: credentials,
				ProjectID:   projectID,
			})
		}
		rep, err := repairer.New(creative, hints)
		if err != nil {
			return err
		}

		pipeline, err := orchestrator.New(gen, val, rep, orchestrator.Config{
			MaxRepairs: maxRepairs,
			Progress:   os.Stderr,
		})
		if err != nil {
			return err
		}

		outcome, runErr := pipeline.Run(ctx, topic)

		if db != nil {
			saveRun(ctx, db, topic, outcome)
		}

		if runErr != nil {
			return fmt.Errorf("pipeline failed in state %s after %d repair(s): %w",
				outcome.State, outcome.RepairAttempts, runErr)
		}

		switch outcome.State {
		case orchestrator.StateDeclined:
			fmt.Println(outcome.Message)
			return nil

		case orchestrator.StateDone:
			// Advisory screen only; the deterministic assessment already
			// confirmed the language check.
			warnIfNotEnglish(outcome.Poem)
			if db != nil && topic.IsAllowed() {
				if err := db.SaveToMemory(ctx, topic.Value(), outcome.Poem.String(), outcome.Poem.LineCount()); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to cache poem: %v\n", err)
				}
			}
			if err := writePoemOutput(outcome.Poem.String()); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Composed a conforming poem in %d repair attempt(s)\n", outcome.RepairAttempts)
			return nil

		case orchestrator.StateExhausted:
			if err := writePoemOutput(outcome.Poem.String()); err != nil {
				return err
			}
			return fmt.Errorf("could not converge within %d repair attempt(s); best effort written. Last assessment: %s",
				outcome.RepairAttempts, outcome.Result.Explanation)

		default:
			return fmt.Errorf("pipeline ended in unexpected state %s", outcome.State)
		}
	},
}

// saveRun persists the request, every assessed attempt, and the terminal
// outcome. Persistence failures must not mask the pipeline result.
func saveRun(ctx context.Context, db *store.Store, topic poem.Topic, outcome *orchestrator.Outcome) {
	kind := "allowed"
	if !topic.IsAllowed() {
		kind = "freeform"
	}

	reqID := uuid.New().String()
	_ = db.SaveRequest(ctx, internal.ComposeRequest{
		ID:        reqID,
		Topic:     topic.Value(),
		TopicKind: kind,
		Timestamp: time.Now(),
	})

	for i, attempt := range outcome.History {
		validationJSON, err := json.Marshal(attempt.Result)
		if err != nil {
			continue
		}
		_ = db.SaveAttempt(ctx, reqID, i, attempt.Poem.String(), string(validationJSON), attempt.Result.Overall)
	}

	_ = db.SaveOutcome(ctx, reqID, outcome.State.String(), outcome.Poem.String(), outcome.RepairAttempts)
}

func warnIfNotEnglish(p poem.Poem) {
	det := detector.New()
	if english, ok := det.ScreensAsEnglish(p.String()); ok && !english {
		fmt.Fprintf(os.Stderr, "Warning: accepted poem does not screen as English locally\n")
	}
}

// writePoemOutput writes the poem to the output file, or stdout when no
// file was requested.
func writePoemOutput(text string) error {
	if outputFile == "" {
		fmt.Println(text)
		return nil
	}
	if dir := filepath.Dir(outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputFile, []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(composeCmd)

	composeCmd.Flags().StringVarP(&topicArg, "topic", "t", "", "Poem topic: romance or world_peace (required)")
	composeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for the poem (default stdout)")

	composeCmd.Flags().StringVar(&modelName, "model", "gpt-4o-mini", "Model for composing and repairing")
	composeCmd.Flags().StringVar(&validatorName, "validator-model", "", "Model for assessment (default: same as --model)")
	composeCmd.Flags().StringVar(&apiKey, "api-key", "", "API key (or OTTAVA_API_KEY / OPENAI_API_KEY)")
	composeCmd.Flags().StringVar(&baseURL, "base-url", "", "OpenAI-compatible endpoint base URL")

	composeCmd.Flags().StringVar(&dbPath, "db", "./data/ottava.db", "Database path")
	composeCmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the poem memory cache")
	composeCmd.Flags().IntVar(&maxRepairs, "max-repairs", orchestrator.DefaultMaxRepairs, "Repair attempt budget")

	composeCmd.Flags().BoolVar(&translateHints, "translate-hints", false, "Machine-translate flagged spans as repair hints")
	composeCmd.Flags().StringVarP(&credentials, "credentials", "c", "", "Path to Google Cloud credentials (for --translate-hints)")
	composeCmd.Flags().StringVarP(&projectID, "project", "p", "", "Google Cloud Project ID (for --translate-hints)")

	_ = composeCmd.MarkFlagRequired("topic")
}
