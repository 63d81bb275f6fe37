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
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/valpere/ottava/internal/llm"
)

// resolveAPIKey prefers the flag, then OTTAVA_API_KEY / config, then the
// conventional OPENAI_API_KEY variable.
func resolveAPIKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := viper.GetString("api_key"); v != "" {
		return v
	}
	return os.Getenv("OPENAI_API_KEY")
}

// buildClients constructs the two collaborator handles from CLI parameters:
// a high-variance client for composing and repairing, and a zero-variance
// one for assessment. validatorModel may be empty to reuse model.
func buildClients(model, validatorModel, apiKey, baseURL string) (creative llm.Client, deterministic llm.Client, err error) {
	apiKey = resolveAPIKey(apiKey)
	if apiKey == "" {
		return nil, nil, fmt.Errorf("no API key configured; use --api-key, OTTAVA_API_KEY, or OPENAI_API_KEY")
	}
	if validatorModel == "" {
		validatorModel = model
	}

	creative, err = llm.NewOpenAIClient(llm.CreativeSettings(model, apiKey, baseURL))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build creative client: %w", err)
	}
	deterministic, err = llm.NewOpenAIClient(llm.DeterministicSettings(validatorModel, apiKey, baseURL))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build deterministic client: %w", err)
	}
	return creative, deterministic, nil
}
