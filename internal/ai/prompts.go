package ai

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed prompts/*.json
var promptFiles embed.FS

var (
	promptCache   map[string]string
	promptCacheMu sync.Mutex
)

// prompt retrieves a prompt template by key from the embedded prompt file.
func prompt(key string) (string, error) {
	promptCacheMu.Lock()
	defer promptCacheMu.Unlock()

	if promptCache == nil {
		data, err := promptFiles.ReadFile("prompts/generation.json")
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file: %w", err)
		}
		if err := json.Unmarshal(data, &promptCache); err != nil {
			return "", fmt.Errorf("failed to parse prompt file: %w", err)
		}
	}

	p, ok := promptCache[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return p, nil
}

// mustPrompt retrieves a prompt template, panicking if absent. Prompt files
// are embedded, so a miss is a build defect.
func mustPrompt(key string) string {
	p, err := prompt(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return p
}

// formatPrompt replaces {{.Key}} placeholders with values from data.
func formatPrompt(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{.%s}}", key), value)
	}
	return result
}
