package main

import (
	"os"
	"strings"

	"github.com/schemadoc/schemadoc/internal/llm"
)

// envOrDefault returns os.Getenv(key) unless it is empty, in which case it
// returns def.
func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// buildLLMClient wires an llm.Client from environment, routing the primary
// model to Anthropic or OpenAI by the name-pattern rule spec.md §4.3
// requires ("names containing claude go to one endpoint, gpt go to
// another"), with the opposite provider as fallback.
func buildLLMClient() *llm.Client {
	primaryModel := envOrDefault("LLM_PRIMARY_MODEL", "claude-sonnet-4-5")
	fallbackModel := envOrDefault("LLM_FALLBACK_MODEL", "gpt-4o")
	fallbackEnabled := os.Getenv("LLM_FALLBACK_ENABLED") != "false"

	anthropic := llm.NewAnthropicProvider("")
	openai := llm.NewOpenAIProvider("")

	primary := providerFor(primaryModel, anthropic, openai)
	fallback := llm.Provider(openai)
	if primary == fallback {
		fallback = anthropic
	}

	policy := llm.DefaultPolicy()
	policy.FallbackEnabled = fallbackEnabled

	return &llm.Client{
		Primary:       primary,
		Fallback:      fallback,
		Policy:        policy,
		PrimaryModel:  primaryModel,
		FallbackModel: fallbackModel,
	}
}

func providerFor(model string, anthropic, openai llm.Provider) llm.Provider {
	if strings.Contains(strings.ToLower(model), "claude") {
		return anthropic
	}
	return openai
}
