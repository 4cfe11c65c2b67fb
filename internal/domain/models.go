package domain

import (
	"sort"
	"strings"
)

type Model struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

// CustomModelID lets a client pick any OpenRouter model by identifier.
const CustomModelID = "custom-openrouter"

var DefaultModels = []Model{
	{Value: "anthropic/claude-sonnet-4", Name: "Anthropic: Claude Sonnet 4"},
	{Value: "google/gemini-2.5-flash", Name: "Google: Gemini 2.5 Flash"},
	{Value: "google/gemini-2.5-pro", Name: "Google: Gemini 2.5 Pro"},
	{Value: "moonshotai/kimi-k2", Name: "Moonshot: Kimi K2"},
	{Value: "x-ai/grok-4", Name: "xAI: Grok 4"},
	{Value: "openai/gpt-4.1", Name: "OpenAI: GPT-4.1"},
	{Value: "openai/gpt-4.1-mini", Name: "OpenAI: GPT-4.1 Mini"},
	{Value: "deepseek/deepseek-r1-0528", Name: "DeepSeek: R1 0528"},
	{Value: "deepseek/deepseek-chat", Name: "DeepSeek: DeepSeek V3"},
}

// ModelCatalog returns the known models sorted by display name, followed by
// the custom entry.
func ModelCatalog() []Model {
	models := make([]Model, len(DefaultModels), len(DefaultModels)+1)
	copy(models, DefaultModels)
	sort.Slice(models, func(i, j int) bool {
		return strings.ToLower(models[i].Name) < strings.ToLower(models[j].Name)
	})
	return append(models, Model{Value: CustomModelID, Name: "Custom OpenRouter Model..."})
}
