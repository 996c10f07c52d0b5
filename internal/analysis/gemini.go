package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/career-compass/internal/types"
)

// DefaultGeminiModel is used when no model name is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

// maxPromptBytes caps how much resume text is sent to the model.
const maxPromptBytes = 32 << 10

// GeminiProvider implements Provider against the Google Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini-backed analysis provider.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: model}, nil
}

// Analyze prompts the model for a structured skills profile and parses the
// JSON response into an AnalysisResult.
func (p *GeminiProvider) Analyze(ctx context.Context, req Request) (*types.AnalysisResult, error) {
	model := p.client.GenerativeModel(p.model)
	model.SetTemperature(0.1) // Low temperature for consistent output
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(req)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, err
	}

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(cleanJSONBlock(text)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}
	return &result, nil
}

// Close releases resources held by the underlying client.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func buildPrompt(req Request) string {
	content := string(req.Content)
	if len(content) > maxPromptBytes {
		content = content[:maxPromptBytes]
	}

	var sb strings.Builder
	sb.WriteString("You are a career development analyst. Analyze the resume below and return JSON with three arrays:\n")
	sb.WriteString(`"skills" (objects with name, category, confidence 0-100, proficiency, experience, market_demand, trend, salary_impact, is_strength, is_gap), `)
	sb.WriteString(`"gaps" (objects with skill, current_level 0-100, target_level 0-100, priority, market_demand 0-100, salary_impact, time_to_target, recommended_courses), `)
	sb.WriteString(`"recommendations" (objects with id, title, provider, url, price, rating, skills_addressed, match_score 0-100).` + "\n")
	sb.WriteString("Every array must have at least one entry. current_level must never exceed target_level.\n\n")
	sb.WriteString("Resume file: " + req.FileName + "\n\n")
	sb.WriteString(content)
	return sb.String()
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON responses.
// Models often wrap JSON in ```json ... ``` blocks even when instructed not to.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
