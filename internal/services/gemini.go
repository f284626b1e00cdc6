package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const geminiCallTimeout = 30 * time.Second

// GeminiAdvisor generates motivational text with the Gemini API.
type GeminiAdvisor struct {
	client *genai.Client
	model  string
}

// NewGeminiAdvisor creates a Gemini-backed advisor.
func NewGeminiAdvisor(ctx context.Context, apiKey, model string) (*GeminiAdvisor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-3-flash-preview"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiAdvisor{client: client, model: model}, nil
}

// MotivationalQuote asks for a single-sentence quote for today. Low variability:
// the model defaults are kept.
func (a *GeminiAdvisor) MotivationalQuote(ctx context.Context, name string, daysSmokeFree int, reason string) (string, error) {
	prompt := fmt.Sprintf(
		"The user %s has been smoke-free for %d days. Their main reason for quitting is %q. "+
			"Write a short, single-sentence motivational quote specifically for them for today. "+
			"Tone: Encouraging but firm.",
		name, daysSmokeFree, reason,
	)
	return a.generate(ctx, prompt, nil)
}

// CravingAdvice asks for an immediate craving hack. Higher temperature for
// variety; the prompt forbids the generic "drink water / breathe" answers.
func (a *GeminiAdvisor) CravingAdvice(ctx context.Context, name string, daysSmokeFree int, reason string) (string, error) {
	prompt := fmt.Sprintf(
		`COMMAND: Provide a unique, surprising, and immediate psychological or physical hack to kill a cigarette craving right now.
CONTEXT:
- User Name: %s
- Days Smoke-Free: %d
- Deep Motivation: %q

RULES:
1. Do NOT give generic advice (like "drink water" or "take deep breaths") unless it's a very creative variation.
2. Be specific to their motivation (%q).
3. Be punchy, urgent, and fierce.
4. Keep it under 25 words.
5. Avoid repeating yourself; generate a fresh perspective on this specific moment of struggle.`,
		name, daysSmokeFree, reason, reason,
	)
	return a.generate(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.9),
	})
}

func (a *GeminiAdvisor) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, geminiCallTimeout)
	defer cancel()

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}
