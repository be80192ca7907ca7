// Package ai drafts product descriptions with Gemini.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-1.5-flash"

// ErrEmptyResponse is returned when the model answers without text.
var ErrEmptyResponse = errors.New("model returned no text")

// DescriptionWriter holds the Gemini client used to draft product descriptions.
type DescriptionWriter struct {
	client   *genai.Client
	generate func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)
}

// NewDescriptionWriter initializes the Gemini client.
func NewDescriptionWriter(ctx context.Context, apiKey, modelName string) (*DescriptionWriter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(256)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(`
			You write product descriptions for Innowood, a small shop selling handmade wooden keychains.
			Rules: plain text, no markdown, two or three sentences, warm and concrete, no prices.
		`)},
	}

	return &DescriptionWriter{
		client: client,
		generate: func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
			return model.GenerateContent(ctx, genai.Text(prompt))
		},
	}, nil
}

// Close releases the client.
func (w *DescriptionWriter) Close() error {
	if w.client == nil {
		return nil
	}
	return w.client.Close()
}

// Draft asks the model for a short description of a product.
func (w *DescriptionWriter) Draft(ctx context.Context, name, category string) (string, error) {
	// 1. Build the prompt
	prompt := buildPrompt(name, category)

	// 2. Call the model
	res, err := w.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("error generating description: %w", err)
	}

	// 3. Extract the text and log usage
	text, err := responseText(res)
	if err != nil {
		return "", err
	}
	if res.UsageMetadata != nil {
		slog.Info("description drafted", "product", name, "tokens", res.UsageMetadata.TotalTokenCount)
	}
	return text, nil
}

func buildPrompt(name, category string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a description for the product %q.", strings.TrimSpace(name))
	if c := strings.TrimSpace(category); c != "" {
		fmt.Fprintf(&b, " It belongs to the %q category.", c)
	}
	return b.String()
}

func responseText(res *genai.GenerateContentResponse) (string, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}
