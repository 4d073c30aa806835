package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/pav-beep/calorie.app/internal/models"
)

// GeminiVision implements VisionService using Google's Gemini models.
type GeminiVision struct {
	client *genai.Client
	model  string
}

// NewGeminiVision creates a new Gemini client.
func NewGeminiVision(apiKey, model string) (*GeminiVision, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiVision{client: client, model: model}, nil
}

// AnalyzeMeal sends the photo plus the nutrition instruction to Gemini
// and returns the raw reply text.
func (g *GeminiVision) AnalyzeMeal(ctx context.Context, image []byte, mimeType string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(0.1)
	m.SetTopP(0.5)

	resp, err := m.GenerateContent(ctx,
		genai.ImageData(imageFormat(mimeType), image),
		genai.Text(nutritionPrompt),
	)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", models.ErrConnection, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini returned no content", models.ErrParse)
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// Close closes the Gemini client.
func (g *GeminiVision) Close() error {
	return g.client.Close()
}

// imageFormat converts a MIME type ("image/jpeg") to the bare format
// token the genai SDK expects ("jpeg").
func imageFormat(mimeType string) string {
	if f, ok := strings.CutPrefix(mimeType, "image/"); ok && f != "" {
		return f
	}
	return "jpeg"
}
