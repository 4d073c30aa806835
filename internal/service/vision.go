package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pav-beep/calorie.app/config"
)

// nutritionPrompt instructs the model to reply with exactly one JSON
// object. The parser trusts this instruction and only guards against
// markdown fencing.
const nutritionPrompt = `You are an expert nutritionist. Analyze the attached meal photo.
Identify the dish, estimate the portion size, and estimate its nutrition.
Respond with exactly one JSON object and nothing else, matching this schema:
{
    "food_name": "short label for the dish",
    "calories": 450,
    "protein": 30,
    "carbs": 45,
    "fat": 12,
    "warning": "optional dietary warning",
    "micros": "optional note on micronutrients",
    "brief_analysis": "one or two sentences about the meal"
}
The calories, protein, carbs and fat fields must be numbers, not strings.
Do not wrap the JSON in markdown fences or add any commentary.`

// VisionService sends a meal photo to a hosted vision model and returns
// the raw reply text. The reply is an opaque string here; decoding is
// the parser's job.
type VisionService interface {
	AnalyzeMeal(ctx context.Context, image []byte, mimeType string) (string, error)
}

// NewVisionService selects the configured provider.
func NewVisionService(cfg *config.Config) (VisionService, error) {
	switch strings.ToLower(cfg.VisionProvider) {
	case "gemini":
		return NewGeminiVision(cfg.GeminiAPIKey, cfg.GeminiModel)
	case "openai":
		return NewOpenAIVision(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unsupported vision provider: %s", cfg.VisionProvider)
	}
}
