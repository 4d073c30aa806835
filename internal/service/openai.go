package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/pav-beep/calorie.app/internal/models"
)

// OpenAIVision implements VisionService using OpenAI's vision-capable
// chat models.
type OpenAIVision struct {
	client *openai.Client
	model  string
}

func NewOpenAIVision(apiKey, model string) *OpenAIVision {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIVision{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// AnalyzeMeal sends the photo as an inline data URL with the nutrition
// instruction and returns the raw reply text.
func (o *OpenAIVision) AnalyzeMeal(ctx context.Context, image []byte, mimeType string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: nutritionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURL,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai: %v", models.ErrConnection, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", models.ErrParse)
	}

	return resp.Choices[0].Message.Content, nil
}
