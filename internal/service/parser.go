package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pav-beep/calorie.app/internal/models"
)

// StripFences removes the markdown code fence the model sometimes wraps
// its JSON payload in. This is the only transport-artifact cleanup the
// parser performs; anything else wrong with the reply is a parse failure,
// not something to repair.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		// Drop the opening fence line, including a language tag such
		// as ```json.
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
			s = strings.TrimPrefix(strings.TrimSpace(s), "json")
		}
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-3]
	}
	return strings.TrimSpace(s)
}

// ParseNutrition decodes the model's reply into a NutritionRecord. A
// missing required field or malformed JSON fails with ErrParse; the
// caller asks the user to retry rather than logging a defaulted record.
func ParseNutrition(raw string) (*models.NutritionRecord, error) {
	cleaned := StripFences(raw)

	var wire struct {
		FoodName      *string        `json:"food_name"`
		Calories      *models.Amount `json:"calories"`
		Protein       *models.Amount `json:"protein"`
		Carbs         *models.Amount `json:"carbs"`
		Fat           *models.Amount `json:"fat"`
		Warning       string         `json:"warning"`
		Micros        string         `json:"micros"`
		BriefAnalysis string         `json:"brief_analysis"`
	}

	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrParse, err)
	}

	missing := ""
	switch {
	case wire.FoodName == nil || strings.TrimSpace(*wire.FoodName) == "":
		missing = "food_name"
	case wire.Calories == nil:
		missing = "calories"
	case wire.Protein == nil:
		missing = "protein"
	case wire.Carbs == nil:
		missing = "carbs"
	case wire.Fat == nil:
		missing = "fat"
	}
	if missing != "" {
		return nil, fmt.Errorf("%w: missing required field %s", models.ErrParse, missing)
	}

	return &models.NutritionRecord{
		FoodName:      *wire.FoodName,
		Calories:      *wire.Calories,
		Protein:       *wire.Protein,
		Carbs:         *wire.Carbs,
		Fat:           *wire.Fat,
		Warning:       wire.Warning,
		Micros:        wire.Micros,
		BriefAnalysis: wire.BriefAnalysis,
	}, nil
}
