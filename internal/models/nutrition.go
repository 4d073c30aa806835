package models

import (
	"encoding/json"
	"fmt"
)

// Amount is a macro value as the vision model reports it. Different
// prompt variants produce bare numbers or unit-suffixed strings ("30g");
// both decode to the numeric value.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*a = Amount(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		v, err := Macro(str).Float()
		if err != nil {
			return fmt.Errorf("invalid amount %q", str)
		}
		*a = Amount(v)
		return nil
	}

	return fmt.Errorf("invalid amount %s", string(data))
}

// NutritionRecord is the structured result of analyzing one meal photo.
// FoodName through Fat are required in the model reply; the rest are
// optional extras the prompt asks for.
type NutritionRecord struct {
	FoodName      string `json:"food_name"`
	Calories      Amount `json:"calories"`
	Protein       Amount `json:"protein"`
	Carbs         Amount `json:"carbs"`
	Fat           Amount `json:"fat"`
	Warning       string `json:"warning,omitempty"`
	Micros        string `json:"micros,omitempty"`
	BriefAnalysis string `json:"brief_analysis,omitempty"`
}
