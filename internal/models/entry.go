package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Macro is a single macro-nutrient cell as stored in the ledger. The
// spreadsheet keeps whatever the client wrote, so a cell may be a bare
// number ("30") or carry a unit suffix ("30g", "450 kcal"). Float is the
// only sanctioned way to read it as a number.
type Macro string

// Float normalizes the cell to a numeric value. A cell that is not a
// number even after stripping a trailing unit fails with ErrDataFormat;
// it is never coerced to zero.
func (m Macro) Float() (float64, error) {
	s := strings.TrimSpace(string(m))
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	// Split off a trailing unit such as "g", "kcal", "mg".
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		i--
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: macro value %q", ErrDataFormat, string(m))
	}
	return v, nil
}

// NewMacro renders a numeric value as a plain ledger cell.
func NewMacro(v float64) Macro {
	return Macro(strconv.FormatFloat(v, 'f', -1, 64))
}

// LogEntry is one persisted meal record. Entries are appended exactly
// once and never mutated or deleted afterwards.
type LogEntry struct {
	Identity  string    `json:"identity"`
	Timestamp time.Time `json:"timestamp"`
	FoodName  string    `json:"food_name"`
	Calories  Macro     `json:"calories"`
	Protein   Macro     `json:"protein"`
	Carbs     Macro     `json:"carbs"`
	Fat       Macro     `json:"fat"`
	Micros    string    `json:"micros,omitempty"`
}

// DailySummary is the derived aggregate for one identity and one
// calendar date. It is recomputed on every dashboard view, never stored.
type DailySummary struct {
	Date     string     `json:"date"`
	Calories float64    `json:"calories"`
	Protein  float64    `json:"protein"`
	Carbs    float64    `json:"carbs"`
	Fat      float64    `json:"fat"`
	Entries  []LogEntry `json:"entries"`
}
