package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is internally consistent
// before the server starts serving.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}

	switch cfg.StoreDriver {
	case "sheets":
		if cfg.SpreadsheetID == "" {
			errs = append(errs, "SPREADSHEET_ID is required when STORE_DRIVER=sheets")
		}
		if cfg.CredentialsFile == "" {
			errs = append(errs, "GOOGLE_CREDENTIALS_FILE is required when STORE_DRIVER=sheets")
		}
	case "postgres":
		if cfg.DBUser == "" {
			errs = append(errs, "DB_USER is required when STORE_DRIVER=postgres")
		}
		if cfg.DBPassword == "" {
			errs = append(errs, "DB_PASSWORD is required when STORE_DRIVER=postgres")
		}
	case "sqlite":
		// SQLitePath always has a default
	default:
		errs = append(errs, fmt.Sprintf("unknown STORE_DRIVER %q (want sheets, postgres or sqlite)", cfg.StoreDriver))
	}

	switch cfg.VisionProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			errs = append(errs, "GEMINI_API_KEY is required when VISION_PROVIDER=gemini")
		}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			errs = append(errs, "OPENAI_API_KEY is required when VISION_PROVIDER=openai")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown VISION_PROVIDER %q (want gemini or openai)", cfg.VisionProvider))
	}

	if len(cfg.ReferralCodes) == 0 {
		errs = append(errs, "REFERRAL_CODES must list at least one code")
	}

	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		errs = append(errs, "AWS_REGION is required when S3_BUCKET_NAME is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}

	return nil
}
