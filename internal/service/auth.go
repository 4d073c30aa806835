package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pav-beep/calorie.app/internal/models"
)

// Session lifetimes. Paid emails get a month; referral guests keep their
// cookie effectively forever.
const (
	PaidSessionTTL  = 30 * 24 * time.Hour
	GuestSessionTTL = 10 * 365 * 24 * time.Hour
)

// Reason explains an authorization outcome to the caller. Denied and
// connection-error must surface as different user-facing messages.
type Reason string

const (
	ReasonReferralCode    Reason = "referral_code"
	ReasonPaidEmail       Reason = "paid_email"
	ReasonDenied          Reason = "denied"
	ReasonConnectionError Reason = "connection_error"
)

// AuthResult is the outcome of one authorization attempt.
type AuthResult struct {
	Granted  bool
	Identity string
	Guest    bool
	Reason   Reason
}

// EmailDirectory is the slice of the ledger store authorization needs:
// the Users table.
type EmailDirectory interface {
	AuthorizedEmails(ctx context.Context) ([]string, error)
}

// AuthService decides whether an identifier may use the app and issues
// session tokens for granted identities. It is stateless per call; the
// session itself lives in the client cookie.
type AuthService struct {
	directory     EmailDirectory
	referralCodes []string
	jwtSecret     string
}

func NewAuthService(directory EmailDirectory, referralCodes []string, jwtSecret string) *AuthService {
	return &AuthService{
		directory:     directory,
		referralCodes: referralCodes,
		jwtSecret:     jwtSecret,
	}
}

// Authorize checks the identifier against the referral-code list first,
// then the remote Users table. The referral path never touches the
// network, so codes keep working when the store is down. The Users table
// is re-fetched on every attempt; there is no cache to go stale.
func (s *AuthService) Authorize(ctx context.Context, identifier string) AuthResult {
	normalized := strings.ToLower(strings.TrimSpace(identifier))
	if normalized == "" {
		return AuthResult{Reason: ReasonDenied}
	}

	for _, code := range s.referralCodes {
		if strings.EqualFold(normalized, code) {
			return AuthResult{
				Granted:  true,
				Identity: "Guest-" + strings.ToUpper(code),
				Guest:    true,
				Reason:   ReasonReferralCode,
			}
		}
	}

	emails, err := s.directory.AuthorizedEmails(ctx)
	if err != nil {
		log.Printf("[AuthService] Users table fetch failed: %v", err)
		return AuthResult{Reason: ReasonConnectionError}
	}

	for _, email := range emails {
		if strings.ToLower(strings.TrimSpace(email)) == normalized {
			return AuthResult{
				Granted:  true,
				Identity: normalized,
				Reason:   ReasonPaidEmail,
			}
		}
	}

	return AuthResult{Reason: ReasonDenied}
}

// SessionTTL returns the cookie lifetime for a granted result.
func SessionTTL(guest bool) time.Duration {
	if guest {
		return GuestSessionTTL
	}
	return PaidSessionTTL
}

// GenerateToken signs a session token for a granted identity.
func (s *AuthService) GenerateToken(identity string, guest bool) (string, time.Time, error) {
	expiresAt := time.Now().Add(SessionTTL(guest))
	claims := models.SessionClaims{
		Identity: identity,
		Guest:    guest,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	if claims.Identity == "" {
		return nil, fmt.Errorf("session token has no identity")
	}
	return claims, nil
}
