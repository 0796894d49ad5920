// Package federated holds the provider-independent parts of external identity verification.
package federated

import (
	"strings"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/service"
	"skillswap/internal/errors"
)

// NormalizeClaims turns a verified provider claim set into typed claims.
// subject is the provider's stable id; when empty the "user_id" and "sub" claims are tried.
func NormalizeClaims(provider entity.FederatedProvider, subject string, raw map[string]any) (*entity.FederatedClaims, error) {
	if subject == "" {
		subject = firstString(raw, "user_id", "sub")
	}
	if subject == "" {
		return nil, errors.Wrap(service.ErrInvalidAssertion, "assertion has no subject")
	}

	email := strings.TrimSpace(firstString(raw, "email"))
	if email == "" {
		return nil, errors.WithStack(service.ErrMissingEmail)
	}

	displayName := strings.TrimSpace(firstString(raw, "name", "displayName", "display_name"))
	if displayName == "" {
		displayName = emailLocalPart(email)
	}

	return &entity.FederatedClaims{
		Provider:      provider,
		Subject:       subject,
		Email:         email,
		EmailVerified: boolClaim(raw["email_verified"]),
		DisplayName:   displayName,
	}, nil
}

func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}

	return ""
}

func boolClaim(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	default:
		return false
	}
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}

	return email
}
