package auth

import (
	"strconv"
	"time"

	"skillswap/config"
	"skillswap/internal/domain/service"
	"skillswap/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

// jwtService signs HS256 session tokens whose subject is the decimal user id.
type jwtService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := defaultTokenTTL
	issuer := ""
	if cfg.Auth != nil {
		if cfg.Auth.TokenTTL > 0 {
			ttl = cfg.Auth.TokenTTL
		}
		issuer = cfg.Auth.Issuer
	}

	return newJWTService(cfg.SecretKey.Access, issuer, ttl, time.Now), nil
}

func newJWTService(secret, issuer string, ttl time.Duration, now func() time.Time) *jwtService {
	return &jwtService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    now,
	}
}

// DefaultTTL returns the configured session lifetime.
func (s *jwtService) DefaultTTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for subjectID.
func (s *jwtService) Issue(subjectID uint64, ttl time.Duration) (*service.IssuedToken, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(subjectID, 10),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, errors.Wrap(err, "sign session token")
	}

	return &service.IssuedToken{
		Token:     signed,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Validate verifies signature and expiry, then parses the subject.
// A token is invalid at and after its expiry instant.
func (s *jwtService) Validate(tokenString string) (uint64, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return 0, classifyTokenError(err)
	}

	if claims.Subject == "" {
		return 0, service.ErrTokenMissingClaim
	}

	subjectID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || subjectID == 0 {
		return 0, errors.Wrapf(service.ErrTokenMissingClaim, "subject %q is not a user id", claims.Subject)
	}

	return subjectID, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.Wrap(service.ErrTokenExpired, err.Error())
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return errors.Wrap(service.ErrTokenMissingClaim, err.Error())
	default:
		return errors.Wrap(service.ErrTokenMalformed, err.Error())
	}
}
