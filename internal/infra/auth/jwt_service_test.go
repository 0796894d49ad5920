package auth

import (
	"strings"
	"testing"
	"time"

	"skillswap/config"
	"skillswap/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_access_secret_key_very_long_for_testing"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestJWTService(clock *fakeClock) *jwtService {
	return newJWTService(testSecret, "skillswap-test", 24*time.Hour, clock.Now)
}

func TestNewJWTService(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)

	cfg := &config.Config{}
	cfg.SecretKey.Access = testSecret
	svc, err := NewJWTService(cfg)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, svc.DefaultTTL())

	cfg.Auth = &config.AuthConfig{TokenTTL: time.Hour}
	svc, err = NewJWTService(cfg)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, svc.DefaultTTL())
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestJWTService(clock)

	issued, err := svc.Issue(42, svc.DefaultTTL())
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(24*time.Hour), issued.ExpiresAt)

	subject, err := svc.Validate(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), subject)
}

func TestJWTService_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Unix(1_700_000_000, 0)
	ttl := 10 * time.Minute

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{name: "one second before expiry", at: issuedAt.Add(ttl - time.Second)},
		{name: "exactly at expiry", at: issuedAt.Add(ttl), wantErr: service.ErrTokenExpired},
		{name: "one second after expiry", at: issuedAt.Add(ttl + time.Second), wantErr: service.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{now: issuedAt}
			svc := newTestJWTService(clock)

			issued, err := svc.Issue(7, ttl)
			require.NoError(t, err)

			clock.now = tt.at
			subject, err := svc.Validate(issued.Token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, subject)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint64(7), subject)
		})
	}
}

func TestJWTService_ZeroTTLIsImmediatelyInvalid(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestJWTService(clock)

	issued, err := svc.Issue(7, 0)
	require.NoError(t, err)

	_, err = svc.Validate(issued.Token)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestJWTService_Malformed(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestJWTService(clock)

	issued, err := svc.Issue(7, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(issued.Token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	other := newJWTService("a-different-secret", "skillswap-test", time.Hour, clock.Now)
	foreign, err := other.Issue(7, time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":        "clearly-not-a-jwt-token-format",
		"empty":          "",
		"bad signature":  tampered,
		"foreign secret": foreign.Token,
		"alg none":       none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Validate(token)
			assert.ErrorIs(t, err, service.ErrTokenMalformed)
		})
	}
}

func TestJWTService_WrongIssuer(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestJWTService(clock)
	other := newJWTService(testSecret, "someone-else", time.Hour, clock.Now)

	issued, err := other.Issue(7, time.Hour)
	require.NoError(t, err)

	_, err = svc.Validate(issued.Token)
	assert.ErrorIs(t, err, service.ErrTokenMalformed)
}

func TestJWTService_MissingOrInvalidSubject(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTestJWTService(clock)

	sign := func(claims jwt.RegisteredClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		return token
	}
	exp := jwt.NewNumericDate(clock.now.Add(time.Hour))

	for name, token := range map[string]string{
		"no subject":      sign(jwt.RegisteredClaims{Issuer: "skillswap-test", ExpiresAt: exp}),
		"non numeric":     sign(jwt.RegisteredClaims{Issuer: "skillswap-test", Subject: "alice", ExpiresAt: exp}),
		"zero subject":    sign(jwt.RegisteredClaims{Issuer: "skillswap-test", Subject: "0", ExpiresAt: exp}),
		"negative":        sign(jwt.RegisteredClaims{Issuer: "skillswap-test", Subject: "-3", ExpiresAt: exp}),
		"no expiry claim": sign(jwt.RegisteredClaims{Issuer: "skillswap-test", Subject: "7"}),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Validate(token)
			assert.ErrorIs(t, err, service.ErrTokenMissingClaim)
		})
	}
}
