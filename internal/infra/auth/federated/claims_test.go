package federated

import (
	"context"
	"testing"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeClaims(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		raw     map[string]any
		want    *entity.FederatedClaims
		wantErr error
	}{
		{
			name:    "full claim set",
			subject: "uid-1",
			raw:     map[string]any{"email": "carol@x.com", "email_verified": true, "name": "Carol"},
			want: &entity.FederatedClaims{
				Provider: entity.FederatedProviderFirebase, Subject: "uid-1",
				Email: "carol@x.com", EmailVerified: true, DisplayName: "Carol",
			},
		},
		{
			name: "subject from user_id and displayName fallback",
			raw:  map[string]any{"user_id": "uid-2", "email": "dave@x.com", "displayName": "Dave"},
			want: &entity.FederatedClaims{
				Provider: entity.FederatedProviderFirebase, Subject: "uid-2",
				Email: "dave@x.com", DisplayName: "Dave",
			},
		},
		{
			name:    "display name derived from email",
			subject: "uid-3",
			raw:     map[string]any{"email": "erin@x.com", "email_verified": "true"},
			want: &entity.FederatedClaims{
				Provider: entity.FederatedProviderFirebase, Subject: "uid-3",
				Email: "erin@x.com", EmailVerified: true, DisplayName: "erin",
			},
		},
		{
			name:    "missing email",
			subject: "uid-4",
			raw:     map[string]any{"name": "Frank"},
			wantErr: service.ErrMissingEmail,
		},
		{
			name:    "missing subject",
			raw:     map[string]any{"email": "gina@x.com"},
			wantErr: service.ErrInvalidAssertion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeClaims(entity.FederatedProviderFirebase, tt.subject, tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisabledVerifier(t *testing.T) {
	claims, err := NewDisabledVerifier().Verify(context.Background(), "anything")

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, service.ErrInvalidAssertion)
}
