// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"skillswap/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Bio      *string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// FederatedLoginInput carries the identity token issued by the external provider.
type FederatedLoginInput struct {
	IDToken string
}

// --- Output DTOs ---

// AuthOutput is returned by every successful authentication.
type AuthOutput struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// AccountUsecase covers registration, the three login flows and the user directory.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	FederatedLogin(ctx context.Context, input *FederatedLoginInput) (*AuthOutput, error)

	// WhoAmI returns the account behind an already validated session.
	WhoAmI(ctx context.Context, userID uint64) (*entity.User, error)

	ListUsers(ctx context.Context) ([]*entity.User, error)
	GetUser(ctx context.Context, userID uint64) (*entity.User, error)
}

// AccountResolver maps proven identities onto local accounts.
type AccountResolver interface {
	// ResolveOrProvision finds the account owning claims.Email or creates one that
	// can only ever sign in through the federated path.
	ResolveOrProvision(ctx context.Context, claims *entity.FederatedClaims) (*entity.User, error)

	// Authenticate checks a password login. Unknown email and wrong password fail identically.
	Authenticate(ctx context.Context, email, password string) (*entity.User, error)
}
