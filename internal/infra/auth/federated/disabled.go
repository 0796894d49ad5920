package federated

import (
	"context"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/service"
	"skillswap/internal/errors"
)

type disabledVerifier struct{}

// NewDisabledVerifier rejects every assertion. It is wired when no provider is configured.
func NewDisabledVerifier() service.IdentityVerifier {
	return disabledVerifier{}
}

func (disabledVerifier) Verify(context.Context, string) (*entity.FederatedClaims, error) {
	return nil, errors.Wrap(service.ErrInvalidAssertion, "federated login disabled")
}

func (disabledVerifier) Provider() entity.FederatedProvider {
	return ""
}
