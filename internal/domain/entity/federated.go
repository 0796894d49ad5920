package entity

// FederatedProvider names the external identity provider that vouched for a login.
type FederatedProvider string

const (
	FederatedProviderFirebase FederatedProvider = "firebase"
	FederatedProviderGoogle   FederatedProvider = "google"
)

// FederatedClaims is the normalized identity extracted from a verified external assertion.
type FederatedClaims struct {
	Provider      FederatedProvider
	Subject       string
	Email         string
	EmailVerified bool
	DisplayName   string
}
