package auth

import (
	"context"

	"github.com/tabsplit/tabsplit/internal/models"
)

// Authenticator is the interface for authentication implementations.
// Keeping it narrow lets the service layer swap password auth for
// another method without changing its code.
type Authenticator interface {
	// Register creates a new account for the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credentials and returns the account if valid.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
