package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	"gofalre.io/storefront/models"
)

var ErrInvalidToken = errors.New("auth: invalid id token")

// IDTokenVerifier turns a client ID token into a verified identity.
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (models.AuthState, error)
}

// tokenClient is the part of *fbauth.Client the verifier uses.
type tokenClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

var _ IDTokenVerifier = (*FirebaseVerifier)(nil)

// FirebaseVerifier checks ID tokens issued by Firebase Authentication.
type FirebaseVerifier struct {
	client tokenClient
}

func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (models.AuthState, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return models.AuthState{}, ErrInvalidToken
	}

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return models.AuthState{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	uid := strings.TrimSpace(token.UID)
	if uid == "" {
		return models.AuthState{}, fmt.Errorf("%w: empty uid", ErrInvalidToken)
	}

	state := models.AuthState{UserID: uid}
	if email, ok := token.Claims["email"].(string); ok {
		state.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		state.DisplayName = name
	}
	return state, nil
}
