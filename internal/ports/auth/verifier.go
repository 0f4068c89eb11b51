package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Provider emite y cierra sesiones (demo local o IdP real).
type Provider interface {
	SignUp(ctx context.Context, email, password string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignInWithGoogle(ctx context.Context) (Session, error)
	SignInWithApple(ctx context.Context) (Session, error)
	SignOut(ctx context.Context, token string) error
}
