package local

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"pet-passport/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTTL        = 24 * time.Hour
	MinPasswordLength = 6
	// MaxPasswordLength es el tope de bcrypt, en bytes.
	MaxPasswordLength = 72
	issuer            = "pet-passport"
)

// Identidades fijas del sign-in simulado con Google/Apple (build demo).
var (
	demoGoogle = auth.User{Email: "demo@google.com", DisplayName: "Demo Google User"}
	demoApple  = auth.User{Email: "demo@apple.com", DisplayName: "Demo Apple User"}
)

type Config struct {
	Secret []byte
	TTL    time.Duration
}

// Provider es el IdP local: usuarios con bcrypt y sesiones JWT HS256.
// Implementa auth.Provider y auth.AuthVerifier.
type Provider struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> exp
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func NewProvider(users UserStore, cfg Config) (*Provider, error) {
	if users == nil {
		return nil, errors.New("local auth: user store required")
	}
	if len(cfg.Secret) < 16 {
		return nil, errors.New("local auth: secret must be at least 16 bytes")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Provider{
		users:   users,
		secret:  cfg.Secret,
		ttl:     ttl,
		cost:    bcrypt.DefaultCost,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}, nil
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return auth.Session{}, fmt.Errorf("%w: invalid email", auth.ErrInvalidCredentials)
	}
	if len(password) < MinPasswordLength {
		return auth.Session{}, fmt.Errorf("%w: password must have at least %d characters", auth.ErrInvalidCredentials, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return auth.Session{}, fmt.Errorf("%w: password must have at most %d bytes", auth.ErrInvalidCredentials, MaxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return auth.Session{}, fmt.Errorf("%w: %v", auth.ErrInvalidCredentials, err)
	}
	if err != nil {
		return auth.Session{}, fmt.Errorf("hash password: %w", err)
	}

	rec := UserRecord{
		UID:          uuid.NewString(),
		Email:        email,
		DisplayName:  displayNameFromEmail(email),
		PasswordHash: string(hash),
		Provider:     ProviderPassword,
		CreatedAt:    p.now().UTC(),
	}
	if err := p.users.Create(ctx, rec); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return auth.Session{}, auth.ErrUserExists
		}
		return auth.Session{}, err
	}
	return p.issue(rec)
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	rec, err := p.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrUserRecordNotFound) {
			return auth.Session{}, auth.ErrUserNotFound
		}
		return auth.Session{}, err
	}
	if rec.PasswordHash == "" {
		// cuenta creada con Google/Apple
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	return p.issue(rec)
}

func (p *Provider) SignInWithGoogle(ctx context.Context) (auth.Session, error) {
	return p.federated(ctx, ProviderGoogle, demoGoogle)
}

func (p *Provider) SignInWithApple(ctx context.Context) (auth.Session, error) {
	return p.federated(ctx, ProviderApple, demoApple)
}

// federated simula el login federado: busca o crea el usuario demo.
func (p *Provider) federated(ctx context.Context, provider string, u auth.User) (auth.Session, error) {
	rec, err := p.users.GetByEmail(ctx, u.Email)
	if err == nil {
		return p.issue(rec)
	}
	if !errors.Is(err, ErrUserRecordNotFound) {
		return auth.Session{}, err
	}

	rec = UserRecord{
		UID:         uuid.NewString(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Provider:    provider,
		CreatedAt:   p.now().UTC(),
	}
	if err := p.users.Create(ctx, rec); err != nil {
		if !errors.Is(err, ErrDuplicateUser) {
			return auth.Session{}, err
		}
		// otro request lo creó primero
		if rec, err = p.users.GetByEmail(ctx, u.Email); err != nil {
			return auth.Session{}, err
		}
	}
	return p.issue(rec)
}

// SignOut revoca el token hasta que expire.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	c, err := p.parse(token)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for jti, exp := range p.revoked {
		if now.After(exp) {
			delete(p.revoked, jti)
		}
	}
	p.revoked[c.ID] = c.ExpiresAt.Time
	return nil
}

func (p *Provider) Verify(ctx context.Context, token string) (auth.Claims, error) {
	c, err := p.parse(token)
	if err != nil {
		return auth.Claims{}, err
	}

	p.mu.Lock()
	_, revoked := p.revoked[c.ID]
	p.mu.Unlock()
	if revoked {
		return auth.Claims{}, fmt.Errorf("%w: session signed out", auth.ErrInvalidToken)
	}

	return auth.Claims{
		UserID:      c.Subject,
		Email:       c.Email,
		DisplayName: c.Name,
		TokenID:     c.ID,
	}, nil
}

func (p *Provider) issue(rec UserRecord) (auth.Session, error) {
	now := p.now()
	exp := now.Add(p.ttl)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: rec.Email,
		Name:  rec.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   rec.UID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	})
	signed, err := tok.SignedString(p.secret)
	if err != nil {
		return auth.Session{}, fmt.Errorf("sign token: %w", err)
	}

	return auth.Session{
		User: auth.User{
			UID:         rec.UID,
			Email:       rec.Email,
			DisplayName: rec.DisplayName,
		},
		Token:     signed,
		ExpiresAt: exp.UTC(),
	}, nil
}

func (p *Provider) parse(token string) (*sessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, auth.ErrInvalidToken
	}

	c := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	if !parsed.Valid || c.Subject == "" || c.ID == "" {
		return nil, auth.ErrInvalidToken
	}
	return c, nil
}

func displayNameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
