package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"pet-passport/internal/middleware"
	"pet-passport/internal/platform/logger"
	"pet-passport/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /auth/*. provider nil => solo /auth/me (modo dev o IdP externo).
func RegisterRoutes(r chi.Router, provider auth.Provider, log logger.Logger) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Get("/me", meHandler())

		if provider == nil {
			return
		}
		ar.Post("/signup", signUpHandler(provider, log))
		ar.Post("/signin", signInHandler(provider))
		ar.Post("/signin/google", federatedHandler(provider.SignInWithGoogle))
		ar.Post("/signin/apple", federatedHandler(provider.SignInWithApple))
		ar.Post("/signout", signOutHandler(provider))
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signUpHandler godoc
// @Summary Registrar usuario (IdP local)
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "email y password (mínimo 6 caracteres)"
// @Success 201 {object} auth.Session
// @Failure 400 {string} string "invalid credentials"
// @Failure 409 {string} string "user already exists"
// @Router /auth/signup [post]
func signUpHandler(p auth.Provider, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		s, err := p.SignUp(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrUserExists):
				http.Error(w, "User already exists", http.StatusConflict)
			case errors.Is(err, auth.ErrInvalidCredentials):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				log.Error("sign up failed", map[string]any{"error": err.Error()})
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusCreated, s)
	}
}

func signInHandler(p auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		s, err := p.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func federatedHandler(signIn func(ctx context.Context) (auth.Session, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := signIn(r.Context())
		if err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func signOutHandler(p auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.BearerToken(r)
		if token == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := p.SignOut(r.Context(), token); err != nil {
			writeAuthError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type meResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.UserID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, meResponse{
			UID:         claims.UserID,
			Email:       claims.Email,
			DisplayName: claims.DisplayName,
		})
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		http.Error(w, "User not found. Please sign up first.", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrInvalidCredentials):
		http.Error(w, "Invalid password", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrInvalidToken):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
