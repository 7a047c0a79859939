package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sportstock/backend/internal/models"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	userEmailKey contextKey = "userEmail"
)

// TokenVerifier verifies an identity provider's ID token. *fbauth.Client
// satisfies it; it is nil when no provider is configured.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// Auth validates the Bearer token on protected routes. Session tokens issued
// by this server (HS256) are tried first; when a Firebase Auth client is
// configured, raw provider ID tokens are accepted as well, so the dashboard
// can talk to the API straight after a federated popup sign-in.
func Auth(jwtSecret string, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Authorization header required"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid authorization header format"))
				return
			}
			tokenString := parts[1]

			if userID, email, ok := parseSessionToken(tokenString, jwtSecret); ok {
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID, email)))
				return
			}

			if verifier != nil {
				if token, err := verifier.VerifyIDToken(r.Context(), tokenString); err == nil {
					email, _ := token.Claims["email"].(string)
					next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), token.UID, email)))
					return
				}
			}

			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid or expired token"))
		})
	}
}

func parseSessionToken(tokenString, jwtSecret string) (userID, email string, ok bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", false
	}

	claims, claimsOK := token.Claims.(jwt.MapClaims)
	if !claimsOK {
		return "", "", false
	}
	userID, idOK := claims["user_id"].(string)
	if !idOK || userID == "" {
		return "", "", false
	}
	email, _ = claims["email"].(string)
	return userID, email, true
}

// WithUser stamps the authenticated identity onto the context.
func WithUser(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userEmailKey, email)
}

// GetUserID extracts the authenticated user ID from the context.
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// GetUserEmail extracts the authenticated user's email from the context.
func GetUserEmail(ctx context.Context) string {
	email, ok := ctx.Value(userEmailKey).(string)
	if !ok {
		return ""
	}
	return email
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
