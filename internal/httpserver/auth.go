// internal/httpserver/auth.go
//
// Table tokens and passcodes.
// Creating a table returns an HS256 JWT scoped to that table. Every mutating
// route requires it as "Authorization: Bearer <token>". Undo, reset and load
// additionally require the table passcode (X-Table-Passcode) when one was set.

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jwmickey/qwixx/internal/table"
)

const passcodeHeader = "X-Table-Passcode"

// ctxTableKey is the context key for the resolved *table.Table.
type ctxTableKey struct{}

func tableFrom(ctx context.Context) *table.Table {
	t, _ := ctx.Value(ctxTableKey{}).(*table.Table)
	return t
}

// signTableToken issues a token for tableID that expires after ttl.
func (s *Server) signTableToken(tableID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.cfg.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"table": tableID,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// bearer extracts the token from the Authorization header.
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// withTable resolves {id} into a table and stores it on the request context.
func (s *Server) withTable(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t, err := s.tables.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxTableKey{}, t)))
	})
}

// requireToken enforces a valid token for the table in the URL.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearer(r)
		if tokenStr == "" {
			writeErrorCode(w, http.StatusUnauthorized, "unauthorized", "missing token")
			return
		}
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(s.cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			writeErrorCode(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}
		if id, _ := claims["table"].(string); id == "" || id != chi.URLParam(r, "id") {
			writeErrorCode(w, http.StatusUnauthorized, "unauthorized", "token is for another table")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requirePasscode checks the passcode header against the resolved table.
func (s *Server) requirePasscode(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := tableFrom(r.Context()).CheckPasscode(r.Header.Get(passcodeHeader)); err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
