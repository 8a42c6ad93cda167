package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/config"
)

const (
	sessionCookie = "auth_token"
	sessionTTL    = 24 * time.Hour
)

type ctxKey int

const ownerKey ctxKey = iota

// OwnerID returns the authenticated owner, or uuid.Nil.
func OwnerID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(ownerKey).(uuid.UUID)
	return id
}

func WithOwner(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerKey, id)
}

type Middleware struct {
	jwtSecret []byte
	log       *zap.Logger
}

func NewMiddleware(cfg *config.Config, log *zap.Logger) *Middleware {
	return &Middleware{
		jwtSecret: []byte(cfg.JWTSecret),
		log:       log,
	}
}

// AuthMiddleware verifies the session cookie and puts the owner id in the
// request context.
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, ok := m.ownerFromCookie(r)
		if !ok {
			if isAPIRequest(r) {
				writeJSON(w, http.StatusUnauthorized, errorBody{"Unauthorized"})
			} else {
				http.Redirect(w, r, "/auth/google/login", http.StatusTemporaryRedirect)
			}
			return
		}
		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
	})
}

func (m *Middleware) ownerFromCookie(r *http.Request) (uuid.UUID, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return uuid.Nil, false
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		return m.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return uuid.Nil, false
	}

	owner, err := uuid.Parse(claims.Subject)
	if err != nil || owner == uuid.Nil {
		return uuid.Nil, false
	}
	return owner, true
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// issueToken signs a session for owner.
func issueToken(secret []byte, owner uuid.UUID, now time.Time) (string, time.Time, error) {
	expires := now.Add(sessionTTL)
	claims := &jwt.RegisteredClaims{
		Subject:   owner.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	return signed, expires, err
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// RequestLogger logs one line per request.
func (m *Middleware) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
