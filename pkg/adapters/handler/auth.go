package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/wadjakorntonsri/artistus/pkg/config"
	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type AuthHandler struct {
	accounts      ports.AccountService
	oauthConfig   *oauth2.Config
	jwtSecret     []byte
	frontendURL   string
	allowedEmails []string
	isProduction  bool
	log           *zap.Logger
	now           func() time.Time
}

type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func NewAuthHandler(cfg *config.Config, accounts ports.AccountService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		jwtSecret:     []byte(cfg.JWTSecret),
		frontendURL:   cfg.FrontendURL,
		allowedEmails: cfg.AllowedEmails,
		isProduction:  cfg.IsProduction(),
		log:           log,
		now:           time.Now,
	}
}

type sessionResponse struct {
	Account *domain.Account `json:"account"`
}

// Signup creates an account with its profile and starts a session.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in domain.SignupInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !h.allowed(in.Email) {
		writeJSON(w, http.StatusForbidden, errorBody{"Access denied: your email is not in the allowlist"})
		return
	}

	acct, err := h.accounts.Signup(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.startSession(w, acct.ID); err != nil {
		writeError(w, h.log, err)
		return
	}
	h.log.Info("signup", zap.Stringer("owner_id", acct.ID))
	writeJSON(w, http.StatusCreated, sessionResponse{acct})
}

// LoginPassword checks email and password credentials.
func (h *AuthHandler) LoginPassword(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}

	acct, err := h.accounts.Login(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.startSession(w, acct.ID); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{acct})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := h.generateStateOauthCookie(w)
	url := h.oauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	oauthState, err := r.Cookie("oauthstate")
	if err != nil {
		h.log.Warn("callback: missing oauthstate cookie", zap.Error(err))
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	if r.FormValue("state") != oauthState.Value {
		h.log.Warn("callback: invalid oauth state")
		http.Error(w, "invalid oauth google state", http.StatusBadRequest)
		return
	}

	googleUser, err := h.fetchGoogleUser(r)
	if err != nil {
		h.log.Error("callback: google user lookup failed", zap.Error(err))
		http.Error(w, "google sign-in failed", http.StatusInternalServerError)
		return
	}

	h.finishGoogleLogin(w, r, googleUser)
}

// finishGoogleLogin links a Google identity to an account and starts the
// session. Accounts are matched by email, so the address must be verified.
func (h *AuthHandler) finishGoogleLogin(w http.ResponseWriter, r *http.Request, googleUser *GoogleUser) {
	if !googleUser.VerifiedEmail {
		h.log.Warn("callback: google email not verified", zap.String("email", googleUser.Email))
		http.Error(w, "Access denied: your Google email is not verified", http.StatusForbidden)
		return
	}

	if !h.allowed(googleUser.Email) {
		h.log.Warn("callback: email not in allowlist", zap.String("email", googleUser.Email))
		http.Error(w, "Access denied: your email is not in the allowlist", http.StatusForbidden)
		return
	}

	acct, err := h.accounts.LoginWithGoogle(r.Context(), googleUser.Email, googleUser.Name)
	if err != nil {
		h.log.Error("callback: account lookup failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := h.startSession(w, acct.ID); err != nil {
		h.log.Error("callback: failed signing JWT", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("login successful", zap.Stringer("owner_id", acct.ID))
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) fetchGoogleUser(r *http.Request) (*GoogleUser, error) {
	token, err := h.oauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}

	resp, err := h.oauthConfig.Client(r.Context(), token).Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("get user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get user info: status %d", resp.StatusCode)
	}

	var u GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	if u.Email == "" {
		return nil, fmt.Errorf("user info has no email")
	}
	return &u, nil
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.frontendURL+"/login", http.StatusTemporaryRedirect)
}

// ChangePassword sets a new password for the signed-in owner.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in domain.PasswordInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.accounts.ChangePassword(r.Context(), OwnerID(r.Context()), in); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) allowed(email string) bool {
	if len(h.allowedEmails) == 0 {
		return true
	}
	return slices.Contains(h.allowedEmails, strings.ToLower(strings.TrimSpace(email)))
}

func (h *AuthHandler) startSession(w http.ResponseWriter, owner uuid.UUID) error {
	token, expires, err := issueToken(h.jwtSecret, owner, h.now())
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *AuthHandler) generateStateOauthCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     "oauthstate",
		Value:    state,
		Expires:  time.Now().Add(20 * time.Minute),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return state
}
