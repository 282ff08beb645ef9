package handlers

import (
	"context"
	"net/http"

	"github.com/Flashcards-Program/Flashcards/internal/db"
	"github.com/Flashcards-Program/Flashcards/internal/middleware"
	"github.com/Flashcards-Program/Flashcards/internal/settings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	queries  *db.Queries
	sessions *middleware.SessionStore
	tmpl     *TemplateRenderer
	log      *zap.SugaredLogger
}

func NewAuthHandler(q *db.Queries, s *middleware.SessionStore, t *TemplateRenderer, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{queries: q, sessions: s, tmpl: t, log: log}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.tmpl.Render(w, "login.html", map[string]interface{}{
		"Title":      "Log in",
		"IsRegister": false,
	})
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.tmpl.Render(w, "login.html", map[string]interface{}{
		"Title":      "Register",
		"IsRegister": true,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.queries.GetUserByUsername(r.Context(), username)
	if err != nil {
		h.loginError(w, false, "Invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		h.loginError(w, false, "Invalid username or password")
		return
	}

	h.log.Infow("user logged in", "user_id", user.ID)
	h.startSession(w, r, user.ID)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	displayName := r.FormValue("display_name")
	username := r.FormValue("username")
	password := r.FormValue("password")

	if displayName == "" || username == "" || password == "" {
		h.loginError(w, true, "All fields are required")
		return
	}
	if len(password) < 6 {
		h.loginError(w, true, "Password must be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	user, err := h.queries.CreateUser(r.Context(), db.CreateUserParams{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
	})
	if err != nil {
		h.loginError(w, true, "Username already taken")
		return
	}

	// New users start from default settings.
	if blob, err := settings.Default().Encode(); err == nil {
		if err := h.queries.SaveSettings(r.Context(), user.ID, blob); err != nil {
			h.log.Warnw("saving default settings failed", "user_id", user.ID, "error", err)
		}
	}

	h.log.Infow("user registered", "user_id", user.ID)
	h.startSession(w, r, user.ID)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.Token(r); token != "" {
		h.sessions.Delete(token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID int64) {
	token, err := h.sessions.Create(userID)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) loginError(w http.ResponseWriter, isRegister bool, msg string) {
	title := "Log in"
	if isRegister {
		title = "Register"
	}
	h.tmpl.Render(w, "login.html", map[string]interface{}{
		"Title":      title,
		"IsRegister": isRegister,
		"Error":      msg,
	})
}

// loadSettings returns a user's stored settings, or defaults when none were
// saved yet or the blob does not parse.
func loadSettings(ctx context.Context, q *db.Queries, userID int64) settings.Settings {
	blob, err := q.GetSettings(ctx, userID)
	if err != nil {
		return settings.Default()
	}
	s, err := settings.Decode(blob)
	if err != nil {
		return settings.Default()
	}
	return s
}

func getUser(ctx context.Context, q *db.Queries, userID int64) *db.User {
	if userID == 0 {
		return nil
	}
	user, err := q.GetUserByID(ctx, userID)
	if err != nil {
		return nil
	}
	return &user
}
