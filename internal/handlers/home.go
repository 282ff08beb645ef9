package handlers

import (
	"net/http"

	"github.com/Flashcards-Program/Flashcards/internal/content"
	"github.com/Flashcards-Program/Flashcards/internal/db"
	"github.com/Flashcards-Program/Flashcards/internal/middleware"
	"github.com/Flashcards-Program/Flashcards/internal/update"
)

type HomeHandler struct {
	queries *db.Queries
	store   *content.Store
	status  *update.Status
	tmpl    *TemplateRenderer
}

func NewHomeHandler(q *db.Queries, store *content.Store, status *update.Status, t *TemplateRenderer) *HomeHandler {
	return &HomeHandler{queries: q, store: store, status: status, tmpl: t}
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	userID := middleware.GetUserID(r.Context())
	_, loaded := h.store.Tree()
	info := h.status.Info()

	data := map[string]interface{}{
		"Title":           "Home",
		"Splash":          h.store.Splash(),
		"ContentLoaded":   loaded,
		"UpdateAvailable": info.Available,
		"LatestVersion":   info.Latest,
		"User":            getUser(r.Context(), h.queries, userID),
	}

	if userID != 0 {
		attempts, err := h.queries.ListAttempts(r.Context(), userID, 10)
		if err == nil {
			data["Attempts"] = attempts
		}
	}

	h.tmpl.Render(w, "home.html", data)
}
