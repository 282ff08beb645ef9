package handlers

import (
	"net/http"

	"github.com/Flashcards-Program/Flashcards/internal/db"
	"github.com/Flashcards-Program/Flashcards/internal/middleware"

	"go.uber.org/zap"
)

type PrefsHandler struct {
	queries *db.Queries
	log     *zap.SugaredLogger
}

func NewPrefsHandler(q *db.Queries, log *zap.SugaredLogger) *PrefsHandler {
	return &PrefsHandler{queries: q, log: log}
}

// SetPreferences updates the practice flags from the setup screen's
// checkboxes and persists them.
func (h *PrefsHandler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.ParseForm()
	prefs := loadSettings(r.Context(), h.queries, userID)
	prefs.InfinitePractice = r.Form.Has("infinite")
	prefs.AdvancedSetup = r.Form.Has("advanced")

	blob, err := prefs.Encode()
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if err := h.queries.SaveSettings(r.Context(), userID, blob); err != nil {
		h.log.Warnw("saving preferences failed", "user_id", userID, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/study", http.StatusSeeOther)
}
