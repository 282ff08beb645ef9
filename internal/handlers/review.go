package handlers

import (
	"net/http"

	"github.com/Flashcards-Program/Flashcards/internal/db"
	"github.com/Flashcards-Program/Flashcards/internal/middleware"
	"github.com/Flashcards-Program/Flashcards/internal/selection"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	queries  *db.Queries
	sessions *middleware.SessionStore
	tmpl     *TemplateRenderer
	log      *zap.SugaredLogger
}

func NewReviewHandler(q *db.Queries, s *middleware.SessionStore, t *TemplateRenderer, log *zap.SugaredLogger) *ReviewHandler {
	return &ReviewHandler{queries: q, sessions: s, tmpl: t, log: log}
}

// Page renders the current card.
func (h *ReviewHandler) Page(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.Study(middleware.Token(r))
	if st == nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}
	st.Lock()
	defer st.Unlock()
	if st.Review == nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}
	if st.Review.Done() {
		http.Redirect(w, r, "/study/results", http.StatusSeeOther)
		return
	}

	prompt, err := st.Review.Prompt()
	if err != nil {
		http.Redirect(w, r, "/study/results", http.StatusSeeOther)
		return
	}

	h.tmpl.Render(w, "review.html", map[string]interface{}{
		"Title":    "Flashcards",
		"User":     getUser(r.Context(), h.queries, middleware.GetUserID(r.Context())),
		"Prompt":   prompt,
		"Flipped":  st.Review.Side() == 1,
		"Progress": st.Review.Progress(),
		"Total":    st.Review.Total(),
		"Infinite": st.Review.Infinite(),
	})
}

// Action applies one user intent to the running review: flip, correct,
// wrong, or the two-step abort.
func (h *ReviewHandler) Action(w http.ResponseWriter, r *http.Request) {
	token := middleware.Token(r)
	st := h.sessions.Study(token)
	if st == nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}
	st.Lock()
	defer st.Unlock()
	if st.Review == nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}

	var err error
	switch r.FormValue("action") {
	case "flip":
		err = st.Review.Flip()
	case "correct":
		err = st.Review.Correct()
	case "wrong":
		err = st.Review.Wrong()
	case "abort":
		h.tmpl.Render(w, "confirm_exit.html", map[string]interface{}{
			"Title": "Confirm exit",
		})
		return
	case "abort-confirm":
		// Discards the whole cycle; nothing is persisted.
		h.sessions.SetStudy(token, nil)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	if st.Review.Done() {
		h.finish(r, st)
		http.Redirect(w, r, "/study/results", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/study/review", http.StatusSeeOther)
}

// finish computes the score once, records the attempt, and retires the
// review so a results-page refresh cannot double-count. The caller holds
// st's lock.
func (h *ReviewHandler) finish(r *http.Request, st *middleware.StudyState) {
	score := st.Review.Score()
	st.Result = &score
	st.Review = nil

	userID := middleware.GetUserID(r.Context())
	if userID == 0 || st.Cascade == nil {
		return
	}

	err := h.queries.CreateAttempt(r.Context(), db.CreateAttemptParams{
		ID:      uuid.NewString(),
		UserID:  userID,
		Grade:   st.Cascade.Value(selection.StepGrade),
		Level:   st.Cascade.Value(selection.StepLevel),
		Subject: st.Cascade.Value(selection.StepSubject),
		Chapter: st.Cascade.Value(selection.StepChapter),
		Correct: int64(score.Correct),
		Total:   int64(score.Total),
		Percent: score.Percent,
	})
	if err != nil {
		h.log.Warnw("recording attempt failed", "user_id", userID, "error", err)
		return
	}
	h.log.Infow("review finished",
		"user_id", userID,
		"correct", score.Correct,
		"total", score.Total,
		"percent", score.Percent)
}

// Results renders the final score of the just-finished review.
func (h *ReviewHandler) Results(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.Study(middleware.Token(r))
	if st == nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}
	st.Lock()
	defer st.Unlock()
	if st.Result == nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}

	h.tmpl.Render(w, "results.html", map[string]interface{}{
		"Title":   "Finished",
		"User":    getUser(r.Context(), h.queries, middleware.GetUserID(r.Context())),
		"Correct": st.Result.Correct,
		"Total":   st.Result.Total,
		"Percent": st.Result.Percent,
	})
}
