package handlers

import (
	"net/http"

	"github.com/Flashcards-Program/Flashcards/internal/content"
	"github.com/Flashcards-Program/Flashcards/internal/db"
	"github.com/Flashcards-Program/Flashcards/internal/deck"
	"github.com/Flashcards-Program/Flashcards/internal/middleware"
	"github.com/Flashcards-Program/Flashcards/internal/selection"

	"go.uber.org/zap"
)

// largeDeckThreshold is the card count above which starting a review needs
// an extra confirmation.
const largeDeckThreshold = 100

type StudyHandler struct {
	queries  *db.Queries
	sessions *middleware.SessionStore
	store    *content.Store
	tmpl     *TemplateRenderer
	log      *zap.SugaredLogger
}

func NewStudyHandler(q *db.Queries, s *middleware.SessionStore, store *content.Store, t *TemplateRenderer, log *zap.SugaredLogger) *StudyHandler {
	return &StudyHandler{queries: q, sessions: s, store: store, tmpl: t, log: log}
}

// Setup renders the selection screen. Entering it starts a fresh
// setup→review cycle seeded from the persisted last-session path; returning
// mid-cascade keeps the current one, and returning mid-review leads back to
// the review so leaving it always goes through the exit confirmation.
func (h *StudyHandler) Setup(w http.ResponseWriter, r *http.Request) {
	tree, loaded := h.store.Tree()
	if !loaded {
		h.tmpl.Render(w, "loading.html", map[string]interface{}{
			"Title": "Loading",
		})
		return
	}

	token := middleware.Token(r)
	userID := middleware.GetUserID(r.Context())
	prefs := loadSettings(r.Context(), h.queries, userID)

	st := h.sessions.Study(token)
	if st != nil {
		st.Lock()
		if st.Review != nil {
			st.Unlock()
			http.Redirect(w, r, "/study/review", http.StatusSeeOther)
			return
		}
		if st.Result != nil {
			st.Unlock()
			st = nil
		}
	}
	if st == nil {
		cascade := selection.New(tree)
		cascade.Restore(prefs.LastSession.Grade, prefs.LastSession.Level, prefs.LastSession.Subject)
		st = &middleware.StudyState{
			Cascade:   cascade,
			Overrides: deck.Overrides{},
		}
		st.Lock()
		h.sessions.SetStudy(token, st)
	}
	defer st.Unlock()

	c := st.Cascade
	selected := make(map[string]bool)
	for _, name := range c.SelectedParagraphs() {
		selected[name] = true
	}

	h.tmpl.Render(w, "setup.html", map[string]interface{}{
		"Title":            "Setup",
		"User":             getUser(r.Context(), h.queries, userID),
		"GradeOptions":     c.Options(selection.StepGrade),
		"LevelOptions":     c.Options(selection.StepLevel),
		"SubjectOptions":   c.Options(selection.StepSubject),
		"ChapterOptions":   c.Options(selection.StepChapter),
		"ParagraphOptions": c.ParagraphOptions(),
		"Grade":            c.Value(selection.StepGrade),
		"Level":            c.Value(selection.StepLevel),
		"Subject":          c.Value(selection.StepSubject),
		"Chapter":          c.Value(selection.StepChapter),
		"Selected":         selected,
		"CanContinue":      c.CanContinue(),
		"InfinitePractice": prefs.InfinitePractice,
		"AdvancedSetup":    prefs.AdvancedSetup,
	})
}

// Select applies one cascade choice and writes the narrowed path back to
// the persisted settings. Re-selecting the placeholder clears the step and
// everything below it.
func (h *StudyHandler) Select(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.Study(middleware.Token(r))
	if st == nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}
	st.Lock()
	defer st.Unlock()
	if st.Cascade == nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}

	step, ok := stepFromName(r.FormValue("step"))
	if !ok {
		http.Error(w, "unknown step", http.StatusBadRequest)
		return
	}
	if value := r.FormValue("value"); value == selection.None {
		st.Cascade.Clear(step)
	} else if err := st.Cascade.Choose(step, value); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.persistLastSession(r, st.Cascade)
	http.Redirect(w, r, "/study", http.StatusSeeOther)
}

// Paragraphs replaces the multi-select paragraph choice.
func (h *StudyHandler) Paragraphs(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.Study(middleware.Token(r))
	if st == nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}
	st.Lock()
	defer st.Unlock()
	if st.Cascade == nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}

	r.ParseForm()
	if err := st.Cascade.SelectParagraphs(r.Form["paragraph"]); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/study", http.StatusSeeOther)
}

// Continue leaves the selection screen: into advanced setup when that flag
// is on, straight to deck building otherwise.
func (h *StudyHandler) Continue(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.Study(middleware.Token(r))
	if st == nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}
	st.Lock()
	defer st.Unlock()
	if st.Cascade == nil || !st.Cascade.CanContinue() {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}

	userID := middleware.GetUserID(r.Context())
	if loadSettings(r.Context(), h.queries, userID).AdvancedSetup {
		http.Redirect(w, r, "/study/advanced", http.StatusSeeOther)
		return
	}
	h.start(w, r, st, false)
}

// AdvancedPage lets the user override each selected paragraph's flip flag
// for this cycle only.
func (h *StudyHandler) AdvancedPage(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.Study(middleware.Token(r))
	if st == nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}
	st.Lock()
	defer st.Unlock()
	if st.Cascade == nil || !st.Cascade.CanContinue() {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}

	chapter, ok := st.Cascade.Chapter()
	if !ok {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}

	type flipRow struct {
		Name string
		Flip bool
	}
	var rows []flipRow
	for _, name := range st.Cascade.SelectedParagraphs() {
		para, ok := chapter[name]
		if !ok {
			continue
		}
		flip := para.Flip()
		if ov, ok := st.Overrides[name]; ok {
			flip = ov
		}
		rows = append(rows, flipRow{Name: name, Flip: flip})
	}

	h.tmpl.Render(w, "advanced.html", map[string]interface{}{
		"Title":      "Advanced setup",
		"User":       getUser(r.Context(), h.queries, middleware.GetUserID(r.Context())),
		"Paragraphs": rows,
	})
}

// AdvancedSubmit records the override table and proceeds to deck building.
func (h *StudyHandler) AdvancedSubmit(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.Study(middleware.Token(r))
	if st == nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}
	st.Lock()
	defer st.Unlock()
	if st.Cascade == nil || !st.Cascade.CanContinue() {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}

	r.ParseForm()
	for _, name := range st.Cascade.SelectedParagraphs() {
		st.Overrides[name] = r.Form.Has("flip-" + name)
	}
	h.start(w, r, st, false)
}

// Start is the confirmation re-entry for large decks.
func (h *StudyHandler) Start(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.Study(middleware.Token(r))
	if st == nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}
	st.Lock()
	defer st.Unlock()
	if st.Cascade == nil || !st.Cascade.CanContinue() {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}
	h.start(w, r, st, r.FormValue("confirm") == "1")
}

// start builds the deck and begins the review. The caller holds st's lock.
func (h *StudyHandler) start(w http.ResponseWriter, r *http.Request, st *middleware.StudyState, confirmed bool) {
	chapter, ok := st.Cascade.Chapter()
	if !ok {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}

	built := deck.Build(chapter, st.Cascade.SelectedParagraphs(), st.Overrides)
	if len(built) > largeDeckThreshold && !confirmed {
		h.tmpl.Render(w, "confirm_deck.html", map[string]interface{}{
			"Title": "Large deck",
			"Count": len(built),
		})
		return
	}

	userID := middleware.GetUserID(r.Context())
	prefs := loadSettings(r.Context(), h.queries, userID)

	review, err := deck.NewSession(built, prefs.InfinitePractice)
	if err != nil {
		http.Redirect(w, r, "/study", http.StatusSeeOther)
		return
	}
	st.Review = review
	st.Result = nil

	h.log.Infow("review started",
		"user_id", userID,
		"chapter", st.Cascade.Value(selection.StepChapter),
		"cards", len(built),
		"infinite", prefs.InfinitePractice)
	http.Redirect(w, r, "/study/review", http.StatusSeeOther)
}

func (h *StudyHandler) persistLastSession(r *http.Request, c *selection.Cascade) {
	userID := middleware.GetUserID(r.Context())
	if userID == 0 {
		return
	}
	prefs := loadSettings(r.Context(), h.queries, userID)
	prefs.LastSession.Grade = c.Value(selection.StepGrade)
	prefs.LastSession.Level = c.Value(selection.StepLevel)
	prefs.LastSession.Subject = c.Value(selection.StepSubject)

	blob, err := prefs.Encode()
	if err != nil {
		return
	}
	if err := h.queries.SaveSettings(r.Context(), userID, blob); err != nil {
		h.log.Warnw("saving last-session path failed", "user_id", userID, "error", err)
	}
}

func stepFromName(name string) (selection.Step, bool) {
	switch name {
	case "grade":
		return selection.StepGrade, true
	case "level":
		return selection.StepLevel, true
	case "subject":
		return selection.StepSubject, true
	case "chapter":
		return selection.StepChapter, true
	}
	return 0, false
}
