package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/rakhadjo/vidlearn/internal/application/analysis"
	appquiz "github.com/rakhadjo/vidlearn/internal/application/quiz"
	domai "github.com/rakhadjo/vidlearn/internal/domain/ai"
	domain "github.com/rakhadjo/vidlearn/internal/domain/analysis"
	"github.com/rakhadjo/vidlearn/internal/middleware"
)

type Router struct {
	analysisSvc *appanalysis.Service
	quizSvc     *appquiz.Service
}

func NewRouter(analysisSvc *appanalysis.Service, quizSvc *appquiz.Service) http.Handler {
	r := &Router{analysisSvc: analysisSvc, quizSvc: quizSvc}
	mux := chi.NewRouter()

	mux.Route("/ai", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/history", r.wrap(r.handleHistory))
		rt.Get("/{id}", r.wrap(r.handleGet))
		rt.Delete("/{id}", r.wrap(r.handleDelete))
	})

	mux.Route("/quiz", func(rt chi.Router) {
		rt.Get("/{id}", r.wrap(r.handleGetQuiz))
		rt.Post("/submit", r.wrap(r.handleSubmitQuiz))
		rt.Post("/regenerate/{id}", r.wrap(r.handleRegenerateQuiz))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks input validation failures.
type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func badRequest(msg string) error { return badRequestError{msg: msg} }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var br badRequestError
		switch {
		case errors.As(err, &br):
			writeError(w, http.StatusBadRequest, br.msg)
		case errors.Is(err, appanalysis.ErrMissingVideoURL),
			errors.Is(err, appquiz.ErrMissingFields),
			errors.Is(err, appquiz.ErrNoQuiz),
			errors.Is(err, domain.ErrInvalidID):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, "ai quota exceeded")
		default:
			// Persistence and other internal failures: generic message only,
			// detail goes to the log.
			log.Printf("request failed: method=%s path=%s err=%v", req.Method, req.URL.Path, err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, map[string]string{"message": msg})
}

// analyzeResponse mirrors the stored record minus transcript and owner,
// plus the ephemeral debug annotation.
type analyzeResponse struct {
	ID         domain.AnalysisID     `json:"id"`
	VideoURL   string                `json:"videoUrl"`
	VideoTitle string                `json:"videoTitle"`
	Summary    string                `json:"summary"`
	KeyPoints  []domain.KeyPoint     `json:"keyPoints"`
	Quiz       []domain.QuizQuestion `json:"quiz"`
	Status     domain.Status         `json:"status"`
	CreatedAt  time.Time             `json:"createdAt"`
	Debug      appanalysis.Debug     `json:"debug"`
}

// POST /api/ai/analyze
// Body: {"videoUrl": "...", "videoTitle": "..."}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserIDFromContext(req.Context())

	var body struct {
		VideoURL   string `json:"videoUrl"`
		VideoTitle string `json:"videoTitle"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid request body")
	}
	if body.VideoURL == "" {
		return badRequest("Video URL is required")
	}
	if err := middleware.ValidateVideoURL(body.VideoURL); err != nil {
		return badRequest(err.Error())
	}

	rec, dbg, err := r.analysisSvc.Analyze(req.Context(), appanalysis.AnalyzeCommand{
		UserID:     userID,
		VideoURL:   body.VideoURL,
		VideoTitle: middleware.SanitizeString(body.VideoTitle),
	})
	if err != nil {
		return err
	}

	middleware.IncrementAnalyses()
	if dbg.UsedMock {
		middleware.IncrementAnalysesMock()
	}

	return writeJSON(w, http.StatusCreated, analyzeResponse{
		ID:         rec.ID,
		VideoURL:   rec.VideoURL,
		VideoTitle: rec.VideoTitle,
		Summary:    rec.Summary,
		KeyPoints:  rec.KeyPoints,
		Quiz:       rec.Quiz,
		Status:     rec.Status,
		CreatedAt:  rec.CreatedAt,
		Debug:      dbg,
	})
}

// GET /api/ai/history
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserIDFromContext(req.Context())

	list, err := r.analysisSvc.History(req.Context(), userID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Analysis{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /api/ai/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserIDFromContext(req.Context())
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return badRequest(err.Error())
	}

	rec, err := r.analysisSvc.Get(req.Context(), userID, domain.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rec)
}

// DELETE /api/ai/{id}
func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserIDFromContext(req.Context())
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return badRequest(err.Error())
	}

	if err := r.analysisSvc.Delete(req.Context(), userID, domain.AnalysisID(id)); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{
		"message": "Video analysis deleted successfully",
	})
}

// GET /api/quiz/{id}
func (r *Router) handleGetQuiz(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserIDFromContext(req.Context())
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return badRequest(err.Error())
	}

	view, err := r.quizSvc.GetQuiz(req.Context(), userID, domain.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// POST /api/quiz/submit
// Body: {"videoId": "...", "answers": {"<questionId>": "<chosen option>"}}
func (r *Router) handleSubmitQuiz(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserIDFromContext(req.Context())

	var body struct {
		VideoID string            `json:"videoId"`
		Answers map[string]string `json:"answers"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid request body")
	}
	if body.VideoID == "" || body.Answers == nil {
		return appquiz.ErrMissingFields
	}
	if err := middleware.ValidateAnalysisID(body.VideoID); err != nil {
		return badRequest(err.Error())
	}

	result, err := r.quizSvc.Score(req.Context(), userID, domain.AnalysisID(body.VideoID), body.Answers)
	if err != nil {
		return err
	}

	middleware.IncrementQuizSubmissions()
	return writeJSON(w, http.StatusOK, result)
}

// POST /api/quiz/regenerate/{id}
// Placeholder: acknowledges the request; async regeneration is not built yet.
func (r *Router) handleRegenerateQuiz(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserIDFromContext(req.Context())
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return badRequest(err.Error())
	}

	videoID, err := r.quizSvc.Regenerate(req.Context(), userID, domain.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"message": "Quiz regeneration started. Please check back soon.",
		"videoId": videoID,
	})
}
