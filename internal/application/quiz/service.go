package quiz

import (
	"context"
	"math"

	domain "github.com/rakhadjo/vidlearn/internal/domain/analysis"
)

// Service implements use-cases untuk Quiz: sanitized retrieval and scoring.
// Scoring is read-only; submitted answers are not persisted.
type Service struct {
	Repo domain.Repository
}

// QuestionView is the client-safe question shape. CorrectAnswer is
// deliberately absent; this is the one boundary where it must never leak.
type QuestionView struct {
	ID           string   `json:"id"`
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options"`
}

type QuizView struct {
	VideoID        domain.AnalysisID `json:"videoId"`
	VideoTitle     string            `json:"videoTitle"`
	Quiz           []QuestionView    `json:"quiz"`
	TotalQuestions int               `json:"totalQuestions"`
}

type QuestionResult struct {
	QuestionID    string `json:"questionId"`
	QuestionText  string `json:"questionText"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

type ScoreResult struct {
	VideoID        domain.AnalysisID `json:"videoId"`
	VideoTitle     string            `json:"videoTitle"`
	TotalQuestions int               `json:"totalQuestions"`
	CorrectAnswers int               `json:"correctAnswers"`
	Score          float64           `json:"score"`
	Results        []QuestionResult  `json:"results"`
}

const notAnswered = "Not answered"

// GetQuiz returns the quiz with correct answers stripped. A record without a
// quiz is reported as not found, same as a missing record.
func (s *Service) GetQuiz(ctx context.Context, userID string, id domain.AnalysisID) (*QuizView, error) {
	rec, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !rec.HasQuiz() {
		return nil, domain.ErrNotFound
	}

	view := &QuizView{
		VideoID:        rec.ID,
		VideoTitle:     rec.VideoTitle,
		Quiz:           make([]QuestionView, 0, len(rec.Quiz)),
		TotalQuestions: len(rec.Quiz),
	}
	for _, q := range rec.Quiz {
		view.Quiz = append(view.Quiz, QuestionView{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Options:      q.Options,
		})
	}
	return view, nil
}

// Score grades the submitted answers against the stored quiz, preserving the
// stored question order in the breakdown. Unanswered questions are counted
// as wrong and reported as "Not answered".
func (s *Service) Score(ctx context.Context, userID string, id domain.AnalysisID, answers map[string]string) (*ScoreResult, error) {
	rec, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !rec.HasQuiz() {
		return nil, ErrNoQuiz
	}

	correct := 0
	results := make([]QuestionResult, 0, len(rec.Quiz))
	for _, q := range rec.Quiz {
		answer, ok := answers[q.ID]
		if !ok || answer == "" {
			answer = notAnswered
		}
		isCorrect := answer == q.CorrectAnswer
		if isCorrect {
			correct++
		}
		results = append(results, QuestionResult{
			QuestionID:    q.ID,
			QuestionText:  q.QuestionText,
			UserAnswer:    answer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     isCorrect,
		})
	}

	score := float64(correct) / float64(len(rec.Quiz)) * 100
	score = math.Round(score*100) / 100

	return &ScoreResult{
		VideoID:        rec.ID,
		VideoTitle:     rec.VideoTitle,
		TotalQuestions: len(rec.Quiz),
		CorrectAnswers: correct,
		Score:          score,
		Results:        results,
	}, nil
}

// Regenerate acknowledges a regeneration request. The asynchronous rebuild is
// not implemented yet; the record is only checked for existence/ownership.
func (s *Service) Regenerate(ctx context.Context, userID string, id domain.AnalysisID) (domain.AnalysisID, error) {
	rec, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}
