package analysis

import (
	"time"
)

// ID tipe untuk Analysis
type AnalysisID string

// Status enum
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// StatusPending and StatusFailed are never produced by the synchronous
// pipeline; they are reserved for future queued/async processing.

// KeyPoint value object
type KeyPoint struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// QuizQuestion value object. CorrectAnswer must equal one of Options.
type QuizQuestion struct {
	ID            string   `json:"id"`
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Aggregate Root: Analysis, one record per submitted video per owning user.
type Analysis struct {
	ID         AnalysisID     `json:"id"`
	UserID     string         `json:"userId"`
	VideoURL   string         `json:"videoUrl"`
	VideoTitle string         `json:"videoTitle"`
	Transcript string         `json:"transcript,omitempty"`
	Summary    string         `json:"summary"`
	KeyPoints  []KeyPoint     `json:"keyPoints"`
	Quiz       []QuizQuestion `json:"quiz"`
	Status     Status         `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// HasQuiz reports whether the record carries at least one quiz question.
func (a *Analysis) HasQuiz() bool {
	return len(a.Quiz) > 0
}
