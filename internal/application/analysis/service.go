package analysis

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rakhadjo/vidlearn/internal/domain/ai"
	domain "github.com/rakhadjo/vidlearn/internal/domain/analysis"
	"github.com/rakhadjo/vidlearn/internal/domain/transcript"
)

const (
	// Captions shorter than this carry too little signal to prompt on.
	minTranscriptChars = 50
	// Prompt seed budget, keeps request size bounded (~3000 tokens).
	maxTranscriptChars = 12000

	defaultVideoTitle = "Untitled Video"
)

// Service implements use-cases untuk Analysis
// Service is designed to be used concurrently and is thread-safe
type Service struct {
	Repo        domain.Repository
	Transcripts transcript.Fetcher
	Generator   ai.Generator
	Archive     domain.TranscriptArchive // optional, nil disables archiving
	Clock       Clock
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

//
// ==== USE CASES ====
//

// Command untuk analyze video
type AnalyzeCommand struct {
	UserID     string
	VideoURL   string
	VideoTitle string
}

// Debug is returned alongside the record but never persisted. It tells the
// caller whether mock content was substituted and why.
type Debug struct {
	UsedMock         bool   `json:"usedMock"`
	Reason           string `json:"reason,omitempty"`
	TranscriptLength int    `json:"transcriptLength"`
	HasModelKey      bool   `json:"hasModelKey"`
}

// Analyze runs the full pipeline: create the record, fetch the transcript,
// generate summary/key points/quiz, fall back to mock content on any upstream
// failure, persist, done. Every invocation ends in StatusCompleted; only a
// store write failure propagates to the caller.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*domain.Analysis, Debug, error) {
	if strings.TrimSpace(cmd.VideoURL) == "" {
		return nil, Debug{}, ErrMissingVideoURL
	}
	title := strings.TrimSpace(cmd.VideoTitle)
	if title == "" {
		title = defaultVideoTitle
	}

	rec := &domain.Analysis{
		ID:         domain.AnalysisID(uuid.New().String()),
		UserID:     cmd.UserID,
		VideoURL:   cmd.VideoURL,
		VideoTitle: title,
		Status:     domain.StatusProcessing,
		CreatedAt:  s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		return nil, Debug{}, fmt.Errorf("saving initial record: %w", err)
	}

	dbg := Debug{HasModelKey: s.Generator.HasCredentials()}

	// Provider failures are absorbed here; an empty transcript simply takes
	// the mock path below.
	text, err := s.Transcripts.Fetch(ctx, cmd.VideoURL)
	if err != nil {
		log.Printf("transcript fetch failed: url=%s err=%v", cmd.VideoURL, err)
		dbg.Reason = "transcript unavailable: " + err.Error()
		text = ""
	}
	dbg.TranscriptLength = len(text)

	var (
		summary   string
		keyPoints []domain.KeyPoint
		quiz      []domain.QuizQuestion
	)

	switch {
	case len(text) < minTranscriptChars:
		dbg.UsedMock = true
		if dbg.Reason == "" {
			dbg.Reason = fmt.Sprintf("transcript too short (%d chars, need %d)", len(text), minTranscriptChars)
		}
	case !dbg.HasModelKey:
		dbg.UsedMock = true
		dbg.Reason = "model credentials missing"
	default:
		seed := truncate(text, maxTranscriptChars)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var gerr error
			summary, gerr = s.Generator.GenerateSummary(gctx, seed, title)
			return gerr
		})
		g.Go(func() error {
			var gerr error
			keyPoints, gerr = s.Generator.GenerateKeyPoints(gctx, seed, title)
			return gerr
		})
		g.Go(func() error {
			var gerr error
			quiz, gerr = s.Generator.GenerateQuiz(gctx, seed, title)
			return gerr
		})
		// All three calls or nothing: a partial batch is never kept.
		if gerr := g.Wait(); gerr != nil {
			log.Printf("ai generation failed: id=%s err=%v", rec.ID, gerr)
			dbg.UsedMock = true
			dbg.Reason = "generation failed: " + gerr.Error()
		}
	}

	if dbg.UsedMock {
		summary = mockSummary(title)
		keyPoints = mockKeyPoints()
		quiz = mockQuiz()
	}

	// Question ids are minted here, never by the provider, so they cannot
	// collide within a record.
	for i := range quiz {
		quiz[i].ID = uuid.New().String()
	}

	rec.Transcript = text
	rec.Summary = summary
	rec.KeyPoints = keyPoints
	rec.Quiz = quiz
	rec.Status = domain.StatusCompleted

	if err := s.Repo.Save(ctx, rec); err != nil {
		// Compensate so no processing row is left orphaned. If this also
		// fails there is nothing more to do than log it.
		if derr := s.Repo.Delete(context.Background(), cmd.UserID, rec.ID); derr != nil {
			log.Printf("cleanup of processing record failed: id=%s err=%v", rec.ID, derr)
		}
		return nil, Debug{}, fmt.Errorf("saving analysis result: %w", err)
	}

	if s.Archive != nil && text != "" {
		key := fmt.Sprintf("%s/%s.txt", cmd.UserID, rec.ID)
		if _, aerr := s.Archive.Store(ctx, key, text); aerr != nil {
			log.Printf("transcript archive failed: id=%s err=%v", rec.ID, aerr)
		}
	}

	return rec, dbg, nil
}

// History lists the caller's analyses newest first, transcript excluded.
func (s *Service) History(ctx context.Context, userID string) ([]*domain.Analysis, error) {
	return s.Repo.History(ctx, userID)
}

// Get ambil 1 analysis by id
func (s *Service) Get(ctx context.Context, userID string, id domain.AnalysisID) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, userID, id)
}

// Delete removes the caller's analysis.
func (s *Service) Delete(ctx context.Context, userID string, id domain.AnalysisID) error {
	return s.Repo.Delete(ctx, userID, id)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
